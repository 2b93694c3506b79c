// Package samples holds small example programs.
package samples

import (
	_ "embed"
)

//go:embed hello.aa
var Hello []byte

// Truth reads a number. It prints 0 once for 0 and 1 forever for 1.
//
//go:embed truth.aa
var Truth []byte

// Countdown reads n and prints n down to 0, one number per line.
//
//go:embed countdown.aa
var Countdown []byte

// Sample is a program with an input it finishes on and the output it gives.
type Sample struct {
	Name   string
	Source []byte
	Input  string
	Output string
}

// All returns every sample.
func All() []Sample {
	return []Sample{
		{Name: "hello", Source: Hello, Output: "Hello, World!\n"},
		{Name: "truth", Source: Truth, Input: "0\n", Output: "0"},
		{Name: "countdown", Source: Countdown, Input: "3\n", Output: "3\n2\n1\n0\n"},
	}
}
