package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/sarchlab/asciiascii/lexer"
	"github.com/sarchlab/asciiascii/samples"
	"github.com/sarchlab/asciiascii/verify"
)

func main() {
	failed := 0

	for _, s := range samples.All() {
		p, err := lexer.Lex(s.Source)
		if err != nil {
			log.Fatalf("Failed to lex sample %s: %v", s.Name, err)
		}

		fmt.Println(strings.Repeat("=", 60))
		fmt.Printf("SAMPLE %s (%d bytes, input %q)\n", s.Name, len(s.Source), s.Input)

		report := verify.GenerateReport(p, s.Input, 100000)
		report.WriteReport(os.Stdout)

		fs := verify.NewFunctionalSimulator(p, s.Input)
		if err := fs.Run(100000); err != nil || fs.Output() != s.Output {
			fmt.Printf("Output %q, want %q (err: %v)\n", fs.Output(), s.Output, err)
			failed++

			continue
		}

		if !report.OK() {
			failed++
		}
	}

	if failed > 0 {
		fmt.Printf("\n%d samples failed\n", failed)
		os.Exit(1)
	}

	fmt.Println("\nAll samples passed")
}
