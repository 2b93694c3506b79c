// Package bank provides the 256-cell memories the core reads and writes and
// the table that creates them on first use.
package bank

import (
	"errors"
	"fmt"
	"sort"
)

// Size is the number of cells in a bank, one per variable identifier.
const Size = 256

// ErrOutOfMemory is returned when a new bank cannot be allocated.
var ErrOutOfMemory = errors.New("out of memory")

// Bank is a fixed-size array of signed 32-bit cells.
type Bank [Size]int32

// DefaultValue returns the value cell v holds in a fresh bank. Digit bytes
// hold their numeric value and every other byte holds itself.
func DefaultValue(v byte) int32 {
	if v >= '0' && v <= '9' {
		return int32(v - '0')
	}

	return int32(v)
}

// New creates a bank with default cell values.
func New() *Bank {
	b := new(Bank)
	b.Reset()

	return b
}

// Reset restores every cell to its default value.
func (b *Bank) Reset() {
	for v := 0; v < Size; v++ {
		b[v] = DefaultValue(byte(v))
	}
}

// Modified returns the variables whose value differs from the default, in
// ascending order.
func (b *Bank) Modified() []byte {
	var vars []byte

	for v := 0; v < Size; v++ {
		if b[v] != DefaultValue(byte(v)) {
			vars = append(vars, byte(v))
		}
	}

	return vars
}

// Table maps bank ids to banks. Banks live until the table is dropped.
type Table struct {
	banks map[int32]*Bank
	limit int
}

// NewTable creates an empty table. A positive limit caps how many banks may
// exist at the same time.
func NewTable(limit int) *Table {
	return &Table{
		banks: make(map[int32]*Bank),
		limit: limit,
	}
}

// GetOrCreate returns the bank with the given id, creating it if needed. The
// same id always yields the same bank.
func (t *Table) GetOrCreate(id int32) (*Bank, error) {
	if b, ok := t.banks[id]; ok {
		return b, nil
	}

	if t.limit > 0 && len(t.banks) >= t.limit {
		return nil, fmt.Errorf("bank %d: %w (limit %d banks)", id, ErrOutOfMemory, t.limit)
	}

	b := New()
	t.banks[id] = b

	return b, nil
}

// Lookup returns the bank with the given id without creating it.
func (t *Table) Lookup(id int32) (*Bank, bool) {
	b, ok := t.banks[id]
	return b, ok
}

// Len returns the number of banks created so far.
func (t *Table) Len() int {
	return len(t.banks)
}

// IDs returns the ids of all banks in ascending order.
func (t *Table) IDs() []int32 {
	ids := make([]int32, 0, len(t.banks))
	for id := range t.banks {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}
