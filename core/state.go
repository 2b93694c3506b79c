package core

import (
	"github.com/sarchlab/asciiascii/bank"
	"github.com/sarchlab/asciiascii/program"
)

// loopStatus tracks the loop that is currently running on one variable.
type loopStatus struct {
	Active  bool
	Entry   int
	Initial int32
	Bank    *bank.Bank
}

type coreState struct {
	IP   int
	Code program.Program

	Banks    *bank.Table
	SourceID int32
	OtherID  int32
	Source   *bank.Bank
	Other    *bank.Bank

	Loops [bank.Size]loopStatus

	Halted bool
	Steps  uint64
}

// reset prepares the state to run code from the start, with bank 0 as both
// the source and the other bank.
func (s *coreState) reset(code program.Program, banks *bank.Table) error {
	b, err := banks.GetOrCreate(0)
	if err != nil {
		return err
	}

	*s = coreState{
		Code:   code,
		Banks:  banks,
		Source: b,
		Other:  b,
	}

	return nil
}
