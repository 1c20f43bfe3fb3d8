package models

import (
	"math/big"
	"sort"

	"github.com/lunixbochs/fvbommel-util/sortorder"
)

// This interface abstracts the minimum functionality the analysis engine
// requires of an architecture backend. The engine holds exactly one Cpu at
// a time and never downcasts to a concrete backend type.
//
// Register metadata (ids, names, widths) is fixed when the backend is
// constructed. Init and Clear only touch concrete state.
type Cpu interface {
	// Init establishes the backend's default architectural state. Called
	// once before first use.
	Init()
	// Clear resets all concrete register and memory state to unknown.
	Clear()

	// register taxonomy
	IsFlag(reg int) bool
	IsRegister(reg int) bool
	IsRegisterValid(reg int) bool
	RegisterSize() int
	RegisterBitSize() int
	InvalidRegister() int
	NumRegisters() int
	RegisterInfo(reg int) (RegisterSpec, error)
	Registers() []RegisterSpec
	ParentRegisters() []RegisterSpec

	// disassembly and semantics
	Disassemble(ins *Instruction) error
	BuildSemantics(ins *Instruction) error

	// concrete register state; sub-register access folds through the parent
	RegRead(reg int) (*big.Int, error)
	RegWrite(reg int, val *big.Int) error

	// concrete memory state; ok == false means no value recorded, which is
	// distinct from a recorded zero
	MemReadByte(addr uint64) (byte, bool)
	MemRead(addr uint64, size int) ([]byte, bool)
	MemReadOperand(mem MemOperand) (*big.Int, bool)
	MemWriteByte(addr uint64, val byte)
	MemWrite(addr uint64, p []byte)
	MemWriteOperand(mem MemOperand) error
	MemMapped(addr uint64, size int) bool
	MemUnmap(addr uint64, size int)
}

// CpuBuilder constructs a fresh backend with its own state cache.
type CpuBuilder interface {
	New() (Cpu, error)
}

// SemanticsBuilder lifts a disassembled instruction into its effects. The
// implementation lives above this layer; Cpu.BuildSemantics only enforces
// that it runs post-disassembly.
type SemanticsBuilder interface {
	BuildSemantics(c Cpu, ins *Instruction) error
}

type RegVal struct {
	RegisterSpec
	Val *big.Int
}

// RegDump reads every parent register, sorted by natural name order so r2
// lists before r10.
func RegDump(c Cpu) ([]RegVal, error) {
	regs := c.ParentRegisters()
	sort.Slice(regs, func(i, j int) bool {
		return sortorder.NaturalLess(regs[i].Name, regs[j].Name)
	})
	ret := make([]RegVal, len(regs))
	for i, r := range regs {
		val, err := c.RegRead(r.ID)
		if err != nil {
			return nil, err
		}
		ret[i] = RegVal{r, val}
	}
	return ret, nil
}
