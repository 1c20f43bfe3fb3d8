package models

import (
	"fmt"
	"math/big"
)

// Instruction is the unit of work fed to Cpu.Disassemble. The caller fills
// Addr and Bytes; a successful Disassemble fills the rest and sets
// Disassembled. A failed Disassemble leaves Disassembled false and
// Operands nil, never a partially-resolved list.
type Instruction struct {
	Addr  uint64
	Bytes []byte

	Size         int
	Mnemonic     string
	OpStr        string
	Operands     []Operand
	Disassembled bool
}

func (i *Instruction) String() string {
	if !i.Disassembled {
		return fmt.Sprintf("0x%x: (not disassembled)", i.Addr)
	}
	if i.OpStr == "" {
		return fmt.Sprintf("0x%x: %s", i.Addr, i.Mnemonic)
	}
	return fmt.Sprintf("0x%x: %s %s", i.Addr, i.Mnemonic, i.OpStr)
}

type Operand interface {
	String() string
}

// RegOperand references a register by table id. Value is the last concrete
// value recorded for the register at disassembly time, or nil if unknown.
// It is a read-only snapshot; it does not own any cache state.
type RegOperand struct {
	Reg   int
	Name  string
	Value *big.Int
}

func (r *RegOperand) String() string {
	if r.Name == "" {
		return fmt.Sprintf("reg%d", r.Reg)
	}
	return r.Name
}

// MemOperand is a memory access: base address plus access size in bytes.
// Value is the last concrete value recorded for the accessed range, or nil.
type MemOperand struct {
	Addr  uint64
	Size  int
	Value *big.Int
}

func (m *MemOperand) String() string {
	return fmt.Sprintf("[%#x]", m.Addr)
}

type ImmOperand struct {
	Value int64
}

func (i *ImmOperand) String() string {
	return fmt.Sprintf("%#x", i.Value)
}
