package x86

import (
	"encoding/binary"
	"math/big"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/arch/x86/x86asm"

	"github.com/symgrind/symgrind/dis"
	"github.com/symgrind/symgrind/models"
	"github.com/symgrind/symgrind/models/cpu"
)

const (
	initEflags = 0x202
	initCs     = 0x23
	initSs     = 0x2b
)

type Builder struct {
	Semantics models.SemanticsBuilder
}

func (b *Builder) New() (models.Cpu, error) {
	c := &X86Cpu{
		RegTable: table,
		Regs:     cpu.NewRegs(table),
		Mem:      cpu.NewMem(binary.LittleEndian),
		dis:      &dis.X86Dis{Mode: 32},
		sem:      b.Semantics,
	}
	return c, nil
}

type X86Cpu struct {
	*models.RegTable
	*cpu.Regs
	*cpu.Mem

	dis *dis.X86Dis
	sem models.SemanticsBuilder
}

func (c *X86Cpu) Init() {
	c.RegWrite(eflags, big.NewInt(initEflags))
	for i, seg := range segs {
		switch segNames[i] {
		case "cs":
			c.RegWrite(seg, big.NewInt(initCs))
		case "ss", "ds", "es":
			c.RegWrite(seg, big.NewInt(initSs))
		default:
			c.RegWrite(seg, new(big.Int))
		}
	}
}

func (c *X86Cpu) Clear() {
	c.Regs.Clear()
	c.Mem.Clear()
}

func (c *X86Cpu) Disassemble(ins *models.Instruction) error {
	ins.Disassembled = false
	ins.Operands = nil
	inst, err := c.dis.Dis(ins.Bytes, ins.Addr)
	if err != nil {
		return errors.Wrapf(err, "disassembly failed at %#x", ins.Addr)
	}
	ins.Size = inst.Len
	ins.Bytes = ins.Bytes[:inst.Len]
	ins.Mnemonic = strings.ToLower(inst.Op.String())
	var args []string
	for _, a := range inst.Args {
		if a == nil {
			break
		}
		args = append(args, strings.ToLower(a.String()))
		op, err := c.resolve(a, ins.Addr, inst)
		if err != nil {
			ins.Operands = nil
			return errors.Wrapf(err, "disassembly failed at %#x", ins.Addr)
		}
		if op != nil {
			ins.Operands = append(ins.Operands, op)
		}
	}
	ins.OpStr = strings.Join(args, ", ")
	ins.Disassembled = true
	return nil
}

func (c *X86Cpu) BuildSemantics(ins *models.Instruction) error {
	if !ins.Disassembled {
		return errors.Errorf("semantics requested at %#x before disassembly", ins.Addr)
	}
	if c.sem == nil {
		return nil
	}
	return c.sem.BuildSemantics(c, ins)
}

func (c *X86Cpu) resolve(a x86asm.Arg, addr uint64, inst x86asm.Inst) (models.Operand, error) {
	switch v := a.(type) {
	case x86asm.Reg:
		id, ok := regMap[v]
		if !ok {
			return nil, errors.Errorf("unsupported register %s", v)
		}
		spec, err := c.RegisterInfo(id)
		if err != nil {
			return nil, err
		}
		op := &models.RegOperand{Reg: id, Name: spec.Name}
		if val, err := c.RegRead(id); err == nil {
			op.Value = val
		}
		return op, nil
	case x86asm.Mem:
		op := &models.MemOperand{
			Addr: c.memAddr(v),
			Size: inst.MemBytes,
		}
		if val, ok := c.MemReadOperand(*op); ok {
			op.Value = val
		}
		return op, nil
	case x86asm.Imm:
		return &models.ImmOperand{Value: int64(v)}, nil
	case x86asm.Rel:
		target := (uint64(int64(addr) + int64(inst.Len) + int64(v))) & 0xffffffff
		return &models.ImmOperand{Value: int64(target)}, nil
	}
	return nil, nil
}

// effective addresses wrap at the 32-bit boundary; memory is treated as
// flat, so segment overrides contribute no base
func (c *X86Cpu) memAddr(m x86asm.Mem) uint64 {
	ea := uint64(m.Disp)
	if m.Base != 0 {
		ea += c.regUint(m.Base)
	}
	if m.Index != 0 {
		ea += uint64(m.Scale) * c.regUint(m.Index)
	}
	return ea & 0xffffffff
}

func (c *X86Cpu) regUint(r x86asm.Reg) uint64 {
	id, ok := regMap[r]
	if !ok {
		return 0
	}
	val, err := c.RegRead(id)
	if err != nil {
		return 0
	}
	return val.Uint64()
}
