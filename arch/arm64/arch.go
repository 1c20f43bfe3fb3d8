package arm64

import (
	"encoding/binary"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/arch/arm64/arm64asm"

	"github.com/symgrind/symgrind/dis"
	"github.com/symgrind/symgrind/models"
	"github.com/symgrind/symgrind/models/cpu"
)

type Builder struct {
	Semantics models.SemanticsBuilder
}

func (b *Builder) New() (models.Cpu, error) {
	c := &Arm64Cpu{
		RegTable: table,
		Regs:     cpu.NewRegs(table),
		Mem:      cpu.NewMem(binary.LittleEndian),
		dis:      &dis.Arm64Dis{},
		sem:      b.Semantics,
	}
	return c, nil
}

type Arm64Cpu struct {
	*models.RegTable
	*cpu.Regs
	*cpu.Mem

	dis *dis.Arm64Dis
	sem models.SemanticsBuilder
}

// AArch64 has no architecturally-required nonzero defaults at this layer.
func (c *Arm64Cpu) Init() {}

func (c *Arm64Cpu) Clear() {
	c.Regs.Clear()
	c.Mem.Clear()
}

func (c *Arm64Cpu) Disassemble(ins *models.Instruction) error {
	ins.Disassembled = false
	ins.Operands = nil
	inst, err := c.dis.Dis(ins.Bytes, ins.Addr)
	if err != nil {
		return errors.Wrapf(err, "disassembly failed at %#x", ins.Addr)
	}
	ins.Size = 4
	ins.Bytes = ins.Bytes[:4]
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

func (c *Arm64Cpu) BuildSemantics(ins *models.Instruction) error {
	if !ins.Disassembled {
		return errors.Errorf("semantics requested at %#x before disassembly", ins.Addr)
	}
	if c.sem == nil {
		return nil
	}
	return c.sem.BuildSemantics(c, ins)
}

// resolve maps one decoder argument to an operand. Arguments this layer
// has no use for (conditions, shifts, arrangements) stay textual in OpStr
// without a resolved operand.
func (c *Arm64Cpu) resolve(a arm64asm.Arg, addr uint64, inst arm64asm.Inst) (models.Operand, error) {
	switch v := a.(type) {
	case arm64asm.Reg:
		return c.regOperand(regID(v))
	case arm64asm.RegSP:
		return c.regOperand(regSPID(v))
	case arm64asm.Imm:
		return &models.ImmOperand{Value: int64(v.Imm)}, nil
	case arm64asm.Imm64:
		return &models.ImmOperand{Value: int64(v.Imm)}, nil
	case arm64asm.PCRel:
		return &models.ImmOperand{Value: int64(addr) + int64(v)}, nil
	case arm64asm.MemImmediate:
		// the decoder does not expose the immediate offset; the base
		// register's last-known value stands in for the effective address
		op := &models.MemOperand{
			Addr: c.regUint(regSPID(v.Base)),
			Size: accessSize(inst),
		}
		if val, ok := c.MemReadOperand(*op); ok {
			op.Value = val
		}
		return op, nil
	case arm64asm.MemExtend:
		op := &models.MemOperand{
			Addr: c.regUint(regSPID(v.Base)) + c.regUint(regID(v.Index))<<uint(v.Amount),
			Size: accessSize(inst),
		}
		if val, ok := c.MemReadOperand(*op); ok {
			op.Value = val
		}
		return op, nil
	}
	return nil, nil
}

func (c *Arm64Cpu) regOperand(id int, ok bool) (models.Operand, error) {
	if !ok {
		return nil, errors.New("unsupported register")
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
}

func (c *Arm64Cpu) regUint(id int, ok bool) uint64 {
	if !ok {
		return 0
	}
	val, err := c.RegRead(id)
	if err != nil {
		return 0
	}
	return val.Uint64()
}

// accessSize infers the transfer width of a load/store from its mnemonic
// suffix, falling back to the width of the transferred register.
func accessSize(inst arm64asm.Inst) int {
	name := inst.Op.String()
	switch {
	case strings.HasSuffix(name, "SW"):
		return 4
	case strings.HasSuffix(name, "B"):
		return 1
	case strings.HasSuffix(name, "H"):
		return 2
	}
	if r, ok := inst.Args[0].(arm64asm.Reg); ok {
		switch {
		case r >= arm64asm.W0 && r <= arm64asm.W30, r == arm64asm.WZR:
			return 4
		case r >= arm64asm.B0 && r <= arm64asm.B31:
			return 1
		case r >= arm64asm.H0 && r <= arm64asm.H31:
			return 2
		case r >= arm64asm.S0 && r <= arm64asm.S31:
			return 4
		case r >= arm64asm.Q0 && r <= arm64asm.Q31:
			return 16
		}
	}
	return 8
}
