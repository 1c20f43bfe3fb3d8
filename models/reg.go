package models

import (
	"github.com/pkg/errors"
)

// RegInvalid is the sentinel id that never satisfies IsRegisterValid.
const RegInvalid = -1

// RegisterSpec describes one architectural register: a stable id, a name,
// the bit range it occupies within its parent, and the parent's id. A
// top-level register is its own parent and its range spans its native
// width. Specs are immutable once the owning table is built.
type RegisterSpec struct {
	ID      int
	Name    string
	BitHigh uint
	BitLow  uint
	Parent  int
	Flag    bool
}

func (r RegisterSpec) IsParent() bool {
	return r.ID == r.Parent
}

func (r RegisterSpec) Bits() uint {
	return r.BitHigh - r.BitLow + 1
}

func (r RegisterSpec) String() string {
	return r.Name
}

// RegTable is a backend-owned, append-only table of register descriptors.
// Ids are indices into the table, assigned at construction and stable for
// the life of the process. Clear()/Init() on a Cpu never touch the table.
type RegTable struct {
	bits    uint
	specs   []RegisterSpec
	parents []RegisterSpec
	byName  map[string]int
}

func (t *RegTable) IsRegisterValid(reg int) bool {
	return reg >= 0 && reg < len(t.specs)
}

func (t *RegTable) IsFlag(reg int) bool {
	return t.IsRegisterValid(reg) && t.specs[reg].Flag
}

func (t *RegTable) IsRegister(reg int) bool {
	return t.IsRegisterValid(reg) && !t.specs[reg].Flag
}

// RegisterSize is the architecture's GPR width in bytes. A single
// architecture-wide constant, not per-register.
func (t *RegTable) RegisterSize() int {
	return int(t.bits) / 8
}

func (t *RegTable) RegisterBitSize() int {
	return int(t.bits)
}

func (t *RegTable) InvalidRegister() int {
	return RegInvalid
}

func (t *RegTable) NumRegisters() int {
	return len(t.specs)
}

// RegisterInfo returns the descriptor for a valid id. Passing an invalid id
// is a caller bug; gate on IsRegisterValid first.
func (t *RegTable) RegisterInfo(reg int) (RegisterSpec, error) {
	if !t.IsRegisterValid(reg) {
		return RegisterSpec{}, errors.Errorf("invalid register id %d", reg)
	}
	return t.specs[reg], nil
}

// Registers returns a copy of the full descriptor table.
func (t *RegTable) Registers() []RegisterSpec {
	out := make([]RegisterSpec, len(t.specs))
	copy(out, t.specs)
	return out
}

// ParentRegisters returns the top-level subset of Registers.
func (t *RegTable) ParentRegisters() []RegisterSpec {
	out := make([]RegisterSpec, len(t.parents))
	copy(out, t.parents)
	return out
}

// Named looks an id up by register name.
func (t *RegTable) Named(name string) (int, bool) {
	id, ok := t.byName[name]
	return id, ok
}

// TableBuilder assembles a RegTable at backend package init. Construction
// mistakes (bad parent id, range outside the parent) are programming errors
// and panic, like a bad table literal would.
type TableBuilder struct {
	bits  uint
	specs []RegisterSpec
}

func NewTableBuilder(gprBits uint) *TableBuilder {
	return &TableBuilder{bits: gprBits}
}

func (b *TableBuilder) Parent(name string, bits uint) int {
	if bits == 0 {
		panic("register " + name + " has zero width")
	}
	id := len(b.specs)
	b.specs = append(b.specs, RegisterSpec{
		ID:      id,
		Name:    name,
		BitHigh: bits - 1,
		BitLow:  0,
		Parent:  id,
	})
	return id
}

func (b *TableBuilder) Sub(parent int, name string, hi, lo uint) int {
	if parent < 0 || parent >= len(b.specs) || !b.specs[parent].IsParent() {
		panic("bad parent for register " + name)
	}
	if hi < lo || hi > b.specs[parent].BitHigh {
		panic("bad bit range for register " + name)
	}
	id := len(b.specs)
	b.specs = append(b.specs, RegisterSpec{
		ID:      id,
		Name:    name,
		BitHigh: hi,
		BitLow:  lo,
		Parent:  parent,
	})
	return id
}

// Flag registers a one-bit view into parent, classified as a flag.
func (b *TableBuilder) Flag(parent int, name string, bit uint) int {
	id := b.Sub(parent, name, bit, bit)
	b.specs[id].Flag = true
	return id
}

func (b *TableBuilder) Table() *RegTable {
	t := &RegTable{
		bits:   b.bits,
		specs:  b.specs,
		byName: make(map[string]int, len(b.specs)),
	}
	for _, r := range b.specs {
		if r.IsParent() {
			t.parents = append(t.parents, r)
		}
		if _, ok := t.byName[r.Name]; ok {
			panic("duplicate register " + r.Name)
		}
		t.byName[r.Name] = r.ID
	}
	return t
}
