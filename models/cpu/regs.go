package cpu

import (
	"math/big"

	"github.com/symgrind/symgrind/models"
)

// Regs is the concrete register shadow. Storage is normalized to parent
// registers: a sub-register write folds into the parent's value at the
// sub-register's bit range, a sub-register read extracts the same range.
// The map never holds an entry keyed by a non-parent id.
//
// A valid register that was never written reads as zero. Callers that need
// "never written" as a distinct outcome can inspect Save().
type Regs struct {
	table *models.RegTable
	vals  map[int]*big.Int
}

func NewRegs(table *models.RegTable) *Regs {
	return &Regs{
		table: table,
		vals:  make(map[int]*big.Int),
	}
}

func (r *Regs) RegRead(reg int) (*big.Int, error) {
	spec, err := r.table.RegisterInfo(reg)
	if err != nil {
		return nil, err
	}
	parent, ok := r.vals[spec.Parent]
	if !ok {
		return new(big.Int), nil
	}
	return extractBits(parent, spec.BitHigh, spec.BitLow), nil
}

func (r *Regs) RegWrite(reg int, val *big.Int) error {
	spec, err := r.table.RegisterInfo(reg)
	if err != nil {
		return err
	}
	if val == nil {
		val = new(big.Int)
	}
	parent, ok := r.vals[spec.Parent]
	if !ok {
		parent = new(big.Int)
	}
	r.vals[spec.Parent] = insertBits(parent, spec.BitHigh, spec.BitLow, val)
	return nil
}

// Save snapshots the full register shadow. The returned map is keyed by
// parent id and safe to hold across later writes.
func (r *Regs) Save() map[int]*big.Int {
	m := make(map[int]*big.Int, len(r.vals))
	for k, v := range r.vals {
		m[k] = new(big.Int).Set(v)
	}
	return m
}

func (r *Regs) Restore(m map[int]*big.Int) {
	r.vals = make(map[int]*big.Int, len(m))
	for k, v := range m {
		r.vals[k] = new(big.Int).Set(v)
	}
}

func (r *Regs) Clear() {
	r.vals = make(map[int]*big.Int)
}

func bitMask(bits uint) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), bits)
	return m.Sub(m, big.NewInt(1))
}

// (val >> lo) & mask(hi-lo+1)
func extractBits(val *big.Int, hi, lo uint) *big.Int {
	out := new(big.Int).Rsh(val, lo)
	return out.And(out, bitMask(hi-lo+1))
}

// fold v into parent at [hi:lo], leaving the other bits unchanged
func insertBits(parent *big.Int, hi, lo uint, v *big.Int) *big.Int {
	width := hi - lo + 1
	fold := new(big.Int).And(v, bitMask(width))
	fold.Lsh(fold, lo)
	hole := new(big.Int).Lsh(bitMask(width), lo)
	out := new(big.Int).AndNot(parent, hole)
	return out.Or(out, fold)
}
