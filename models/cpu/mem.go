package cpu

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/symgrind/symgrind/models"
)

// Mem is the concrete memory shadow: a sparse byte map keyed by address.
// Absence means "unmapped/unknown", not zero, so reads report ok == false
// rather than inventing a value.
type Mem struct {
	order binary.ByteOrder
	bytes map[uint64]byte
}

func NewMem(order binary.ByteOrder) *Mem {
	return &Mem{
		order: order,
		bytes: make(map[uint64]byte),
	}
}

func (m *Mem) MemReadByte(addr uint64) (byte, bool) {
	b, ok := m.bytes[addr]
	return b, ok
}

// MemRead returns size contiguous bytes starting at addr. Any unmapped byte
// in the range makes the whole read unknown.
func (m *Mem) MemRead(addr uint64, size int) ([]byte, bool) {
	p := make([]byte, size)
	for i := range p {
		b, ok := m.bytes[addr+uint64(i)]
		if !ok {
			return nil, false
		}
		p[i] = b
	}
	return p, true
}

func (m *Mem) MemReadOperand(mem models.MemOperand) (*big.Int, bool) {
	p, ok := m.MemRead(mem.Addr, mem.Size)
	if !ok {
		return nil, false
	}
	return UnpackBig(m.order, p), true
}

func (m *Mem) MemWriteByte(addr uint64, val byte) {
	m.bytes[addr] = val
}

func (m *Mem) MemWrite(addr uint64, p []byte) {
	for i, b := range p {
		m.bytes[addr+uint64(i)] = b
	}
}

func (m *Mem) MemWriteOperand(mem models.MemOperand) error {
	if mem.Value == nil {
		return errors.Errorf("no value to write for memory operand at %#x", mem.Addr)
	}
	p, err := PackBig(m.order, mem.Size, mem.Value)
	if err != nil {
		return errors.Wrapf(err, "memory operand at %#x", mem.Addr)
	}
	m.MemWrite(mem.Addr, p)
	return nil
}

// MemMapped is true only if every byte of [addr, addr+size) has a recorded
// value.
func (m *Mem) MemMapped(addr uint64, size int) bool {
	for i := 0; i < size; i++ {
		if _, ok := m.bytes[addr+uint64(i)]; !ok {
			return false
		}
	}
	return true
}

// MemUnmap removes [addr, addr+size) from the shadow. Unmapping an absent
// byte is a no-op.
func (m *Mem) MemUnmap(addr uint64, size int) {
	for i := 0; i < size; i++ {
		delete(m.bytes, addr+uint64(i))
	}
}

func (m *Mem) Clear() {
	m.bytes = make(map[uint64]byte)
}
