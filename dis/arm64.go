package dis

import (
	"github.com/pkg/errors"
	"golang.org/x/arch/arm64/arm64asm"
)

// Arm64Dis wraps the arm64asm decoder. A64 instructions are fixed four
// bytes.
type Arm64Dis struct {
	dc *Discache
}

func (d *Arm64Dis) Dis(mem []byte, addr uint64) (arm64asm.Inst, error) {
	if d.dc == nil {
		d.dc = NewDiscache()
	}
	if len(mem) < 4 {
		return arm64asm.Inst{}, errors.Errorf("arm64 instruction needs 4 bytes, have %d", len(mem))
	}
	if ent := d.dc.Get(addr, mem); ent != nil {
		return ent.Inst.(arm64asm.Inst), nil
	}
	inst, err := arm64asm.Decode(mem[:4])
	if err != nil {
		return arm64asm.Inst{}, errors.Wrap(err, "arm64 decode failed")
	}
	d.dc.Put(addr, append([]byte(nil), mem[:4]...), inst)
	return inst, nil
}
