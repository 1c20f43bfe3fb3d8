package dis

import (
	"github.com/pkg/errors"
	"golang.org/x/arch/x86/x86asm"
)

// X86Dis wraps the x86asm decoder for one mode (16, 32, or 64).
type X86Dis struct {
	Mode int

	dc *Discache
}

func (d *X86Dis) Dis(mem []byte, addr uint64) (x86asm.Inst, error) {
	if d.dc == nil {
		d.dc = NewDiscache()
	}
	if ent := d.dc.Get(addr, mem); ent != nil {
		return ent.Inst.(x86asm.Inst), nil
	}
	inst, err := x86asm.Decode(mem, d.Mode)
	if err != nil {
		return x86asm.Inst{}, errors.Wrap(err, "x86 decode failed")
	}
	d.dc.Put(addr, append([]byte(nil), mem[:inst.Len]...), inst)
	return inst, nil
}
