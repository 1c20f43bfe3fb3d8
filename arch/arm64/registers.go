package arm64

import (
	"fmt"

	"golang.org/x/arch/arm64/arm64asm"

	"github.com/symgrind/symgrind/models"
)

var (
	table *models.RegTable

	xids [31]int
	wids [31]int
	vids [32]int
	qids [32]int
	dids [32]int
	sids [32]int
	hids [32]int
	bids [32]int

	sp, wsp  int
	xzr, wzr int
	pc       int
	nzcv     int
)

var flagBits = []struct {
	name string
	bit  uint
}{
	{"n", 31},
	{"z", 30},
	{"c", 29},
	{"v", 28},
}

func init() {
	b := models.NewTableBuilder(64)

	for i := 0; i < 31; i++ {
		xids[i] = b.Parent(fmt.Sprintf("x%d", i), 64)
		wids[i] = b.Sub(xids[i], fmt.Sprintf("w%d", i), 31, 0)
	}
	sp = b.Parent("sp", 64)
	wsp = b.Sub(sp, "wsp", 31, 0)
	xzr = b.Parent("xzr", 64)
	wzr = b.Sub(xzr, "wzr", 31, 0)
	pc = b.Parent("pc", 64)

	nzcv = b.Parent("nzcv", 32)
	for _, f := range flagBits {
		b.Flag(nzcv, f.name, f.bit)
	}

	for i := 0; i < 32; i++ {
		vids[i] = b.Parent(fmt.Sprintf("v%d", i), 128)
		qids[i] = b.Sub(vids[i], fmt.Sprintf("q%d", i), 127, 0)
		dids[i] = b.Sub(vids[i], fmt.Sprintf("d%d", i), 63, 0)
		sids[i] = b.Sub(vids[i], fmt.Sprintf("s%d", i), 31, 0)
		hids[i] = b.Sub(vids[i], fmt.Sprintf("h%d", i), 15, 0)
		bids[i] = b.Sub(vids[i], fmt.Sprintf("b%d", i), 7, 0)
	}

	table = b.Table()
}

// regID translates a decoder register onto a table id.
func regID(r arm64asm.Reg) (int, bool) {
	switch {
	case r >= arm64asm.W0 && r <= arm64asm.W30:
		return wids[r-arm64asm.W0], true
	case r == arm64asm.WZR:
		return wzr, true
	case r >= arm64asm.X0 && r <= arm64asm.X30:
		return xids[r-arm64asm.X0], true
	case r == arm64asm.XZR:
		return xzr, true
	case r >= arm64asm.B0 && r <= arm64asm.B31:
		return bids[r-arm64asm.B0], true
	case r >= arm64asm.H0 && r <= arm64asm.H31:
		return hids[r-arm64asm.H0], true
	case r >= arm64asm.S0 && r <= arm64asm.S31:
		return sids[r-arm64asm.S0], true
	case r >= arm64asm.D0 && r <= arm64asm.D31:
		return dids[r-arm64asm.D0], true
	case r >= arm64asm.Q0 && r <= arm64asm.Q31:
		return qids[r-arm64asm.Q0], true
	case r >= arm64asm.V0 && r <= arm64asm.V31:
		return vids[r-arm64asm.V0], true
	}
	return models.RegInvalid, false
}

// regSPID translates a register-or-SP operand. SP and WSP share their
// encodings with XZR and WZR; the RegSP operand type is what marks the
// stack pointer.
func regSPID(r arm64asm.RegSP) (int, bool) {
	switch arm64asm.Reg(r) {
	case arm64asm.XZR:
		return sp, true
	case arm64asm.WZR:
		return wsp, true
	}
	return regID(arm64asm.Reg(r))
}
