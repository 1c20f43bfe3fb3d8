package cpu

import (
	"math/big"
	"testing"

	"github.com/symgrind/symgrind/models"
)

// a 64-bit parent with 32/16/8-bit views plus a flag register, enough to
// exercise folding without dragging in a real backend table
func makeTable() (*models.RegTable, map[string]int) {
	b := models.NewTableBuilder(64)
	ids := make(map[string]int)
	ids["a"] = b.Parent("a", 64)
	ids["a32"] = b.Sub(ids["a"], "a32", 31, 0)
	ids["a16"] = b.Sub(ids["a"], "a16", 15, 0)
	ids["a8l"] = b.Sub(ids["a"], "a8l", 7, 0)
	ids["a8h"] = b.Sub(ids["a"], "a8h", 15, 8)
	ids["flags"] = b.Parent("flags", 64)
	ids["z"] = b.Flag(ids["flags"], "z", 6)
	return b.Table(), ids
}

func makeRegs() (map[string]int, *Regs) {
	table, ids := makeTable()
	return ids, NewRegs(table)
}

func hex(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("bad hex constant " + s)
	}
	return n
}

func TestRegs(t *testing.T) {
	ids, regs := makeRegs()

	if err := regs.RegWrite(ids["a"], hex("1122334455667788")); err != nil {
		t.Fatal(err, "RegWrite() failed")
	}
	if val, err := regs.RegRead(ids["a"]); err != nil {
		t.Fatal(err, "RegRead() failed")
	} else if val.Cmp(hex("1122334455667788")) != 0 {
		t.Fatalf("RegRead() returned %#x", val)
	}
}

func TestRegsZeroDefault(t *testing.T) {
	ids, regs := makeRegs()
	// a valid register that was never written reads as zero
	if val, err := regs.RegRead(ids["a32"]); err != nil {
		t.Fatal(err, "RegRead() failed")
	} else if val.Sign() != 0 {
		t.Fatalf("RegRead() returned %#x, expecting 0", val)
	}
}

func TestRegsInvalid(t *testing.T) {
	_, regs := makeRegs()
	if _, err := regs.RegRead(models.RegInvalid); err == nil {
		t.Fatal("RegRead() accepted an invalid id")
	}
	if err := regs.RegWrite(1000, big.NewInt(1)); err == nil {
		t.Fatal("RegWrite() accepted an invalid id")
	}
}

func TestRegsFold(t *testing.T) {
	ids, regs := makeRegs()

	regs.RegWrite(ids["a"], hex("1122334455667788"))
	regs.RegWrite(ids["a32"], hex("99aabbcc"))
	if val, _ := regs.RegRead(ids["a"]); val.Cmp(hex("1122334499aabbcc")) != 0 {
		t.Fatalf("folded parent is %#x, expecting 0x1122334499aabbcc", val)
	}

	// a low-byte write leaves the rest of the parent unchanged
	regs.RegWrite(ids["a8l"], big.NewInt(0xff))
	if val, _ := regs.RegRead(ids["a"]); val.Cmp(hex("1122334499aabbff")) != 0 {
		t.Fatalf("low-byte write clobbered parent: %#x", val)
	}
	if val, _ := regs.RegRead(ids["a8h"]); val.Int64() != 0xbb {
		t.Fatalf("high-byte read returned %#x, expecting 0xbb", val)
	}
	if val, _ := regs.RegRead(ids["a16"]); val.Int64() != 0xbbff {
		t.Fatalf("16-bit read returned %#x, expecting 0xbbff", val)
	}
}

func TestRegsMask(t *testing.T) {
	ids, regs := makeRegs()
	// writes wider than the register truncate to its width
	regs.RegWrite(ids["a8l"], big.NewInt(0xffff))
	if val, _ := regs.RegRead(ids["a8l"]); val.Int64() != 0xff {
		t.Fatalf("RegRead() returned %#x, expecting 0xff", val)
	}
	if val, _ := regs.RegRead(ids["a"]); val.Int64() != 0xff {
		t.Fatalf("parent is %#x, expecting 0xff", val)
	}
}

func TestRegsFlagFold(t *testing.T) {
	ids, regs := makeRegs()
	regs.RegWrite(ids["z"], big.NewInt(1))
	if val, _ := regs.RegRead(ids["flags"]); val.Int64() != 0x40 {
		t.Fatalf("flags register is %#x, expecting 0x40", val)
	}
	regs.RegWrite(ids["flags"], big.NewInt(0))
	if val, _ := regs.RegRead(ids["z"]); val.Sign() != 0 {
		t.Fatalf("flag still set after parent write: %#x", val)
	}
}

func TestRegsParentOnlyStorage(t *testing.T) {
	ids, regs := makeRegs()
	regs.RegWrite(ids["a8h"], big.NewInt(0x12))
	saved := regs.Save()
	if len(saved) != 1 {
		t.Fatalf("expected 1 stored entry, have %d", len(saved))
	}
	if _, ok := saved[ids["a"]]; !ok {
		t.Fatal("sub-register write was not normalized to the parent")
	}
}

func TestRegsSaveRestore(t *testing.T) {
	ids, regs := makeRegs()

	regs.RegWrite(ids["a"], big.NewInt(1))
	ctx := regs.Save()
	regs.RegWrite(ids["a"], big.NewInt(2))
	regs.Restore(ctx)
	if val, _ := regs.RegRead(ids["a"]); val.Int64() != 1 {
		t.Fatalf("RegRead() returned %d, expecting 1", val)
	}

	// the snapshot must not alias live state
	ctx[ids["a"]].SetInt64(99)
	if val, _ := regs.RegRead(ids["a"]); val.Int64() != 1 {
		t.Fatal("Restore() aliased the snapshot")
	}
}

func TestRegsClear(t *testing.T) {
	ids, regs := makeRegs()
	regs.RegWrite(ids["a"], big.NewInt(7))
	regs.Clear()
	if len(regs.Save()) != 0 {
		t.Fatal("Clear() left stored values behind")
	}
	if val, _ := regs.RegRead(ids["a"]); val.Sign() != 0 {
		t.Fatalf("RegRead() returned %#x after Clear()", val)
	}
}

func BenchmarkRegsRead(b *testing.B) {
	ids, regs := makeRegs()
	regs.RegWrite(ids["a"], hex("1122334455667788"))
	for i := 0; i < b.N; i++ {
		regs.RegRead(ids["a32"])
	}
}

func BenchmarkRegsWrite(b *testing.B) {
	ids, regs := makeRegs()
	val := hex("99aabbcc")
	for i := 0; i < b.N; i++ {
		regs.RegWrite(ids["a32"], val)
	}
}
