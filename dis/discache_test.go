package dis

import (
	"testing"

	"golang.org/x/arch/x86/x86asm"
)

func TestDiscache(t *testing.T) {
	d := NewDiscache()
	code := []byte{0x90, 0x90}

	if ent := d.Get(0x1000, code); ent != nil {
		t.Fatal("hit on empty cache")
	}
	d.Put(0x1000, code[:1], "nop")

	// longer windows with the same prefix still hit
	if ent := d.Get(0x1000, code); ent == nil || ent.Inst.(string) != "nop" {
		t.Fatal("prefix lookup missed")
	}
	if ent := d.Get(0x1000, []byte{0x90}); ent == nil {
		t.Fatal("exact lookup missed")
	}

	// self-modifying code invalidates by content, not address
	if ent := d.Get(0x1000, []byte{0xcc}); ent != nil {
		t.Fatal("stale bytes hit")
	}
	if ent := d.Get(0x2000, code); ent != nil {
		t.Fatal("wrong address hit")
	}
	if ent := d.Get(0x1000, nil); ent != nil {
		t.Fatal("short window hit")
	}
}

func TestX86DisCache(t *testing.T) {
	d := &X86Dis{Mode: 64}
	code := []byte{0x48, 0xc7, 0xc0, 0x64, 0x00, 0x00, 0x00} // mov rax, 100

	inst, err := d.Dis(code, 0x1000)
	if err != nil {
		t.Fatal(err)
	}
	if inst.Op != x86asm.MOV || inst.Len != len(code) {
		t.Fatalf("decoded %v len %d", inst.Op, inst.Len)
	}

	again, err := d.Dis(code, 0x1000)
	if err != nil {
		t.Fatal(err)
	}
	if again.Op != inst.Op || again.Len != inst.Len {
		t.Fatal("cached decode disagrees")
	}

	if _, err := d.Dis([]byte{0xff, 0xff}, 0x2000); err == nil {
		t.Fatal("decoded an undefined instruction")
	}
}

func TestArm64Dis(t *testing.T) {
	d := &Arm64Dis{}

	// mov x0, x1
	inst, err := d.Dis([]byte{0xe0, 0x03, 0x01, 0xaa}, 0x1000)
	if err != nil {
		t.Fatal(err)
	}
	if inst.Op.String() != "MOV" {
		t.Fatalf("decoded %v", inst.Op)
	}

	if _, err := d.Dis([]byte{0xe0, 0x03}, 0x1000); err == nil {
		t.Fatal("decoded a short window")
	}
	if _, err := d.Dis([]byte{0xff, 0xff, 0xff, 0xff}, 0x1000); err == nil {
		t.Fatal("decoded an undefined instruction")
	}
}
