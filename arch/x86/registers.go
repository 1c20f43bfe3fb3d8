package x86

import (
	"fmt"

	"golang.org/x/arch/x86/x86asm"

	"github.com/symgrind/symgrind/models"
)

var (
	table  *models.RegTable
	regMap map[x86asm.Reg]int

	eip    int
	eflags int
	segs   []int
)

// 32-bit GPR views: parent, 16-bit, low 8, high 8. Without a REX prefix
// only the first four GPRs have byte views.
var gprNames = [8][4]string{
	{"eax", "ax", "al", "ah"},
	{"ebx", "bx", "bl", "bh"},
	{"ecx", "cx", "cl", "ch"},
	{"edx", "dx", "dl", "dh"},
	{"esi", "si", "", ""},
	{"edi", "di", "", ""},
	{"ebp", "bp", "", ""},
	{"esp", "sp", "", ""},
}

var gprRegs = [8][4]x86asm.Reg{
	{x86asm.EAX, x86asm.AX, x86asm.AL, x86asm.AH},
	{x86asm.EBX, x86asm.BX, x86asm.BL, x86asm.BH},
	{x86asm.ECX, x86asm.CX, x86asm.CL, x86asm.CH},
	{x86asm.EDX, x86asm.DX, x86asm.DL, x86asm.DH},
	{x86asm.ESI, x86asm.SI, 0, 0},
	{x86asm.EDI, x86asm.DI, 0, 0},
	{x86asm.EBP, x86asm.BP, 0, 0},
	{x86asm.ESP, x86asm.SP, 0, 0},
}

var segNames = []string{"cs", "ss", "ds", "es", "fs", "gs"}
var segRegs = []x86asm.Reg{x86asm.CS, x86asm.SS, x86asm.DS, x86asm.ES, x86asm.FS, x86asm.GS}

var flagBits = []struct {
	name string
	bit  uint
}{
	{"cf", 0},
	{"pf", 2},
	{"af", 4},
	{"zf", 6},
	{"sf", 7},
	{"tf", 8},
	{"if", 9},
	{"df", 10},
	{"of", 11},
}

func init() {
	b := models.NewTableBuilder(32)
	regMap = make(map[x86asm.Reg]int)

	for i, names := range gprNames {
		p := b.Parent(names[0], 32)
		regMap[gprRegs[i][0]] = p
		regMap[gprRegs[i][1]] = b.Sub(p, names[1], 15, 0)
		if names[2] != "" {
			regMap[gprRegs[i][2]] = b.Sub(p, names[2], 7, 0)
			regMap[gprRegs[i][3]] = b.Sub(p, names[3], 15, 8)
		}
	}

	eip = b.Parent("eip", 32)
	regMap[x86asm.EIP] = eip
	regMap[x86asm.IP] = b.Sub(eip, "ip", 15, 0)

	eflags = b.Parent("eflags", 32)
	for _, f := range flagBits {
		b.Flag(eflags, f.name, f.bit)
	}

	for i, name := range segNames {
		segs = append(segs, b.Parent(name, 16))
		regMap[segRegs[i]] = segs[i]
	}

	for i := 0; i < 8; i++ {
		regMap[x86asm.X0+x86asm.Reg(i)] = b.Parent(fmt.Sprintf("xmm%d", i), 128)
	}

	table = b.Table()
}
