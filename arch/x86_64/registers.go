package x86_64

import (
	"fmt"

	"golang.org/x/arch/x86/x86asm"

	"github.com/symgrind/symgrind/models"
)

// The descriptor table is built once at package load; ids are stable for
// the life of the process. regMap translates decoder registers onto table
// ids for operand resolution.
var (
	table  *models.RegTable
	regMap map[x86asm.Reg]int

	rip    int
	rflags int
	segs   []int
)

// name and decoder register for each GPR view: 64, 32, 16, low 8
var gprNames = [16][4]string{
	{"rax", "eax", "ax", "al"},
	{"rbx", "ebx", "bx", "bl"},
	{"rcx", "ecx", "cx", "cl"},
	{"rdx", "edx", "dx", "dl"},
	{"rsi", "esi", "si", "sil"},
	{"rdi", "edi", "di", "dil"},
	{"rbp", "ebp", "bp", "bpl"},
	{"rsp", "esp", "sp", "spl"},
	{"r8", "r8d", "r8w", "r8b"},
	{"r9", "r9d", "r9w", "r9b"},
	{"r10", "r10d", "r10w", "r10b"},
	{"r11", "r11d", "r11w", "r11b"},
	{"r12", "r12d", "r12w", "r12b"},
	{"r13", "r13d", "r13w", "r13b"},
	{"r14", "r14d", "r14w", "r14b"},
	{"r15", "r15d", "r15w", "r15b"},
}

var gprRegs = [16][4]x86asm.Reg{
	{x86asm.RAX, x86asm.EAX, x86asm.AX, x86asm.AL},
	{x86asm.RBX, x86asm.EBX, x86asm.BX, x86asm.BL},
	{x86asm.RCX, x86asm.ECX, x86asm.CX, x86asm.CL},
	{x86asm.RDX, x86asm.EDX, x86asm.DX, x86asm.DL},
	{x86asm.RSI, x86asm.ESI, x86asm.SI, x86asm.SIB},
	{x86asm.RDI, x86asm.EDI, x86asm.DI, x86asm.DIB},
	{x86asm.RBP, x86asm.EBP, x86asm.BP, x86asm.BPB},
	{x86asm.RSP, x86asm.ESP, x86asm.SP, x86asm.SPB},
	{x86asm.R8, x86asm.R8L, x86asm.R8W, x86asm.R8B},
	{x86asm.R9, x86asm.R9L, x86asm.R9W, x86asm.R9B},
	{x86asm.R10, x86asm.R10L, x86asm.R10W, x86asm.R10B},
	{x86asm.R11, x86asm.R11L, x86asm.R11W, x86asm.R11B},
	{x86asm.R12, x86asm.R12L, x86asm.R12W, x86asm.R12B},
	{x86asm.R13, x86asm.R13L, x86asm.R13W, x86asm.R13B},
	{x86asm.R14, x86asm.R14L, x86asm.R14W, x86asm.R14B},
	{x86asm.R15, x86asm.R15L, x86asm.R15W, x86asm.R15B},
}

// legacy high-byte views, bits 15..8 of the first four GPRs
var high8 = []struct {
	gpr  int
	name string
	reg  x86asm.Reg
}{
	{0, "ah", x86asm.AH},
	{1, "bh", x86asm.BH},
	{2, "ch", x86asm.CH},
	{3, "dh", x86asm.DH},
}

var segNames = []string{"cs", "ss", "ds", "es", "fs", "gs"}
var segRegs = []x86asm.Reg{x86asm.CS, x86asm.SS, x86asm.DS, x86asm.ES, x86asm.FS, x86asm.GS}

// rflags bit positions
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
	b := models.NewTableBuilder(64)
	regMap = make(map[x86asm.Reg]int)

	for i, names := range gprNames {
		p := b.Parent(names[0], 64)
		regMap[gprRegs[i][0]] = p
		regMap[gprRegs[i][1]] = b.Sub(p, names[1], 31, 0)
		regMap[gprRegs[i][2]] = b.Sub(p, names[2], 15, 0)
		regMap[gprRegs[i][3]] = b.Sub(p, names[3], 7, 0)
		for _, h := range high8 {
			if h.gpr == i {
				regMap[h.reg] = b.Sub(p, h.name, 15, 8)
			}
		}
	}

	rip = b.Parent("rip", 64)
	regMap[x86asm.RIP] = rip
	regMap[x86asm.EIP] = b.Sub(rip, "eip", 31, 0)
	regMap[x86asm.IP] = b.Sub(rip, "ip", 15, 0)

	rflags = b.Parent("rflags", 64)
	b.Sub(rflags, "eflags", 31, 0)
	for _, f := range flagBits {
		b.Flag(rflags, f.name, f.bit)
	}

	for i, name := range segNames {
		segs = append(segs, b.Parent(name, 16))
		regMap[segRegs[i]] = segs[i]
	}

	for i := 0; i < 16; i++ {
		z := b.Parent(fmt.Sprintf("zmm%d", i), 512)
		b.Sub(z, fmt.Sprintf("ymm%d", i), 255, 0)
		regMap[x86asm.X0+x86asm.Reg(i)] = b.Sub(z, fmt.Sprintf("xmm%d", i), 127, 0)
	}

	table = b.Table()
}
