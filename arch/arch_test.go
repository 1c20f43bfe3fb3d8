package arch

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/symgrind/symgrind/models"
)

func TestGetArch(t *testing.T) {
	for _, name := range Names() {
		c, err := GetArch(name)
		require.NoError(t, err, name)
		require.NotNil(t, c, name)
	}
	_, err := GetArch("pdp11")
	require.Error(t, err)
}

func TestIndependentState(t *testing.T) {
	a, err := GetArch("x86_64")
	require.NoError(t, err)
	b, err := GetArch("x86_64")
	require.NoError(t, err)

	a.MemWriteByte(0x1000, 0xaa)
	require.False(t, b.MemMapped(0x1000, 1), "backends must not share state")
}

// contract properties every backend honors
func TestContract(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			c, err := GetArch(name)
			require.NoError(t, err)
			c.Init()

			regs := c.Registers()
			require.Equal(t, c.NumRegisters(), len(regs))
			require.False(t, c.IsRegisterValid(c.InvalidRegister()))

			ids := make(map[int]bool, len(regs))
			for _, r := range regs {
				ids[r.ID] = true
				require.True(t, c.IsRegisterValid(r.ID), r.Name)
				require.True(t, r.BitHigh >= r.BitLow, r.Name)

				info, err := c.RegisterInfo(r.ID)
				require.NoError(t, err)
				require.Equal(t, r, info)

				// every register classifies exactly one way
				require.NotEqual(t, c.IsFlag(r.ID), c.IsRegister(r.ID), r.Name)
			}

			for _, p := range c.ParentRegisters() {
				require.Equal(t, p.ID, p.Parent, p.Name)
				require.True(t, ids[p.ID], p.Name)
			}

			// round-trip through the first parent register
			first := c.ParentRegisters()[0]
			require.NoError(t, c.RegWrite(first.ID, big.NewInt(0x1234)))
			val, err := c.RegRead(first.ID)
			require.NoError(t, err)
			require.EqualValues(t, 0x1234, val.Int64())

			// the memory scenario from the state-cache contract
			c.MemWrite(0x1000, []byte{0xde, 0xad, 0xbe, 0xef})
			area, ok := c.MemRead(0x1000, 4)
			require.True(t, ok)
			require.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, area)
			require.True(t, c.MemMapped(0x1000, 4))
			c.MemUnmap(0x1001, 2)
			require.False(t, c.MemMapped(0x1000, 4))
			require.True(t, c.MemMapped(0x1000, 1))
			_, ok = c.MemRead(0x1000, 4)
			require.False(t, ok)

			// clear drops state, never metadata
			c.Clear()
			require.Equal(t, len(regs), c.NumRegisters())
			val, err = c.RegRead(first.ID)
			require.NoError(t, err)
			require.Zero(t, val.Sign())
		})
	}
}

func TestRegDump(t *testing.T) {
	c, err := GetArch("arm64")
	require.NoError(t, err)

	dump, err := models.RegDump(c)
	require.NoError(t, err)
	require.Len(t, dump, len(c.ParentRegisters()))

	names := make([]string, len(dump))
	for i, rv := range dump {
		require.NotNil(t, rv.Val)
		names[i] = rv.Name
	}
	// natural order: x2 sorts before x10
	x2, x10 := -1, -1
	for i, n := range names {
		switch n {
		case "x2":
			x2 = i
		case "x10":
			x10 = i
		}
	}
	require.NotEqual(t, -1, x2)
	require.NotEqual(t, -1, x10)
	require.Less(t, x2, x10, "dump must use natural name order")
}
