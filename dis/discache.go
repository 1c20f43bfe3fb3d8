package dis

import (
	"bytes"
	"sync"
)

type DiscacheEntry struct {
	Addr uint64
	Mem  []byte
	Inst interface{}
}

// Discache fronts repeated decoding of hot addresses. Entries are keyed by
// address and store the decoded instruction's own bytes; a lookup hits only
// when those bytes are still a prefix of the queried window.
type Discache struct {
	sync.RWMutex
	cache map[uint64]*DiscacheEntry
}

func NewDiscache() *Discache {
	return &Discache{cache: make(map[uint64]*DiscacheEntry)}
}

func (d *Discache) Get(addr uint64, mem []byte) *DiscacheEntry {
	d.RLock()
	if ent, ok := d.cache[addr]; ok {
		if len(mem) >= len(ent.Mem) && bytes.Equal(mem[:len(ent.Mem)], ent.Mem) {
			d.RUnlock()
			return ent
		}
	}
	d.RUnlock()
	return nil
}

func (d *Discache) Put(addr uint64, mem []byte, inst interface{}) {
	d.Lock()
	d.cache[addr] = &DiscacheEntry{
		Addr: addr,
		Mem:  mem,
		Inst: inst,
	}
	d.Unlock()
}
