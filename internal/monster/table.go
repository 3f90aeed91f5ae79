package monster

import "voxelrift/internal/collision"

type slot struct {
	gen uint32
	m   *Monster
}

// Table is an arena of mobs. Ids pack a slot index with a generation so a handle
// to a removed mob never resolves to the slot's next occupant.
type Table struct {
	slots []slot
	free  []uint32
	live  int
}

func NewTable() *Table {
	return &Table{}
}

func packID(index, gen uint32) collision.EntityID {
	return collision.EntityID(uint64(gen)<<32 | uint64(index))
}

func unpackID(id collision.EntityID) (index, gen uint32) {
	return uint32(uint64(id) & 0xFFFFFFFF), uint32(uint64(id) >> 32)
}

// Insert stores m and binds its id and hit volumes
func (t *Table) Insert(m *Monster) collision.EntityID {
	var index uint32
	if n := len(t.free); n > 0 {
		index = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		index = uint32(len(t.slots))
		t.slots = append(t.slots, slot{})
	}
	s := &t.slots[index]
	s.gen++
	s.m = m
	t.live++

	id := packID(index, s.gen)
	m.bind(id)
	return id
}

// Get resolves an id; stale or unknown ids report false
func (t *Table) Get(id collision.EntityID) (*Monster, bool) {
	index, gen := unpackID(id)
	if int(index) >= len(t.slots) {
		return nil, false
	}
	s := t.slots[index]
	if s.m == nil || s.gen != gen {
		return nil, false
	}
	return s.m, true
}

func (t *Table) Remove(id collision.EntityID) bool {
	if _, ok := t.Get(id); !ok {
		return false
	}
	index, _ := unpackID(id)
	t.slots[index].m = nil
	t.free = append(t.free, index)
	t.live--
	return true
}

// Len is the number of mobs in the table, dying ones included
func (t *Table) Len() int {
	return t.live
}

// Each visits mobs in slot order
func (t *Table) Each(fn func(*Monster)) {
	for _, s := range t.slots {
		if s.m != nil {
			fn(s.m)
		}
	}
}

// All returns the mobs in slot order
func (t *Table) All() []*Monster {
	out := make([]*Monster, 0, t.live)
	t.Each(func(m *Monster) { out = append(out, m) })
	return out
}
