package grid

import "sync/atomic"

// Cell is one automaton unit: a decaying age value plus a neighbour counter.
//
// Value is 0 when dead, States when mature, and anything in between while
// decaying. Neighbours counts how many neighbouring cells are currently
// mature. The counter is a uint32 so it can be updated through sync/atomic
// on the border propagation path; interior propagation and the value phase
// access it with plain loads and stores (see engine for the ownership
// argument that makes the mixed access safe).
type Cell struct {
	Value      uint8
	Neighbours uint32
}

// IsDead reports whether the cell holds no age at all.
func (c *Cell) IsDead() bool {
	return c.Value == 0
}

// LoadNeighbours reads the neighbour counter atomically (relaxed semantics:
// the caller relies on a fork/join barrier, not on this load, for ordering).
func (c *Cell) LoadNeighbours() uint8 {
	return uint8(atomic.LoadUint32(&c.Neighbours))
}

// AddNeighbour atomically increments the neighbour counter.
func (c *Cell) AddNeighbour() {
	atomic.AddUint32(&c.Neighbours, 1)
}

// SubNeighbour atomically decrements the neighbour counter.
func (c *Cell) SubNeighbour() {
	atomic.AddUint32(&c.Neighbours, ^uint32(0))
}
