package grid

import "sync"

// ChunkGrid is the full toroidal domain: an ordered collection of chunks plus
// the mapping between global positions and (chunk, offset) pairs.
//
// The chunk slice is guarded by an RWMutex. The lock protects the collection
// itself (against resize and against reads during the detached value phase),
// not individual cells: the generation engine intentionally mutates cells
// through a shared read view, relying on chunk ownership and border atomics
// for safety.
type ChunkGrid struct {
	mu          sync.RWMutex
	chunks      []*Chunk
	chunkRadius int
}

// NewChunkGrid returns an empty grid. It holds no chunks until Resize.
func NewChunkGrid() *ChunkGrid {
	return &ChunkGrid{}
}

// Resize grows or shrinks the domain to cover at least newSize cells along
// each axis, rounded up to a whole number of chunks. All prior cell state is
// discarded when the chunk layout actually changes; a resize to the current
// effective size is a no-op so the engine can call it every generation.
// Returns the effective domain size.
func (g *ChunkGrid) Resize(newSize int) int {
	radius := 0
	if newSize > 0 {
		radius = (newSize + ChunkSize - 1) / ChunkSize
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if radius != g.chunkRadius {
		chunkCount := radius * radius * radius
		g.chunks = make([]*Chunk, chunkCount)
		for i := range g.chunks {
			g.chunks[i] = &Chunk{}
		}
		g.chunkRadius = radius
	}
	return g.chunkRadius * ChunkSize
}

// Size returns the domain edge length in cells.
func (g *ChunkGrid) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.chunkRadius * ChunkSize
}

// ChunkCount returns the number of chunks in the domain.
func (g *ChunkGrid) ChunkCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.chunks)
}

// Center returns the domain midpoint on each axis.
func (g *ChunkGrid) Center() Vec3 {
	c := g.Size() / 2
	return Vec3{c, c, c}
}

// Detach moves the chunk collection out of the grid, transferring exclusive
// ownership to the caller for the duration of a fork/join round. The grid
// holds no chunks until Reattach. Also returns the chunk radius so detached
// code can run the coordinate mapping without touching the grid.
func (g *ChunkGrid) Detach() ([]*Chunk, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	chunks := g.chunks
	g.chunks = nil
	return chunks, g.chunkRadius
}

// Reattach restores a chunk collection previously taken by Detach.
func (g *ChunkGrid) Reattach(chunks []*Chunk) {
	g.mu.Lock()
	g.chunks = chunks
	g.mu.Unlock()
}

// View runs f with a shared read view of the chunk collection. The read lock
// is held for the duration of f, which keeps resize out while f runs; cell
// mutation through the view is the caller's responsibility to keep safe.
func (g *ChunkGrid) View(f func(chunks []*Chunk, chunkRadius int)) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	f(g.chunks, g.chunkRadius)
}

// Exclusive runs f with exclusive access to the chunk collection.
func (g *ChunkGrid) Exclusive(f func(chunks []*Chunk, chunkRadius int)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	f(g.chunks, g.chunkRadius)
}

// PosToIndex wraps pos into the domain and linearizes it to a flat cell
// index in chunk-blocked order.
func (g *ChunkGrid) PosToIndex(pos Vec3) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return PosToIndexEx(Wrap(pos, g.chunkRadius*ChunkSize), g.chunkRadius)
}

// IndexToPos converts a flat cell index back to a global position.
func (g *ChunkGrid) IndexToPos(index int) Vec3 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return IndexToPosEx(index, g.chunkRadius)
}

// PosToIndexEx linearizes an in-domain position for the given chunk radius.
// Cells are ordered chunk by chunk: the high part of the index selects the
// chunk, the low part the offset inside it. Pure and allocation free.
func PosToIndexEx(pos Vec3, chunkRadius int) int {
	cx, lx := pos.X/ChunkSize, pos.X%ChunkSize
	cy, ly := pos.Y/ChunkSize, pos.Y%ChunkSize
	cz, lz := pos.Z/ChunkSize, pos.Z%ChunkSize

	chunkIndex := (cz*chunkRadius+cy)*chunkRadius + cx
	offset := (lz*ChunkSize+ly)*ChunkSize + lx
	return chunkIndex*ChunkCellCount + offset
}

// IndexToPosEx is the inverse of PosToIndexEx.
func IndexToPosEx(index int, chunkRadius int) Vec3 {
	chunkIndex := index / ChunkCellCount
	local := OffsetToPos(index % ChunkCellCount)

	cx := chunkIndex % chunkRadius
	cy := chunkIndex / chunkRadius % chunkRadius
	cz := chunkIndex / (chunkRadius * chunkRadius)

	return Vec3{
		X: cx*ChunkSize + local.X,
		Y: cy*ChunkSize + local.Y,
		Z: cz*ChunkSize + local.Z,
	}
}

// IndexToChunk extracts the chunk ordinal from a flat cell index.
func IndexToChunk(index int) int {
	return index / ChunkCellCount
}

// IndexToOffset extracts the in-chunk offset from a flat cell index.
func IndexToOffset(index int) int {
	return index % ChunkCellCount
}

// CellAt resolves a flat cell index against a chunk collection.
func CellAt(chunks []*Chunk, index int) *Cell {
	return &chunks[IndexToChunk(index)].Cells[IndexToOffset(index)]
}
