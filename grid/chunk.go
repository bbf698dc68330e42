package grid

const (
	// ChunkSize is the edge length of a chunk in cells.
	ChunkSize = 16
	// ChunkCellCount is the number of cells per chunk (ChunkSize cubed).
	ChunkCellCount = ChunkSize * ChunkSize * ChunkSize
)

// Chunk is a fixed-size contiguous block of cells, the unit of parallel work
// and of ownership transfer during the value phase.
type Chunk struct {
	Cells [ChunkCellCount]Cell
}

// OffsetToPos converts an in-chunk flat offset to local coordinates,
// each component in [0, ChunkSize).
func OffsetToPos(offset int) Vec3 {
	return Vec3{
		X: offset % ChunkSize,
		Y: offset / ChunkSize % ChunkSize,
		Z: offset / (ChunkSize * ChunkSize),
	}
}

// PosToOffset converts local coordinates to an in-chunk flat offset.
// The inverse of OffsetToPos for coordinates inside the chunk.
func PosToOffset(local Vec3) int {
	return (local.Z*ChunkSize+local.Y)*ChunkSize + local.X
}

// IsBorderPos reports whether local coordinates lie within radius cells of
// any chunk face. A source cell outside this band can only reach targets
// strictly inside its own chunk, off the faces foreign chunks touch, which
// is what licenses the non-atomic propagation path.
func IsBorderPos(local Vec3, radius int) bool {
	lo := radius
	hi := ChunkSize - 1 - radius
	return local.X <= lo || local.X >= hi ||
		local.Y <= lo || local.Y >= hi ||
		local.Z <= lo || local.Z >= hi
}

// IsBorderOffset is IsBorderPos for a flat in-chunk offset.
func IsBorderOffset(offset, radius int) bool {
	return IsBorderPos(OffsetToPos(offset), radius)
}

// Clear resets every cell in the chunk to dead with a zero counter.
func (c *Chunk) Clear() {
	for i := range c.Cells {
		c.Cells[i] = Cell{}
	}
}
