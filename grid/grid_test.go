package grid

import (
	"testing"
)

func TestWrapCoord(t *testing.T) {
	tests := []struct {
		name string
		p    int
		size int
		want int
	}{
		{"in range", 5, 16, 5},
		{"zero", 0, 16, 0},
		{"at size", 16, 16, 0},
		{"negative one", -1, 16, 15},
		{"negative wrap", -17, 16, 15},
		{"double wrap", 33, 16, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WrapCoord(tt.p, tt.size); got != tt.want {
				t.Errorf("WrapCoord(%d, %d) = %d, want %d", tt.p, tt.size, got, tt.want)
			}
		})
	}
}

func TestWrapAllAxes(t *testing.T) {
	size := 32

	// A cell at the far face plus a +1 offset lands on the near face,
	// and a cell at the near face minus 1 lands on the far face.
	for axis := 0; axis < 3; axis++ {
		edge := Vec3{}
		offset := Vec3{}
		switch axis {
		case 0:
			edge.X, offset.X = size-1, 1
		case 1:
			edge.Y, offset.Y = size-1, 1
		case 2:
			edge.Z, offset.Z = size-1, 1
		}

		got := Wrap(edge.Add(offset), size)
		if got != (Vec3{}) {
			t.Errorf("axis %d: wrap(%v + %v) = %v, want origin", axis, edge, offset, got)
		}

		got = Wrap(Vec3{}.Sub(offset), size)
		if got != edge {
			t.Errorf("axis %d: wrap(origin - %v) = %v, want %v", axis, offset, got, edge)
		}
	}
}

func TestChunkOffsetRoundtrip(t *testing.T) {
	for offset := 0; offset < ChunkCellCount; offset++ {
		local := OffsetToPos(offset)
		if local.X < 0 || local.X >= ChunkSize ||
			local.Y < 0 || local.Y >= ChunkSize ||
			local.Z < 0 || local.Z >= ChunkSize {
			t.Fatalf("offset %d maps outside chunk: %v", offset, local)
		}
		if back := PosToOffset(local); back != offset {
			t.Fatalf("roundtrip failed: %d -> %v -> %d", offset, local, back)
		}
	}
}

func TestIsBorderOffset(t *testing.T) {
	tests := []struct {
		name   string
		local  Vec3
		radius int
		want   bool
	}{
		{"corner", Vec3{0, 0, 0}, 1, true},
		{"far corner", Vec3{ChunkSize - 1, ChunkSize - 1, ChunkSize - 1}, 1, true},
		{"one face", Vec3{0, 5, 5}, 1, true},
		{"one off a face", Vec3{1, 1, 1}, 1, true},
		{"one off the far face", Vec3{ChunkSize - 2, 5, 5}, 1, true},
		{"two off a face", Vec3{2, 5, 5}, 1, false},
		{"deep interior", Vec3{ChunkSize / 2, ChunkSize / 2, ChunkSize / 2}, 1, false},
		{"radius two", Vec3{2, 5, 5}, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBorderOffset(PosToOffset(tt.local), tt.radius); got != tt.want {
				t.Errorf("IsBorderOffset(%v, %d) = %v, want %v", tt.local, tt.radius, got, tt.want)
			}
		})
	}
}

// Non-border source cells must only reach targets that lie strictly inside
// their own chunk and off every face. Face cells are the only cells a
// neighbouring chunk can write to, so this disjointness is what makes the
// plain interior propagation path safe.
func TestInteriorReachStaysOffFaces(t *testing.T) {
	radius := 1

	var offsets []Vec3
	for z := -radius; z <= radius; z++ {
		for y := -radius; y <= radius; y++ {
			for x := -radius; x <= radius; x++ {
				if x == 0 && y == 0 && z == 0 {
					continue
				}
				offsets = append(offsets, Vec3{X: x, Y: y, Z: z})
			}
		}
	}

	for offset := 0; offset < ChunkCellCount; offset++ {
		if IsBorderOffset(offset, radius) {
			continue
		}
		local := OffsetToPos(offset)
		for _, dir := range offsets {
			target := local.Add(dir)
			if target.X <= 0 || target.X >= ChunkSize-1 ||
				target.Y <= 0 || target.Y >= ChunkSize-1 ||
				target.Z <= 0 || target.Z >= ChunkSize-1 {
				t.Fatalf("interior source %v reaches face cell %v via %v", local, target, dir)
			}
		}
	}
}

func TestPosIndexBijection(t *testing.T) {
	chunkRadius := 2
	size := chunkRadius * ChunkSize
	total := chunkRadius * chunkRadius * chunkRadius * ChunkCellCount

	seen := make([]bool, total)
	for z := 0; z < size; z++ {
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				pos := Vec3{x, y, z}
				index := PosToIndexEx(pos, chunkRadius)
				if index < 0 || index >= total {
					t.Fatalf("index out of range for %v: %d", pos, index)
				}
				if seen[index] {
					t.Fatalf("index %d hit twice, second time by %v", index, pos)
				}
				seen[index] = true

				if back := IndexToPosEx(index, chunkRadius); back != pos {
					t.Fatalf("roundtrip failed: %v -> %d -> %v", pos, index, back)
				}
			}
		}
	}
}

func TestIndexSplit(t *testing.T) {
	index := 5*ChunkCellCount + 123
	if got := IndexToChunk(index); got != 5 {
		t.Errorf("IndexToChunk = %d, want 5", got)
	}
	if got := IndexToOffset(index); got != 123 {
		t.Errorf("IndexToOffset = %d, want 123", got)
	}
}

func TestResizeRounding(t *testing.T) {
	tests := []struct {
		name    string
		request int
		want    int
	}{
		{"zero", 0, 0},
		{"one cell", 1, ChunkSize},
		{"exact chunk", ChunkSize, ChunkSize},
		{"one over", ChunkSize + 1, 2 * ChunkSize},
		{"three chunks", 3*ChunkSize - 1, 3 * ChunkSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewChunkGrid()
			if got := g.Resize(tt.request); got != tt.want {
				t.Errorf("Resize(%d) = %d, want %d", tt.request, got, tt.want)
			}
			if got := g.Size(); got != tt.want {
				t.Errorf("Size() after Resize(%d) = %d, want %d", tt.request, got, tt.want)
			}
		})
	}
}

func TestResizeClearsState(t *testing.T) {
	g := NewChunkGrid()
	g.Resize(ChunkSize)

	g.Exclusive(func(chunks []*Chunk, _ int) {
		chunks[0].Cells[42].Value = 3
		chunks[0].Cells[42].Neighbours = 7
	})

	// Growing reallocates; every cell must come back zeroed.
	g.Resize(2 * ChunkSize)
	g.View(func(chunks []*Chunk, _ int) {
		for ci, chunk := range chunks {
			for i := range chunk.Cells {
				c := &chunk.Cells[i]
				if c.Value != 0 || c.Neighbours != 0 {
					t.Fatalf("chunk %d cell %d not cleared: %+v", ci, i, *c)
				}
			}
		}
	})
}

func TestResizeSameSizeKeepsState(t *testing.T) {
	g := NewChunkGrid()
	g.Resize(ChunkSize)

	g.Exclusive(func(chunks []*Chunk, _ int) {
		chunks[0].Cells[7].Value = 5
	})

	// The engine resizes to the rule's bounding size every generation; an
	// unchanged effective size must not wipe the board.
	g.Resize(ChunkSize)
	g.View(func(chunks []*Chunk, _ int) {
		if chunks[0].Cells[7].Value != 5 {
			t.Fatal("resize to identical size discarded cell state")
		}
	})
}

func TestCenter(t *testing.T) {
	g := NewChunkGrid()
	g.Resize(2 * ChunkSize)
	want := Vec3{ChunkSize, ChunkSize, ChunkSize}
	if got := g.Center(); got != want {
		t.Errorf("Center() = %v, want %v", got, want)
	}
}

func TestDetachReattach(t *testing.T) {
	g := NewChunkGrid()
	g.Resize(ChunkSize)

	chunks, radius := g.Detach()
	if len(chunks) != 1 || radius != 1 {
		t.Fatalf("Detach returned %d chunks, radius %d", len(chunks), radius)
	}
	if got := g.ChunkCount(); got != 0 {
		t.Fatalf("grid still holds %d chunks while detached", got)
	}

	chunks[0].Cells[0].Value = 9
	g.Reattach(chunks)

	g.View(func(chunks []*Chunk, _ int) {
		if chunks[0].Cells[0].Value != 9 {
			t.Fatal("mutation during detach lost after reattach")
		}
	})
}
