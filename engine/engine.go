// Package engine advances the 3D cellular automaton over the chunked
// toroidal grid. One generation is two fork/join rounds: a value phase over
// detached chunks, then a neighbour propagation phase over a shared view.
package engine

import (
	"fmt"

	"github.com/pthm-cable/lattice/grid"
	"github.com/pthm-cable/lattice/noisegen"
	"github.com/pthm-cable/lattice/rule"
)

// Engine is the facade over the chunk grid, exposing the queries and entry
// points the host loop consumes.
type Engine struct {
	grid *grid.ChunkGrid
}

// New returns an engine with an empty grid. The first Step or Resize
// allocates the domain.
func New() *Engine {
	return &Engine{grid: grid.NewChunkGrid()}
}

// Resize reallocates the domain to cover at least n cells per axis and
// returns the effective size. All cell state is discarded when the layout
// changes. Must not be called while a generation is in flight.
func (e *Engine) Resize(n int) int {
	return e.grid.Resize(n)
}

// Size returns the domain edge length in cells.
func (e *Engine) Size() int {
	return e.grid.Size()
}

// Center returns the domain midpoint.
func (e *Engine) Center() grid.Vec3 {
	return e.grid.Center()
}

// Reset discards the whole domain. The next Step reallocates it empty.
func (e *Engine) Reset() {
	e.grid.Resize(0)
}

// CellCount returns the number of cells with any age at all, mature or
// decaying.
func (e *Engine) CellCount() int {
	count := 0
	e.grid.View(func(chunks []*grid.Chunk, _ int) {
		for _, chunk := range chunks {
			for i := range chunk.Cells {
				if !chunk.Cells[i].IsDead() {
					count++
				}
			}
		}
	})
	return count
}

// SpawnNoise seeds the grid using the supplied generator, centered on the
// domain midpoint. Runs single-threaded under exclusive grid access; dead
// cells selected by the generator become mature and their neighbourhood
// counters are propagated immediately, exactly like a generation spawn.
// Returns the number of cells actually spawned.
func (e *Engine) SpawnNoise(r rule.Rule, gen noisegen.Generator) int {
	spawned := 0
	e.grid.Exclusive(func(chunks []*grid.Chunk, chunkRadius int) {
		size := chunkRadius * grid.ChunkSize
		if size == 0 {
			return
		}
		c := size / 2
		center := grid.Vec3{X: c, Y: c, Z: c}

		gen.Generate(center, func(pos grid.Vec3) {
			index := grid.PosToIndexEx(grid.Wrap(pos, size), chunkRadius)
			cell := grid.CellAt(chunks, index)
			if !cell.IsDead() {
				return
			}
			cell.Value = r.States
			updateNeighbours(chunks, grid.IndexToChunk(index), chunkRadius, r, grid.IndexToOffset(index), true)
			spawned++
		})
	})
	return spawned
}

// Instance is one renderable cell record, positioned relative to the grid
// center.
type Instance struct {
	Position [3]float32
	Scale    float32
	Color    rule.RGBA
}

// Render emits an instance for every non-dead cell, colored by the rule's
// color method.
func (e *Engine) Render(r rule.Rule) []Instance {
	var out []Instance
	e.grid.View(func(chunks []*grid.Chunk, chunkRadius int) {
		size := chunkRadius * grid.ChunkSize
		c := size / 2
		center := grid.Vec3{X: c, Y: c, Z: c}

		for chunkIndex, chunk := range chunks {
			for offset := range chunk.Cells {
				cell := &chunk.Cells[offset]
				if cell.IsDead() {
					continue
				}
				pos := grid.IndexToPosEx(chunkIndex*grid.ChunkCellCount+offset, chunkRadius)
				rel := pos.Sub(center)
				out = append(out, Instance{
					Position: [3]float32{float32(rel.X), float32(rel.Y), float32(rel.Z)},
					Scale:    1,
					Color: r.Color.Color(
						r.States,
						cell.Value,
						cell.LoadNeighbours(),
						grid.DistToCenter(pos, center, size),
					),
				})
			}
		}
	})
	return out
}

// Validate recomputes every cell's neighbour count from scratch and checks
// it against the maintained counter. Diagnostic only, never on the hot
// path: a mismatch is an engine bug and aborts with full context.
func (e *Engine) Validate(r rule.Rule) {
	e.grid.View(func(chunks []*grid.Chunk, chunkRadius int) {
		size := chunkRadius * grid.ChunkSize
		for index := 0; index < len(chunks)*grid.ChunkCellCount; index++ {
			pos := grid.IndexToPosEx(index, chunkRadius)

			var recomputed uint8
			for _, dir := range r.Neighbourhood.Offsets() {
				npos := grid.Wrap(pos.Add(dir), size)
				if grid.CellAt(chunks, grid.PosToIndexEx(npos, chunkRadius)).Value == r.States {
					recomputed++
				}
			}

			if maintained := grid.CellAt(chunks, index).LoadNeighbours(); maintained != recomputed {
				panic(fmt.Sprintf(
					"engine: neighbour counter corrupt at %v: maintained %d, recomputed %d",
					pos, maintained, recomputed,
				))
			}
		}
	})
}
