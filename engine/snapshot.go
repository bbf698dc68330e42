package engine

import (
	"github.com/pthm-cable/lattice/grid"
	"github.com/pthm-cable/lattice/rule"
)

// CellState is one live cell in portable form.
type CellState struct {
	X     int   `json:"x"`
	Y     int   `json:"y"`
	Z     int   `json:"z"`
	Value uint8 `json:"value"`
}

// ExportCells extracts every live cell. Neighbour counters are omitted;
// they are derivable from the values and rebuilt on import.
func (e *Engine) ExportCells() []CellState {
	var out []CellState
	e.grid.View(func(chunks []*grid.Chunk, chunkRadius int) {
		for chunkIndex, chunk := range chunks {
			for offset := range chunk.Cells {
				cell := &chunk.Cells[offset]
				if cell.IsDead() {
					continue
				}
				pos := grid.IndexToPosEx(chunkIndex*grid.ChunkCellCount+offset, chunkRadius)
				out = append(out, CellState{X: pos.X, Y: pos.Y, Z: pos.Z, Value: cell.Value})
			}
		}
	})
	return out
}

// ImportCells clears the domain and installs the given cells, then rebuilds
// every neighbour counter from the mature population. Values above the
// rule's state count are clamped to mature. Returns the number of cells
// installed.
func (e *Engine) ImportCells(r rule.Rule, cells []CellState) int {
	restored := 0
	e.grid.Exclusive(func(chunks []*grid.Chunk, chunkRadius int) {
		size := chunkRadius * grid.ChunkSize
		if size == 0 {
			return
		}

		for _, chunk := range chunks {
			chunk.Clear()
		}

		for _, cs := range cells {
			if cs.Value == 0 {
				continue
			}
			pos := grid.Wrap(grid.Vec3{X: cs.X, Y: cs.Y, Z: cs.Z}, size)
			cell := grid.CellAt(chunks, grid.PosToIndexEx(pos, chunkRadius))
			if !cell.IsDead() {
				continue
			}
			value := cs.Value
			if value > r.States {
				value = r.States
			}
			cell.Value = value
			restored++
		}

		// Counters track mature neighbours only
		for chunkIndex, chunk := range chunks {
			for offset := range chunk.Cells {
				if chunk.Cells[offset].Value == r.States {
					updateNeighbours(chunks, chunkIndex, chunkRadius, r, offset, true)
				}
			}
		}
	})
	return restored
}
