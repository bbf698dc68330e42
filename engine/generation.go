package engine

import (
	"time"

	"github.com/pthm-cable/lattice/grid"
	"github.com/pthm-cable/lattice/rule"
)

// StepStats summarizes one completed generation.
type StepStats struct {
	Spawns int
	Deaths int

	// Wall-clock time spent in each phase.
	ValuesDuration     time.Duration
	NeighboursDuration time.Duration
}

// valueResult is the output of one value-phase task: the chunk it owned
// plus the lifecycle edges it recorded.
type valueResult struct {
	chunk  *grid.Chunk
	spawns []int
	deaths []int
}

// Step advances the automaton by one generation.
//
// Phase 1 detaches the chunk collection from the grid and forks one value
// task per chunk. Each task exclusively owns its chunk: it reads neighbour
// counters (relaxed loads) and writes ages, so no cross-chunk
// synchronization is needed. The join is the barrier; after it the chunks
// are reattached.
//
// Phase 2 takes a shared view and forks one propagation task per chunk.
// Tasks mutate neighbour counters through the shared view: border cells go
// through atomics because several tasks can target them, interior cells use
// plain arithmetic because only the owning chunk's task can reach them (the
// offset reach is capped at rule.BorderRadius). The final join publishes
// this generation's counters to the next generation's value phase.
func (e *Engine) Step(r rule.Rule, pool *Pool) StepStats {
	e.grid.Resize(r.BoundingSize)

	valuesStart := time.Now()
	chunkList, _ := e.grid.Detach()

	valueTasks := make([]*Task[valueResult], len(chunkList))
	for i, chunk := range chunkList {
		chunk := chunk
		taskRule := r
		valueTasks[i] = Spawn(pool, func() valueResult {
			spawns, deaths := updateValues(chunk, taskRule)
			return valueResult{chunk: chunk, spawns: spawns, deaths: deaths}
		})
	}

	spawns := make([][]int, len(chunkList))
	deaths := make([][]int, len(chunkList))
	var stats StepStats
	for i, task := range valueTasks {
		res := task.Join()
		chunkList[i] = res.chunk
		spawns[i] = res.spawns
		deaths[i] = res.deaths
		stats.Spawns += len(res.spawns)
		stats.Deaths += len(res.deaths)
	}

	e.grid.Reattach(chunkList)
	stats.ValuesDuration = time.Since(valuesStart)

	neighboursStart := time.Now()
	e.grid.View(func(chunks []*grid.Chunk, chunkRadius int) {
		propagateTasks := make([]*Task[struct{}], len(chunks))
		for i := range chunks {
			chunkIndex := i
			taskRule := r
			chunkSpawns := spawns[i]
			chunkDeaths := deaths[i]
			propagateTasks[i] = Spawn(pool, func() struct{} {
				for _, offset := range chunkSpawns {
					updateNeighbours(chunks, chunkIndex, chunkRadius, taskRule, offset, true)
				}
				for _, offset := range chunkDeaths {
					updateNeighbours(chunks, chunkIndex, chunkRadius, taskRule, offset, false)
				}
				return struct{}{}
			})
		}
		for _, task := range propagateTasks {
			task.Join()
		}
	})
	stats.NeighboursDuration = time.Since(neighboursStart)

	return stats
}

// updateValues runs the value phase over a single exclusively-owned chunk.
// Dead cells with an accepted neighbour count become mature and are
// recorded as spawns. Live cells that are already decaying, or mature cells
// failing the survival predicate, lose one age step; the mature-to-decaying
// edge is recorded as a death. Counters are only read here, never written.
func updateValues(chunk *grid.Chunk, r rule.Rule) (spawns, deaths []int) {
	for offset := range chunk.Cells {
		cell := &chunk.Cells[offset]
		if cell.IsDead() {
			if r.Birth.InRange(cell.LoadNeighbours()) {
				cell.Value = r.States
				spawns = append(spawns, offset)
			}
		} else if cell.Value < r.States || !r.Survival.InRange(cell.LoadNeighbours()) {
			if cell.Value == r.States {
				deaths = append(deaths, offset)
			}
			cell.Value--
		}
	}
	return spawns, deaths
}

// updateNeighbours propagates one spawn or death event to the source cell's
// neighbourhood.
//
// Border source cells resolve neighbours through the full wrap-and-global-
// index path, since the target may live in another chunk and be hit by
// other tasks concurrently: those updates are atomic. Ordering stays
// relaxed; no task reads a counter again until every propagation task has
// joined, so atomicity of each add is all correctness needs.
//
// Interior source cells can only reach cells of their own chunk (offset
// magnitudes are capped at rule.BorderRadius and checked at rule build
// time), and each chunk has exactly one propagation task, so the plain
// non-atomic path is safe and faster.
func updateNeighbours(chunks []*grid.Chunk, chunkIndex, chunkRadius int, r rule.Rule, offset int, inc bool) {
	local := grid.OffsetToPos(offset)

	if grid.IsBorderPos(local, rule.BorderRadius) {
		pos := grid.IndexToPosEx(chunkIndex*grid.ChunkCellCount+offset, chunkRadius)
		size := chunkRadius * grid.ChunkSize
		for _, dir := range r.Neighbourhood.Offsets() {
			npos := grid.Wrap(pos.Add(dir), size)
			cell := grid.CellAt(chunks, grid.PosToIndexEx(npos, chunkRadius))
			if inc {
				cell.AddNeighbour()
			} else {
				cell.SubNeighbour()
			}
		}
		return
	}

	cells := &chunks[chunkIndex].Cells
	for _, dir := range r.Neighbourhood.Offsets() {
		noff := grid.PosToOffset(local.Add(dir))
		if inc {
			cells[noff].Neighbours++
		} else {
			cells[noff].Neighbours--
		}
	}
}
