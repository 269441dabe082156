package dag

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// Topo is a leaf-first order. Each batch only depends on earlier ones.
type Topo struct {
	Order   []NodeID   // линейный порядок (только присутствующие узлы)
	Batches [][]NodeID // волны независимых определений
	Cyclic  bool
	Cycles  []NodeID // узлы, оставшиеся в цикле
}

func ToposortKahn(g Graph) *Topo {
	nodeCount := len(g.Edges)
	indeg := make([]int, len(g.Indeg))
	copy(indeg, g.Indeg)

	topo := &Topo{
		Order:   make([]NodeID, 0, nodeCount),
		Batches: make([][]NodeID, 0),
	}

	active := 0
	for i := range nodeCount {
		if g.Present[i] {
			active++
		}
	}

	current := make([]NodeID, 0, nodeCount)
	for i := range nodeCount {
		if !g.Present[i] {
			continue
		}
		if indeg[i] == 0 {
			mID, err := safecast.Conv[NodeID](i)
			if err != nil {
				panic(fmt.Errorf("node id overflow: %w", err))
			}
			current = append(current, mID)
		}
	}
	slices.Sort(current)

	visited := 0
	for len(current) > 0 {
		batch := make([]NodeID, len(current))
		copy(batch, current)
		topo.Batches = append(topo.Batches, batch)

		next := make([]NodeID, 0)
		for _, id := range batch {
			topo.Order = append(topo.Order, id)
			visited++
			for _, to := range g.Edges[int(id)] {
				if !g.Present[int(to)] {
					continue
				}
				indeg[int(to)]--
				if indeg[int(to)] == 0 {
					next = append(next, to)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if visited != active {
		topo.Cyclic = true
		for i := range nodeCount {
			if !g.Present[i] {
				continue
			}
			if indeg[i] > 0 {
				mID, err := safecast.Conv[NodeID](i)
				if err != nil {
					panic(fmt.Errorf("node id overflow: %w", err))
				}
				topo.Cycles = append(topo.Cycles, mID)
			}
		}
		slices.Sort(topo.Cycles)
	}

	return topo
}

// Order is the leaf-first ordering of a dependency map.
type Order struct {
	Levels  [][]string
	Cycles  []string
	Missing map[string][]string
}

// Sort orders the definitions of deps so that every definition follows
// the ones it instantiates.
func Sort(deps map[string][]string) Order {
	idx := BuildIndex(deps)
	g, missing := BuildGraph(idx, deps)
	topo := ToposortKahn(g)
	out := Order{Missing: missing, Cycles: idx.Names(topo.Cycles)}
	for _, b := range topo.Batches {
		out.Levels = append(out.Levels, idx.Names(b))
	}
	return out
}
