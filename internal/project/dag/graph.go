package dag

import "slices"

// Graph has an edge from every used definition to each definition that
// instantiates it. Names that are only used are absent.
type Graph struct {
	Edges   [][]NodeID // Edges[from] = []to
	Indeg   []int      // входящие степени для Kahn, только по присутствующим узлам
	Present []bool
}

// BuildGraph builds the graph for deps, which maps each definition to
// the names it instantiates. Self-instantiation is left to elaboration.
// Missing returns, per definition, the used names that are absent.
func BuildGraph(idx Index, deps map[string][]string) (g Graph, missing map[string][]string) {
	n := len(idx.IDToName)
	g = Graph{
		Edges:   make([][]NodeID, n),
		Indeg:   make([]int, n),
		Present: make([]bool, n),
	}
	for name := range deps {
		if id, ok := idx.NameToID[name]; ok {
			g.Present[id] = true
		}
	}
	missing = make(map[string][]string)
	for user, uses := range deps {
		to, ok := idx.NameToID[user]
		if !ok {
			continue
		}
		seen := make(map[NodeID]bool, len(uses))
		for _, u := range uses {
			from, ok := idx.NameToID[u]
			if !ok || from == to || seen[from] {
				continue
			}
			seen[from] = true
			if !g.Present[from] {
				missing[user] = append(missing[user], u)
				continue
			}
			g.Edges[from] = append(g.Edges[from], to)
			g.Indeg[to]++
		}
		slices.Sort(missing[user])
	}
	for i := range g.Edges {
		slices.Sort(g.Edges[i])
	}
	for k, v := range missing {
		if len(v) == 0 {
			delete(missing, k)
		}
	}
	return g, missing
}
