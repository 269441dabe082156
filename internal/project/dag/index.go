// Package dag orders definitions by their instantiation dependencies so
// leaves come before the definitions that use them.
package dag

import (
	"sort"
)

type NodeID uint32

type Index struct {
	NameToID map[string]NodeID
	IDToName []string
}

// собрать уникальные имена, sort.Strings, раздать ID по порядку
func BuildIndex(deps map[string][]string) Index {
	uniq := make(map[string]struct{}, len(deps))
	for name, uses := range deps {
		if name != "" {
			uniq[name] = struct{}{}
		}
		for _, u := range uses {
			if u != "" {
				uniq[u] = struct{}{}
			}
		}
	}

	names := make([]string, 0, len(uniq))
	for name := range uniq {
		names = append(names, name)
	}
	sort.Strings(names)

	nameToID := make(map[string]NodeID, len(names))
	for i, name := range names {
		nameToID[name] = NodeID(i)
	}

	return Index{
		NameToID: nameToID,
		IDToName: names,
	}
}

// Names maps ids back to names.
func (idx Index) Names(ids []NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = idx.IDToName[int(id)]
	}
	return out
}
