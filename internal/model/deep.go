package model

import "github.com/wexinc/portshell/internal/atom"

// DeepDependencies returns the keys reachable from r through active
// dependencies whose status is a change. Each package is expanded at most
// once per path, so cycles terminate.
func DeepDependencies(r *Record) atom.KeySet {
	return deep(r, atom.NewKeySet())
}

func deep(r *Record, visited atom.KeySet) atom.KeySet {
	result := atom.NewKeySet()
	if visited.Has(r.Key()) {
		return result
	}
	visited.Add(r.Key())
	defer delete(visited, r.Key())

	for _, d := range r.Deps() {
		if !d.Active || !ChangeStatuses[Classify(d)] {
			continue
		}
		result.Add(d.Key)
		if d.Best != nil {
			result.Union(deep(d.Best, visited))
		}
	}
	return result
}
