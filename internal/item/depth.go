package item

// ResolveDepth reports how many nesting levels of containers sit below the
// given id. members returns the member ids of a container, or nil for a
// plain item.
//
// Groups may contain groups and scenes may reference each other through
// their events, so the membership graph can be cyclic. A visited set stops
// the walk: a container reached twice contributes no further depth instead
// of recursing forever.
func ResolveDepth(id ID, members func(ID) []ID) int {
	return resolveDepth(id, members, map[ID]struct{}{})
}

func resolveDepth(id ID, members func(ID) []ID, visited map[ID]struct{}) int {
	if _, seen := visited[id]; seen {
		return 0
	}
	visited[id] = struct{}{}
	defer delete(visited, id)

	deepest := 0
	for _, member := range members(id) {
		if member == id {
			// A container never counts itself.
			continue
		}
		if d := resolveDepth(member, members, visited); d+1 > deepest {
			deepest = d + 1
		}
	}
	return deepest
}
