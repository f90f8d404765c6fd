package validator

// Group tags a constraint with the validation context it belongs to.
type Group string

// Default is the implicit group of every constraint declared without groups.
// It is always active.
const Default Group = "default"

// GroupSet is the set of groups active for one evaluation.
type GroupSet map[Group]struct{}

// Groups builds a GroupSet from gs.
func Groups(gs ...Group) GroupSet {
	set := make(GroupSet, len(gs))
	for _, g := range gs {
		set[g] = struct{}{}
	}
	return set
}

// Has reports whether g is active. Default is always active.
func (s GroupSet) Has(g Group) bool {
	if g == Default {
		return true
	}
	_, ok := s[g]
	return ok
}

// selects reports whether a constraint scoped to groups must run.
func (s GroupSet) selects(groups []Group) bool {
	if len(groups) == 0 {
		return true
	}
	for _, g := range groups {
		if s.Has(g) {
			return true
		}
	}
	return false
}
