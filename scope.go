package tacc

// ScopeID addresses a scope record in a scopeArena.
type ScopeID int

// NoScope is the parent of the root scope.
const NoScope ScopeID = -1

type scopeRecord struct {
	parent   ScopeID
	declared map[string]struct{}
}

// scopeArena stores the scope chain of one analysis pass. Scopes are
// pushed and popped in block order, so the live scopes are always a
// prefix of records; popped records keep their maps for reuse.
type scopeArena struct {
	records []scopeRecord
	live    int
}

// push opens a scope nested in parent and returns its ID.
func (a *scopeArena) push(parent ScopeID) ScopeID {
	id := ScopeID(a.live)

	if a.live < len(a.records) {
		r := &a.records[a.live]
		r.parent = parent
		clear(r.declared)
	} else {
		a.records = append(a.records, scopeRecord{
			parent:   parent,
			declared: map[string]struct{}{},
		})
	}

	a.live++

	return id
}

// pop releases the innermost scope. id must be the innermost live scope.
func (a *scopeArena) pop(id ScopeID) {
	if int(id) != a.live-1 {
		panic("scope popped out of order")
	}

	a.live--
}

// declare adds name to scope id. It reports false if name is already
// declared directly in that scope.
func (a *scopeArena) declare(id ScopeID, name string) bool {
	declared := a.records[id].declared

	if _, ok := declared[name]; ok {
		return false
	}

	declared[name] = struct{}{}

	return true
}

// lookup walks from id outward and returns the scope declaring name.
func (a *scopeArena) lookup(id ScopeID, name string) (ScopeID, bool) {
	for cur := id; cur != NoScope; cur = a.records[cur].parent {
		if _, ok := a.records[cur].declared[name]; ok {
			return cur, true
		}
	}

	return NoScope, false
}

// depth returns the number of live scopes.
func (a *scopeArena) depth() int {
	return a.live
}
