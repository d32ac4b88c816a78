package tacc

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestScopeArenaDeclare(t *testing.T) {
	var a scopeArena

	root := a.push(NoScope)
	be.Equal(t, root, ScopeID(0))

	be.True(t, a.declare(root, "x"))
	be.True(t, a.declare(root, "y"))
	be.True(t, !a.declare(root, "x"))
}

func TestScopeArenaLookup(t *testing.T) {
	var a scopeArena

	root := a.push(NoScope)
	a.declare(root, "x")

	inner := a.push(root)
	a.declare(inner, "y")

	id, ok := a.lookup(inner, "x")
	be.True(t, ok)
	be.Equal(t, id, root)

	id, ok = a.lookup(inner, "y")
	be.True(t, ok)
	be.Equal(t, id, inner)

	_, ok = a.lookup(root, "y")
	be.True(t, !ok)

	id, ok = a.lookup(inner, "z")
	be.True(t, !ok)
	be.Equal(t, id, NoScope)
}

func TestScopeArenaShadowing(t *testing.T) {
	var a scopeArena

	root := a.push(NoScope)
	a.declare(root, "x")

	inner := a.push(root)
	be.True(t, a.declare(inner, "x"))

	id, _ := a.lookup(inner, "x")
	be.Equal(t, id, inner)
}

// A popped scope's slot is reused by the next push, and its names are gone.
func TestScopeArenaReuse(t *testing.T) {
	var a scopeArena

	root := a.push(NoScope)

	first := a.push(root)
	a.declare(first, "tmp")
	a.pop(first)
	be.Equal(t, a.depth(), 1)

	second := a.push(root)
	be.Equal(t, second, first)
	be.Equal(t, len(a.records), 2)

	_, ok := a.lookup(second, "tmp")
	be.True(t, !ok)
	be.True(t, a.declare(second, "tmp"))
}

func TestScopeArenaPopOutOfOrder(t *testing.T) {
	var a scopeArena

	root := a.push(NoScope)
	a.push(root)

	defer func() {
		r := recover()
		be.True(t, r != nil)
		be.Equal(t, r.(string), "scope popped out of order")
	}()

	a.pop(root)
}
