package typesystem

import (
	"sync"
)

// Engine is the type table of one compilation: an append-only arena of type
// entries addressed by TypeID. Entries are only ever rewritten by the unifier,
// which links an unresolved entry to another entry.
//
// The mutex serializes access so that units checked in parallel may share one
// engine; a single-threaded checker pays one uncontended lock per call.
type Engine struct {
	mu    sync.Mutex
	slots []TypeInfo
}

// NewEngine creates an empty type table.
func NewEngine() *Engine {
	// Slot 0 backs NoTypeID.
	return &Engine{slots: []TypeInfo{ErrorRecovery{}}}
}

// Insert appends a new entry and returns its handle.
func (e *Engine) Insert(t TypeInfo) TypeID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.insert(t)
}

func (e *Engine) insert(t TypeInfo) TypeID {
	if ref, ok := t.(Ref); ok {
		// Links are created by the unifier only; inserting one is the same as
		// using the target directly.
		return ref.Target
	}
	e.slots = append(e.slots, t)
	return TypeID(len(e.slots) - 1)
}

// LookUp returns the entry for id, following links to the end of the chain.
func (e *Engine) LookUp(id TypeID) TypeInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lookUp(id)
}

func (e *Engine) lookUp(id TypeID) TypeInfo {
	return e.slots[e.root(id)]
}

func (e *Engine) root(id TypeID) TypeID {
	if int(id) >= len(e.slots) {
		return NoTypeID
	}
	for {
		ref, ok := e.slots[id].(Ref)
		if !ok {
			return id
		}
		id = ref.Target
	}
}

// link resolves the entry at from to to. from must be a root.
func (e *Engine) link(from, to TypeID) {
	if from == NoTypeID || from == to {
		return
	}
	e.slots[from] = Ref{Target: to}
}

// Len returns the number of entries in the arena, including the reserved slot.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.slots)
}

// Common constructors, kept as methods so call sites read naturally.

func (e *Engine) InsertUnknown() TypeID { return e.Insert(Unknown{}) }
func (e *Engine) InsertUnit() TypeID    { return e.Insert(Unit{}) }
func (e *Engine) InsertBool() TypeID    { return e.Insert(Boolean{}) }
func (e *Engine) InsertB256() TypeID    { return e.Insert(B256{}) }
func (e *Engine) InsertU64() TypeID     { return e.Insert(UnsignedInteger{Bits: SixtyFour}) }

// InsertErrorRecovery returns a placeholder type for an expression that failed to check.
func (e *Engine) InsertErrorRecovery() TypeID { return e.Insert(ErrorRecovery{}) }

// TupleFields returns the field types if id resolves to a tuple.
func (e *Engine) TupleFields(id TypeID) ([]TypeArgument, bool) {
	t, ok := e.LookUp(id).(Tuple)
	if !ok {
		return nil, false
	}
	return t.Fields, true
}
