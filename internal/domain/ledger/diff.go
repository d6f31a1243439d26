package ledger

// FieldChanges holds the before/after values of the fields touched by one
// entity mutation. Entries are recorded per field with defined semantics: an
// empty set means "no changes" and the operation layer rejects it as a no-op.
type FieldChanges struct {
	From map[string]any `json:"from,omitempty"`
	To   map[string]any `json:"to,omitempty"`
}

// NewFieldChanges returns an empty change set ready to record into.
func NewFieldChanges() FieldChanges {
	return FieldChanges{
		From: make(map[string]any),
		To:   make(map[string]any),
	}
}

// Record notes a single field transition.
func (f FieldChanges) Record(field string, from, to any) {
	f.From[field] = from
	f.To[field] = to
}

// IsEmpty reports whether no field transitions were recorded.
func (f FieldChanges) IsEmpty() bool {
	return len(f.From) == 0 && len(f.To) == 0
}

// ChangesForCreate describes a freshly created entity: no prior state, the
// full snapshot as the new state.
func ChangesForCreate(snapshot map[string]any) FieldChanges {
	return FieldChanges{To: snapshot}
}

// ChangesForDelete describes a removed entity: the full prior snapshot, no
// new state.
func ChangesForDelete(snapshot map[string]any) FieldChanges {
	return FieldChanges{From: snapshot}
}
