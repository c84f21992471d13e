package axiom

// ChangeOp is the kind of a knowledge-base mutation.
type ChangeOp string

const (
	OpAdd    ChangeOp = "add"
	OpRemove ChangeOp = "remove"
)

// Change is one axiom added to or removed from a unit. Switching a unit
// off reports its axioms as removed; switching it on reports them as added.
type Change struct {
	Op    ChangeOp `json:"op"`
	Unit  string   `json:"unit"`
	Axiom Axiom    `json:"axiom"`
}

// ChangeListener receives every batch of changes applied to a knowledge
// base. Batches are delivered synchronously, in the order they were applied.
type ChangeListener interface {
	AxiomsChanged(changes []Change)
}

// ChangeListenerFunc adapts a function to ChangeListener. Register a
// pointer to it if the listener must later be removed.
type ChangeListenerFunc func(changes []Change)

// AxiomsChanged implements ChangeListener.
func (f ChangeListenerFunc) AxiomsChanged(changes []Change) { f(changes) }

// Unit is a named group of axioms, the analogue of one loaded ontology.
type Unit interface {
	Name() string
	Axioms() []Axiom
}
