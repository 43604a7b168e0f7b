package schema

// Node is an element of a document tree that carries an identity.
type Node interface {
	// IDFields returns the canonical identity field and the deprecated one
	// older documents used in its place.
	IDFields() (id, deprecated *string)
	// ChildNodes returns the children of the node in document order.
	ChildNodes() []Node
}
