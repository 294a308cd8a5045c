package types

import "context"

// Store is the backend-agnostic entry point used by request handlers.
// Mutating methods run in a single transaction each: they either apply every
// change or none.
type Store interface {
	// Attach connects the Store to the backend described by config.
	// Creates the DataDir if it does not exist. Returns ErrAlreadyAttached
	// if called while attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent. After Detach every
	// operation returns ErrStoreDetached.
	Detach() error

	// CreateNode validates the parent, inserts the node row, links it to
	// its parent and attaches its tags. Returns the new node's aggregate.
	CreateNode(ctx context.Context, in NodeCreate) (*NodeAggregate, error)

	// UpdateNode applies a presence-based patch. Returns ErrNotFound if the
	// node does not exist.
	UpdateNode(ctx context.Context, id string, patch NodePatch) (*NodeAggregate, error)

	// GetNode returns the aggregate view of a node.
	GetNode(ctx context.Context, id string) (*NodeAggregate, error)

	// ListNodes returns every node ordered by id.
	ListNodes(ctx context.Context) ([]Node, error)

	// CreateTag inserts a tag. Returns ErrConflict if the name is taken.
	CreateTag(ctx context.Context, name string) (*Tag, error)

	// RenameTag changes a tag's name. Returns ErrNotFound or ErrConflict.
	RenameTag(ctx context.Context, id, name string) (*Tag, error)

	// GetTag returns a tag with the nodes it is attached to.
	GetTag(ctx context.Context, id string) (*TagDetail, error)

	// ListTags returns every tag ordered by name.
	ListTags(ctx context.Context) ([]Tag, error)
}
