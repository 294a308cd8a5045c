package types

import "time"

// Node is the core row of an item in the hierarchy.
type Node struct {
	ID          string    `json:"id"`          // UUID v7, generated on creation.
	Label       string    `json:"label"`       // Human-readable label (required, non-empty).
	Description *string   `json:"description"` // Optional free text; nil when unset.
	IsContainer bool      `json:"is_container"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NodeSummary is the shape of a child entry in an aggregate view. It carries
// the child's own fields only; grandchildren are never expanded.
type NodeSummary = Node

// NodeAggregate is the composed read model of a node: its core fields, the
// resolved parent id, its direct children and its tags.
type NodeAggregate struct {
	Node
	ParentID *string       `json:"parent_id"`
	Children []NodeSummary `json:"children"`
	Tags     []TagRef      `json:"tags"`
}

// NodeCreate carries the input of a node creation request.
type NodeCreate struct {
	Label       string
	Description *string
	IsContainer bool
	ParentID    *string  // nil creates a root node.
	TagIDs      []string // empty creates an untagged node.
}

// Validate checks the fields that can be checked without the store.
func (c NodeCreate) Validate() error {
	if c.Label == "" {
		return ErrEmptyLabel
	}
	return nil
}

// NodePatch carries a presence-based node update. Only fields that are set
// are touched; see Optional for the three states of each field.
type NodePatch struct {
	Label       Optional[string]
	Description Optional[string]
	IsContainer Optional[bool]
	ParentID    Optional[string]
	TagIDs      Optional[[]string]
}

// HasChanges returns true if any field in the patch has been set.
func (p NodePatch) HasChanges() bool {
	return p.Label.IsSet() || p.Description.IsSet() || p.IsContainer.IsSet() ||
		p.ParentID.IsSet() || p.TagIDs.IsSet()
}

// HasFieldChanges returns true if the patch touches a column of the nodes row.
func (p NodePatch) HasFieldChanges() bool {
	return p.Label.IsSet() || p.Description.IsSet() || p.IsContainer.IsSet()
}

// Validate rejects a patch that would leave the node in an invalid state.
// An explicit empty or null label is an error; an omitted label is not.
// Null is not a valid value for IsContainer.
func (p NodePatch) Validate() error {
	if p.Label.IsSet() && (!p.Label.HasValue() || *p.Label.Value() == "") {
		return ErrEmptyLabel
	}
	if p.IsContainer.IsNull() {
		return ErrInvalidContainerFlag
	}
	return nil
}
