package types

import "time"

// Tag is a named label that can be attached to any number of nodes.
type Tag struct {
	ID        string    `json:"id"`   // UUID v7, generated on creation.
	Name      string    `json:"name"` // Unique, non-empty.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TagRef is the short form of a tag embedded in a node aggregate.
type TagRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TagDetail is a tag together with the nodes it is attached to, ordered by
// node id.
type TagDetail struct {
	Tag
	Nodes []Node `json:"nodes"`
}
