// Package types defines the Store interface, the node and tag entity types,
// the presence-aware Optional field type, and the standard error values for
// the binctl hierarchy store.
package types
