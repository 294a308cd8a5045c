package sqlite

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/binctl/pkg/types"
)

// AggregateReader composes the read view of a node. It only reads.
type AggregateReader struct {
	nodes     nodeRows
	hierarchy *Hierarchy
	tags      *TagAssociations
}

// NewAggregateReader binds an AggregateReader to q. Pass a snapshot
// connection (Backend.WithSnapshot) or a transaction so the four queries
// see one consistent state.
func NewAggregateReader(q DBTX) *AggregateReader {
	return &AggregateReader{
		nodes:     nodeRows{q: q},
		hierarchy: NewHierarchy(q),
		tags:      NewTagAssociations(q),
	}
}

// GetAggregate returns the node's core fields, parent id, direct children
// and tags. Returns types.ErrNotFound if the node does not exist; any other
// failure stops the composition and is returned unchanged.
func (r *AggregateReader) GetAggregate(ctx context.Context, nodeID string) (*types.NodeAggregate, error) {
	node, err := r.nodes.get(ctx, nodeID)
	if err != nil {
		return nil, err
	}

	parentID, err := r.hierarchy.ParentOf(ctx, nodeID)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", nodeID, err)
	}

	children, err := r.hierarchy.ChildrenOf(ctx, nodeID)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", nodeID, err)
	}

	tags, err := r.tags.TagsOf(ctx, nodeID)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", nodeID, err)
	}

	return &types.NodeAggregate{
		Node:     *node,
		ParentID: parentID,
		Children: children,
		Tags:     tags,
	}, nil
}
