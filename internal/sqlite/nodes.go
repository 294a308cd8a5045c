package sqlite

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/binctl/pkg/types"
)

// CreateNode inserts a node, links it to its parent and attaches its tags in
// one transaction. The parent is validated before any write; an unknown tag
// rolls back the node row and the edge.
func (b *Backend) CreateNode(ctx context.Context, in types.NodeCreate) (*types.NodeAggregate, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}

	var agg *types.NodeAggregate
	err = b.WithTx(ctx, func(tx *Tx) error {
		if in.ParentID != nil {
			if err := tx.Hierarchy.ValidateParent(ctx, *in.ParentID, ""); err != nil {
				return err
			}
		}

		ts := now()
		node := &types.Node{
			ID:          id,
			Label:       in.Label,
			Description: in.Description,
			IsContainer: in.IsContainer,
			CreatedAt:   ts,
			UpdatedAt:   ts,
		}
		if err := tx.nodes.insert(ctx, node); err != nil {
			return err
		}

		if in.ParentID != nil {
			if err := tx.Hierarchy.SetParent(ctx, id, in.ParentID); err != nil {
				return err
			}
		}

		if len(in.TagIDs) > 0 {
			if err := tx.Tags.ReplaceTags(ctx, id, in.TagIDs); err != nil {
				return err
			}
		}

		var err error
		agg, err = tx.Reader.GetAggregate(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("creating node: %w", err)
	}
	return agg, nil
}

// UpdateNode applies a presence-based patch in one transaction: parent
// validation, then core fields, then the edge, then the tag set. Fields the
// patch does not set are left alone. A null ParentID detaches the node; a
// null TagIDs clears its tags.
func (b *Backend) UpdateNode(ctx context.Context, id string, patch types.NodePatch) (*types.NodeAggregate, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	var agg *types.NodeAggregate
	err := b.WithTx(ctx, func(tx *Tx) error {
		ok, err := tx.nodes.exists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("node %s: %w", id, types.ErrNotFound)
		}

		if patch.ParentID.HasValue() {
			if err := tx.Hierarchy.ValidateParent(ctx, *patch.ParentID.Value(), id); err != nil {
				return err
			}
		}

		if patch.HasFieldChanges() {
			if err := tx.nodes.update(ctx, id, patch); err != nil {
				return err
			}
		}

		if patch.ParentID.IsSet() {
			if err := tx.Hierarchy.SetParent(ctx, id, patch.ParentID.Value()); err != nil {
				return err
			}
		}

		if patch.TagIDs.IsSet() {
			var tagIDs []string
			if patch.TagIDs.HasValue() {
				tagIDs = *patch.TagIDs.Value()
			}
			if err := tx.Tags.ReplaceTags(ctx, id, tagIDs); err != nil {
				return err
			}
		}

		agg, err = tx.Reader.GetAggregate(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("updating node %s: %w", id, err)
	}
	return agg, nil
}

// GetNode returns the aggregate view of a node read from one snapshot.
func (b *Backend) GetNode(ctx context.Context, id string) (*types.NodeAggregate, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}

	var agg *types.NodeAggregate
	err := b.WithSnapshot(ctx, func(q DBTX) error {
		var err error
		agg, err = NewAggregateReader(q).GetAggregate(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return agg, nil
}

// ListNodes returns every node ordered by id.
func (b *Backend) ListNodes(ctx context.Context) ([]types.Node, error) {
	var nodes []types.Node
	err := b.WithSnapshot(ctx, func(q DBTX) error {
		var err error
		nodes, err = nodeRows{q: q}.list(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return nodes, nil
}
