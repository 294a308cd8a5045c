package sqlite

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/binctl/pkg/types"
)

// CreateTag inserts a tag. A name already in use returns types.ErrConflict.
func (b *Backend) CreateTag(ctx context.Context, name string) (*types.Tag, error) {
	if name == "" {
		return nil, types.ErrEmptyName
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}

	ts := now()
	tag := &types.Tag{ID: id, Name: name, CreatedAt: ts, UpdatedAt: ts}
	err = b.WithTx(ctx, func(tx *Tx) error {
		return tx.tags.insert(ctx, tag)
	})
	if err != nil {
		return nil, fmt.Errorf("creating tag: %w", err)
	}
	return tag, nil
}

// RenameTag changes the name of a tag. Returns types.ErrNotFound for an
// unknown id and types.ErrConflict when the name belongs to another tag.
func (b *Backend) RenameTag(ctx context.Context, id, name string) (*types.Tag, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	if name == "" {
		return nil, types.ErrEmptyName
	}

	var tag *types.Tag
	err := b.WithTx(ctx, func(tx *Tx) error {
		if err := tx.tags.rename(ctx, id, name); err != nil {
			return err
		}
		var err error
		tag, err = tx.tags.get(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("renaming tag: %w", err)
	}
	return tag, nil
}

// GetTag returns a tag and the nodes it is attached to, ordered by node id.
func (b *Backend) GetTag(ctx context.Context, id string) (*types.TagDetail, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}

	var detail *types.TagDetail
	err := b.WithSnapshot(ctx, func(q DBTX) error {
		rows := tagRows{q: q}
		tag, err := rows.get(ctx, id)
		if err != nil {
			return err
		}
		nodes, err := rows.nodesOf(ctx, id)
		if err != nil {
			return err
		}
		detail = &types.TagDetail{Tag: *tag, Nodes: nodes}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// ListTags returns every tag ordered by name.
func (b *Backend) ListTags(ctx context.Context) ([]types.Tag, error) {
	var tags []types.Tag
	err := b.WithSnapshot(ctx, func(q DBTX) error {
		var err error
		tags, err = tagRows{q: q}.list(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}
