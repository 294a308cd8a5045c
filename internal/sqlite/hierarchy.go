package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/binctl/pkg/types"
)

// Hierarchy validates and mutates parent/child edges. It is the only writer
// of the edges table. It never commits; the caller owns the transaction.
type Hierarchy struct {
	q DBTX
}

// NewHierarchy binds a Hierarchy to q.
func NewHierarchy(q DBTX) *Hierarchy {
	return &Hierarchy{q: q}
}

// ValidateParent checks that parentID may become the parent of childID.
// childID may be empty when the child does not exist yet. It has no side
// effects.
func (h *Hierarchy) ValidateParent(ctx context.Context, parentID, childID string) error {
	if childID != "" && parentID == childID {
		return types.ErrInvalidParent
	}

	var isContainer bool
	err := h.q.QueryRowContext(ctx,
		"SELECT is_container FROM nodes WHERE node_id = ?", parentID,
	).Scan(&isContainer)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("parent_id %s: %w", parentID, types.ErrParentNotFound)
	}
	if err != nil {
		return wrapErr("looking up parent", err)
	}

	if !isContainer {
		return fmt.Errorf("parent_id %s: %w", parentID, types.ErrParentNotContainer)
	}
	return nil
}

// SetParent replaces the edge of childID. Any existing edge is deleted first
// (no error when there is none); a new edge is inserted when parentID is not
// nil. Detach and reparent share this one path. ValidateParent must have
// passed for the same pair in the same transaction.
func (h *Hierarchy) SetParent(ctx context.Context, childID string, parentID *string) error {
	if _, err := h.q.ExecContext(ctx,
		"DELETE FROM edges WHERE child_id = ?", childID,
	); err != nil {
		return wrapErr("removing edge", err)
	}

	if parentID == nil {
		return nil
	}

	if _, err := h.q.ExecContext(ctx,
		"INSERT INTO edges (child_id, parent_id, created_at) VALUES (?, ?, ?)",
		childID, *parentID, formatTime(now()),
	); err != nil {
		return wrapErr("inserting edge", err)
	}
	return nil
}

// ParentOf returns the parent of nodeID, or nil for a root.
func (h *Hierarchy) ParentOf(ctx context.Context, nodeID string) (*string, error) {
	var parentID string
	err := h.q.QueryRowContext(ctx,
		"SELECT parent_id FROM edges WHERE child_id = ?", nodeID,
	).Scan(&parentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("looking up parent", err)
	}
	return &parentID, nil
}

// ChildrenOf returns the direct children of nodeID ordered by id. A node
// without children yields an empty slice.
func (h *Hierarchy) ChildrenOf(ctx context.Context, nodeID string) ([]types.NodeSummary, error) {
	rows, err := h.q.QueryContext(ctx, `
		SELECT n.node_id, n.label, n.description, n.is_container, n.created_at, n.updated_at
		FROM edges e
		JOIN nodes n ON n.node_id = e.child_id
		WHERE e.parent_id = ?
		ORDER BY n.node_id`,
		nodeID,
	)
	if err != nil {
		return nil, wrapErr("fetching children", err)
	}
	defer rows.Close()

	children := []types.NodeSummary{}
	for rows.Next() {
		child, err := hydrateNode(rows)
		if err != nil {
			return nil, wrapErr("hydrating child", err)
		}
		children = append(children, *child)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterating children", err)
	}
	return children, nil
}
