package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/binctl/pkg/types"
)

const tagColumns = "tag_id, name, created_at, updated_at"

// tagRows reads and writes the tags table. Name uniqueness is left to the
// UNIQUE constraint; a violation surfaces as types.ErrConflict.
type tagRows struct {
	q DBTX
}

func (tr tagRows) get(ctx context.Context, id string) (*types.Tag, error) {
	row := tr.q.QueryRowContext(ctx,
		"SELECT "+tagColumns+" FROM tags WHERE tag_id = ?", id,
	)
	tag, err := hydrateTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tag %s: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return nil, wrapErr("getting tag "+id, err)
	}
	return tag, nil
}

func (tr tagRows) insert(ctx context.Context, t *types.Tag) error {
	_, err := tr.q.ExecContext(ctx,
		"INSERT INTO tags ("+tagColumns+") VALUES (?, ?, ?, ?)",
		t.ID, t.Name, formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
	)
	return wrapErr(fmt.Sprintf("inserting tag %q", t.Name), err)
}

func (tr tagRows) rename(ctx context.Context, id, name string) error {
	res, err := tr.q.ExecContext(ctx,
		"UPDATE tags SET name = ?, updated_at = ? WHERE tag_id = ?",
		name, formatTime(now()), id,
	)
	if err != nil {
		return wrapErr(fmt.Sprintf("renaming tag to %q", name), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr("renaming tag", err)
	}
	if n == 0 {
		return fmt.Errorf("tag %s: %w", id, types.ErrNotFound)
	}
	return nil
}

func (tr tagRows) list(ctx context.Context) ([]types.Tag, error) {
	rows, err := tr.q.QueryContext(ctx,
		"SELECT "+tagColumns+" FROM tags ORDER BY name",
	)
	if err != nil {
		return nil, wrapErr("fetching tags", err)
	}
	defer rows.Close()

	tags := []types.Tag{}
	for rows.Next() {
		t, err := hydrateTag(rows)
		if err != nil {
			return nil, wrapErr("hydrating tag", err)
		}
		tags = append(tags, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterating tags", err)
	}
	return tags, nil
}

// nodesOf returns the nodes tagged with tagID ordered by node id.
func (tr tagRows) nodesOf(ctx context.Context, tagID string) ([]types.Node, error) {
	rows, err := tr.q.QueryContext(ctx, `
		SELECT n.node_id, n.label, n.description, n.is_container, n.created_at, n.updated_at
		FROM tag_nodes tn
		JOIN nodes n ON n.node_id = tn.node_id
		WHERE tn.tag_id = ?
		ORDER BY n.node_id`,
		tagID,
	)
	if err != nil {
		return nil, wrapErr("fetching tagged nodes", err)
	}
	defer rows.Close()

	nodes := []types.Node{}
	for rows.Next() {
		n, err := hydrateNode(rows)
		if err != nil {
			return nil, wrapErr("hydrating tagged node", err)
		}
		nodes = append(nodes, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterating tagged nodes", err)
	}
	return nodes, nil
}

// hydrateTag converts a row holding tagColumns into a *types.Tag.
func hydrateTag(scanner interface{ Scan(dest ...any) error }) (*types.Tag, error) {
	var t types.Tag
	var createdAt, updatedAt string
	if err := scanner.Scan(&t.ID, &t.Name, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &t, nil
}
