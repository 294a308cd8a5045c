package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/binctl/pkg/types"
)

const nodeColumns = "node_id, label, description, is_container, created_at, updated_at"

// nodeRows reads and writes the core columns of the nodes table.
type nodeRows struct {
	q DBTX
}

func (nr nodeRows) get(ctx context.Context, id string) (*types.Node, error) {
	row := nr.q.QueryRowContext(ctx,
		"SELECT "+nodeColumns+" FROM nodes WHERE node_id = ?", id,
	)
	node, err := hydrateNode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("node %s: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return nil, wrapErr("getting node "+id, err)
	}
	return node, nil
}

func (nr nodeRows) exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := nr.q.QueryRowContext(ctx,
		"SELECT 1 FROM nodes WHERE node_id = ?", id,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, wrapErr("checking node existence", err)
	}
	return true, nil
}

func (nr nodeRows) insert(ctx context.Context, n *types.Node) error {
	_, err := nr.q.ExecContext(ctx,
		"INSERT INTO nodes ("+nodeColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		n.ID, n.Label, nullString(n.Description), n.IsContainer,
		formatTime(n.CreatedAt), formatTime(n.UpdatedAt),
	)
	return wrapErr("inserting node", err)
}

// update writes the columns the patch sets, plus updated_at. Columns the
// patch leaves out keep their stored values.
func (nr nodeRows) update(ctx context.Context, id string, p types.NodePatch) error {
	var sets []string
	var args []any

	if p.Label.HasValue() {
		sets = append(sets, "label = ?")
		args = append(args, *p.Label.Value())
	}
	if p.Description.IsSet() {
		sets = append(sets, "description = ?")
		args = append(args, nullString(p.Description.Value()))
	}
	if p.IsContainer.HasValue() {
		sets = append(sets, "is_container = ?")
		args = append(args, *p.IsContainer.Value())
	}
	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, formatTime(now()), id)

	_, err := nr.q.ExecContext(ctx,
		"UPDATE nodes SET "+strings.Join(sets, ", ")+" WHERE node_id = ?",
		args...,
	)
	return wrapErr("updating node", err)
}

func (nr nodeRows) list(ctx context.Context) ([]types.Node, error) {
	rows, err := nr.q.QueryContext(ctx,
		"SELECT "+nodeColumns+" FROM nodes ORDER BY node_id",
	)
	if err != nil {
		return nil, wrapErr("fetching nodes", err)
	}
	defer rows.Close()

	nodes := []types.Node{}
	for rows.Next() {
		n, err := hydrateNode(rows)
		if err != nil {
			return nil, wrapErr("hydrating node", err)
		}
		nodes = append(nodes, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterating nodes", err)
	}
	return nodes, nil
}

// hydrateNode converts a row holding nodeColumns into a *types.Node.
func hydrateNode(scanner interface{ Scan(dest ...any) error }) (*types.Node, error) {
	var n types.Node
	var description sql.NullString
	var createdAt, updatedAt string
	if err := scanner.Scan(&n.ID, &n.Label, &description, &n.IsContainer, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	n.Description = stringPtr(description)

	var err error
	if n.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if n.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &n, nil
}
