package sqlite

import (
	"context"
	"slices"

	"github.com/mesh-intelligence/binctl/pkg/types"
)

// TagAssociations reconciles a node's tag set. It is the only writer of the
// tag_nodes table and never commits on its own.
type TagAssociations struct {
	q DBTX
}

// NewTagAssociations binds a TagAssociations to q.
func NewTagAssociations(q DBTX) *TagAssociations {
	return &TagAssociations{q: q}
}

// ReplaceTags makes the tags of nodeID exactly tagIDs. Unknown ids fail with
// *types.UnknownTagIDsError before any write. Associations outside the set
// are removed, missing ones are added, and ones already present are left
// alone; an empty set removes every association of the node.
func (ta *TagAssociations) ReplaceTags(ctx context.Context, nodeID string, tagIDs []string) error {
	want := dedupe(tagIDs)

	if err := ta.checkTagsExist(ctx, want); err != nil {
		return err
	}

	// With an empty set "NOT IN ()" is true for every row, so the one
	// statement covers both the clear and the reconcile case.
	args := append([]any{nodeID}, stringArgs(want)...)
	if _, err := ta.q.ExecContext(ctx,
		"DELETE FROM tag_nodes WHERE node_id = ? AND tag_id NOT IN ("+placeholders(len(want))+")",
		args...,
	); err != nil {
		return wrapErr("removing tag associations", err)
	}

	createdAt := formatTime(now())
	for _, tagID := range want {
		if _, err := ta.q.ExecContext(ctx,
			`INSERT INTO tag_nodes (tag_id, node_id, created_at) VALUES (?, ?, ?)
			ON CONFLICT (tag_id, node_id) DO NOTHING`,
			tagID, nodeID, createdAt,
		); err != nil {
			return wrapErr("inserting tag association", err)
		}
	}
	return nil
}

// checkTagsExist returns *types.UnknownTagIDsError naming every id in ids
// that has no tags row, sorted.
func (ta *TagAssociations) checkTagsExist(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	rows, err := ta.q.QueryContext(ctx,
		"SELECT tag_id FROM tags WHERE tag_id IN ("+placeholders(len(ids))+")",
		stringArgs(ids)...,
	)
	if err != nil {
		return wrapErr("looking up tags", err)
	}
	defer rows.Close()

	existing := make(map[string]bool, len(ids))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return wrapErr("scanning tag id", err)
		}
		existing[id] = true
	}
	if err := rows.Err(); err != nil {
		return wrapErr("iterating tag ids", err)
	}

	var missing []string
	for _, id := range ids {
		if !existing[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return &types.UnknownTagIDsError{IDs: missing}
	}
	return nil
}

// TagsOf returns the tags attached to nodeID ordered by name.
func (ta *TagAssociations) TagsOf(ctx context.Context, nodeID string) ([]types.TagRef, error) {
	rows, err := ta.q.QueryContext(ctx, `
		SELECT t.tag_id, t.name
		FROM tag_nodes tn
		JOIN tags t ON t.tag_id = tn.tag_id
		WHERE tn.node_id = ?
		ORDER BY t.name`,
		nodeID,
	)
	if err != nil {
		return nil, wrapErr("fetching node tags", err)
	}
	defer rows.Close()

	tags := []types.TagRef{}
	for rows.Next() {
		var ref types.TagRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, wrapErr("scanning node tag", err)
		}
		tags = append(tags, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterating node tags", err)
	}
	return tags, nil
}

// dedupe drops repeated ids, keeping first occurrences in order.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
