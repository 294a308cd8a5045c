// Package sqlite implements the SQLite backend for the binctl hierarchy store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema DDL for all tables, in dependency order.
const (
	createNodes = `CREATE TABLE IF NOT EXISTS nodes (
    node_id TEXT PRIMARY KEY,
    label TEXT NOT NULL CHECK (label <> ''),
    description TEXT,
    is_container INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	// One row per child: the primary key on child_id is the single-parent rule.
	createEdges = `CREATE TABLE IF NOT EXISTS edges (
    child_id TEXT PRIMARY KEY,
    parent_id TEXT NOT NULL,
    created_at TEXT NOT NULL,
    CHECK (parent_id <> child_id),
    FOREIGN KEY (child_id) REFERENCES nodes(node_id),
    FOREIGN KEY (parent_id) REFERENCES nodes(node_id)
);`

	createTags = `CREATE TABLE IF NOT EXISTS tags (
    tag_id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE CHECK (name <> ''),
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createTagNodes = `CREATE TABLE IF NOT EXISTS tag_nodes (
    tag_id TEXT NOT NULL,
    node_id TEXT NOT NULL,
    created_at TEXT NOT NULL,
    PRIMARY KEY (tag_id, node_id),
    FOREIGN KEY (tag_id) REFERENCES tags(tag_id),
    FOREIGN KEY (node_id) REFERENCES nodes(node_id)
);`
)

// Index DDL for the parent, children and tag lookups.
const (
	idxEdgesParent  = `CREATE INDEX IF NOT EXISTS idx_edges_parent ON edges(parent_id, child_id);`
	idxTagNodesNode = `CREATE INDEX IF NOT EXISTS idx_tag_nodes_node ON tag_nodes(node_id);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createNodes,
	createEdges,
	createTags,
	createTagNodes,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxEdgesParent,
	idxTagNodesNode,
}

// createSchema provisions every table and index. It is safe to run against
// an existing database.
func createSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaDDL {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating table: %w", err)
		}
	}
	for _, stmt := range indexDDL {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}
	return nil
}
