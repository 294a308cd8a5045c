package sqlite

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/binctl/pkg/types"
)

// discardLogger keeps test output free of store lifecycle lines.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupBackend returns a Backend attached to a fresh database in a temp
// directory. Detach runs on test cleanup.
func setupBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend(WithLogger(discardLogger()))
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}
	require.NoError(t, b.Attach(config))
	t.Cleanup(func() { b.Detach() })
	return b
}

func strPtr(s string) *string { return &s }

func mustCreateNode(t *testing.T, b *Backend, in types.NodeCreate) *types.NodeAggregate {
	t.Helper()
	agg, err := b.CreateNode(context.Background(), in)
	require.NoError(t, err)
	return agg
}

func mustCreateContainer(t *testing.T, b *Backend, label string) string {
	t.Helper()
	return mustCreateNode(t, b, types.NodeCreate{Label: label, IsContainer: true}).ID
}

func mustCreateLeaf(t *testing.T, b *Backend, label string) string {
	t.Helper()
	return mustCreateNode(t, b, types.NodeCreate{Label: label}).ID
}

func mustCreateTag(t *testing.T, b *Backend, name string) string {
	t.Helper()
	tag, err := b.CreateTag(context.Background(), name)
	require.NoError(t, err)
	return tag.ID
}

// tagIDsOf returns the ids of the node's tags in name order.
func tagIDsOf(t *testing.T, b *Backend, nodeID string) []string {
	t.Helper()
	agg, err := b.GetNode(context.Background(), nodeID)
	require.NoError(t, err)
	ids := make([]string, 0, len(agg.Tags))
	for _, ref := range agg.Tags {
		ids = append(ids, ref.ID)
	}
	return ids
}
