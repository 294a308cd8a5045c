package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/binctl/pkg/types"
)

func TestBackend_CreateNode(t *testing.T) {
	ctx := context.Background()

	t.Run("root node with defaults", func(t *testing.T) {
		b := setupBackend(t)
		agg, err := b.CreateNode(ctx, types.NodeCreate{Label: "inbox"})
		require.NoError(t, err)

		assert.NotEmpty(t, agg.ID)
		assert.Equal(t, "inbox", agg.Label)
		assert.Nil(t, agg.Description)
		assert.False(t, agg.IsContainer)
		assert.Nil(t, agg.ParentID)
		assert.Empty(t, agg.Children)
		assert.Empty(t, agg.Tags)
		assert.False(t, agg.CreatedAt.IsZero())
		assert.Equal(t, agg.CreatedAt, agg.UpdatedAt)
	})

	t.Run("with parent, description and tags", func(t *testing.T) {
		b := setupBackend(t)
		folder := mustCreateContainer(t, b, "folder")
		red := mustCreateTag(t, b, "red")

		agg, err := b.CreateNode(ctx, types.NodeCreate{
			Label:       "item",
			Description: strPtr("a thing"),
			ParentID:    &folder,
			TagIDs:      []string{red},
		})
		require.NoError(t, err)

		require.NotNil(t, agg.ParentID)
		assert.Equal(t, folder, *agg.ParentID)
		require.NotNil(t, agg.Description)
		assert.Equal(t, "a thing", *agg.Description)
		assert.Equal(t, []types.TagRef{{ID: red, Name: "red"}}, agg.Tags)
	})

	t.Run("empty label", func(t *testing.T) {
		b := setupBackend(t)
		_, err := b.CreateNode(ctx, types.NodeCreate{Label: ""})
		assert.ErrorIs(t, err, types.ErrEmptyLabel)
	})

	t.Run("unknown tag rolls back the node and its edge", func(t *testing.T) {
		b := setupBackend(t)
		folder := mustCreateContainer(t, b, "folder")

		_, err := b.CreateNode(ctx, types.NodeCreate{
			Label:    "item",
			ParentID: &folder,
			TagIDs:   []string{"missing"},
		})
		assert.ErrorIs(t, err, types.ErrUnknownTagIDs)

		nodes, err := b.ListNodes(ctx)
		require.NoError(t, err)
		assert.Len(t, nodes, 1, "only the folder remains")

		agg, err := b.GetNode(ctx, folder)
		require.NoError(t, err)
		assert.Empty(t, agg.Children)
	})

	t.Run("missing parent writes nothing", func(t *testing.T) {
		b := setupBackend(t)
		_, err := b.CreateNode(ctx, types.NodeCreate{Label: "item", ParentID: strPtr("nope")})
		assert.ErrorIs(t, err, types.ErrParentNotFound)

		nodes, err := b.ListNodes(ctx)
		require.NoError(t, err)
		assert.Empty(t, nodes)
	})
}

// Container A holds B; C cannot be created under B because B is a leaf, and
// the failed attempt leaves B untouched.
func TestBackend_HierarchyScenario(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)

	a := mustCreateNode(t, b, types.NodeCreate{Label: "A", IsContainer: true})
	bNode := mustCreateNode(t, b, types.NodeCreate{Label: "B", ParentID: &a.ID})

	aAgg, err := b.GetNode(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, aAgg.Children, 1)
	assert.Equal(t, bNode.Node, aAgg.Children[0])

	bBefore, err := b.GetNode(ctx, bNode.ID)
	require.NoError(t, err)
	require.NotNil(t, bBefore.ParentID)
	assert.Equal(t, a.ID, *bBefore.ParentID)

	_, err = b.CreateNode(ctx, types.NodeCreate{Label: "C", ParentID: &bNode.ID})
	assert.ErrorIs(t, err, types.ErrParentNotContainer)

	bAfter, err := b.GetNode(ctx, bNode.ID)
	require.NoError(t, err)
	assert.Equal(t, bBefore, bAfter)
	assert.Empty(t, bAfter.Children)

	nodes, err := b.ListNodes(ctx)
	require.NoError(t, err)
	assert.Len(t, nodes, 2)
}

func TestBackend_UpdateNode(t *testing.T) {
	ctx := context.Background()

	t.Run("omitted fields keep their values", func(t *testing.T) {
		b := setupBackend(t)
		folder := mustCreateContainer(t, b, "folder")
		red := mustCreateTag(t, b, "red")
		orig := mustCreateNode(t, b, types.NodeCreate{
			Label:       "item",
			Description: strPtr("desc"),
			ParentID:    &folder,
			TagIDs:      []string{red},
		})

		agg, err := b.UpdateNode(ctx, orig.ID, types.NodePatch{Label: types.Some("renamed")})
		require.NoError(t, err)

		assert.Equal(t, "renamed", agg.Label)
		require.NotNil(t, agg.Description)
		assert.Equal(t, "desc", *agg.Description)
		require.NotNil(t, agg.ParentID)
		assert.Equal(t, folder, *agg.ParentID)
		assert.Equal(t, []types.TagRef{{ID: red, Name: "red"}}, agg.Tags)
		assert.Equal(t, orig.CreatedAt, agg.CreatedAt)
		assert.False(t, agg.UpdatedAt.Before(orig.UpdatedAt))
	})

	t.Run("null description clears it", func(t *testing.T) {
		b := setupBackend(t)
		orig := mustCreateNode(t, b, types.NodeCreate{Label: "item", Description: strPtr("desc")})

		agg, err := b.UpdateNode(ctx, orig.ID, types.NodePatch{Description: types.Null[string]()})
		require.NoError(t, err)
		assert.Nil(t, agg.Description)
	})

	t.Run("explicit empty label is rejected", func(t *testing.T) {
		b := setupBackend(t)
		orig := mustCreateLeaf(t, b, "item")

		_, err := b.UpdateNode(ctx, orig, types.NodePatch{Label: types.Some("")})
		assert.ErrorIs(t, err, types.ErrEmptyLabel)

		_, err = b.UpdateNode(ctx, orig, types.NodePatch{Label: types.Null[string]()})
		assert.ErrorIs(t, err, types.ErrEmptyLabel)
	})

	t.Run("null parent detaches, omitted parent keeps it", func(t *testing.T) {
		b := setupBackend(t)
		folder := mustCreateContainer(t, b, "folder")
		item := mustCreateNode(t, b, types.NodeCreate{Label: "item", ParentID: &folder})

		agg, err := b.UpdateNode(ctx, item.ID, types.NodePatch{IsContainer: types.Some(true)})
		require.NoError(t, err)
		require.NotNil(t, agg.ParentID)
		assert.True(t, agg.IsContainer)

		agg, err = b.UpdateNode(ctx, item.ID, types.NodePatch{ParentID: types.Null[string]()})
		require.NoError(t, err)
		assert.Nil(t, agg.ParentID)

		folderAgg, err := b.GetNode(ctx, folder)
		require.NoError(t, err)
		assert.Empty(t, folderAgg.Children)
	})

	t.Run("reparent to another container", func(t *testing.T) {
		b := setupBackend(t)
		f1 := mustCreateContainer(t, b, "f1")
		f2 := mustCreateContainer(t, b, "f2")
		item := mustCreateNode(t, b, types.NodeCreate{Label: "item", ParentID: &f1})

		agg, err := b.UpdateNode(ctx, item.ID, types.NodePatch{ParentID: types.Some(f2)})
		require.NoError(t, err)
		require.NotNil(t, agg.ParentID)
		assert.Equal(t, f2, *agg.ParentID)
	})

	t.Run("self parent is rejected", func(t *testing.T) {
		b := setupBackend(t)
		folder := mustCreateContainer(t, b, "folder")

		_, err := b.UpdateNode(ctx, folder, types.NodePatch{ParentID: types.Some(folder)})
		assert.ErrorIs(t, err, types.ErrInvalidParent)
	})

	t.Run("failed tag replacement rolls back field and parent changes", func(t *testing.T) {
		b := setupBackend(t)
		f1 := mustCreateContainer(t, b, "f1")
		f2 := mustCreateContainer(t, b, "f2")
		item := mustCreateNode(t, b, types.NodeCreate{Label: "item", ParentID: &f1})

		_, err := b.UpdateNode(ctx, item.ID, types.NodePatch{
			Label:    types.Some("renamed"),
			ParentID: types.Some(f2),
			TagIDs:   types.Some([]string{"missing"}),
		})
		assert.ErrorIs(t, err, types.ErrUnknownTagIDs)

		agg, err := b.GetNode(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, "item", agg.Label)
		require.NotNil(t, agg.ParentID)
		assert.Equal(t, f1, *agg.ParentID)
	})

	t.Run("null and empty tag lists both clear tags", func(t *testing.T) {
		b := setupBackend(t)
		red := mustCreateTag(t, b, "red")
		n1 := mustCreateNode(t, b, types.NodeCreate{Label: "n1", TagIDs: []string{red}})
		n2 := mustCreateNode(t, b, types.NodeCreate{Label: "n2", TagIDs: []string{red}})

		agg, err := b.UpdateNode(ctx, n1.ID, types.NodePatch{TagIDs: types.Null[[]string]()})
		require.NoError(t, err)
		assert.Empty(t, agg.Tags)

		agg, err = b.UpdateNode(ctx, n2.ID, types.NodePatch{TagIDs: types.Some([]string{})})
		require.NoError(t, err)
		assert.Empty(t, agg.Tags)
	})

	t.Run("missing node", func(t *testing.T) {
		b := setupBackend(t)
		_, err := b.UpdateNode(ctx, "nope", types.NodePatch{Label: types.Some("x")})
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("null container flag is rejected", func(t *testing.T) {
		b := setupBackend(t)
		item := mustCreateLeaf(t, b, "item")
		_, err := b.UpdateNode(ctx, item, types.NodePatch{IsContainer: types.Null[bool]()})
		assert.ErrorIs(t, err, types.ErrInvalidContainerFlag)
	})

	t.Run("updated_at moves forward on field writes", func(t *testing.T) {
		b := setupBackend(t)
		orig := mustCreateLeaf(t, b, "item")

		restore := now
		t.Cleanup(func() { now = restore })
		later := time.Now().UTC().Add(time.Hour)
		now = func() time.Time { return later }

		agg, err := b.UpdateNode(ctx, orig, types.NodePatch{Label: types.Some("later")})
		require.NoError(t, err)
		assert.True(t, agg.UpdatedAt.Equal(later))
	})
}

func TestBackend_GetNode(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)

	_, err := b.GetNode(ctx, "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = b.GetNode(ctx, "")
	assert.ErrorIs(t, err, types.ErrInvalidID)
}

func TestBackend_ListNodes(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)

	nodes, err := b.ListNodes(ctx)
	require.NoError(t, err)
	assert.NotNil(t, nodes)
	assert.Empty(t, nodes)

	first := mustCreateLeaf(t, b, "z-first")
	second := mustCreateLeaf(t, b, "a-second")

	nodes, err = b.ListNodes(ctx)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, first, nodes[0].ID)
	assert.Equal(t, second, nodes[1].ID)
}
