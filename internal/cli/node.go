package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/binctl/pkg/types"
)

func newNodeCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Create, update and inspect nodes",
	}
	cmd.AddCommand(
		newNodeCreateCmd(opts),
		newNodeUpdateCmd(opts),
		newNodeGetCmd(opts),
		newNodeListCmd(opts),
	)
	return cmd
}

func newNodeCreateCmd(opts *rootOptions) *cobra.Command {
	var (
		label       string
		description string
		container   bool
		parentID    string
		tagIDs      []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := types.NodeCreate{
				Label:       label,
				IsContainer: container,
				TagIDs:      tagIDs,
			}
			if cmd.Flags().Changed("description") {
				in.Description = &description
			}
			if cmd.Flags().Changed("parent") {
				in.ParentID = &parentID
			}

			return opts.withStore(func(store types.Store) error {
				agg, err := store.CreateNode(cmd.Context(), in)
				if err != nil {
					return err
				}
				opts.logger.Debug("node created", "id", agg.ID)
				return opts.render(cmd.OutOrStdout(), agg, func(w io.Writer) { printNode(w, agg) })
			})
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "node label (required)")
	cmd.Flags().StringVar(&description, "description", "", "free-text description")
	cmd.Flags().BoolVar(&container, "container", false, "the node can hold children")
	cmd.Flags().StringVar(&parentID, "parent", "", "id of the container to place the node in")
	cmd.Flags().StringSliceVar(&tagIDs, "tag", nil, "tag id to attach (repeatable)")
	_ = cmd.MarkFlagRequired("label")

	return cmd
}

func newNodeUpdateCmd(opts *rootOptions) *cobra.Command {
	var (
		label            string
		description      string
		clearDescription bool
		container        bool
		parentID         string
		detach           bool
		tagIDs           []string
		clearTags        bool
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a node",
		Long: "Update the fields named by flags and leave the others unchanged.\n" +
			"--tag replaces the whole tag set; --clear-tags removes every tag.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()

			var patch types.NodePatch
			if flags.Changed("label") {
				patch.Label = types.Some(label)
			}
			switch {
			case clearDescription:
				patch.Description = types.Null[string]()
			case flags.Changed("description"):
				patch.Description = types.Some(description)
			}
			if flags.Changed("container") {
				patch.IsContainer = types.Some(container)
			}
			switch {
			case detach:
				patch.ParentID = types.Null[string]()
			case flags.Changed("parent"):
				patch.ParentID = types.Some(parentID)
			}
			switch {
			case clearTags:
				patch.TagIDs = types.Null[[]string]()
			case flags.Changed("tag"):
				patch.TagIDs = types.Some(tagIDs)
			}

			if !patch.HasChanges() {
				return fmt.Errorf("node update: no changes given: %w", types.ErrValidation)
			}

			return opts.withStore(func(store types.Store) error {
				agg, err := store.UpdateNode(cmd.Context(), args[0], patch)
				if err != nil {
					return err
				}
				return opts.render(cmd.OutOrStdout(), agg, func(w io.Writer) { printNode(w, agg) })
			})
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "new label")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().BoolVar(&clearDescription, "clear-description", false, "remove the description")
	cmd.Flags().BoolVar(&container, "container", false, "whether the node can hold children")
	cmd.Flags().StringVar(&parentID, "parent", "", "id of the new parent container")
	cmd.Flags().BoolVar(&detach, "detach", false, "make the node a root")
	cmd.Flags().StringSliceVar(&tagIDs, "tag", nil, "tag id of the new tag set (repeatable)")
	cmd.Flags().BoolVar(&clearTags, "clear-tags", false, "remove every tag")
	cmd.MarkFlagsMutuallyExclusive("description", "clear-description")
	cmd.MarkFlagsMutuallyExclusive("parent", "detach")
	cmd.MarkFlagsMutuallyExclusive("tag", "clear-tags")

	return cmd
}

func newNodeGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a node with its parent, children and tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStore(func(store types.Store) error {
				agg, err := store.GetNode(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return opts.render(cmd.OutOrStdout(), agg, func(w io.Writer) { printNode(w, agg) })
			})
		},
	}
}

func newNodeListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List nodes in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStore(func(store types.Store) error {
				nodes, err := store.ListNodes(cmd.Context())
				if err != nil {
					return err
				}
				return opts.render(cmd.OutOrStdout(), nodes, func(w io.Writer) { printNodeTable(w, nodes) })
			})
		},
	}
}
