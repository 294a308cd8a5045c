package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/binctl/pkg/types"
)

func newTagCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Create, rename and inspect tags",
	}
	cmd.AddCommand(
		newTagCreateCmd(opts),
		newTagRenameCmd(opts),
		newTagGetCmd(opts),
		newTagListCmd(opts),
	)
	return cmd
}

func newTagCreateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStore(func(store types.Store) error {
				tag, err := store.CreateTag(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return opts.render(cmd.OutOrStdout(), tag, func(w io.Writer) {
					printTagTable(w, []types.Tag{*tag})
				})
			})
		},
	}
}

func newTagRenameCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a tag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStore(func(store types.Store) error {
				tag, err := store.RenameTag(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				return opts.render(cmd.OutOrStdout(), tag, func(w io.Writer) {
					printTagTable(w, []types.Tag{*tag})
				})
			})
		},
	}
}

func newTagGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a tag and the nodes it is attached to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStore(func(store types.Store) error {
				detail, err := store.GetTag(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return opts.render(cmd.OutOrStdout(), detail, func(w io.Writer) { printTag(w, detail) })
			})
		},
	}
}

func newTagListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tags by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStore(func(store types.Store) error {
				tags, err := store.ListTags(cmd.Context())
				if err != nil {
					return err
				}
				return opts.render(cmd.OutOrStdout(), tags, func(w io.Writer) { printTagTable(w, tags) })
			})
		},
	}
}
