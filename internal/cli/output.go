package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"

	"github.com/mesh-intelligence/binctl/pkg/types"
)

const timeLayout = "2006-01-02 15:04:05"

// render writes v as indented JSON in --json mode, or calls human otherwise.
func (o *rootOptions) render(w io.Writer, v any, human func(w io.Writer)) error {
	if !o.jsonMode {
		human(w)
		return nil
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysErrorf("marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(out))
	return nil
}

func printNode(w io.Writer, agg *types.NodeAggregate) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", agg.ID)
	fmt.Fprintf(tw, "Label:\t%s\n", agg.Label)
	fmt.Fprintf(tw, "Container:\t%s\n", yesNo(agg.IsContainer))
	fmt.Fprintf(tw, "Description:\t%s\n", orDash(agg.Description))
	fmt.Fprintf(tw, "Parent:\t%s\n", orDash(agg.ParentID))
	fmt.Fprintf(tw, "Tags:\t%s\n", tagNames(agg.Tags))
	fmt.Fprintf(tw, "Created:\t%s\n", formatTime(agg.CreatedAt))
	fmt.Fprintf(tw, "Updated:\t%s\n", formatTime(agg.UpdatedAt))
	tw.Flush()

	if len(agg.Children) == 0 {
		return
	}
	fmt.Fprintln(w, "\nChildren:")
	printNodeTable(w, agg.Children)
}

func printNodeTable(w io.Writer, nodes []types.Node) {
	if len(nodes) == 0 {
		fmt.Fprintln(w, "No nodes found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLABEL\tCONTAINER")
	fmt.Fprintln(tw, "--\t-----\t---------")
	for _, n := range nodes {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", n.ID, n.Label, yesNo(n.IsContainer))
	}
	tw.Flush()
}

func printTag(w io.Writer, detail *types.TagDetail) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", detail.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", detail.Name)
	fmt.Fprintf(tw, "Created:\t%s\n", formatTime(detail.CreatedAt))
	fmt.Fprintf(tw, "Updated:\t%s\n", formatTime(detail.UpdatedAt))
	tw.Flush()

	fmt.Fprintln(w, "\nNodes:")
	printNodeTable(w, detail.Nodes)
}

func printTagTable(w io.Writer, tags []types.Tag) {
	if len(tags) == 0 {
		fmt.Fprintln(w, "No tags found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME")
	fmt.Fprintln(tw, "--\t----")
	for _, t := range tags {
		fmt.Fprintf(tw, "%s\t%s\n", t.ID, t.Name)
	}
	tw.Flush()
}

func tagNames(tags []types.TagRef) string {
	if len(tags) == 0 {
		return "-"
	}
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return strings.Join(names, ", ")
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatTime(t time.Time) string {
	return t.Local().Format(timeLayout)
}
