// Command vtreedemo is a small, standalone demonstration of the vtree
// engine: it reads a JSON array of TreeEntry values, builds a tree, and
// renders a flattened view to the terminal. It replaces the old grove-cx
// root command (which wired dozens of subcommands through
// github.com/grovetools/core/cli) with a single-purpose cobra.Command, the
// shape main.go used before grove-core's wrapper was layered on top.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-vtree/pkg/vtree"
	"github.com/mattsolo1/grove-vtree/pkg/vtree/uistate"
)

var (
	folderStyle = lipgloss.NewStyle().Bold(true)
	virtualDim  = lipgloss.NewStyle().Faint(true)
	fileStyle   = lipgloss.NewStyle()
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		entriesPath  string
		rootLabel    string
		filterQuery  string
		expandAll    bool
		omitRootRow  bool
		stripPrefix  []string
	)

	cmd := &cobra.Command{
		Use:   "vtreedemo",
		Short: "Render a virtual directory tree from a JSON entry list",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := loadEntries(entriesPath)
			if err != nil {
				return fmt.Errorf("loading entries: %w", err)
			}

			opts := []vtree.BuildOption{
				vtree.WithRootFolderLabel(rootLabel),
				vtree.WithOmitContainerRowAtRoot(omitRootRow),
				vtree.WithStripPrefixes(stripPrefix...),
			}
			data, err := vtree.Build(entries, opts...)
			if err != nil {
				return fmt.Errorf("building tree: %w", err)
			}

			expansion := uistate.NewExpansionSet()
			if expandAll {
				for id := range data.Nodes {
					expansion.Expand(id)
				}
			} else {
				for id, n := range data.Nodes {
					if n.IsExpanded {
						expansion.Expand(id)
					}
				}
			}

			flattenOpts := []vtree.FlattenOption{}
			if filterQuery != "" {
				flattenOpts = append(flattenOpts, vtree.WithFilterQuery(filterQuery))
			}
			rows := vtree.Flatten(data, expansion.AsMap(), flattenOpts...)
			renderRows(cmd.OutOrStdout(), rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&entriesPath, "entries", "", "path to a JSON file of TreeEntry values (required)")
	cmd.Flags().StringVar(&rootLabel, "root-label", "tree", "label for the synthetic container folder")
	cmd.Flags().StringVar(&filterQuery, "filter", "", "filter query applied to the flattened view")
	cmd.Flags().BoolVar(&expandAll, "expand-all", false, "expand every folder regardless of default state")
	cmd.Flags().BoolVar(&omitRootRow, "omit-root-row", false, "hide the visible root's own row (the container unless hoisting moved it)")
	cmd.Flags().StringSliceVar(&stripPrefix, "strip-prefix", nil, "source path prefix to strip from display paths (repeatable)")
	cmd.MarkFlagRequired("entries")

	return cmd
}

func loadEntries(path string) ([]vtree.TreeEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	var entries []vtree.TreeEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parsing entries json: %w", err)
	}
	return entries, nil
}

func renderRows(w io.Writer, rows []vtree.VisibleNode) {
	for _, r := range rows {
		indent := strings.Repeat("  ", r.Depth)
		name := r.Name
		if name == "" {
			name = "/"
		}

		var rendered string
		switch {
		case r.IsVirtual:
			rendered = virtualDim.Render(name)
		case r.Type == vtree.NodeFile:
			rendered = fileStyle.Render(name)
		default:
			rendered = folderStyle.Render(name)
			if r.HasChildren {
				rendered += "/"
			}
		}

		fmt.Fprintf(w, "%s%s\n", indent, rendered)
	}
}
