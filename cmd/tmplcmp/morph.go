package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pthm/tmplcmp"
	"github.com/pthm/tmplcmp/lib/dom"
	"github.com/pthm/tmplcmp/lib/morph"
	"github.com/spf13/cobra"
	"golang.org/x/net/html"
)

func morphCmd(s *settings) *cobra.Command {
	var (
		childrenOnly bool
		keep         bool
	)

	cmd := &cobra.Command{
		Use:   "morph <from.html> <to.html>",
		Short: "Diff two HTML fragments and print the patches",
		Long: `Morph reconciles the single-root fragment in <from.html> to match
<to.html> and prints the patches applied followed by the result.

Examples:
  tmplcmp morph before.html after.html
  tmplcmp morph before.html after.html --keep-norender`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := readRoot(args[0])
			if err != nil {
				return err
			}
			to, err := readRoot(args[1])
			if err != nil {
				return err
			}

			// Parent the live root so a root replacement has somewhere to go.
			dom.Element("body").AppendChild(from)

			opts := morph.Options{ChildrenOnly: childrenOnly}
			if keep {
				opts.OnBeforeElUpdated = tmplcmp.NoRenderGuard(s.cfg.Render.NoRenderAttr)
			}
			result, patches := morph.Morph(from, to, opts)

			s.logger.Debug("morphed", "patches", len(patches), "structural", patches.Structural())
			out := cmd.OutOrStdout()
			printPatches(out, "patches", patches)
			fmt.Fprintln(out, dom.OuterHTML(result))
			return nil
		},
	}

	cmd.Flags().BoolVar(&childrenOnly, "children-only", false, "reconcile children and leave the root's attributes alone")
	cmd.Flags().BoolVar(&keep, "keep-norender", false, "skip elements carrying the no-render attribute")

	return cmd
}

// readRoot reads a file holding exactly one top-level node.
func readRoot(path string) (*html.Node, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	nodes, err := dom.Fragment(strings.TrimSpace(string(text)))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	switch len(nodes) {
	case 1:
		return nodes[0], nil
	case 0:
		return nil, fmt.Errorf("%s: %w", path, tmplcmp.ErrEmptyTemplate)
	default:
		return nil, fmt.Errorf("%s: %w", path, tmplcmp.ErrMultipleRoots)
	}
}
