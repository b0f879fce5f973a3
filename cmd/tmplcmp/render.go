package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pthm/tmplcmp"
	"github.com/pthm/tmplcmp/internal/filecmp"
	"github.com/pthm/tmplcmp/internal/watch"
	"github.com/pthm/tmplcmp/lib/morph"
	"github.com/spf13/cobra"
)

func renderCmd(s *settings) *cobra.Command {
	var (
		dataFile string
		into     string
		watchFor bool
	)

	cmd := &cobra.Command{
		Use:   "render <template>",
		Short: "Mount a template file and print the document",
		Long: `Render builds a component from a template file, mounts it into a
document and prints the document.

With --into the component is mounted into an existing page, reconciling
onto a node with the same id or classes instead of appending a copy.
With --watch the template, its stylesheet and the data file are watched
and every change is re-rendered in place; the patches of each render are
printed followed by the document.

Examples:
  tmplcmp render card.html --data card.yaml
  tmplcmp render card.html --into index.html
  tmplcmp render card.html --data card.yaml --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			doc, err := loadPage(into)
			if err != nil {
				return err
			}
			m, err := mountFile(s, doc, args[0], dataFile)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, doc.String())

			if !watchFor {
				return nil
			}
			return watchFile(cmd.Context(), s, m.Source().Paths(), dataFile, func() error {
				if err := m.reload(); err != nil {
					return err
				}
				patches, err := m.Render()
				if err != nil {
					return err
				}
				s.logger.Info("re-rendered", "kind", m.Kind(), "patches", len(patches))
				printPatches(out, "patches", patches)
				fmt.Fprintln(out, doc.String())
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&dataFile, "data", "d", "", "YAML file with template values")
	cmd.Flags().StringVar(&into, "into", "", "existing HTML page to mount into")
	cmd.Flags().BoolVarP(&watchFor, "watch", "w", false, "re-render when the template or data changes")

	return cmd
}

// mounted is a file component with the paths it was loaded from.
type mounted struct {
	*filecmp.Component
	path     string
	dataFile string
}

// mountFile loads a template and data file and mounts the component in the
// body of doc.
func mountFile(s *settings, doc *tmplcmp.Document, path, dataFile string) (*mounted, error) {
	src, err := filecmp.Load(path)
	if err != nil {
		return nil, err
	}
	data, err := filecmp.LoadData(dataFile)
	if err != nil {
		return nil, err
	}

	c, err := filecmp.New(src, data,
		tmplcmp.WithParent(doc, doc.Body()),
		tmplcmp.WithLogger(s.logger),
		tmplcmp.WithNoRenderAttr(s.cfg.Render.NoRenderAttr),
	)
	if err != nil {
		return nil, fmt.Errorf("mounting %s: %w", path, err)
	}
	return &mounted{Component: c, path: path, dataFile: dataFile}, nil
}

// reload re-reads the template and data. Render applies them.
func (m *mounted) reload() error {
	src, err := filecmp.Load(m.path)
	if err != nil {
		return err
	}
	data, err := filecmp.LoadData(m.dataFile)
	if err != nil {
		return err
	}
	m.Reload(src)
	m.SetState(data)
	return nil
}

// loadPage parses page, or returns an empty document when page is empty.
func loadPage(page string) (*tmplcmp.Document, error) {
	if page == "" {
		return tmplcmp.NewDocument(), nil
	}
	f, err := os.Open(page)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return tmplcmp.ParseDocument(f)
}

// watchFile runs onChange whenever one of paths or dataFile changes, until
// ctx is done.
func watchFile(ctx context.Context, s *settings, paths []string, dataFile string, onChange func() error) error {
	if dataFile != "" {
		paths = append(paths, dataFile)
	}
	w, err := watch.New(paths, time.Duration(s.cfg.Render.Debounce)*time.Millisecond, s.logger)
	if err != nil {
		return err
	}
	defer w.Close()

	s.logger.Info("watching for changes", "files", relPaths(paths))
	err = w.Run(ctx, func([]string) error { return onChange() })
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func relPaths(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		if rel, err := filepath.Rel(".", p); err == nil {
			out[i] = rel
		} else {
			out[i] = p
		}
	}
	return out
}

// printPatches writes a header line and then one patch per line.
func printPatches(w io.Writer, header string, patches morph.Patches) {
	fmt.Fprintf(w, "%s (%d)\n", header, len(patches))
	if len(patches) > 0 {
		fmt.Fprintln(w, patches.String())
	}
}
