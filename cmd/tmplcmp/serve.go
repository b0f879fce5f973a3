package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	tmplcmpecho "github.com/pthm/tmplcmp/adapters/echo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd(s *settings) *cobra.Command {
	var (
		dataFile string
		into     string
	)

	cmd := &cobra.Command{
		Use:   "serve <template>",
		Short: "Serve a live preview of a template file",
		Long: `Serve mounts a template file like render and serves the document over
HTTP. The template, its stylesheet and the data file are watched; each
change re-renders the component in place and the resulting patches are
streamed as signed frames to websocket clients on the stream path.

Use "tmplcmp tail" with the same key to follow the stream.

Examples:
  tmplcmp serve card.html --data card.yaml
  tmplcmp serve card.html --addr :9000 --sealed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadPage(into)
			if err != nil {
				return err
			}
			m, err := mountFile(s, doc, args[0], dataFile)
			if err != nil {
				return err
			}

			e := echo.New()
			e.HideBanner = true
			e.HidePort = true

			opts := []tmplcmpecho.Option{
				tmplcmpecho.WithPath(s.cfg.Serve.StreamPath),
				tmplcmpecho.WithSealed(s.cfg.Serve.Sealed),
				tmplcmpecho.WithLogger(s.logger),
			}
			if s.cfg.Serve.Key != "" {
				opts = append(opts, tmplcmpecho.WithKey([]byte(s.cfg.Serve.Key)))
			}
			preview := tmplcmpecho.Mount(e, doc, opts...)
			defer preview.Close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			go func() {
				err := watchFile(ctx, s, m.Source().Paths(), dataFile, func() error {
					if err := m.reload(); err != nil {
						return err
					}
					return preview.Update(m)
				})
				if err != nil {
					s.logger.Error("watcher stopped", "error", err)
				}
			}()

			go func() {
				<-ctx.Done()
				shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
				defer done()
				e.Shutdown(shutdownCtx)
			}()

			s.logger.Info("serving preview",
				"addr", s.cfg.Serve.Addr,
				"stream", s.cfg.Serve.StreamPath,
				"sealed", s.cfg.Serve.Sealed,
			)
			if err := e.Start(s.cfg.Serve.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dataFile, "data", "d", "", "YAML file with template values")
	cmd.Flags().StringVar(&into, "into", "", "existing HTML page to mount into")
	cmd.Flags().String("addr", "", "listen address (default localhost:8080)")
	cmd.Flags().String("key", "", "frame signing key (default is random)")
	cmd.Flags().Bool("sealed", false, "encrypt frames instead of only signing them")
	viper.BindPFlag("serve.addr", cmd.Flags().Lookup("addr"))
	viper.BindPFlag("serve.key", cmd.Flags().Lookup("key"))
	viper.BindPFlag("serve.sealed", cmd.Flags().Lookup("sealed"))

	return cmd
}
