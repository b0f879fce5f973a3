package main

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/pthm/tmplcmp/lib/encoding"
	"github.com/spf13/cobra"
)

func tailCmd(s *settings) *cobra.Command {
	var (
		key    string
		count  int
		sealed bool
	)

	cmd := &cobra.Command{
		Use:   "tail <ws-url>",
		Short: "Follow the patch stream of a preview server",
		Long: `Tail connects to a preview server's patch stream, verifies each frame
with the shared key and prints its patches.

The key defaults to serve.key from the configuration. Sealed streams need
--sealed (or serve.sealed).

Examples:
  tmplcmp tail ws://localhost:8080/patches --key secret
  tmplcmp tail ws://localhost:8080/patches --count 1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if key == "" {
				key = s.cfg.Serve.Key
			}
			if key == "" {
				return fmt.Errorf("tail: a key is required (--key or serve.key)")
			}
			enc, err := encoding.NewEncoder([]byte(key))
			if err != nil {
				return err
			}

			sealed = sealed || s.cfg.Serve.Sealed

			ctx := cmd.Context()
			conn, _, err := websocket.DefaultDialer.DialContext(ctx, args[0], nil)
			if err != nil {
				return fmt.Errorf("tail: connecting to %s: %w", args[0], err)
			}
			defer conn.Close()

			stop := context.AfterFunc(ctx, func() { conn.Close() })
			defer stop()

			out := cmd.OutOrStdout()
			for seen := 0; count <= 0 || seen < count; seen++ {
				_, msg, err := conn.ReadMessage()
				if err != nil {
					if ctx.Err() != nil {
						return nil
					}
					return fmt.Errorf("tail: reading frame: %w", err)
				}
				frame, err := enc.Decode(string(msg), sealed)
				if err != nil {
					return fmt.Errorf("tail: frame %d: %w", seen+1, err)
				}
				printPatches(out, fmt.Sprintf("frame %d %s %s", frame.Seq, frame.Kind, frame.Root), frame.Patches)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&key, "key", "k", "", "frame signing key")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "exit after this many frames (0 follows forever)")
	cmd.Flags().BoolVar(&sealed, "sealed", false, "frames are encrypted")

	return cmd
}
