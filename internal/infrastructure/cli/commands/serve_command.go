package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/anyonecancode/acc/internal/application/chat"
	"github.com/anyonecancode/acc/internal/application/checkpoint"
	"github.com/anyonecancode/acc/internal/infrastructure/uibridge"
	"github.com/anyonecancode/acc/internal/version"
)

// NewServeCommand creates the serve command, which exposes the chat to a web panel
func NewServeCommand(env *Env) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat over a websocket for a browser panel",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := env.Container(cmd.Context())
			if err != nil {
				return err
			}
			cfg := container.Config
			if addr == "" {
				addr = cfg.GetServerAddr()
			}

			hub := uibridge.NewHub(cfg.GetAllowedOrigins(), container.Logger)
			rt := container.NewRuntime(hub)
			hub.SetHandler(rt.Session.HandleEvent)
			hub.OnConnect(func() {
				for _, kind := range []string{chat.PanelKind, checkpoint.PanelKind} {
					if _, _, err := rt.Panels.CreateOrShow(kind); err != nil {
						container.Logger.Warn("panel unavailable", map[string]interface{}{"kind": kind, "error": err.Error()})
					}
				}
			})
			defer rt.Panels.DisposeAll()

			server := uibridge.NewServer(hub, uibridge.Options{
				Addr:           addr,
				AllowedOrigins: cfg.GetAllowedOrigins(),
				Version:        version.Get().Short(),
				Metrics:        container.Metrics.Handler(),
				Logger:         container.Logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx, func(bound string) {
				fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s (websocket at /ws)\n", bound)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}
