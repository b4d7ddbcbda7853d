package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/flightsim-backend/internal/app"
	"github.com/yungbote/flightsim-backend/internal/platform/shutdown"
)

func ServeCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				cfg.HTTP.Addr = addr
			}
			if cfg.Version == "" || cfg.Version == "dev" {
				cfg.Version = version
			}

			ctx, stop := shutdown.NotifyContext(cmd.Context())
			defer stop()

			a, err := app.New(ctx, cfg, nil)
			if err != nil {
				return fmt.Errorf("init app: %w", err)
			}
			defer a.Close()
			return a.Run(ctx)
		},
	}
	cmd.Flags().String("addr", "", "listen address, overrides http.addr")
	return cmd
}
