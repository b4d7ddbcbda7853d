package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/yungbote/flightsim-backend/internal/config"
)

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if p := strings.TrimSpace(path); p != "" {
		return config.LoadFile(p)
	}
	return config.Load()
}
