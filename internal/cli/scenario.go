package cli

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/yungbote/flightsim-backend/internal/app"
	"github.com/yungbote/flightsim-backend/internal/platform/logger"
	"github.com/yungbote/flightsim-backend/internal/services"
)

func ScenarioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Work with training scenarios",
	}
	cmd.AddCommand(scenarioGenerateCmd())
	return cmd
}

func scenarioGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one scenario with the configured LLM provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := scenarioRequestFromFlags(cmd)
			if err != nil {
				return err
			}
			req.UseRealTimeData, _ = cmd.Flags().GetBool("realtime")
			asJSON, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if provider, _ := cmd.Flags().GetString("provider"); provider != "" {
				cfg.LLM.Provider = provider
			}
			cfg.Realtime.Enabled = cfg.Realtime.Enabled || req.UseRealTimeData
			cfg.Metrics.Enabled = false

			log, err := logger.NewWithLevel(cfg.Log.Mode, "warn")
			if err != nil {
				return err
			}
			a, err := app.New(cmd.Context(), cfg, log)
			if err != nil {
				return fmt.Errorf("init app: %w", err)
			}
			defer a.Close()

			out, err := a.Services.Scenario.Generate(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("generate scenario: %w", err)
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out.Scenario)
			}
			printScenario(cmd, out)
			return nil
		},
	}
	addScenarioFlags(cmd)
	cmd.Flags().Bool("realtime", false, "ground the scenario in live weather and news")
	cmd.Flags().Bool("json", false, "print the scenario as JSON")
	cmd.Flags().String("provider", "", "override llm.provider (mock, gemini, anthropic, oai_http)")
	return cmd
}

func printScenario(cmd *cobra.Command, out *services.GeneratedScenario) {
	w := cmd.OutOrStdout()
	sc := out.Scenario
	sev := color.New(color.FgYellow, color.Bold)
	if sc.AlertSeverity == "CRITICAL" {
		sev = color.New(color.FgRed, color.Bold)
	}
	fmt.Fprintf(w, "%s %s\n", sev.Sprintf("[%s]", sc.AlertSeverity), color.New(color.Bold).Sprint(sc.AlertTitle))
	fmt.Fprintf(w, "  Role: %s  Difficulty: %s\n\n", sc.Role.Label(), sc.Difficulty)
	fmt.Fprintln(w, sc.Briefing)

	if sd := sc.ScenarioData; sd != nil && sd.ComputedCryoExpiryAbsolute != nil {
		fmt.Fprintf(w, "\n  Cryo expiry: %s\n", color.New(color.FgCyan).Sprint(sd.ComputedCryoExpiryAbsolute.Format("2006-01-02 15:04 MST")))
	}
	if len(sc.Hints) > 0 {
		fmt.Fprintln(w, "\nHints:")
		for _, h := range sc.Hints {
			fmt.Fprintf(w, "  - %s\n", h)
		}
	}
	if len(out.Facts) > 0 {
		fmt.Fprintln(w, "\nReal-time facts:")
		for _, f := range out.Facts {
			mark := color.New(color.FgGreen).Sprint("✓")
			if f.Failed() {
				mark = color.New(color.FgRed).Sprint("✗")
			}
			fmt.Fprintf(w, "  %s %s %v\n", mark, f.SourceTool, f.Arguments)
		}
	}
	for _, warn := range out.Warnings {
		fmt.Fprintf(w, "%s %s\n", color.New(color.FgYellow).Sprint("!"), warn.String())
	}
}
