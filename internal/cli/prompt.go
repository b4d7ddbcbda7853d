package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/yungbote/flightsim-backend/internal/simulator/prompts"
	"github.com/yungbote/flightsim-backend/internal/simulator/refdata"
	"github.com/yungbote/flightsim-backend/internal/simulator/scenario"
)

func PromptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Render the scenario-generation prompt without calling a model",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := scenarioRequestFromFlags(cmd)
			if err != nil {
				return err
			}
			if factsPath, _ := cmd.Flags().GetString("facts"); factsPath != "" {
				b, err := os.ReadFile(factsPath)
				if err != nil {
					return fmt.Errorf("read facts: %w", err)
				}
				if err := json.Unmarshal(b, &req.RealTimeFacts); err != nil {
					return fmt.Errorf("parse facts %s: %w", factsPath, err)
				}
			}

			p := prompts.New(refdata.MustLoad()).Scenario(req)
			out := cmd.OutOrStdout()
			head := color.New(color.FgCyan, color.Bold)
			fmt.Fprintln(out, head.Sprint("── system ──"))
			fmt.Fprintln(out, p.System)
			fmt.Fprintln(out, head.Sprint("── user ──"))
			fmt.Fprintln(out, p.User)
			fmt.Fprintf(out, "%s %s v%d %s\n", color.New(color.Faint).Sprint("fingerprint"), p.Name, p.Version, p.Fingerprint())
			return nil
		},
	}
	addScenarioFlags(cmd)
	cmd.Flags().String("facts", "", "JSON file with real-time facts to inject")
	return cmd
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().String("role", string(scenario.RoleSupplyChainPlanner), "SupplyChainPlanner or QualityEngineer")
	cmd.Flags().String("difficulty", string(scenario.Intermediate), "Beginner, Intermediate or Expert")
}

func scenarioRequestFromFlags(cmd *cobra.Command) (scenario.Request, error) {
	roleFlag, _ := cmd.Flags().GetString("role")
	difficultyFlag, _ := cmd.Flags().GetString("difficulty")
	role, err := scenario.ParseRole(roleFlag)
	if err != nil {
		return scenario.Request{}, err
	}
	difficulty, err := scenario.ParseDifficulty(difficultyFlag)
	if err != nil {
		return scenario.Request{}, err
	}
	return scenario.Request{Role: role, Difficulty: difficulty}, nil
}
