package cli

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/dosewise/pkg/observability"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check storage and broker health",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := GetApp()
		if err != nil {
			return err
		}

		results := app.Health.Check(cmd.Context())
		out := cmd.OutOrStdout()
		for _, r := range results {
			line := fmt.Sprintf("%-10s %-10s %s", r.Name, r.Status, r.Duration.Round(time.Microsecond))
			if r.Message != "" {
				line += "  " + r.Message
			}
			fmt.Fprintln(out, line)
		}

		overall := observability.Overall(results)
		fmt.Fprintf(out, "overall: %s\n", overall)
		if overall == observability.HealthStatusUnhealthy {
			return fmt.Errorf("unhealthy")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
