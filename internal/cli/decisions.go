package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"alphagpt/internal/store"
)

func newDecisionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decisions",
		Short: "Inspect the decision log",
		Long:  "List recorded decisions and their execution outcomes. The dashboard consumes the same log.",
	}

	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent decisions",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			decisionStore, err := store.NewSQLiteStore(defaultDBPath())
			if err != nil {
				return fmt.Errorf("opening decision log: %w", err)
			}
			defer decisionStore.Close()

			records, err := decisionStore.ListDecisions(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(records)
			}

			if len(records) == 0 {
				output.Dim("No decisions recorded yet.")
				return nil
			}

			output.Bold("%-20s %-6s %-6s %-10s %s", "TIMESTAMP", "ACTION", "ASSET", "MODE", "ORDER")
			for _, r := range records {
				orderID := r.OrderID
				if orderID == "" {
					orderID = "-"
				}
				output.Printf("%-20s %-6s %-6s %-10s %s\n",
					r.Timestamp.Format("2006-01-02 15:04:05"), r.Action, r.Asset, r.Mode, orderID)
				if r.Error != "" {
					output.Warning("  error: %s", r.Error)
				}
			}
			return nil
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 20, "maximum decisions to list")
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show decision statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			decisionStore, err := store.NewSQLiteStore(defaultDBPath())
			if err != nil {
				return fmt.Errorf("opening decision log: %w", err)
			}
			defer decisionStore.Close()

			stats, err := decisionStore.DecisionStats(cmd.Context())
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(stats)
			}

			output.Bold("Decision Statistics")
			output.Printf("  Total:    %d\n", stats.Total)
			output.Printf("  Executed: %d\n", stats.Executed)
			for action, count := range stats.ByAction {
				output.Printf("  %-13s %d\n", action+":", count)
			}
			return nil
		},
	})

	return cmd
}
