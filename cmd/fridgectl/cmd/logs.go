package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logsFollow bool

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Stream service logs",
	Long: "Stream the fridge application's logs from journald. With --follow the\n" +
		"command blocks until interrupted.",
	RunE: runServiceLogs,
}

func init() {
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "follow log output")
	serviceCmd.AddCommand(logsCmd)
}

func runServiceLogs(cmd *cobra.Command, _ []string) error {
	mgr, err := newServiceManager()
	if err != nil {
		return fmt.Errorf("fridgectl service logs: %w", err)
	}
	if err := mgr.Logs(cmd.Context(), logsFollow); err != nil {
		return fmt.Errorf("fridgectl service logs: %w", err)
	}
	return nil
}
