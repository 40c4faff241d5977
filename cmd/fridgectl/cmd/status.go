package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the service's status",
	Long:  "Display the supervisor's status output for the fridge application service.",
	RunE:  runServiceStatus,
}

func init() {
	serviceCmd.AddCommand(statusCmd)
}

func runServiceStatus(cmd *cobra.Command, _ []string) error {
	mgr, err := newServiceManager()
	if err != nil {
		return fmt.Errorf("fridgectl service status: %w", err)
	}
	if err := mgr.Status(cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("fridgectl service status: %w", err)
	}
	return nil
}
