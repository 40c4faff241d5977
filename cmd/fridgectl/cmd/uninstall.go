package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the application's systemd service",
	Long:  "Stop the service if running, disable start on boot, and remove the unit file.",
	RunE:  runServiceUninstall,
}

func init() {
	serviceCmd.AddCommand(uninstallCmd)
}

func runServiceUninstall(cmd *cobra.Command, _ []string) error {
	mgr, err := newServiceManager()
	if err != nil {
		return fmt.Errorf("fridgectl service uninstall: %w", err)
	}
	if err := mgr.Uninstall(); err != nil {
		return fmt.Errorf("fridgectl service uninstall: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "service uninstalled")
	return nil
}
