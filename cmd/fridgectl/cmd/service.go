package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fridgepi/fridgectl/internal/service"
)

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage the fridge application's systemd service",
	Long: "Install, remove, and control the systemd service that keeps the fridge\n" +
		"application running. Without a subcommand this prints usage.",
	// No Run function — prints help by default.
}

func init() {
	rootCmd.AddCommand(serviceCmd)

	serviceCmd.AddCommand(
		newLifecycleCmd("start", "Start the service", (*service.Manager).Start),
		newLifecycleCmd("stop", "Stop the service", (*service.Manager).Stop),
		newLifecycleCmd("restart", "Restart the service", (*service.Manager).Restart),
		newLifecycleCmd("enable", "Enable start on boot", (*service.Manager).Enable),
		newLifecycleCmd("disable", "Disable start on boot", (*service.Manager).Disable),
	)
}

// newLifecycleCmd builds a cobra command for a lifecycle operation that
// requires an installed unit and delegates to the supervisor.
func newLifecycleCmd(use, short string, op func(*service.Manager) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, err := newServiceManager()
			if err != nil {
				return fmt.Errorf("fridgectl service %s: %w", use, err)
			}
			if err := op(mgr); err != nil {
				return fmt.Errorf("fridgectl service %s: %w", use, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", use)
			return nil
		},
	}
}

// newServiceManager builds a Manager wired to the real systemd controller.
func newServiceManager() (*service.Manager, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := setupLogger(cfg.LogLevel)
	return service.NewManager(
		cfg.Service,
		service.NewSystemdController(),
		service.NewLogStreamer(),
		service.NewRootChecker(),
		logger,
	), nil
}
