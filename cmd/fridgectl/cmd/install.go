package cmd

import (
	"fmt"
	"os"
	"os/user"

	"github.com/spf13/cobra"

	"github.com/fridgepi/fridgectl/internal/service"
)

var installServiceUser string

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the application as a systemd service",
	Long: "Write the systemd unit file, reload the supervisor, and enable start on\n" +
		"boot. Fails if the unit file already exists; uninstall first to replace it.",
	RunE: runServiceInstall,
}

func init() {
	installCmd.Flags().StringVar(&installServiceUser, "user", "", "user the service runs as (default: invoking user)")
	serviceCmd.AddCommand(installCmd)
}

func runServiceInstall(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("fridgectl service install: %w", err)
	}
	logger := setupLogger(cfg.LogLevel)

	runAs := installServiceUser
	if runAs == "" {
		runAs = invokingUser()
	}

	selfPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("fridgectl service install: resolve executable: %w", err)
	}

	desc := service.NewDescriptor(cfg.Service, runAs, cfg.AppDir, selfPath, os.Getenv("DISPLAY"))

	mgr := service.NewManager(
		cfg.Service,
		service.NewSystemdController(),
		service.NewLogStreamer(),
		service.NewRootChecker(),
		logger,
	)
	if err := mgr.Install(desc); err != nil {
		return fmt.Errorf("fridgectl service install: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s installed and enabled\n", cfg.Service.ServiceName)
	return nil
}

// invokingUser is the user behind the command: SUDO_USER when the command
// was elevated, otherwise the current user.
func invokingUser() string {
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" {
		return sudoUser
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return "root"
}
