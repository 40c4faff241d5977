package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fridgepi/fridgectl/internal/bootstrap"
	"github.com/fridgepi/fridgectl/internal/envfile"
	"github.com/fridgepi/fridgectl/internal/envprobe"
	"github.com/fridgepi/fridgectl/internal/launcher"
	"github.com/fridgepi/fridgectl/internal/orchestrator"
	"github.com/fridgepi/fridgectl/internal/render"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Bootstrap and launch the fridge application",
	Long: "Run the one-shot path: probe the host, install dependencies into the\n" +
		"isolated environment, negotiate a rendering mode, and launch the GUI.\n" +
		"The application's final exit code becomes fridgectl's exit code.",
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("fridgectl run: %w", err)
	}
	logger := setupLogger(cfg.LogLevel)

	// The entry point is checked before anything else: with no application
	// to launch, bootstrapping would only waste the operator's time.
	entryPoint := cfg.EntryPointPath()
	if _, err := os.Stat(entryPoint); err != nil {
		return fmt.Errorf("fridgectl run: application entry point %s not found", entryPoint)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// 1. Probe the host.
	prober := envprobe.NewProber(logger)
	report, err := prober.Probe(ctx)
	if err != nil {
		if errors.Is(err, envprobe.ErrNoDisplay) {
			return fmt.Errorf("fridgectl run: no display found; run from a graphical session or set DISPLAY: %w", err)
		}
		return fmt.Errorf("fridgectl run: %w", err)
	}
	logger.Info("host probed",
		"platform", report.Platform,
		"session", report.SessionType,
		"display", report.DisplayEndpoint,
	)

	// 2. Ensure dependencies.
	store := bootstrap.NewFileStore(cfg.Bootstrap.MarkerPath)
	installer := bootstrap.NewInstaller(
		cfg.Bootstrap,
		report.Platform,
		bootstrap.NewPackageManager(cfg.Bootstrap.PythonBin),
		store,
		prober.HasTool,
		logger,
	)
	if err := installer.EnsureDependencies(ctx); err != nil {
		return fmt.Errorf("fridgectl run: %w", err)
	}

	// 3. Prepare the application env file.
	if err := prepareEnvFile(cfg, report.Platform, store, logger); err != nil {
		return fmt.Errorf("fridgectl run: %w", err)
	}

	// 4. Negotiate render mode and launch.
	overrides := render.Negotiate(report.Platform, report.SessionType, report.DisplayEndpoint)

	l := launcher.NewLauncher(launcher.NewProcessRunner(), cmd.OutOrStdout(), logger)
	code, err := l.Launch(ctx, launcher.LaunchSpec{
		Executable: bootstrap.VenvPython(cfg.Bootstrap.VenvDir),
		Args:       []string{entryPoint},
		Dir:        cfg.AppDir,
		BaseEnv:    overrides,
	})
	if err != nil {
		return fmt.Errorf("fridgectl run: %w", err)
	}
	if code != 0 {
		return &ExitCodeError{Code: code}
	}
	return nil
}

// prepareEnvFile creates the application env file from its example when
// missing and, on embedded platforms, force-sets production-safe defaults.
func prepareEnvFile(cfg *orchestrator.Config, platform envprobe.PlatformClass, store bootstrap.Store, logger *slog.Logger) error {
	envPath := cfg.EnvFilePath()
	created, err := envfile.EnsureFromExample(envPath, filepath.Join(cfg.AppDir, ".env.example"))
	if err != nil {
		return err
	}
	if created {
		logger.Info("env file created", "path", envPath)
	}

	if platform == envprobe.PlatformEmbedded {
		defaults := map[string]string{
			"ENVIRONMENT":          "production",
			"SKIP_SYSTEM_CHECKS":   "true",
			"ENABLE_SHOPPING_LIST": "false",
		}
		for key, value := range defaults {
			if err := envfile.Set(envPath, key, value); err != nil {
				return err
			}
		}
		logger.Info("embedded defaults applied to env file", "path", envPath)
	}

	st, err := store.Load()
	if err != nil {
		return err
	}
	if !st.EnvFileExists {
		st.EnvFileExists = true
		st.Platform = platform
		if err := store.Save(st); err != nil {
			return err
		}
	}
	return nil
}

// loadConfig parses the config file and applies CLI flag overrides.
func loadConfig() (*orchestrator.Config, error) {
	path := cfgFile
	if appDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(appDir, path)
	}

	cfg, err := orchestrator.Load(path)
	if err != nil {
		return nil, err
	}
	if appDir != "" {
		cfg.AppDir = appDir
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}
