package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/selsync/internal/config"
	"github.com/jask/selsync/internal/database"
	"github.com/jask/selsync/internal/database/repository"
	"github.com/jask/selsync/internal/logging"
	"github.com/jask/selsync/internal/service"
	"github.com/jask/selsync/internal/tui"
)

type flags struct {
	configPath string
	preset     string
	host       string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags
	root := &cobra.Command{
		Use:           "selsync",
		Short:         "Bind stored selection presets to terminal selection widgets",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd.Context(), f)
		},
	}
	root.PersistentFlags().StringVar(&f.configPath, "config", "", "config file (default ~/.config/selsync/config.toml)")
	root.Flags().StringVar(&f.preset, "preset", "", "preset to bind at start")
	root.Flags().StringVar(&f.host, "host", "", "widget focused at start: listbox or multiselector")

	root.AddCommand(&cobra.Command{
		Use:   "presets",
		Short: "List stored presets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := setup(cmd.Context(), f)
			if err != nil {
				return err
			}
			defer env.close()
			names, err := env.presets.Names(cmd.Context())
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "create NAME",
		Short: "Create an empty preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd.Context(), f)
			if err != nil {
				return err
			}
			defer env.close()
			return env.presets.Create(cmd.Context(), args[0])
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "default NAME",
		Short: "Store the preset bound at start in the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd.Context(), f)
			if err != nil {
				return err
			}
			defer env.close()
			names, err := env.presets.Names(cmd.Context())
			if err != nil {
				return err
			}
			if !slices.Contains(names, args[0]) {
				return presetNotFound(cmd.Context(), env.presets, args[0])
			}
			env.cfg.UI.DefaultPreset = args[0]
			if err := config.Save(f.configPath, env.cfg); err != nil {
				return err
			}
			env.log.Info("default preset stored", "preset", args[0])
			return nil
		},
	})
	return root
}

type environment struct {
	cfg     config.Config
	log     *slog.Logger
	presets *service.PresetService
	close   func()
}

func setup(ctx context.Context, f flags) (*environment, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.LoadFile(f.configPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if f.preset != "" {
		cfg.UI.DefaultPreset = f.preset
	}
	if f.host != "" {
		cfg.UI.Host = f.host
	}

	log, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(cfg.Database.Path); err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(ctx, cfg.Database.Path)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := database.SeedDefaults(ctx, db); err != nil {
		_ = db.Close()
		_ = closeLog()
		return nil, fmt.Errorf("seed defaults: %w", err)
	}

	presets := &service.PresetService{
		DB:       db,
		Items:    repository.NewItemRepo(db),
		Presets:  repository.NewPresetRepo(db),
		Autosave: cfg.UI.Autosave,
		Log:      log,
	}
	return &environment{
		cfg:     cfg,
		log:     log,
		presets: presets,
		close: func() {
			_ = db.Close()
			_ = closeLog()
		},
	}, nil
}

func runUI(ctx context.Context, f flags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	env, err := setup(ctx, f)
	if err != nil {
		return err
	}
	defer env.close()

	opened, err := env.presets.Open(ctx, env.cfg.UI.DefaultPreset)
	if errors.Is(err, service.ErrPresetNotFound) {
		return presetNotFound(ctx, env.presets, env.cfg.UI.DefaultPreset)
	} else if err != nil {
		return err
	}
	opened.Close()

	catalog, err := env.presets.Catalog(ctx)
	if err != nil {
		return err
	}

	env.log.Info("starting", "preset", env.cfg.UI.DefaultPreset, "host", env.cfg.UI.Host)
	p := tea.NewProgram(tui.New(ctx, env.cfg.UI, env.presets, catalog, env.log), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func presetNotFound(ctx context.Context, presets *service.PresetService, name string) error {
	msg := fmt.Sprintf("preset %q not found", name)
	if near, ok := presets.Suggest(ctx, name); ok {
		msg += fmt.Sprintf(" (did you mean %q?)", near)
	}
	return errors.New(msg)
}
