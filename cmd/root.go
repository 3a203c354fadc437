// Package cmd wires sprout's command line: the interactive TUI at the root
// and one-shot subcommands for scripting.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/redpandashots/plant-watering-reminder/internal/config"
	"github.com/redpandashots/plant-watering-reminder/internal/garden"
	"github.com/redpandashots/plant-watering-reminder/internal/logging"
	"github.com/redpandashots/plant-watering-reminder/internal/notify"
	"github.com/redpandashots/plant-watering-reminder/internal/store"
	"github.com/redpandashots/plant-watering-reminder/internal/tui"
)

// appContext carries what every command needs once flags are parsed.
type appContext struct {
	v          *viper.Viper
	configFile string
	debug      bool

	cfg      *config.Settings
	log      *slog.Logger
	store    *store.Store
	closeLog func() error
}

func newAppContext() *appContext {
	return &appContext{v: config.New()}
}

// open loads configuration and opens the logger and database.
func (ac *appContext) open() error {
	cfg, err := config.Load(ac.v, ac.configFile)
	if err != nil {
		return err
	}
	if ac.debug {
		cfg.Log.Level = "debug"
	}
	ac.cfg = cfg

	logger, closeLog, err := logging.NewFileLogger(cfg.Log.Path, logging.ParseLevel(cfg.Log.Level))
	if err != nil {
		return err
	}
	ac.log, ac.closeLog = logger, closeLog

	s, err := store.New(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	s.SetLogger(logger)
	ac.store = s

	ac.log.Debug("started", "db", cfg.DB.Path, "config", ac.v.ConfigFileUsed())
	return nil
}

// close releases the database and log file. Safe to call more than once.
func (ac *appContext) close() error {
	var errs []error
	if ac.store != nil {
		errs = append(errs, ac.store.Close())
		ac.store = nil
	}
	if ac.closeLog != nil {
		errs = append(errs, ac.closeLog())
		ac.closeLog = nil
	}
	return errors.Join(errs...)
}

func (ac *appContext) newReminder() (*notify.Reminder, notify.Sender, error) {
	sender, err := notify.NewSender(ac.cfg.Notify.URLs, ac.cfg.Notify.Timeout, ac.log)
	if err != nil {
		return nil, nil, fmt.Errorf("configure notifications: %w", err)
	}
	return notify.NewReminder(ac.store, sender, ac.cfg.Notify.Interval, ac.log), sender, nil
}

// runTUI starts the interactive app with the reminder loop alongside it.
func (ac *appContext) runTUI(ctx context.Context) error {
	reminder, sender, err := ac.newReminder()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := reminder.Run(ctx); err != nil {
			ac.log.Error("reminder loop stopped", "error", err)
		}
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	app := tui.NewApp(ac.store, tui.Options{Logger: ac.log, Channel: sender.Name()})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func newRootCommand(ac *appContext) *cobra.Command {
	root := &cobra.Command{
		Use:   "sprout",
		Short: "Track when your plants need watering",
		Long: `sprout records when you water your plants and works out when each one is
due next, stretching or shortening the interval with the seasons.

Run without arguments for the interactive app.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return ac.open()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ac.runTUI(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&ac.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/sprout/config.yaml)")
	flags.String("db", "", "path to the SQLite database")
	flags.BoolVarP(&ac.debug, "debug", "d", false, "enable debug logging")
	_ = ac.v.BindPFlag("db.path", flags.Lookup("db"))

	root.AddCommand(
		newStatusCommand(ac),
		newWaterCommand(ac),
		newUnwaterCommand(ac),
		newCalendarCommand(ac),
		newPlantCommand(ac),
		newRemindCommand(ac),
		newExportCommand(ac),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ac := newAppContext()
	err := newRootCommand(ac).ExecuteContext(ctx)
	stop()
	if cerr := ac.close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Exit(1)
	}
}

// parseDay reads a --date value: YYYY-MM-DD, "today" or "yesterday".
func parseDay(s string) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return garden.Today(), nil
	case "yesterday":
		return garden.AddDays(garden.Today(), -1), nil
	}
	d, err := garden.ParseDay(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return d, nil
}

func (ac *appContext) findPlant(query string) (*garden.Plant, error) {
	p, err := ac.store.FindPlant(query)
	if errors.Is(err, store.ErrPlantNotFound) {
		return nil, fmt.Errorf("no plant matches %q (see 'sprout plant ls')", query)
	}
	return p, err
}
