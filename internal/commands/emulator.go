package commands

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/femcare/internal/db"
	"github.com/terraincognita07/femcare/internal/emulator"
	"github.com/terraincognita07/femcare/internal/services"
)

const shutdownTimeout = 10 * time.Second

func addEmulator(topLevel *cobra.Command, opts *GlobalOptions) {
	var requestLogging bool
	var notifications bool

	cmd := &cobra.Command{
		Use:   "emulator",
		Short: "Serve the document store API from a local SQLite database.",
		Example: `
femcare emulator
FEMCARE_PORT=9090 femcare emulator --log-requests
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.load()
			if err != nil {
				return err
			}
			return runEmulator(env, requestLogging, notifications)
		},
	}

	cmd.Flags().BoolVar(&requestLogging, "log-requests", true, "Log every request.")
	cmd.Flags().BoolVar(&notifications, "notify", true, "Run the reminder notifier in-process.")
	topLevel.AddCommand(cmd)
}

func runEmulator(env *environment, requestLogging bool, notifications bool) error {
	time.Local = env.location

	database, err := db.OpenSQLite(env.cfg.DBPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer func() {
		if err := db.Close(database); err != nil {
			log.Printf("database close failed: %v", err)
		}
	}()

	repositories := db.NewRepositories(database)
	handler, err := emulator.NewHandler(repositories, env.cfg.SecretKey)
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}
	app := emulator.NewApp(handler, emulator.AppOptions{RequestLogging: requestLogging})

	lifecycleCtx, cancelLifecycle := context.WithCancel(context.Background())
	defer cancelLifecycle()

	if notifications {
		pusher, err := newPusher(lifecycleCtx, env.cfg)
		if err != nil {
			return err
		}
		notifier := services.NewReminderNotifier(repositories.Reminders, repositories.Users, pusher, env.location, env.cfg.ReminderSchedule)
		if err := notifier.Start(lifecycleCtx); err != nil {
			return err
		}
	}

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		cancelLifecycle()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	address := env.cfg.ListenAddress()
	log.Printf("femcare emulator listening on http://0.0.0.0%s (db: %s, tz: %s)", address, env.cfg.DBPath, env.location)
	if err := app.Listen(address); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}
