// Package commands wires the femcare command line: the local document store
// emulator and client commands for cycles, reminders, content, chat, support
// and pregnancy data.
package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/femcare/internal/config"
	"github.com/terraincognita07/femcare/internal/i18n"
	"github.com/terraincognita07/femcare/internal/services"
)

var errMissingUser = errors.New("no user selected: pass --user or set FEMCARE_USER_ID")

// GlobalOptions are the persistent flags shared by every command.
type GlobalOptions struct {
	ConfigDir string
	UserID    string
	Language  string
	JSON      bool
}

func New() *cobra.Command {
	opts := &GlobalOptions{}

	cmd := &cobra.Command{
		Use:           "femcare",
		Short:         "Period tracking, reminders and peer support from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigDir, "config", "", "Directory holding .femcare.yaml.")
	flags.StringVarP(&opts.UserID, "user", "u", "", "Act as this user id.")
	flags.StringVar(&opts.Language, "lang", "", "Language for labels (en or ru).")
	flags.BoolVar(&opts.JSON, "json", false, "Output as JSON.")

	AddCommands(cmd, opts)
	return cmd
}

func AddCommands(topLevel *cobra.Command, opts *GlobalOptions) {
	addEmulator(topLevel, opts)
	addToken(topLevel, opts)
	addUser(topLevel, opts)
	addCycle(topLevel, opts)
	addReminder(topLevel, opts)
	addContent(topLevel, opts)
	addChat(topLevel, opts)
	addSupport(topLevel, opts)
	addPregnancy(topLevel, opts)
	addNotify(topLevel, opts)
	addCache(topLevel, opts)
}

type environment struct {
	cfg      *config.Config
	location *time.Location
	messages *i18n.Manager
	language string
	userID   string
}

func (opts *GlobalOptions) load() (*environment, error) {
	cfg, err := config.Load(opts.ConfigDir)
	if err != nil {
		return nil, err
	}

	messages, err := i18n.NewEmbeddedManager(cfg.DefaultLanguage)
	if err != nil {
		return nil, fmt.Errorf("i18n init failed: %w", err)
	}

	userID := strings.TrimSpace(opts.UserID)
	if userID == "" {
		userID = cfg.UserID
	}
	return &environment{
		cfg:      cfg,
		location: cfg.Location(),
		messages: messages,
		language: messages.NormalizeLanguage(opts.Language),
		userID:   userID,
	}, nil
}

func (env *environment) requireUser() (string, error) {
	if env.userID == "" {
		return "", errMissingUser
	}
	return env.userID, nil
}

func (env *environment) now() time.Time {
	return time.Now().In(env.location)
}

func (env *environment) t(key string) string {
	return env.messages.Translate(env.language, key)
}

func (env *environment) reminderLabels() services.ReminderLabels {
	return env.messages.ReminderLabels(env.language)
}

// parseDay reads a YYYY-MM-DD flag value as a calendar day in location. An empty
// value means today.
func parseDay(raw string, location *time.Location, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return services.DateAtLocation(now, location), nil
	}
	day, err := time.ParseInLocation("2006-01-02", raw, location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return day, nil
}

func parseMoment(raw string, location *time.Location) (time.Time, error) {
	moment, err := time.ParseInLocation("2006-01-02 15:04", strings.TrimSpace(raw), location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, expected \"YYYY-MM-DD HH:MM\"", raw)
	}
	return moment, nil
}
