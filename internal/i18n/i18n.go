// Package i18n holds the embedded message catalogs.
package i18n

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path"
	"strconv"
	"strings"

	"github.com/terraincognita07/femcare/internal/services"
)

//go:embed locales/*.json
var embeddedLocales embed.FS

const (
	LangRU = "ru"
	LangEN = "en"
)

var requiredLanguages = []string{LangEN, LangRU}

var errNoCatalogs = errors.New("no message catalogs found")

// catalog maps message keys to text for one language.
type catalog map[string]string

type Manager struct {
	defaultLanguage string
	catalogs        map[string]catalog
}

// NewEmbeddedManager loads the catalogs compiled into the binary.
func NewEmbeddedManager(defaultLanguage string) (*Manager, error) {
	locales, err := fs.Sub(embeddedLocales, "locales")
	if err != nil {
		return nil, fmt.Errorf("open embedded locales: %w", err)
	}
	return NewManager(defaultLanguage, locales)
}

// NewManager reads one <language>.json catalog per file of localesDir. Unknown
// default languages fall back to English.
func NewManager(defaultLanguage string, localesDir fs.FS) (*Manager, error) {
	files, err := fs.Glob(localesDir, "*.json")
	if err != nil {
		return nil, fmt.Errorf("list locales: %w", err)
	}
	if len(files) == 0 {
		return nil, errNoCatalogs
	}

	manager := &Manager{catalogs: make(map[string]catalog, len(files))}
	for _, file := range files {
		language := strings.ToLower(strings.TrimSuffix(file, path.Ext(file)))
		messages, err := readCatalog(localesDir, file)
		if err != nil {
			return nil, fmt.Errorf("locale %s: %w", language, err)
		}
		manager.catalogs[language] = messages
	}
	for _, language := range requiredLanguages {
		if _, ok := manager.catalogs[language]; !ok {
			return nil, fmt.Errorf("required locale %q missing", language)
		}
	}

	manager.defaultLanguage = LangEN
	manager.defaultLanguage = manager.NormalizeLanguage(defaultLanguage)
	return manager, nil
}

func readCatalog(localesDir fs.FS, file string) (catalog, error) {
	content, err := fs.ReadFile(localesDir, file)
	if err != nil {
		return nil, err
	}
	messages := catalog{}
	if err := json.Unmarshal(content, &messages); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if len(messages) == 0 {
		return nil, errors.New("catalog is empty")
	}
	return messages, nil
}

func (manager *Manager) DefaultLanguage() string {
	return manager.defaultLanguage
}

// NormalizeLanguage maps tags such as "ru-RU" or "ru_RU" to a loaded catalog,
// falling back to the default language.
func (manager *Manager) NormalizeLanguage(raw string) string {
	if language, ok := manager.lookupLanguage(raw); ok {
		return language
	}
	return manager.defaultLanguage
}

// DetectFromLocale picks the first supported language among POSIX locale values
// like "ru_RU.UTF-8", usually LC_ALL and LANG in that order.
func (manager *Manager) DetectFromLocale(values ...string) string {
	for _, value := range values {
		value, _, _ = strings.Cut(value, ".")
		value, _, _ = strings.Cut(value, "@")
		if language, ok := manager.lookupLanguage(value); ok {
			return language
		}
	}
	return manager.defaultLanguage
}

func (manager *Manager) lookupLanguage(raw string) (string, bool) {
	tag := strings.ToLower(strings.TrimSpace(raw))
	tag = strings.ReplaceAll(tag, "_", "-")
	language, _, _ := strings.Cut(tag, "-")
	if language == "" {
		return "", false
	}
	_, ok := manager.catalogs[language]
	return language, ok
}

// Messages returns the catalog of language layered over the default catalog.
func (manager *Manager) Messages(language string) map[string]string {
	merged := maps.Clone(manager.catalogs[manager.defaultLanguage])
	maps.Copy(merged, manager.catalogs[manager.NormalizeLanguage(language)])
	return merged
}

// Translate echoes the key when no catalog has text for it.
func (manager *Manager) Translate(language string, key string) string {
	for _, candidate := range []string{manager.NormalizeLanguage(language), manager.defaultLanguage} {
		if text := strings.TrimSpace(manager.catalogs[candidate][key]); text != "" {
			return manager.catalogs[candidate][key]
		}
	}
	return key
}

func (manager *Manager) Translatef(language string, key string, args ...any) string {
	return fmt.Sprintf(manager.Translate(language, key), args...)
}

// ReminderLabels builds the localized day labels used by reminder formatting.
func (manager *Manager) ReminderLabels(language string) services.ReminderLabels {
	messages := manager.Messages(language)
	labels := services.ReminderLabels{
		Today:    nonEmpty(messages["reminder.today"], services.DefaultReminderLabels.Today),
		Tomorrow: nonEmpty(messages["reminder.tomorrow"], services.DefaultReminderLabels.Tomorrow),
	}
	labels.DayFirst, _ = strconv.ParseBool(messages["reminder.day_first"])
	for month := 1; month <= 12; month++ {
		labels.ShortMonths[month-1] = messages["month.short."+strconv.Itoa(month)]
	}
	return labels
}

func nonEmpty(value string, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
