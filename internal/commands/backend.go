package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/terraincognita07/femcare/internal/baas"
	"github.com/terraincognita07/femcare/internal/cache"
	"github.com/terraincognita07/femcare/internal/chat"
	"github.com/terraincognita07/femcare/internal/config"
	"github.com/terraincognita07/femcare/internal/firestore"
	"github.com/terraincognita07/femcare/internal/push"
	"github.com/terraincognita07/femcare/internal/services"
)

// backend groups the remote data access of one command run. Reminders and
// support requests always go through the REST document store; chat, cycle,
// pregnancy and user documents move to Firestore when it is configured.
type backend struct {
	client      *baas.Client
	chat        chat.Backend
	reminders   services.ReminderRepository
	support     services.SupportRepository
	cycles      services.CycleRepository
	pregnancies services.PregnancyRepository
	users       services.UserDirectory
	closers     []func() error
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	client, err := baas.NewClient(cfg.BaaSURL, cfg.BaaSToken)
	if err != nil {
		return nil, err
	}

	b := &backend{
		client:      client,
		chat:        client,
		reminders:   client,
		support:     client,
		cycles:      client,
		pregnancies: client,
		users:       client,
	}
	if cfg.Backend != config.BackendFirestore {
		return b, nil
	}

	store, err := firestore.Open(ctx, firestore.Config{
		ProjectID:       cfg.FirebaseProject,
		CredentialsFile: cfg.FirebaseCredentials,
	})
	if err != nil {
		return nil, err
	}
	b.chat = store
	b.cycles = store
	b.pregnancies = store
	b.users = store
	b.closers = append(b.closers, store.Close)
	return b, nil
}

func (b *backend) Close() error {
	var errs []error
	for _, closeFn := range b.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func withBackend(ctx context.Context, env *environment, run func(b *backend) error) error {
	b, err := openBackend(ctx, env.cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Close(); err != nil {
			log.Printf("backend close failed: %v", err)
		}
	}()
	return run(b)
}

// openViewCache returns nil when the cache directory cannot be used; commands
// then run without offline fallback.
func openViewCache(cfg *config.Config) *cache.Store {
	store, err := cache.Open(cfg.CachePath)
	if err != nil {
		log.Printf("cache disabled: %v", err)
		return nil
	}
	return store
}

func newPusher(ctx context.Context, cfg *config.Config) (services.Pusher, error) {
	if strings.TrimSpace(cfg.FirebaseCredentials) == "" {
		return services.LogPusher{}, nil
	}
	pusher, err := push.NewFirebasePusher(ctx, cfg.FirebaseCredentials)
	if err != nil {
		return nil, fmt.Errorf("push init failed: %w", err)
	}
	return pusher, nil
}
