package di

import (
	"go.uber.org/dig"

	"github.com/mikey/mail-priority-sorter/internal/config"
	"github.com/mikey/mail-priority-sorter/internal/core"
	"github.com/mikey/mail-priority-sorter/internal/factory"
	"github.com/mikey/mail-priority-sorter/internal/logging"
	"github.com/mikey/mail-priority-sorter/internal/ports"
	"github.com/mikey/mail-priority-sorter/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := provideShared(container); err != nil {
		return nil, err
	}

	// Register email filter
	if err := container.Provide(func(f *factory.FilterFactory) (ports.EmailFilter, error) {
		return f.CreateEmailFilter()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// provideShared registers everything both containers build the same way
func provideShared(container *dig.Container) error {
	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return err
	}

	// Register factories
	if err := container.Provide(factory.NewSettingsFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewFilterFactory); err != nil {
		return err
	}

	// Register settings repository
	if err := container.Provide(func(f *factory.SettingsFactory) (core.SettingsRepository, error) {
		return f.CreateSettingsRepository()
	}); err != nil {
		return err
	}

	// Register priority sorter service
	if err := container.Provide(func(f *factory.SettingsFactory, store core.SettingsRepository) *core.PrioritySorterService {
		return f.CreateService(store)
	}); err != nil {
		return err
	}

	return nil
}
