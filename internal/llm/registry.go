package llm

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/bimmerbailey/fieldprompt/internal/config"
)

// Factory builds a Provider from the application config.
type Factory func(cfg *config.Config, logger *slog.Logger) (Provider, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]Factory)
)

// Register makes a provider available to NewProvider under name. Backends
// call it from init. Register panics if f is nil or name is taken.
func Register(name string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()

	name = strings.ToLower(name)
	if f == nil {
		panic("llm: Register factory is nil")
	}
	if _, dup := factories[name]; dup {
		panic("llm: Register called twice for provider " + name)
	}
	factories[name] = f
}

// Providers returns the sorted names of the registered providers.
func Providers() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewProvider builds the provider named by cfg.LLM.Provider.
func NewProvider(cfg *config.Config, logger *slog.Logger) (Provider, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	name := strings.ToLower(cfg.LLM.Provider)
	if name == "" {
		return nil, errors.New("llm provider not specified in configuration")
	}

	factoriesMu.RLock()
	f, ok := factories[name]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s (supported: %s)", ErrUnknownProvider, name, strings.Join(Providers(), ", "))
	}

	logger.Debug("creating llm provider", "type", name)
	return f(cfg, logger)
}
