package llm

import (
	"fmt"

	"github.com/chenhw7/MoonLight/internal/models"
)

// ProviderFactory builds a provider from a session's frozen model config.
// Factories construct a fresh client per call: there is deliberately no
// shared instance cache keyed by URL or key.
type ProviderFactory func(cfg models.ModelConfig) (Provider, error)

// Registry maps provider names to factories. It is populated at wiring time
// and passed to whoever needs clients; no package-level mutable state.
type Registry struct {
	factories map[string]ProviderFactory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]ProviderFactory)}
}

// Register adds a factory under the given provider name, replacing any
// previous registration.
func (r *Registry) Register(name string, factory ProviderFactory) {
	r.factories[name] = factory
}

// New constructs a provider for the config's provider name.
func (r *Registry) New(cfg models.ModelConfig) (Provider, error) {
	factory, exists := r.factories[cfg.Provider]
	if !exists {
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// Names returns the registered provider names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}
