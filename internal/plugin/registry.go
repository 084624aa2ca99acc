package plugin

import (
	"sort"
	"sync"

	"codeberg.org/mutker/cpugraph/internal/errors"
	"github.com/spf13/viper"
)

// Registry maps plugin types to their classes.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]*Class
}

func NewRegistry() *Registry {
	return &Registry{classes: make(map[string]*Class)}
}

func (r *Registry) Register(c *Class) error {
	errFactory := errors.New()

	if c == nil || c.Type == "" || c.New == nil {
		return errFactory.New(ErrInvalidClass)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.classes[c.Type]; ok {
		return errFactory.WithData(ErrDuplicateClass, c.Type)
	}
	r.classes[c.Type] = c

	return nil
}

func (r *Registry) Lookup(typ string) (*Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.classes[typ]
	return c, ok
}

// Classes returns the registered classes ordered by type.
func (r *Registry) Classes() []*Class {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Class, 0, len(r.classes))
	for _, c := range r.classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })

	return out
}

// Construct builds a plugin of the given type. Nil settings are treated as
// empty.
func (r *Registry) Construct(typ string, host Host, settings Settings) (Plugin, error) {
	c, ok := r.Lookup(typ)
	if !ok {
		return nil, errors.New().WithData(ErrUnknownClass, typ)
	}
	if settings == nil {
		settings = viper.New()
	}

	return c.New(host, settings)
}

var defaultRegistry = NewRegistry()

// Register adds c to the process-wide registry.
func Register(c *Class) error { return defaultRegistry.Register(c) }

// Lookup finds a class in the process-wide registry.
func Lookup(typ string) (*Class, bool) { return defaultRegistry.Lookup(typ) }

// Classes lists the process-wide registry.
func Classes() []*Class { return defaultRegistry.Classes() }

// Construct builds a plugin from the process-wide registry.
func Construct(typ string, host Host, settings Settings) (Plugin, error) {
	return defaultRegistry.Construct(typ, host, settings)
}
