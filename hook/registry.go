package hook

import (
	"github.com/grovetools/gate/command"
	"github.com/grovetools/gate/errors"
)

// Registry is an ordered, read-only collection of check definitions.
// Registration order is significant: it fixes execution and report order.
// A registry is built once per run and never mutated afterwards;
// reconfiguration means building a fresh registry, not editing this one.
type Registry struct {
	defs   []*Definition
	byName map[string]*Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Definition),
	}
}

// Register validates a definition and appends it to the registry.
// It fails with CONFIG_INVALID if the name is missing or unsafe to hand
// to a shell, DUPLICATE_HOOK if the name is already taken, or
// INVALID_PATTERN if a file pattern does not compile. On failure the
// registry is left unchanged.
func (r *Registry) Register(def *Definition) error {
	if err := command.ValidateHookName(def.Name); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid hook name").
			WithDetail("hook", def.Name)
	}
	if len(def.Entry) == 0 {
		return errors.ConfigInvalid("hook '" + def.Name + "' has no entry").
			WithDetail("hook", def.Name)
	}
	if _, exists := r.byName[def.Name]; exists {
		return errors.DuplicateHook(def.Name)
	}
	if err := def.compile(); err != nil {
		return err
	}

	r.defs = append(r.defs, def)
	r.byName[def.Name] = def
	return nil
}

// List returns all definitions in registration order.
func (r *Registry) List() []*Definition {
	out := make([]*Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Get retrieves a definition by name.
func (r *Registry) Get(name string) (*Definition, bool) {
	def, ok := r.byName[name]
	return def, ok
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	return len(r.defs)
}
