package match

import (
	"github.com/grovetools/gate/hook"
)

// Trigger pairs a check definition with the changeset paths that selected
// it. Files is empty for patternless checks, which run unconditionally.
type Trigger struct {
	Def   *hook.Definition
	Files []string
}

// Name returns the originating definition's name.
func (t Trigger) Name() string {
	return t.Def.Name
}

// Triggers walks the registry in registration order and selects the checks
// that apply to the changeset:
//
//   - disabled definitions never trigger;
//   - patternless definitions always trigger, with no files, even for an
//     empty changeset;
//   - pattern definitions trigger only when at least one path matches, and
//     carry exactly the matched subset in changeset order.
//
// A pattern definition with no matching paths is skipped for this run,
// which is not a failure.
func Triggers(reg *hook.Registry, cs Changeset) []Trigger {
	var triggers []Trigger

	for _, def := range reg.List() {
		if !def.IsEnabled() {
			continue
		}

		if !def.HasPattern() {
			triggers = append(triggers, Trigger{Def: def})
			continue
		}

		var matched []string
		for _, p := range cs {
			if def.Matches(p) {
				matched = append(matched, p)
			}
		}
		if len(matched) > 0 {
			triggers = append(triggers, Trigger{Def: def, Files: matched})
		}
	}

	return triggers
}
