package logging

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// FilterEnv names the environment variable holding the verbosity filter.
const FilterEnv = "WEBHOST_LOG"

// Filter selects a log level per component.
//
// The textual form is a comma-separated list of directives. A directive is
// either "component=level" or a bare "level" that applies to every component
// without a directive of its own, e.g. "orders=debug,http=info,warn".
type Filter struct {
	Default    zerolog.Level
	Components map[string]zerolog.Level
}

// DefaultFilter returns the filter string used when FilterEnv is unset:
// debug for the service itself and for the HTTP transport layer.
func DefaultFilter(service string) string {
	return service + "=debug,http=debug"
}

// ParseFilter parses a filter string. Components without a directive fall
// back to fallback unless the string carries a bare level.
func ParseFilter(s string, fallback zerolog.Level) (Filter, error) {
	f := Filter{Default: fallback, Components: make(map[string]zerolog.Level)}

	for _, directive := range strings.Split(s, ",") {
		directive = strings.TrimSpace(directive)
		if directive == "" {
			continue
		}

		component, levelStr, hasComponent := strings.Cut(directive, "=")
		if !hasComponent {
			level, err := parseDirectiveLevel(directive)
			if err != nil {
				return Filter{}, err
			}
			f.Default = level
			continue
		}

		component = strings.TrimSpace(component)
		if component == "" {
			return Filter{}, fmt.Errorf("invalid filter directive %q: empty component", directive)
		}
		level, err := parseDirectiveLevel(strings.TrimSpace(levelStr))
		if err != nil {
			return Filter{}, err
		}
		f.Components[component] = level
	}

	return f, nil
}

// Level returns the level that applies to component.
func (f Filter) Level(component string) zerolog.Level {
	if level, ok := f.Components[component]; ok {
		return level
	}
	return f.Default
}

// Min returns the most verbose level named anywhere in the filter.
func (f Filter) Min() zerolog.Level {
	lowest := f.Default
	for _, level := range f.Components {
		if level < lowest {
			lowest = level
		}
	}
	return lowest
}

// String renders the filter in its textual form with components sorted.
func (f Filter) String() string {
	names := make([]string, 0, len(f.Components))
	for name := range f.Components {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names)+1)
	for _, name := range names {
		parts = append(parts, name+"="+f.Components[name].String())
	}
	parts = append(parts, f.Default.String())
	return strings.Join(parts, ",")
}

func parseDirectiveLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(s) {
	case "warning":
		return zerolog.WarnLevel, nil
	case "off", "none":
		return zerolog.Disabled, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil || s == "" {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q in filter", s)
	}
	return level, nil
}
