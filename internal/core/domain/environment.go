package domain

import "strings"

// Environment is an insertion-ordered mapping of variable names to values.
// Order matters: it drives the order of `--env` flags and of placeholder substitution.
type Environment struct {
	keys   []string
	values map[string]string
}

// NewEnvironment returns an empty environment.
func NewEnvironment() *Environment {
	return &Environment{values: make(map[string]string)}
}

// EnvironmentFromList parses "KEY=VALUE" entries such as os.Environ().
// Entries without '=' are ignored; a repeated key keeps its first position and last value.
func EnvironmentFromList(entries []string) *Environment {
	env := NewEnvironment()
	for _, entry := range entries {
		k, v, ok := strings.Cut(entry, "=")
		if !ok || k == "" {
			continue
		}
		env.Set(k, v)
	}
	return env
}

// EnvironmentFromPairs builds an environment from alternating keys and values.
func EnvironmentFromPairs(kv ...string) *Environment {
	env := NewEnvironment()
	for i := 0; i+1 < len(kv); i += 2 {
		env.Set(kv[i], kv[i+1])
	}
	return env
}

// Get returns the value of key and whether it is set.
func (e *Environment) Get(key string) (string, bool) {
	if e == nil {
		return "", false
	}
	v, ok := e.values[key]
	return v, ok
}

// Value returns the value of key, or "" when unset.
func (e *Environment) Value(key string) string {
	v, _ := e.Get(key)
	return v
}

// Has reports whether key is set.
func (e *Environment) Has(key string) bool {
	_, ok := e.Get(key)
	return ok
}

// Set assigns key. A new key is appended; an existing key keeps its position.
func (e *Environment) Set(key, value string) {
	if e.values == nil {
		e.values = make(map[string]string)
	}
	if _, ok := e.values[key]; !ok {
		e.keys = append(e.keys, key)
	}
	e.values[key] = value
}

// Keys returns the keys in order.
func (e *Environment) Keys() []string {
	if e == nil {
		return nil
	}
	out := make([]string, len(e.keys))
	copy(out, e.keys)
	return out
}

// Len returns the number of variables.
func (e *Environment) Len() int {
	if e == nil {
		return 0
	}
	return len(e.keys)
}

// Clone returns an independent copy.
func (e *Environment) Clone() *Environment {
	out := NewEnvironment()
	if e == nil {
		return out
	}
	for _, k := range e.keys {
		out.Set(k, e.values[k])
	}
	return out
}

// List renders the environment as "KEY=VALUE" entries for process execution.
func (e *Environment) List() []string {
	if e == nil {
		return nil
	}
	out := make([]string, 0, len(e.keys))
	for _, k := range e.keys {
		out = append(out, k+"="+e.values[k])
	}
	return out
}

// Compose returns the effective environment of a task run. The receiver is not modified.
//
// Overrides replace inherited values. Defaults only fill keys that are still missing,
// and the result lists the default keys first, followed by the remaining inherited keys.
func (e *Environment) Compose(overrides, defaults *Environment) *Environment {
	env := e.Clone()

	if overrides != nil {
		for _, k := range overrides.keys {
			env.Set(k, overrides.values[k])
		}
	}

	if defaults == nil {
		return env
	}

	out := defaults.Clone()
	for _, k := range env.keys {
		out.Set(k, env.values[k])
	}
	return out
}
