package app

import "sort"

// Runner runs the simulation on one backend until the window closes.
type Runner func(cfg *Config) error

var backends = map[string]Runner{}

// RegisterBackend adds a backend runner under the provided name.
func RegisterBackend(name string, r Runner) {
	if name == "" || r == nil {
		return
	}
	backends[name] = r
}

// Backend returns the runner registered under name.
func Backend(name string) (Runner, bool) {
	r, ok := backends[name]
	return r, ok
}

// Backends lists the registered backend names in sorted order.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
