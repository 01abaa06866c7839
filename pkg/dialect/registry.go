package dialect

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Dialect registry. Populated from pkg/dialects/* package init functions;
// read-only lookups thereafter.
var (
	dialectsMu sync.RWMutex
	dialects   = make(map[string]*Dialect)
)

// Register registers a dialect in the global registry. Called by dialect
// implementations in their init() functions.
func Register(d *Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[strings.ToLower(d.Name())] = d
}

// Get returns a dialect by name.
func Get(name string) (*Dialect, bool) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	d, ok := dialects[strings.ToLower(name)]
	return d, ok
}

// MustGet returns a dialect by name or panics. For use in tests and
// process setup where the dialect set is known.
func MustGet(name string) *Dialect {
	d, ok := Get(name)
	if !ok {
		panic(fmt.Sprintf("dialect: %q is not registered", name))
	}
	return d
}

// List returns all registered dialect names, sorted.
func List() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
