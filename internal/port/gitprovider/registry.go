package gitprovider

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/devdeck/devdeck/internal/git"
	"github.com/devdeck/devdeck/internal/port/command"
)

// Deps carries everything a provider needs to run git commands.
type Deps struct {
	Runner         command.Runner
	Pool           *git.Pool
	Binary         string
	Timeout        time.Duration
	DefaultCommits int
}

// Factory builds a Provider from its dependencies. Adapters register one
// under a stable name from init, and configuration picks it at startup.
type Factory func(deps Deps) (Provider, error)

var reg = struct {
	sync.RWMutex
	byName map[string]Factory
}{byName: make(map[string]Factory)}

// Register adds a provider factory under name. Registering the same name
// twice is a programming error and panics.
func Register(name string, factory Factory) {
	if name == "" || factory == nil {
		panic("gitprovider: Register needs a name and a factory")
	}

	reg.Lock()
	defer reg.Unlock()

	if _, dup := reg.byName[name]; dup {
		panic("gitprovider: " + name + " registered twice")
	}
	reg.byName[name] = factory
}

// New builds the provider registered under name. Unknown names report the
// registered alternatives so a config typo is obvious from the error.
func New(name string, deps Deps) (Provider, error) {
	reg.RLock()
	factory, ok := reg.byName[name]
	reg.RUnlock()

	if !ok {
		return nil, fmt.Errorf("gitprovider: no provider named %q (have: %s)",
			name, strings.Join(Available(), ", "))
	}
	return factory(deps)
}

// Available lists the registered provider names, sorted.
func Available() []string {
	reg.RLock()
	defer reg.RUnlock()

	names := make([]string, 0, len(reg.byName))
	for name := range reg.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
