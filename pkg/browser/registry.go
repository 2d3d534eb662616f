package browser

import (
	"fmt"
	"sort"
)

type DriverFactory func() (Driver, error)

// registry stores each browser backend's factory. Backends register themselves
// from their init() functions, so importing a backend package is enough to make
// it selectable by name.
var registry = map[string]DriverFactory{}

func RegisterDriver(name string, factory DriverFactory) {
	registry[name] = factory
}

// GetDriver returns a new Driver for the named backend.
func GetDriver(name string) (Driver, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %v)", ErrUnknownDriver, name, Drivers())
	}
	return factory()
}

func HasDriver(name string) bool {
	_, ok := registry[name]
	return ok
}

// Drivers lists the registered backend names in sorted order.
func Drivers() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
