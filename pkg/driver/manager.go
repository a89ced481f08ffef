package driver

import (
	"errors"
	"sort"
	"sync"
)

var errNilAdapter = errors.New("driver: adapter can't be nil")

// FilterFn is being used to decide if a driver should be included in the
// query result.
type FilterFn func(Driver) bool

// FilterDeviceType returns a filter that matches drivers of t.
func FilterDeviceType(t DeviceType) FilterFn {
	return func(d Driver) bool {
		return d.Info().DeviceType == t
	}
}

// FilterID returns a filter that matches the driver with id.
func FilterID(id string) FilterFn {
	return func(d Driver) bool {
		return d.ID() == id
	}
}

// FilterNot returns a filter negating the given filter.
func FilterNot(filter FilterFn) FilterFn {
	return func(d Driver) bool {
		return !filter(d)
	}
}

// FilterAnd returns a filter that matches when all filters match.
func FilterAnd(filters ...FilterFn) FilterFn {
	return func(d Driver) bool {
		for _, f := range filters {
			if !f(d) {
				return false
			}
		}
		return true
	}
}

// Manager is a singleton to manage multiple drivers and their states
type Manager struct {
	mu      sync.RWMutex
	drivers map[string]Driver
}

var manager = NewManager()

// NewManager creates an empty registry. Most callers use GetManager.
func NewManager() *Manager {
	return &Manager{drivers: make(map[string]Driver)}
}

// GetManager gets manager singleton instance
func GetManager() *Manager {
	return manager
}

// Register wraps a and adds it to the registry. It returns the new driver.
func (m *Manager) Register(a Adapter, info Info) (Driver, error) {
	if a == nil {
		return nil, errNilAdapter
	}
	d := wrapAdapter(a, info)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[d.ID()] = d
	logger.Debugf("registered %s %q as %s", info.DeviceType, info.Label, d.ID())
	return d, nil
}

// Query queries by using f to filter drivers, and simply return the filtered
// results. Drivers are ordered by descending priority, then by label.
func (m *Manager) Query(f FilterFn) []Driver {
	m.mu.RLock()
	results := make([]Driver, 0, len(m.drivers))
	for _, d := range m.drivers {
		if f == nil || f(d) {
			results = append(results, d)
		}
	}
	m.mu.RUnlock()

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i].Info(), results[j].Info()
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return a.Label < b.Label
	})
	return results
}
