package deps

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Catalog indexes keys by name so tooling and profiles can address them
// without holding the typed key.
type Catalog struct {
	mu   sync.RWMutex
	keys map[string]AnyKey
}

// NewCatalog constructs a catalog holding keys.
func NewCatalog(keys ...AnyKey) (*Catalog, error) {
	c := &Catalog{keys: make(map[string]AnyKey, len(keys))}
	for _, key := range keys {
		if err := c.Register(key); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MustCatalog is NewCatalog panicking on error, for package level catalogs.
func MustCatalog(keys ...AnyKey) *Catalog {
	c, err := NewCatalog(keys...)
	if err != nil {
		panic(err)
	}
	return c
}

// Register adds key. Names are matched case-insensitively and must be
// unique.
func (c *Catalog) Register(key AnyKey) error {
	if key == nil || key.identity() == nil {
		return ErrKeyRequired
	}
	name := catalogName(key.Name())
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.keys == nil {
		c.keys = make(map[string]AnyKey)
	}
	if existing, ok := c.keys[name]; ok {
		if existing.identity() == key.identity() {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrDuplicateKey, key.Name())
	}
	c.keys[name] = key
	return nil
}

// Lookup returns the key registered under name.
func (c *Catalog) Lookup(name string) (AnyKey, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, name)
	}
	c.mu.RLock()
	key, ok := c.keys[catalogName(name)]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, name)
	}
	return key, nil
}

func catalogName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Keys returns the registered keys sorted by name.
func (c *Catalog) Keys() []AnyKey {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	keys := make([]AnyKey, 0, len(c.keys))
	for _, key := range c.keys {
		keys = append(keys, key)
	}
	c.mu.RUnlock()
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Name() < keys[j].Name()
	})
	return keys
}

// Names returns the registered key names sorted alphabetically.
func (c *Catalog) Names() []string {
	keys := c.Keys()
	names := make([]string, 0, len(keys))
	for _, key := range keys {
		names = append(names, key.Name())
	}
	return names
}

// Variant returns an Override installing the named variant of the key
// registered under keyName.
func (c *Catalog) Variant(keyName, variant string) (Override, error) {
	key, err := c.Lookup(keyName)
	if err != nil {
		return nil, err
	}
	override, ok := key.variantOverride(variant)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownVariant, key.Name(), variant)
	}
	return override, nil
}

// Clone returns a catalog holding the same keys.
func (c *Catalog) Clone() *Catalog {
	clone := &Catalog{keys: make(map[string]AnyKey)}
	if c == nil {
		return clone
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for name, key := range c.keys {
		clone.keys[name] = key
	}
	return clone
}
