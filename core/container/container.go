package container

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrNoBinding    = errors.New("no matching binding found")
	ErrTypeMismatch = errors.New("resolved value has unexpected type")
	ErrNilFactory   = errors.New("nil factory")
)

// Factory builds a value for a binding.
type Factory func() (any, error)

// Container maps string keys to factories and memoizes the first value each
// factory returns. It is safe for concurrent use.
type Container struct {
	mu        sync.Mutex
	bindings  map[string]Factory
	instances map[string]any
}

// New returns an empty container.
func New() *Container {
	return &Container{
		bindings:  make(map[string]Factory),
		instances: make(map[string]any),
	}
}

// Bind registers factory under key, replacing any previous binding and
// dropping its memoized value.
func (c *Container) Bind(key string, factory Factory) {
	if factory == nil {
		panic(fmt.Errorf("%w for %s", ErrNilFactory, key))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.bindings[key] = factory
	delete(c.instances, key)
}

// Has reports whether key is bound.
func (c *Container) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.bindings[key]
	return ok
}

// Resolve returns the value bound to key. The first successful result is
// memoized. With forceNew the factory runs again and the memoized value is
// left untouched. A factory error is returned and nothing is stored.
//
// Factories may resolve other keys; the lock is not held while they run.
func (c *Container) Resolve(key string, forceNew bool) (any, error) {
	c.mu.Lock()
	factory, ok := c.bindings[key]
	if !ok {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w for %s", ErrNoBinding, key)
	}
	if !forceNew {
		if v, ok := c.instances[key]; ok {
			c.mu.Unlock()
			return v, nil
		}
	}
	c.mu.Unlock()

	v, err := factory()
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", key, err)
	}
	if forceNew {
		return v, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Another goroutine may have resolved the key meanwhile; keep the first.
	if existing, ok := c.instances[key]; ok {
		return existing, nil
	}
	c.instances[key] = v
	return v, nil
}

// Get resolves key and asserts the value to T.
func Get[T any](c *Container, key string) (T, error) {
	var zero T
	v, err := c.Resolve(key, false)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %T, want %T", ErrTypeMismatch, key, v, zero)
	}
	return t, nil
}

// MustGet is like Get but panics on error. Use it during bootstrap only.
func MustGet[T any](c *Container, key string) T {
	v, err := Get[T](c, key)
	if err != nil {
		panic(err)
	}
	return v
}
