package conflagrate

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"golang.org/x/sync/singleflight"
)

// CachePolicy controls whether a dependency's resolved value is memoized
// across a run.
type CachePolicy int

const (
	// CachePermanently memoizes the first resolved value for the
	// lifetime of the owning DependencyCache.
	CachePermanently CachePolicy = iota
	// NeverCache re-invokes the producer on every Resolve call and never
	// stores the result.
	NeverCache
)

// Dependency is an immutable registration record for a named producer.
type Dependency struct {
	Name        string
	Callable    DependencyFunc
	DependsOn   []string
	CachePolicy CachePolicy
}

// DependencyOption configures a Dependency at registration time.
type DependencyOption func(*Dependency)

// WithCachePolicy sets the dependency's cache policy. Defaults to
// CachePermanently.
func WithCachePolicy(p CachePolicy) DependencyOption {
	return func(d *Dependency) { d.CachePolicy = p }
}

// WithDependencyDependsOn declares the upstream dependency names this
// dependency requires, resolved (and passed as Deps) before the producer
// runs.
func WithDependencyDependsOn(names ...string) DependencyOption {
	return func(d *Dependency) { d.DependsOn = names }
}

var ctxType = reflect.TypeOf((*context.Context)(nil)).Elem()

type dependencyRegistry struct {
	mu   sync.RWMutex
	deps map[string]Dependency
}

var dependencies = &dependencyRegistry{deps: make(map[string]Dependency)}

// RegisterDependency binds fn under name with the given options. fn's static
// type must accept context.Context as its first parameter — Go's closest
// analogue of "must be defined with async def" — otherwise registration
// fails with ErrSyncDependencyRejected.
func RegisterDependency(name string, fn DependencyFunc, opts ...DependencyOption) error {
	fnType := reflect.TypeOf(fn)
	if fnType == nil || fnType.Kind() != reflect.Func || fnType.NumIn() < 1 || !fnType.In(0).Implements(ctxType) {
		return fmt.Errorf("%w: %q", ErrSyncDependencyRejected, name)
	}

	dep := Dependency{Name: name, Callable: fn, CachePolicy: CachePermanently}
	for _, opt := range opts {
		opt(&dep)
	}

	dependencies.mu.Lock()
	defer dependencies.mu.Unlock()
	if _, exists := dependencies.deps[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateRegistration, name)
	}
	dependencies.deps[name] = dep
	return nil
}

// Dependencies returns a snapshot copy of the current dependency registry.
func Dependencies() map[string]Dependency {
	dependencies.mu.RLock()
	defer dependencies.mu.RUnlock()
	out := make(map[string]Dependency, len(dependencies.deps))
	for k, v := range dependencies.deps {
		out[k] = v
	}
	return out
}

// resetDependencyRegistry clears the global dependency registry. It exists
// for test isolation only.
func resetDependencyRegistry() {
	dependencies.mu.Lock()
	defer dependencies.mu.Unlock()
	dependencies.deps = make(map[string]Dependency)
}

// DependencyCache is a per-run snapshot of the Dependency Registry plus a
// value store keyed by dependency name. CachePermanently values are
// memoized; NeverCache values are recomputed on every Resolve call.
type DependencyCache struct {
	registry map[string]Dependency

	mu    sync.Mutex
	memo  map[string]any
	group singleflight.Group
}

// NewDependencyCache snapshots the current Dependency Registry into a fresh,
// empty cache.
func NewDependencyCache() *DependencyCache {
	return &DependencyCache{
		registry: Dependencies(),
		memo:     make(map[string]any),
	}
}

type resolvingKey struct{}

// Resolve returns the value for name, invoking (and recursively resolving
// the upstream dependencies of) its producer if necessary.
//
// CachePermanently resolutions that race concurrently for the same name
// coalesce to a single producer invocation via singleflight; NeverCache
// resolutions deliberately bypass that coalescing so that every Resolve
// call invokes the producer independently.
func (c *DependencyCache) Resolve(ctx context.Context, name string) (any, error) {
	dep, ok := c.registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDependency, name)
	}

	resolving, _ := ctx.Value(resolvingKey{}).(map[string]bool)
	if resolving[name] {
		return nil, fmt.Errorf("%w: %q", ErrCyclicDependency, name)
	}

	if dep.CachePolicy == CachePermanently {
		c.mu.Lock()
		if v, ok := c.memo[name]; ok {
			c.mu.Unlock()
			return v, nil
		}
		c.mu.Unlock()

		v, err, _ := c.group.Do(name, func() (any, error) {
			return c.invoke(ctx, dep, resolving)
		})
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.memo[name] = v
		c.mu.Unlock()
		return v, nil
	}

	return c.invoke(ctx, dep, resolving)
}

func (c *DependencyCache) invoke(ctx context.Context, dep Dependency, resolving map[string]bool) (any, error) {
	next := make(map[string]bool, len(resolving)+1)
	for k := range resolving {
		next[k] = true
	}
	next[dep.Name] = true
	childCtx := context.WithValue(ctx, resolvingKey{}, next)

	deps := make(Deps, len(dep.DependsOn))
	for _, upstream := range dep.DependsOn {
		v, err := c.Resolve(childCtx, upstream)
		if err != nil {
			return nil, fmt.Errorf("resolving dependency %q for %q: %w", upstream, dep.Name, err)
		}
		deps[upstream] = v
	}

	v, err := dep.Callable(ctx, deps)
	if err != nil {
		return nil, fmt.Errorf("dependency %q: %w", dep.Name, err)
	}
	return v, nil
}
