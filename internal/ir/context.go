package ir

import (
	"fmt"
	"runtime"
	"sync"
)

// Context is process-wide state shared by every Generator created during a
// single compilation: it uniquifies generator type names and interns the
// canonical Const/string constant pool. Construct one per compilation and
// drop it when compilation finishes.
type Context struct {
	mu sync.Mutex

	typeNames map[string]int // base type name -> next suffix to try
	generators map[string]*Generator

	constPool  map[constKey]*Var
	stringPool map[string]string

	numCPUs int
}

type constKey struct {
	value    int64
	width    uint
	isSigned bool
}

// NewContext creates a fresh Context. Tests should construct one per case
// rather than sharing a package-level singleton.
func NewContext() *Context {
	return &Context{
		typeNames:  make(map[string]int),
		generators: make(map[string]*Generator),
		constPool:  make(map[constKey]*Var),
		stringPool: make(map[string]string),
		numCPUs:    runtime.NumCPU(),
	}
}

// NewGenerator creates and registers a new Generator named name, uniquifying
// its type name against every other generator created from this Context.
func (c *Context) NewGenerator(name string) *Generator {
	c.mu.Lock()
	defer c.mu.Unlock()

	uniqued := c.uniquifyLocked(name)
	g := newGenerator(c, uniqued)
	c.generators[uniqued] = g
	return g
}

// uniquifyLocked returns a name guaranteed not to collide with any name this
// Context has already handed out, appending a monotonically increasing
// numeric suffix when necessary. Must be called with c.mu held.
func (c *Context) uniquifyLocked(name string) string {
	if _, taken := c.generators[name]; !taken {
		c.typeNames[name] = 0
		return name
	}
	for {
		n := c.typeNames[name]
		c.typeNames[name] = n + 1
		candidate := fmt.Sprintf("%s_%d", name, n)
		if _, taken := c.generators[candidate]; !taken {
			return candidate
		}
	}
}

// Rename reserves newName for generator g, uniquifying it the same way
// NewGenerator does. The uniquify_generators pass does not call it; it
// assigns its own suffixed names.
func (c *Context) Rename(g *Generator, newName string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.generators, g.Name)
	uniqued := c.uniquifyLocked(newName)
	c.generators[uniqued] = g
	g.Name = uniqued
	return uniqued
}

// InternConst returns the canonical *Var for the given (value, width,
// signed) triple, creating it on first use. Subsequent calls with the same
// triple return the identical pointer so equal constants compare equal by
// identity wherever that matters (e.g. concat/slice caches keyed on *Var).
func (c *Context) InternConst(value int64, width uint, isSigned bool) (*Var, error) {
	key := constKey{value: value, width: width, isSigned: isSigned}

	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.constPool[key]; ok {
		return v, nil
	}
	if err := checkConstRange(value, width, isSigned); err != nil {
		return nil, err
	}
	v := &Var{
		width:    width,
		isSigned: isSigned,
		variant:  VarConstValue,
		size:     []uint{1},
		constVal: value,
	}
	c.constPool[key] = v
	return v, nil
}

// InternString returns the canonical copy of s, deduplicating identical
// strings across the compilation the way Const values are deduplicated.
func (c *Context) InternString(s string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.stringPool[s]; ok {
		return v
	}
	c.stringPool[s] = s
	return s
}

// NumCPUs returns the configured worker pool size for parallel passes.
func (c *Context) NumCPUs() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.numCPUs
}

// SetNumCPUs overrides the worker pool size; n <= 0 resets to the detected
// core count.
func (c *Context) SetNumCPUs(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n <= 0 {
		n = runtime.NumCPU()
	}
	c.numCPUs = n
}
