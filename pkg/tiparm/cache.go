package tiparm

import (
	"sync"

	"github.com/segmentio/fasthash/fnv1a"

	"github.com/agenthands/tiparm/pkg/vm"
)

const shardCount = 16

type shard struct {
	mu       sync.RWMutex
	programs map[string]*Program
}

// Cache keeps compiled capabilities so repeated renders skip extraction.
// Templates that fail to compile are not cached.
type Cache struct {
	shards [shardCount]shard
	opts   []vm.Option
}

// NewCache creates an empty cache. opts are applied to every evaluation,
// e.g. vm.WithStatics to share session variables across renders.
func NewCache(opts ...vm.Option) *Cache {
	c := &Cache{opts: opts}
	for i := range c.shards {
		c.shards[i].programs = make(map[string]*Program)
	}
	return c
}

func (c *Cache) shard(template string) *shard {
	return &c.shards[fnv1a.HashString64(template)%shardCount]
}

// Get returns the compiled form of template, compiling it on first use.
func (c *Cache) Get(template string) (*Program, error) {
	s := c.shard(template)
	s.mu.RLock()
	prog, ok := s.programs[template]
	s.mu.RUnlock()
	if ok {
		return prog, nil
	}

	prog, err := vm.Compile(template)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if existing, ok := s.programs[template]; ok {
		prog = existing
	} else {
		s.programs[template] = prog
	}
	s.mu.Unlock()
	return prog, nil
}

// Render evaluates the cached form of template.
func (c *Cache) Render(template string, args ...any) (string, error) {
	prog, err := c.Get(template)
	if err != nil {
		return "", err
	}
	return prog.RunWith(args, c.opts...)
}

// Len returns the number of cached programs.
func (c *Cache) Len() int {
	n := 0
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.RLock()
		n += len(s.programs)
		s.mu.RUnlock()
	}
	return n
}

// Purge drops every cached program.
func (c *Cache) Purge() {
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		clear(s.programs)
		s.mu.Unlock()
	}
}
