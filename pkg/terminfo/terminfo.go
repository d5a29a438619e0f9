// Package terminfo looks up capability strings by terminal name and renders
// them through a tiparm.Cache.
package terminfo

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/agenthands/tiparm/pkg/tiparm"
)

var (
	ErrUnknownTerminal = errors.New("terminfo: unknown terminal")
	ErrNoCapability    = errors.New("terminfo: capability not defined")
)

// Source resolves a terminal name to its capabilities.
type Source interface {
	Lookup(term string) (*Entry, error)
}

// Entry is the set of string capabilities of one terminal, keyed by their
// short terminfo names ("cup", "setaf", ...).
type Entry struct {
	Name         string
	Capabilities map[string]string
}

// Capability returns the raw parameterized string for name.
func (e *Entry) Capability(name string) (string, error) {
	s, ok := e.Capabilities[name]
	if !ok || s == "" {
		return "", fmt.Errorf("%w: %s has no %q", ErrNoCapability, e.Name, name)
	}
	return s, nil
}

// Names returns the defined capability names in sorted order.
func (e *Entry) Names() []string {
	return slices.Sorted(maps.Keys(e.Capabilities))
}

// Render evaluates capability name with args. A nil cache compiles on each call.
func (e *Entry) Render(cache *tiparm.Cache, name string, args ...any) (string, error) {
	s, err := e.Capability(name)
	if err != nil {
		return "", err
	}
	if cache == nil {
		return tiparm.Render(s, args...)
	}
	return cache.Render(s, args...)
}

// Merge returns a copy of e with overrides applied on top.
func (e *Entry) Merge(overrides map[string]string) *Entry {
	caps := maps.Clone(e.Capabilities)
	if caps == nil {
		caps = make(map[string]string, len(overrides))
	}
	maps.Copy(caps, overrides)
	return &Entry{Name: e.Name, Capabilities: caps}
}

// MapSource serves entries from memory.
type MapSource map[string]map[string]string

func (s MapSource) Lookup(term string) (*Entry, error) {
	caps, ok := s[term]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTerminal, term)
	}
	return &Entry{Name: term, Capabilities: maps.Clone(caps)}, nil
}

// Chain tries each source in order and returns the first entry found.
type Chain []Source

func (c Chain) Lookup(term string) (*Entry, error) {
	for _, src := range c {
		e, err := src.Lookup(term)
		if err == nil {
			return e, nil
		}
		if !errors.Is(err, ErrUnknownTerminal) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTerminal, term)
}
