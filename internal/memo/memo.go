// Package memo holds solved subproblem values keyed by canonical state keys.
package memo

import (
	"errors"
	"fmt"
)

// ErrDuplicateKey is wrapped by DuplicateKeyError.
var ErrDuplicateKey = errors.New("memo: key stored twice")

// Key is the canonical byte encoding of a state.
type Key string

// Store maps keys to expected values. A key is written at most once.
type Store interface {
	Get(k Key) (float64, bool)
	Put(k Key, v float64)
	Len() int
}

// DuplicateKeyError is raised with panic when a key is written a second time.
// That only happens if two different states share a key or a computation
// re-entered itself.
type DuplicateKeyError struct {
	Key      Key
	Existing float64
	Value    float64
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s: %x (have %g, got %g)", ErrDuplicateKey, string(e.Key), e.Existing, e.Value)
}

func (e *DuplicateKeyError) Unwrap() error {
	return ErrDuplicateKey
}

// Memory is an in-memory write-once store. It is not safe for concurrent use.
type Memory struct {
	values map[Key]float64
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{values: make(map[Key]float64)}
}

func (m *Memory) Get(k Key) (float64, bool) {
	v, ok := m.values[k]
	return v, ok
}

func (m *Memory) Put(k Key, v float64) {
	if old, ok := m.values[k]; ok {
		panic(&DuplicateKeyError{Key: k, Existing: old, Value: v})
	}
	m.values[k] = v
}

func (m *Memory) Len() int {
	return len(m.values)
}

// Nop never remembers anything. Every Get misses, so callers recompute each
// subproblem from scratch.
type Nop struct{}

func (Nop) Get(Key) (float64, bool) { return 0, false }
func (Nop) Put(Key, float64) {}
func (Nop) Len() int { return 0 }

// Counters summarises store traffic.
type Counters struct {
	Hits   uint64
	Misses uint64
	Stores uint64
}

// HitRate returns hits over lookups, or zero before the first lookup.
func (c Counters) HitRate() float64 {
	total := c.Hits + c.Misses
	if total == 0 {
		return 0
	}
	return float64(c.Hits) / float64(total)
}

// Counting wraps a store and records lookups and writes.
type Counting struct {
	Store
	counters Counters
}

// NewCounting wraps s.
func NewCounting(s Store) *Counting {
	return &Counting{Store: s}
}

func (c *Counting) Get(k Key) (float64, bool) {
	v, ok := c.Store.Get(k)
	if ok {
		c.counters.Hits++
	} else {
		c.counters.Misses++
	}
	return v, ok
}

func (c *Counting) Put(k Key, v float64) {
	c.Store.Put(k, v)
	c.counters.Stores++
}

// Counters returns the traffic recorded so far.
func (c *Counting) Counters() Counters {
	return c.counters
}
