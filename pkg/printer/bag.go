package printer

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Bag is an insertion-ordered property map. Setting an existing key
// replaces the value in place and keeps its position.
type Bag struct {
	m *orderedmap.OrderedMap[string, any]
}

// Entry is one key-value pair of a [Bag].
type Entry struct {
	Key   string
	Value any
}

// NewBag creates an empty bag.
func NewBag() *Bag {
	return &Bag{m: orderedmap.New[string, any]()}
}

// Set stores value under key.
func (b *Bag) Set(key string, value any) {
	b.m.Set(key, value)
}

// Get returns the value stored under key.
func (b *Bag) Get(key string) (any, bool) {
	return b.m.Get(key)
}

// Has reports whether key is present.
func (b *Bag) Has(key string) bool {
	_, ok := b.m.Get(key)
	return ok
}

// Delete removes key.
func (b *Bag) Delete(key string) {
	b.m.Delete(key)
}

// Len returns the number of entries.
func (b *Bag) Len() int {
	if b == nil {
		return 0
	}
	return b.m.Len()
}

// Entries returns the entries in insertion order.
func (b *Bag) Entries() []Entry {
	if b == nil {
		return nil
	}
	out := make([]Entry, 0, b.m.Len())
	for p := b.m.Oldest(); p != nil; p = p.Next() {
		out = append(out, Entry{Key: p.Key, Value: p.Value})
	}
	return out
}

// Keys returns the keys in insertion order.
func (b *Bag) Keys() []string {
	if b == nil {
		return nil
	}
	out := make([]string, 0, b.m.Len())
	for p := b.m.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Key)
	}
	return out
}
