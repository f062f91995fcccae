// Package journal persists where playback of each content source stopped and which of its
// ad breaks were already played, so a later session resumes without replaying them.
package journal

import (
	"time"

	"github.com/adcue/adcue/filesystem"
	"github.com/adcue/adcue/where"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

var cacher = gache.New[map[string]*Entry](
	&gache.Options{
		Path:       where.Journal(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns every journal entry keyed by content source.
func Get() (map[string]*Entry, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Entry), nil
	}
	return cached, nil
}

// Find returns the entry recorded for source.
func Find(source string) (*Entry, bool, error) {
	entries, err := Get()
	if err != nil {
		return nil, false, err
	}

	entry, ok := entries[source]
	return entry, ok, nil
}

// Save records the entry. Played breaks accumulate across sessions of the same source.
func Save(entry *Entry) error {
	entries, err := Get()
	if err != nil {
		return err
	}

	if existing, ok := entries[entry.Source]; ok {
		entry.PlayedBreaksMs = lo.Union(existing.PlayedBreaksMs, entry.PlayedBreaksMs)
	}

	slices.Sort(entry.PlayedBreaksMs)
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now()
	}

	entries[entry.Source] = entry
	return cacher.Set(entries)
}

// Remove forgets the source.
func Remove(source string) error {
	entries, err := Get()
	if err != nil {
		return err
	}

	delete(entries, source)
	return cacher.Set(entries)
}

// All returns the entries, most recently updated first.
func All() ([]*Entry, error) {
	entries, err := Get()
	if err != nil {
		return nil, err
	}

	all := lo.Values(entries)
	slices.SortFunc(all, func(a, b *Entry) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return all, nil
}

// Clear drops every entry.
func Clear() error {
	return cacher.Set(make(map[string]*Entry))
}
