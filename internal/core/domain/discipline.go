package domain

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
)

// UnknownSortIndex marks a discipline whose position in the host system's
// ordering was never observed. It sorts after every known index.
const UnknownSortIndex = 9999

// FallbackDiscipline is the group for drawings whose discipline cannot be resolved.
const FallbackDiscipline = "General"

// DisciplineEntry is the best-known display data for one discipline id.
type DisciplineEntry struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
}

// KnownOrder reports whether the entry carries a real sort index.
func (e DisciplineEntry) KnownOrder() bool {
	return e.Index != UnknownSortIndex
}

// UnmarshalJSON accepts both the {name, index} shape and a bare name string,
// which older caches stored. A bare string has no known order.
func (e *DisciplineEntry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*e = DisciplineEntry{Name: name, Index: UnknownSortIndex}
		return nil
	}

	var raw struct {
		Name  string `json:"name"`
		Index *int   `json:"index"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Name = raw.Name
	e.Index = UnknownSortIndex
	if raw.Index != nil {
		e.Index = *raw.Index
	}
	return nil
}

// DisciplineMap correlates discipline ids with display names and order.
type DisciplineMap map[string]DisciplineEntry

// Merge shallow-overwrites m with every entry of facts and returns m.
// Entries are only ever added or refined, never removed.
func (m DisciplineMap) Merge(facts DisciplineMap) DisciplineMap {
	if m == nil {
		m = make(DisciplineMap, len(facts))
	}
	for id, entry := range facts {
		m[id] = entry
	}
	return m
}

// Clone returns an independent copy.
func (m DisciplineMap) Clone() DisciplineMap {
	out := make(DisciplineMap, len(m))
	for id, entry := range m {
		out[id] = entry
	}
	return out
}

// Resolve returns the display name and sort index for a drawing.
//
// A drawing with a discipline id is looked up in the map and lands in the
// fallback bucket until the map learns that id; its inline name is ignored.
// Only a drawing without an id uses its inline name, with unknown order.
func (m DisciplineMap) Resolve(d Drawing) (string, int) {
	if id := d.Discipline.ID; id != "" {
		if entry, ok := m[id]; ok && entry.Name != "" {
			return entry.Name, entry.Index
		}
		return FallbackDiscipline, UnknownSortIndex
	}
	if name := d.InlineDisciplineName(); name != "" {
		return name, UnknownSortIndex
	}
	return FallbackDiscipline, UnknownSortIndex
}

// DisciplineLess orders disciplines: known indices first by ascending index,
// then unknowns; ties and unknowns break on case-insensitive name.
func DisciplineLess(aName string, aIndex int, bName string, bIndex int) bool {
	aKnown, bKnown := aIndex != UnknownSortIndex, bIndex != UnknownSortIndex
	switch {
	case aKnown && !bKnown:
		return true
	case !aKnown && bKnown:
		return false
	case aKnown && bKnown && aIndex != bIndex:
		return aIndex < bIndex
	}
	al, bl := strings.ToLower(aName), strings.ToLower(bName)
	if al != bl {
		return al < bl
	}
	return aName < bName
}

// Discipline is a named discipline with its resolved order.
type Discipline struct {
	ID    string `json:"id,omitempty" yaml:"id,omitempty"`
	Name  string `json:"name" yaml:"name"`
	Index int    `json:"index" yaml:"index"`
}

// Sorted returns the map's entries in display order.
func (m DisciplineMap) Sorted() []Discipline {
	out := make([]Discipline, 0, len(m))
	for id, entry := range m {
		out = append(out, Discipline{ID: id, Name: entry.Name, Index: entry.Index})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name == out[j].Name && out[i].Index == out[j].Index {
			return out[i].ID < out[j].ID
		}
		return DisciplineLess(out[i].Name, out[i].Index, out[j].Name, out[j].Index)
	})
	return out
}
