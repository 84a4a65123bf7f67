package services

import (
	"github.com/custodia-labs/plantap/internal/core/domain"
)

// fieldCandidates is an ordered list of field names tried in turn for one concept.
// The first present field wins.
type fieldCandidates []string

// Field precedence tables. Host responses vary across endpoints and over time,
// so each concept is looked up under every name it has been seen with.
var (
	idFields             = fieldCandidates{"id"}
	numberFields         = fieldCandidates{"number", "drawing_number", "num"}
	titleFields          = fieldCandidates{"title"}
	disciplineFields     = fieldCandidates{"discipline", "discipline_id"}
	disciplineNameFields = fieldCandidates{"discipline_name"}
	nameFields           = fieldCandidates{"name"}

	// drawingMarkerFields make an object a drawing rather than a named entity.
	drawingMarkerFields = fieldCandidates{"drawing_number", "number", "title"}
)

// skippedKeys are never descended into while looking for discipline facts.
var skippedKeys = map[string]bool{
	"permissions":  true,
	"metadata":     true,
	"view_options": true,
}

const (
	// maxDisciplineDepth bounds the discipline walk below the root.
	maxDisciplineDepth = 5

	// maxDrawingDepth bounds the search for a drawing array below the root.
	maxDrawingDepth = 5
)

// lookup returns the first candidate field present (truthy) on obj.
func (c fieldCandidates) lookup(obj *domain.Value) (*domain.Value, bool) {
	for _, name := range c {
		if f, ok := obj.Field(name); ok && f.Truthy() {
			return f, true
		}
	}
	return nil, false
}

// has reports whether any candidate field is present on obj.
func (c fieldCandidates) has(obj *domain.Value) bool {
	_, ok := c.lookup(obj)
	return ok
}

// scalar returns the first candidate holding a string or number.
func (c fieldCandidates) scalar(obj *domain.Value) string {
	for _, name := range c {
		f, ok := obj.Field(name)
		if !ok || !f.Truthy() {
			continue
		}
		if s, ok := f.Scalar(); ok {
			return s
		}
	}
	return ""
}

// str returns the first candidate holding a non-empty string.
func (c fieldCandidates) str(obj *domain.Value) string {
	for _, name := range c {
		if f, ok := obj.Field(name); ok {
			if s, ok := f.Str(); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// ExtractDrawingRecords returns the first array in v that looks like a list of
// drawings, or nil. An array qualifies when its first element has a drawing
// number, or both an id and a discipline.
//
// A top-level array is checked directly. For an object, its array-valued
// properties are checked in key order, then its object-valued properties are
// searched the same way.
func ExtractDrawingRecords(v *domain.Value) []*domain.Value {
	return findDrawingArray(v, 0)
}

func findDrawingArray(v *domain.Value, depth int) []*domain.Value {
	if depth > maxDrawingDepth {
		return nil
	}
	switch v.Kind() {
	case domain.KindArray:
		if isDrawingArray(v) {
			return v.Items()
		}
		return nil
	case domain.KindObject:
		for _, key := range v.Keys() {
			child, _ := v.Field(key)
			if child.IsArray() && isDrawingArray(child) {
				return child.Items()
			}
		}
		for _, key := range v.Keys() {
			child, _ := v.Field(key)
			if child.IsObject() {
				if found := findDrawingArray(child, depth+1); found != nil {
					return found
				}
			}
		}
	}
	return nil
}

func isDrawingArray(arr *domain.Value) bool {
	items := arr.Items()
	if len(items) == 0 || !items[0].IsObject() {
		return false
	}
	first := items[0]
	return numberFields.has(first) || (idFields.has(first) && disciplineFields.has(first))
}

// NormalizeDrawing maps one raw record onto the persisted drawing shape.
// The result may be invalid (see domain.Drawing.Valid); callers filter.
func NormalizeDrawing(rec *domain.Value) domain.Drawing {
	if !rec.IsObject() {
		return domain.Drawing{}
	}
	d := domain.Drawing{
		ID:             idFields.scalar(rec),
		Number:         numberFields.scalar(rec),
		Title:          titleFields.str(rec),
		DisciplineName: disciplineNameFields.str(rec),
	}

	// "discipline" may be an object, an inline name or a bare id;
	// "discipline_id" is always a reference.
	if f, ok := rec.Field("discipline"); ok && f.Truthy() {
		switch f.Kind() {
		case domain.KindObject:
			d.Discipline.ID = idFields.scalar(f)
			d.Discipline.Name = nameFields.str(f)
		case domain.KindString:
			d.Discipline.Name, _ = f.Str()
		case domain.KindNumber:
			d.Discipline.ID, _ = f.Scalar()
		}
	}
	if d.Discipline.ID == "" {
		if f, ok := rec.Field("discipline_id"); ok && f.Truthy() {
			d.Discipline.ID, _ = f.Scalar()
		}
	}
	return d
}

// ExtractDrawings finds the drawing array in v and normalizes every record.
// Invalid records are kept so the flush can count and exclude them.
func ExtractDrawings(v *domain.Value) []domain.Drawing {
	records := ExtractDrawingRecords(v)
	if len(records) == 0 {
		return nil
	}
	out := make([]domain.Drawing, 0, len(records))
	for _, rec := range records {
		out = append(out, NormalizeDrawing(rec))
	}
	return out
}

// ExtractDisciplines walks v and collects id -> {name, index} facts from every
// object that has an id and a string name but is not itself a drawing.
//
// The index is the element position when the object sits in an array. Keys of
// a nested object inherit the enclosing index unchanged, so a discipline object
// embedded in the third drawing of a list gets index 2. Objects never reached
// through an array keep the unknown index.
func ExtractDisciplines(v *domain.Value) domain.DisciplineMap {
	facts := make(domain.DisciplineMap)
	// Starts at the unknown index, not 0: a lone top-level discipline object
	// says nothing about its position among the others.
	walkDisciplines(v, facts, domain.UnknownSortIndex, 0)
	return facts
}

func walkDisciplines(v *domain.Value, facts domain.DisciplineMap, index, depth int) {
	if depth > maxDisciplineDepth {
		return
	}
	switch v.Kind() {
	case domain.KindArray:
		for i, item := range v.Items() {
			walkDisciplines(item, facts, i, depth+1)
		}
	case domain.KindObject:
		if id := idFields.scalar(v); id != "" && !drawingMarkerFields.has(v) {
			if name := nameFields.str(v); name != "" {
				facts[id] = domain.DisciplineEntry{Name: name, Index: index}
			}
		}
		for _, key := range v.Keys() {
			if skippedKeys[key] {
				continue
			}
			child, _ := v.Field(key)
			walkDisciplines(child, facts, index, depth+1)
		}
	}
}
