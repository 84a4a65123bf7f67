package domain

import (
	"sort"
	"strings"
)

// TreeOptions controls how a render state is grouped into a tree.
type TreeOptions struct {
	// LinkBase is the host application's base URL used for drawing links.
	// Empty disables links.
	LinkBase string

	// Filter keeps only drawings whose number or title contains it
	// (case-insensitive). Empty keeps everything.
	Filter string
}

// BuildTree groups the drawings of a DATA state by resolved discipline.
//
// Groups are ordered with DisciplineLess. A group takes the lowest known index
// of its members, so two discipline ids sharing a name collapse into one group.
// Items are ordered by CompareNumbers, then by id. Non-DATA states yield an
// empty tree.
func BuildTree(state RenderState, opts TreeOptions) Tree {
	tree := Tree{
		ProjectID: state.ProjectID,
		AreaID:    state.AreaID,
		Updated:   state.Timestamp,
		Groups:    []Group{},
	}
	if state.Kind != RenderData {
		return tree
	}

	filter := strings.ToLower(strings.TrimSpace(opts.Filter))
	byName := make(map[string]*Group)
	var order []*Group

	for _, d := range state.Drawings {
		if !d.Valid() || !matchesFilter(d, filter) {
			continue
		}
		name, index := state.Disciplines.Resolve(d)
		g, ok := byName[name]
		if !ok {
			g = &Group{Name: name, Index: index}
			byName[name] = g
			order = append(order, g)
		} else if index < g.Index {
			g.Index = index
		}
		g.Items = append(g.Items, Item{
			ID:     d.ID,
			Number: d.Number,
			Title:  d.DisplayTitle(),
			URL:    DrawingURL(opts.LinkBase, state.ProjectID, state.AreaID, d.ID),
		})
		tree.Total++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return DisciplineLess(order[i].Name, order[i].Index, order[j].Name, order[j].Index)
	})
	for _, g := range order {
		sort.SliceStable(g.Items, func(i, j int) bool {
			if c := CompareNumbers(g.Items[i].Number, g.Items[j].Number); c != 0 {
				return c < 0
			}
			return g.Items[i].ID < g.Items[j].ID
		})
		tree.Groups = append(tree.Groups, *g)
	}
	return tree
}

func matchesFilter(d Drawing, filter string) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(d.Number), filter) ||
		strings.Contains(strings.ToLower(d.Title), filter)
}
