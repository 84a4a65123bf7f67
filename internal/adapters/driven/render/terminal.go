// Package render provides driven.Renderer implementations.
package render

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/custodia-labs/plantap/internal/core/domain"
	"github.com/custodia-labs/plantap/internal/core/ports/driven"
)

// Ensure the renderers implement the interface.
var (
	_ driven.Renderer = (*Terminal)(nil)
	_ driven.Renderer = Multi(nil)
)

// Styles are the lipgloss styles of the tree printout.
type Styles struct {
	Header lipgloss.Style
	Group  lipgloss.Style
	Number lipgloss.Style
	Title  lipgloss.Style
	Link   lipgloss.Style
	Muted  lipgloss.Style
}

// DefaultStyles returns coloured styles.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		Group:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4")),
		Number: lipgloss.NewStyle().Bold(true),
		Title:  lipgloss.NewStyle().Foreground(lipgloss.Color("#CDD6F4")),
		Link:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")).Underline(true),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
	}
}

// PlainStyles returns styles that emit no escape codes.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{Header: plain, Group: plain, Number: plain, Title: plain, Link: plain, Muted: plain}
}

// StylesFor picks coloured styles when w is a terminal.
// It also reports the terminal width, or 0 when unknown.
func StylesFor(w io.Writer) (Styles, int) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return PlainStyles(), 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		width = 0
	}
	return DefaultStyles(), width
}

// Terminal prints render states as a grouped tree.
type Terminal struct {
	mu      sync.Mutex
	w       io.Writer
	opts    domain.TreeOptions
	styles  Styles
	width   int
	showURL bool
}

// NewTerminal creates a terminal renderer writing to w.
func NewTerminal(w io.Writer, linkBase string, showURL bool) *Terminal {
	styles, width := StylesFor(w)
	return &Terminal{
		w:       w,
		opts:    domain.TreeOptions{LinkBase: linkBase},
		styles:  styles,
		width:   width,
		showURL: showURL,
	}
}

// Render prints one state.
func (t *Terminal) Render(_ context.Context, state domain.RenderState) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch state.Kind {
	case domain.RenderLoading:
		fmt.Fprintln(t.w, t.styles.Muted.Render(fmt.Sprintf("project %s: loading...", state.ProjectID)))
	case domain.RenderEmpty:
		fmt.Fprintln(t.w, t.styles.Muted.Render(fmt.Sprintf("project %s: no drawings captured yet", state.ProjectID)))
	case domain.RenderData:
		tree := domain.BuildTree(state, t.opts)
		WriteTree(t.w, &tree, t.styles, TreeFormat{Width: t.width, ShowURL: t.showURL})
	}
}

// TreeFormat controls WriteTree.
type TreeFormat struct {
	// Width truncates titles to the terminal width; 0 disables truncation.
	Width int

	// ShowURL prints each drawing's link under it.
	ShowURL bool
}

// WriteTree prints a tree with one line per group and drawing.
func WriteTree(w io.Writer, tree *domain.Tree, styles Styles, format TreeFormat) {
	header := fmt.Sprintf("Project %s", tree.ProjectID)
	if tree.AreaID != "" {
		header += fmt.Sprintf(" (area %s)", tree.AreaID)
	}
	header += fmt.Sprintf(": %d drawings", tree.Total)
	fmt.Fprintln(w, styles.Header.Render(header))
	if !tree.Updated.IsZero() {
		fmt.Fprintln(w, styles.Muted.Render("updated "+tree.Updated.Local().Format("2006-01-02 15:04:05")))
	}

	for _, g := range tree.Groups {
		fmt.Fprintf(w, "%s %s\n", styles.Group.Render(g.Name), styles.Muted.Render(fmt.Sprintf("(%d)", len(g.Items))))
		for _, item := range g.Items {
			title := item.Title
			if format.Width > 0 {
				title = truncate(title, format.Width-len(item.Number)-6)
			}
			fmt.Fprintf(w, "  %s  %s\n", styles.Number.Render(item.Number), styles.Title.Render(title))
			if format.ShowURL && item.URL != "" {
				fmt.Fprintf(w, "    %s\n", styles.Link.Render(item.URL))
			}
		}
	}
}

func truncate(s string, max int) string {
	if max <= 1 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return strings.TrimSpace(string(r[:max-1])) + "…"
}

// Multi fans a state out to several renderers in order.
type Multi []driven.Renderer

// Render calls every renderer.
func (m Multi) Render(ctx context.Context, state domain.RenderState) {
	for _, r := range m {
		if r != nil {
			r.Render(ctx, state)
		}
	}
}
