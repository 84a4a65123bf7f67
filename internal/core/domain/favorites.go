package domain

// MaxRecents is how many recently opened drawings are remembered per project.
const MaxRecents = 5

// FavoriteFolder is a user-curated folder of drawing numbers.
type FavoriteFolder struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Drawings []string `json:"drawings"`
}

// Contains reports whether the folder already holds a drawing number.
func (f FavoriteFolder) Contains(num string) bool {
	for _, d := range f.Drawings {
		if d == num {
			return true
		}
	}
	return false
}

// Preferences are the global, project-independent UI preferences.
type Preferences struct {
	SidebarWidth int    `json:"sidebarWidth,omitempty"`
	ButtonTop    string `json:"buttonTop,omitempty"`
	OpenNewTab   *bool  `json:"openNewTab,omitempty"`
}

// DefaultPreferences returns the preferences used before anything is saved.
func DefaultPreferences() Preferences {
	openNewTab := true
	return Preferences{
		SidebarWidth: 300,
		ButtonTop:    "50%",
		OpenNewTab:   &openNewTab,
	}
}

// Merge overlays the set fields of update onto p.
func (p Preferences) Merge(update Preferences) Preferences {
	if update.SidebarWidth != 0 {
		p.SidebarWidth = update.SidebarWidth
	}
	if update.ButtonTop != "" {
		p.ButtonTop = update.ButtonTop
	}
	if update.OpenNewTab != nil {
		v := *update.OpenNewTab
		p.OpenNewTab = &v
	}
	return p
}
