package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/plantap/internal/core/domain"
)

var (
	prefsSidebarWidth int
	prefsButtonTop    string
	prefsOpenNewTab   bool
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show display preferences",
	Args:  cobra.NoArgs,
	RunE:  runPrefsShow,
}

var prefsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change display preferences",
	Long: `Change display preferences. Only the flags given are changed.

Examples:
  plantap prefs set --sidebar-width 360
  plantap prefs set --open-new-tab=false`,
	Args: cobra.NoArgs,
	RunE: runPrefsSet,
}

func init() {
	prefsSetCmd.Flags().IntVar(&prefsSidebarWidth, "sidebar-width", 0, "sidebar width in pixels")
	prefsSetCmd.Flags().StringVar(&prefsButtonTop, "button-top", "", `toggle button offset (e.g. "50%")`)
	prefsSetCmd.Flags().BoolVar(&prefsOpenNewTab, "open-new-tab", true, "open drawings in a new tab")
	prefsCmd.AddCommand(prefsSetCmd)
	rootCmd.AddCommand(prefsCmd)
}

func runPrefsShow(cmd *cobra.Command, _ []string) error {
	if preferencesService == nil {
		return notConfigured("preferences")
	}
	prefs, err := preferencesService.Get(cmd.Context())
	if err != nil {
		return err
	}
	printPrefs(cmd, prefs)
	return nil
}

func runPrefsSet(cmd *cobra.Command, _ []string) error {
	if preferencesService == nil {
		return notConfigured("preferences")
	}

	var update domain.Preferences
	flags := cmd.Flags()
	if flags.Changed("sidebar-width") {
		update.SidebarWidth = prefsSidebarWidth
	}
	if flags.Changed("button-top") {
		update.ButtonTop = prefsButtonTop
	}
	if flags.Changed("open-new-tab") {
		v := prefsOpenNewTab
		update.OpenNewTab = &v
	}

	prefs, err := preferencesService.Save(cmd.Context(), update)
	if err != nil {
		return err
	}
	printPrefs(cmd, prefs)
	return nil
}

func printPrefs(cmd *cobra.Command, prefs domain.Preferences) {
	openNewTab := true
	if prefs.OpenNewTab != nil {
		openNewTab = *prefs.OpenNewTab
	}
	cmd.Printf("Sidebar width: %d\n", prefs.SidebarWidth)
	cmd.Printf("Button top:    %s\n", prefs.ButtonTop)
	cmd.Printf("Open new tab:  %t\n", openNewTab)
}
