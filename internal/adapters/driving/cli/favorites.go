package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

var favoritesCmd = &cobra.Command{
	Use:   "favorites <project-id>",
	Short: "Manage favorite drawing folders",
	Long: `List a project's favorite folders, or manage them with the subcommands.

Examples:
  plantap favorites 42
  plantap favorites add-folder 42 "Level 1"
  plantap favorites add 42 <folder-id> A-101`,
	Args: cobra.ExactArgs(1),
	RunE: runFavoritesList,
}

var favoritesAddFolderCmd = &cobra.Command{
	Use:   "add-folder <project-id> <name>",
	Short: "Create a folder",
	Args:  cobra.ExactArgs(2),
	RunE:  runFavoritesAddFolder,
}

var favoritesRemoveFolderCmd = &cobra.Command{
	Use:   "rm-folder <project-id> <folder-id>",
	Short: "Delete a folder",
	Args:  cobra.ExactArgs(2),
	RunE:  runFavoritesRemoveFolder,
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <project-id> <folder-id> <number>",
	Short: "Add a drawing to a folder",
	Args:  cobra.ExactArgs(3),
	RunE:  runFavoritesAdd,
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "rm <project-id> <folder-id> <number>",
	Short: "Remove a drawing from a folder",
	Args:  cobra.ExactArgs(3),
	RunE:  runFavoritesRemove,
}

func init() {
	favoritesCmd.AddCommand(favoritesAddFolderCmd)
	favoritesCmd.AddCommand(favoritesRemoveFolderCmd)
	favoritesCmd.AddCommand(favoritesAddCmd)
	favoritesCmd.AddCommand(favoritesRemoveCmd)
	rootCmd.AddCommand(favoritesCmd)
}

func runFavoritesList(cmd *cobra.Command, args []string) error {
	if favoritesService == nil {
		return notConfigured("favorites")
	}
	folders, err := favoritesService.List(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if len(folders) == 0 {
		cmd.Println("No favorite folders.")
		return nil
	}
	for _, f := range folders {
		cmd.Printf("%s  %s (%d)\n", f.ID, f.Name, len(f.Drawings))
		if len(f.Drawings) > 0 {
			cmd.Printf("    %s\n", strings.Join(f.Drawings, ", "))
		}
	}
	return nil
}

func runFavoritesAddFolder(cmd *cobra.Command, args []string) error {
	if favoritesService == nil {
		return notConfigured("favorites")
	}
	folder, err := favoritesService.AddFolder(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	cmd.Printf("Created folder %q (%s)\n", folder.Name, folder.ID)
	return nil
}

func runFavoritesRemoveFolder(cmd *cobra.Command, args []string) error {
	if favoritesService == nil {
		return notConfigured("favorites")
	}
	if err := favoritesService.RemoveFolder(cmd.Context(), args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("Removed folder %s\n", args[1])
	return nil
}

func runFavoritesAdd(cmd *cobra.Command, args []string) error {
	if favoritesService == nil {
		return notConfigured("favorites")
	}
	added, err := favoritesService.AddDrawing(cmd.Context(), args[0], args[1], args[2])
	if err != nil {
		return err
	}
	if !added {
		cmd.Printf("%s is already in the folder\n", args[2])
		return nil
	}
	cmd.Printf("Added %s\n", args[2])
	return nil
}

func runFavoritesRemove(cmd *cobra.Command, args []string) error {
	if favoritesService == nil {
		return notConfigured("favorites")
	}
	if err := favoritesService.RemoveDrawing(cmd.Context(), args[0], args[1], args[2]); err != nil {
		return err
	}
	cmd.Printf("Removed %s\n", args[2])
	return nil
}
