package cli

import (
	"github.com/spf13/cobra"
)

var recentsCmd = &cobra.Command{
	Use:   "recents <project-id>",
	Short: "List recently opened drawings",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecentsList,
}

var recentsAddCmd = &cobra.Command{
	Use:   "add <project-id> <number>",
	Short: "Record a drawing as opened",
	Args:  cobra.ExactArgs(2),
	RunE:  runRecentsAdd,
}

func init() {
	recentsCmd.AddCommand(recentsAddCmd)
	rootCmd.AddCommand(recentsCmd)
}

func runRecentsList(cmd *cobra.Command, args []string) error {
	if recentsService == nil {
		return notConfigured("recents")
	}
	recents, err := recentsService.List(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if len(recents) == 0 {
		cmd.Println("No recent drawings.")
		return nil
	}
	for _, num := range recents {
		cmd.Println(num)
	}
	return nil
}

func runRecentsAdd(cmd *cobra.Command, args []string) error {
	if recentsService == nil {
		return notConfigured("recents")
	}
	recents, err := recentsService.Add(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	for _, num := range recents {
		cmd.Println(num)
	}
	return nil
}
