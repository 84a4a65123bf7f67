package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/plantap/internal/adapters/driven/render"
)

var (
	treeFilter string
	treeFormat string
	treeURLs   bool

	disciplinesFormat string
	findFormat        string
	projectsFormat    string
)

var treeCmd = &cobra.Command{
	Use:   "tree <project-id>",
	Short: "Print a project's drawings grouped by discipline",
	Long: `Print the stored catalog of a project as a tree: one group per discipline
in the host application's order, drawings sorted by number.

Examples:
  plantap tree 42
  plantap tree 42 -q plan
  plantap tree 42 --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runTree,
}

var disciplinesCmd = &cobra.Command{
	Use:   "disciplines <project-id>",
	Short: "List a project's disciplines in display order",
	Args:  cobra.ExactArgs(1),
	RunE:  runDisciplines,
}

var findCmd = &cobra.Command{
	Use:   "find <project-id> <number>",
	Short: "Show one drawing by number",
	Args:  cobra.ExactArgs(2),
	RunE:  runFind,
}

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects with captured drawings",
	Args:  cobra.NoArgs,
	RunE:  runProjects,
}

func init() {
	treeCmd.Flags().StringVarP(&treeFilter, "query", "q", "", "only drawings whose number or title contains this")
	treeCmd.Flags().StringVarP(&treeFormat, "format", "f", formatText, "output format: text, json or yaml")
	treeCmd.Flags().BoolVar(&treeURLs, "urls", false, "print drawing links")
	disciplinesCmd.Flags().StringVarP(&disciplinesFormat, "format", "f", formatText, "output format: text, json or yaml")
	findCmd.Flags().StringVarP(&findFormat, "format", "f", formatText, "output format: text, json or yaml")
	projectsCmd.Flags().StringVarP(&projectsFormat, "format", "f", formatText, "output format: text, json or yaml")

	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(disciplinesCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(projectsCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return notConfigured("catalog")
	}
	if err := checkFormat(treeFormat); err != nil {
		return err
	}

	tree, err := catalogService.Tree(cmd.Context(), args[0], treeFilter)
	if err != nil {
		return err
	}
	if treeFormat != formatText {
		return writeStructured(cmd, treeFormat, tree)
	}

	if tree.Total == 0 {
		if treeFilter != "" {
			cmd.Printf("No drawings in project %s match %q.\n", args[0], treeFilter)
		} else {
			cmd.Printf("No drawings captured for project %s.\n", args[0])
		}
		return nil
	}
	styles, width := render.StylesFor(cmd.OutOrStdout())
	render.WriteTree(cmd.OutOrStdout(), tree, styles, render.TreeFormat{Width: width, ShowURL: treeURLs})
	return nil
}

func runDisciplines(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return notConfigured("catalog")
	}
	if err := checkFormat(disciplinesFormat); err != nil {
		return err
	}

	disciplines, err := catalogService.Disciplines(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if disciplinesFormat != formatText {
		return writeStructured(cmd, disciplinesFormat, disciplines)
	}

	if len(disciplines) == 0 {
		cmd.Printf("No disciplines captured for project %s.\n", args[0])
		return nil
	}
	for _, d := range disciplines {
		id := d.ID
		if id == "" {
			id = "-"
		}
		cmd.Printf("%4d  %-30s  %s\n", d.Index, d.Name, id)
	}
	return nil
}

func runFind(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return notConfigured("catalog")
	}
	if err := checkFormat(findFormat); err != nil {
		return err
	}

	drawing, err := catalogService.Find(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	if findFormat != formatText {
		return writeStructured(cmd, findFormat, drawing)
	}

	cmd.Printf("Number:     %s\n", drawing.Number)
	cmd.Printf("Title:      %s\n", drawing.DisplayTitle())
	cmd.Printf("ID:         %s\n", drawing.ID)
	if name := drawing.InlineDisciplineName(); name != "" {
		cmd.Printf("Discipline: %s\n", name)
	} else if drawing.Discipline.ID != "" {
		cmd.Printf("Discipline: #%s\n", drawing.Discipline.ID)
	}
	return nil
}

func runProjects(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return notConfigured("catalog")
	}
	if err := checkFormat(projectsFormat); err != nil {
		return err
	}

	projects, err := catalogService.Projects(cmd.Context())
	if err != nil {
		return err
	}
	if projects == nil {
		projects = []string{}
	}
	if projectsFormat != formatText {
		return writeStructured(cmd, projectsFormat, map[string][]string{"projects": projects})
	}

	if len(projects) == 0 {
		cmd.Println("No projects captured yet.")
		return nil
	}
	for _, p := range projects {
		cmd.Println(p)
	}
	return nil
}
