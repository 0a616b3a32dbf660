package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/notepress/notepress/internal/resolver"
)

// Flag variables for the resolve command.
var (
	resolveFrom string
	resolveRoot string
)

// resolveCmd represents the resolve command.
var resolveCmd = &cobra.Command{
	Use:   "resolve LINK",
	Short: "Show which file a link resolves to",
	Long: `Resolve a link or wikilink target the way publish does and print the
outcome: found with the file relative to the root, external, or unresolved.

--from is the directory of the note holding the link and defaults to the
root.

Examples:
  notepress resolve "Some Note" --root vault
  notepress resolve img/pic.png --from vault/guides --root vault
  notepress resolve /guides/setup --root vault`,
	Args: cobra.ExactArgs(1),
	Run:  runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVar(&resolveFrom, "from", "", "Directory of the note holding the link")
	resolveCmd.Flags().StringVarP(&resolveRoot, "root", "r", ".", "Vault root")
}

func runResolve(_ *cobra.Command, args []string) {
	root, err := filepath.Abs(resolveRoot)
	exitOnError(err, "Invalid root")

	from := root
	if resolveFrom != "" {
		from, err = filepath.Abs(resolveFrom)
		exitOnError(err, "Invalid directory")
	}

	r := resolver.New(resolver.WithLogger(newLogger()))
	fmt.Println(describeResolution(r.Resolve(args[0], from, root), root))
}

// describeResolution formats a resolution as "outcome[ path]", with the
// path relative to root.
func describeResolution(res resolver.Result, root string) string {
	if !res.IsFound() {
		return res.Outcome.String()
	}
	rel, err := filepath.Rel(root, res.Path)
	if err != nil {
		rel = res.Path
	}
	return fmt.Sprintf("%s %s", res.Outcome, filepath.ToSlash(rel))
}
