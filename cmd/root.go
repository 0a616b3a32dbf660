package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// version is set by main.go via SetVersion.
var version = "dev"

// SetVersion sets the version string (called from main).
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// verbose switches every command to debug logging.
var verbose bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "notepress",
	Short:   "Publish an Obsidian vault as a just-the-docs site",
	Version: version,
	Long: `Notepress turns the tagged notes of an Obsidian vault into a Jekyll site
using the just-the-docs theme.

Wikilinks and relative links are resolved against the vault, frontmatter
gets just-the-docs navigation, directories get landing pages and the
media your notes embed is copied next to them.

Examples:
  notepress publish ./vault --target ./site --tags publish
  notepress publish --watch          # Rebuild on every change
  notepress render vault/note.md     # Print one rendered note
  notepress resolve "Some Note" --root ./vault`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1) //nolint:revive // deep-exit is acceptable for CLI entry points
	}
}
