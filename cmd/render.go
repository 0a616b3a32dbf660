package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/notepress/notepress/internal/content"
	"github.com/notepress/notepress/internal/logger"
	"github.com/notepress/notepress/internal/resolver"
	"github.com/notepress/notepress/internal/rewrite"
	"github.com/notepress/notepress/internal/site"
)

// Flag variables for the render command.
var (
	renderRoot    string
	renderBaseURL string
	renderDivider string
	renderRaw     bool
)

// renderCmd represents the render command.
var renderCmd = &cobra.Command{
	Use:   "render FILE",
	Short: "Render one note to stdout",
	Long: `Render a single note the way publish would, without tag filtering,
and print it to stdout. Links are resolved against --root, which defaults
to the directory of the note.

Use --raw to only parse and serialize the note, which shows how the
markdown is normalized without any rewriting.

Examples:
  notepress render vault/guides/setup.md --root vault
  notepress render note.md --baseurl /notes
  notepress render note.md --raw`,
	Args: cobra.ExactArgs(1),
	Run:  runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderRoot, "root", "r", "", "Vault root links are resolved against")
	renderCmd.Flags().StringVar(&renderBaseURL, "baseurl", "", "Prefix for every rewritten link")
	renderCmd.Flags().StringVar(&renderDivider, "alias-divider", "", "Wikilink alias divider (default \"|\")")
	renderCmd.Flags().BoolVar(&renderRaw, "raw", false, "Serialize the note without running any stage")
}

func runRender(_ *cobra.Command, args []string) {
	file, err := filepath.Abs(args[0])
	exitOnError(err, "Invalid file")

	root := renderRoot
	if root == "" {
		root = filepath.Dir(file)
	}
	root, err = filepath.Abs(root)
	exitOnError(err, "Invalid root")

	raw, err := os.ReadFile(file)
	exitOnError(err, "Error reading note")

	opts := renderOptions{BaseURL: renderBaseURL, AliasDivider: renderDivider, Raw: renderRaw}
	text, media, err := renderNote(file, root, raw, opts, newLogger())
	exitOnError(err, "Error rendering note")

	fmt.Print(string(text))
	for _, m := range media {
		fmt.Fprintf(os.Stderr, "media: %s\n", m)
	}
}

// renderOptions holds the render flags.
type renderOptions struct {
	BaseURL      string
	AliasDivider string
	Raw          bool
}

// renderNote runs raw through the note stages, or only through the parser
// and serializer when opts.Raw is set.
func renderNote(file, root string, raw []byte, opts renderOptions, l *logger.Logger) ([]byte, []string, error) {
	cfg := content.Config{
		SourceDir:    root,
		RootDir:      root,
		BaseURL:      opts.BaseURL,
		AliasDivider: opts.AliasDivider,
		PublishAll:   true,
	}

	rw := rewrite.New(resolver.New(resolver.WithLogger(l)), root,
		rewrite.WithBaseURL(opts.BaseURL),
		rewrite.WithLogger(l))

	var stages []content.Stage
	if !opts.Raw {
		stages = site.NoteStages(root, rw)
	}
	p, err := content.New(cfg, stages, nil)
	if err != nil {
		return nil, nil, err
	}

	if opts.Raw {
		text, err := p.Render(file, raw)
		return text, nil, err
	}

	res, err := p.Process(file, raw)
	if err != nil {
		return nil, nil, err
	}
	return res.Text, res.Media, nil
}
