package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/notepress/notepress/internal/config"
	"github.com/notepress/notepress/internal/output"
	"github.com/notepress/notepress/internal/site"
	"github.com/notepress/notepress/internal/ui"
)

// Flag variables for the publish command.
var (
	target      string
	folder      string
	tags        []string
	publishAll  bool
	baseURL     string
	divider     string
	concurrency int

	theme       string
	title       string
	description string
	domain      string
	colorScheme string

	outputFormat string
	outputFile   string
	showStats    bool
	strictMode   bool
	watchMode    bool
	noConfig     bool
)

// publishCmd represents the publish command.
var publishCmd = &cobra.Command{
	Use:   "publish [vault]",
	Short: "Publish the tagged notes of a vault as a Jekyll site",
	Long: `Publish the notes of a vault whose frontmatter tags match --tags.

If no vault is given, the current directory is used. Settings are read from
.notepress.yaml or .notepress.toml, searched from the vault upwards, and a
.env file in the vault is loaded first so the config can reference ${VARS}.
Flags override the config file; tags add to it.

Every published note gets just-the-docs frontmatter, links and wikilinks
are rewritten to site paths and embedded media is copied. Directories get
landing pages, and the site gets a home page, a 404 page and _config.yml.

Exit codes:
  0 - The site was written (failed notes are reported)
  1 - Invalid configuration, or --strict and a note failed

Examples:
  notepress publish ./vault --target ./site --tags publish
  notepress publish --tags "blog/*" --folder docs
  notepress publish --all --baseurl /notes
  notepress publish --output report.json      # Write a JSON report
  notepress publish --output report.junit.xml # JUnit XML for CI/CD
  notepress publish --format markdown         # Report to stdout
  notepress publish --watch                   # Rebuild on change

Note: --format and --output are mutually exclusive.

Config file (.notepress.yaml):
  target: ../site
  tags: [publish]
  site:
    title: My Notes
    color_scheme: dark`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)

	// Site layout
	publishCmd.Flags().StringVarP(&target, "target", "t", "", "Directory the site is written to")
	publishCmd.Flags().StringVar(&folder, "folder", "",
		"Place the site at the target root (.) or in docs (docs)")
	publishCmd.Flags().StringSliceVarP(&tags, "tags", "T", nil,
		"Tags to publish, glob patterns allowed (comma-separated)")
	publishCmd.Flags().BoolVarP(&publishAll, "all", "a", false, "Publish every note regardless of tags")
	publishCmd.Flags().StringVar(&baseURL, "baseurl", "", "Prefix for every rewritten link, like /notes")
	publishCmd.Flags().StringVar(&divider, "alias-divider", "", "Wikilink alias divider (default \"|\")")

	// Jekyll site
	publishCmd.Flags().StringVar(&theme, "theme", "", "Jekyll theme (default asstart/just-the-docs)")
	publishCmd.Flags().StringVar(&title, "title", "", "Site title")
	publishCmd.Flags().StringVar(&description, "description", "", "Site description")
	publishCmd.Flags().StringVar(&domain, "domain", "", "Custom domain written to CNAME")
	publishCmd.Flags().StringVar(&colorScheme, "color-scheme", "", "just-the-docs color scheme: light, dark")

	// Output options
	publishCmd.Flags().StringVarP(&outputFormat, "format", "f", "",
		"Report format for stdout: "+strings.Join(output.ValidFormats(), ", "))
	publishCmd.Flags().StringVarP(&outputFile, "output", "o", "",
		"Write report to file (format inferred from extension: .json, .yaml, .xml, .junit.xml, .md)")
	publishCmd.Flags().BoolVar(&showStats, "stats", false, "Show detailed performance statistics")
	publishCmd.Flags().BoolVar(&strictMode, "strict", false, "Exit with an error when a note fails")

	// Performance options
	publishCmd.Flags().IntVarP(&concurrency, "concurrency", "c", site.DefaultConcurrency,
		"Number of notes processed at once")

	publishCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Rebuild the site whenever the vault changes")
	publishCmd.Flags().BoolVar(&noConfig, "no-config", false, "Skip loading the config file")
}

// runPublish is the main entry point for the publish command.
func runPublish(_ *cobra.Command, args []string) {
	exitOnError(validatePublishFlags(), "Invalid flags")

	vault := getPathArg(args)
	lc, err := LoadConfig(vault, noConfig)
	exitOnError(err, "Error loading config")

	cfg := resolvePublishConfig(lc, vault, len(args) > 0)
	exitOnError(cfg.Validate(), "Invalid configuration")

	log := newLogger()
	if cfg.Path != "" {
		log.ConfigLoaded(cfg.Path)
	}

	b, err := site.New(BuildSiteOptions(cfg, log))
	exitOnError(err, "Error preparing site")

	if !publish(b, cfg) {
		os.Exit(1)
	}
}

// resolvePublishConfig applies the command line on top of the loaded
// configuration.
func resolvePublishConfig(lc *LoadedConfig, vault string, explicit bool) *config.Config {
	source := lc.GetSource(vault, explicit)
	cfg := lc.Apply(&config.Config{
		Target:       target,
		Folder:       folder,
		Tags:         tags,
		PublishAll:   publishAll,
		BaseURL:      baseURL,
		AliasDivider: divider,
		Site: config.SiteConfig{
			Theme:       theme,
			Title:       title,
			Description: description,
			Domain:      domain,
			ColorScheme: colorScheme,
		},
	})
	cfg.Source = source
	cfg.Concurrency = lc.GetConcurrency(concurrency, site.DefaultConcurrency)
	cfg.Output.Report = lc.GetReportFile(outputFile)
	cfg.Output.Stats = lc.GetShowStats(showStats)
	cfg.Output.Strict = lc.GetStrict(strictMode)
	return cfg
}

// publish runs one build, or watches until interrupted. It returns false
// when the run should exit with an error.
func publish(b *site.Builder, cfg *config.Config) bool {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if watchMode {
		err := b.Watch(ctx, func(report *site.Report, err error) {
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error publishing: %v\n", err)
				return
			}
			routeOutput(report, cfg)
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error watching vault: %v\n", err)
			return false
		}
		return true
	}

	report, err := b.Build(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error publishing: %v\n", err)
		return false
	}
	if !routeOutput(report, cfg) {
		return false
	}

	return !cfg.Output.Strict || !report.HasFailures()
}

// validatePublishFlags checks for invalid flag combinations.
func validatePublishFlags() error {
	if outputFormat != "" && outputFile != "" {
		return fmt.Errorf("--format and --output are mutually exclusive; " +
			"use --format for stdout output, or --output for file output")
	}

	if outputFormat != "" && !output.IsValidFormat(outputFormat) {
		return fmt.Errorf("invalid format %q; valid formats: %s",
			outputFormat, strings.Join(output.ValidFormats(), ", "))
	}

	if watchMode && outputFormat != "" {
		return fmt.Errorf("--format cannot be combined with --watch")
	}

	return nil
}

// routeOutput prints or writes the report of one build. It returns false
// when the report could not be produced.
func routeOutput(report *site.Report, cfg *config.Config) bool {
	switch {
	case outputFormat != "":
		data, err := output.FormatReport(report, output.Format(strings.ToLower(outputFormat)))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
			return false
		}
		fmt.Print(string(data))
		return true

	case cfg.Output.Report != "":
		if err := output.WriteToFile(report, cfg.Output.Report); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
			return false
		}
		fmt.Printf("Wrote report to %s\n\n", cfg.Output.Report)
	}

	fmt.Print(ui.Summary(report, verbose))
	if cfg.Output.Stats && report.Stats != nil {
		fmt.Print(report.Stats.String())
	}
	return true
}
