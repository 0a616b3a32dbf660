package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/notepress/notepress/internal/config"
	"github.com/notepress/notepress/internal/jekyll"
	"github.com/notepress/notepress/internal/logger"
	"github.com/notepress/notepress/internal/site"
)

// LoadedConfig wraps a loaded configuration and provides helper methods
// for getting effective values that respect CLI overrides.
type LoadedConfig struct {
	cfg      *config.Config
	noConfig bool
}

// LoadConfig loads .env and the configuration file found from vault upwards,
// unless noConfig is true. Relative paths in the file are taken relative to
// the file. Returns an error if the config file exists but is invalid.
func LoadConfig(vault string, noConfig bool) (*LoadedConfig, error) {
	cfg := config.Default()
	if noConfig {
		return &LoadedConfig{cfg: cfg, noConfig: true}, nil
	}

	if err := config.LoadEnv(vault); err != nil {
		return nil, err
	}

	file, err := config.FindAndLoad(vault)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if file.Path != "" {
		dir := filepath.Dir(file.Path)
		file.Source = relativeTo(dir, file.Source)
		file.Target = relativeTo(dir, file.Target)
	}
	cfg.Merge(file)
	cfg.Path = file.Path

	return &LoadedConfig{cfg: cfg}, nil
}

// relativeTo anchors a relative path p at dir.
func relativeTo(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// Config returns the underlying config for direct access.
func (lc *LoadedConfig) Config() *config.Config {
	return lc.cfg
}

// Apply merges the values given on the command line. Lists add to the file
// values; scalars replace them when set.
func (lc *LoadedConfig) Apply(cli *config.Config) *config.Config {
	lc.cfg.Merge(cli)
	return lc.cfg
}

// GetSource returns the effective vault. An explicit argument wins over the
// config file, which wins over the default.
func (lc *LoadedConfig) GetSource(cliValue string, explicit bool) string {
	if explicit || lc.cfg.Source == "" {
		return cliValue
	}
	return lc.cfg.Source
}

// GetConcurrency returns the effective concurrency.
// CLI overrides config if it differs from the default.
func (lc *LoadedConfig) GetConcurrency(cliValue, defaultValue int) int {
	if cliValue != defaultValue {
		return cliValue // CLI explicitly set
	}
	if lc.cfg.Concurrency > 0 {
		return lc.cfg.Concurrency
	}
	return defaultValue
}

// GetStrict returns the effective strict mode setting.
// CLI true overrides config.
func (lc *LoadedConfig) GetStrict(cliValue bool) bool {
	if cliValue {
		return true // CLI explicitly set
	}
	return lc.cfg.Output.Strict
}

// GetShowStats returns the effective showStats setting.
// CLI true overrides config.
func (lc *LoadedConfig) GetShowStats(cliValue bool) bool {
	if cliValue {
		return true
	}
	return lc.cfg.Output.Stats
}

// GetReportFile returns the effective report file.
// CLI overrides config if set.
func (lc *LoadedConfig) GetReportFile(cliValue string) string {
	if cliValue != "" {
		return cliValue // CLI explicitly set
	}
	return lc.cfg.Output.Report
}

// BuildSiteOptions creates site.Options from the effective configuration.
func BuildSiteOptions(cfg *config.Config, l *logger.Logger) site.Options {
	return site.Options{
		Source:       cfg.Source,
		SiteDir:      cfg.SiteDir(),
		Tags:         cfg.Tags,
		PublishAll:   cfg.PublishAll,
		BaseURL:      cfg.BaseURL,
		AliasDivider: cfg.AliasDivider,
		Concurrency:  cfg.Concurrency,
		Include:      cfg.Scan.Include,
		Exclude:      cfg.Scan.Exclude,
		Jekyll: jekyll.Options{
			Theme:       cfg.Site.Theme,
			Title:       cfg.Site.Title,
			Description: cfg.Site.Description,
			BaseURL:     cfg.BaseURL,
			Domain:      cfg.Site.Domain,
			ColorScheme: cfg.Site.ColorScheme,
			SiteFooter:  cfg.Site.Footer,
		},
		Logger: l,
	}
}

// newLogger writes to stderr so that stdout stays free for reports.
func newLogger() *logger.Logger {
	if verbose {
		return logger.NewWithLevel(os.Stderr, log.DebugLevel)
	}
	return logger.New(os.Stderr)
}

// exitOnError prints an error message and exits if err is not nil.
func exitOnError(err error, message string) {
	if err != nil {
		if message != "" {
			fmt.Fprintf(os.Stderr, "%s: %v\n", message, err)
		} else {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
		os.Exit(1)
	}
}

// getPathArg returns the path argument or "." as default.
func getPathArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
