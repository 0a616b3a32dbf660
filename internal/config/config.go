// Package config handles loading configuration from .notepress.yaml or
// .notepress.toml files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// File names searched for, in order of preference.
const (
	YAMLFileName = ".notepress.yaml"
	TOMLFileName = ".notepress.toml"
	EnvFileName  = ".env"
)

// Limits on configuration values.
const (
	MaxPathLength        = 4096
	MaxThemeLength       = 100
	MaxTitleLength       = 500
	MaxDescriptionLength = 4000
	MaxColorSchemeLength = 20
	DefaultConcurrency   = 8
)

// Folders accepted for the site inside the target directory.
var (
	RootFolders = []string{".", "/"}
	DocsFolders = []string{"docs", "/docs"}
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

var rootedURL = regexp.MustCompile(`^/`)

// FileNames lists the configuration files FindAndLoad looks for.
func FileNames() []string {
	return []string{YAMLFileName, TOMLFileName}
}

// Config represents the complete configuration structure.
type Config struct {
	// Source is the vault directory.
	Source string `yaml:"source" toml:"source"`

	// Target is the directory the site is written to.
	Target string `yaml:"target" toml:"target"`

	// Folder places the site at the target root (".") or in "docs".
	Folder string `yaml:"folder" toml:"folder"`

	// Tags selects notes by frontmatter tag. Entries with glob
	// metacharacters are patterns, like "blog/*".
	Tags []string `yaml:"tags" toml:"tags"`

	// PublishAll publishes every note regardless of tags.
	PublishAll bool `yaml:"publish_all" toml:"publish_all"`

	// BaseURL prefixes every rewritten link, like "/notes".
	BaseURL string `yaml:"baseurl" toml:"baseurl"`

	// AliasDivider separates wikilink target and alias. Defaults to "|".
	AliasDivider string `yaml:"alias_divider" toml:"alias_divider"`

	// Concurrency bounds the notes processed at once.
	Concurrency int `yaml:"concurrency" toml:"concurrency"`

	Scan   ScanConfig   `yaml:"scan" toml:"scan"`
	Site   SiteConfig   `yaml:"site" toml:"site"`
	Output OutputConfig `yaml:"output" toml:"output"`

	// Path is the file the configuration was read from, if any.
	Path string `yaml:"-" toml:"-"`
}

// ScanConfig narrows the notes considered for publishing.
type ScanConfig struct {
	// Include patterns (glob) - if set, only matching notes are scanned.
	Include []string `yaml:"include" toml:"include"`

	// Exclude patterns (glob) - matching notes are never scanned.
	Exclude []string `yaml:"exclude" toml:"exclude"`
}

// SiteConfig holds the Jekyll site settings.
type SiteConfig struct {
	Theme       string `yaml:"theme" toml:"theme"`
	Title       string `yaml:"title" toml:"title"`
	Description string `yaml:"description" toml:"description"`
	Domain      string `yaml:"domain" toml:"domain"`
	ColorScheme string `yaml:"color_scheme" toml:"color_scheme"`
	Footer      string `yaml:"footer" toml:"footer"`
}

// OutputConfig controls the publish report.
type OutputConfig struct {
	// Report is a file the run report is written to. The format follows
	// the extension.
	Report string `yaml:"report" toml:"report"`

	// Stats prints phase timings after a run.
	Stats bool `yaml:"stats" toml:"stats"`

	// Strict fails the run when any note fails.
	Strict bool `yaml:"strict" toml:"strict"`
}

// Default returns a configuration with defaults filled in.
func Default() *Config {
	return &Config{
		Folder:      ".",
		Concurrency: DefaultConcurrency,
	}
}

// Load reads configuration from the current directory.
// Returns an empty config if no file exists (not an error).
func Load() (*Config, error) {
	return FindAndLoad(".")
}

// LoadFrom reads configuration from a specific path. The format follows the
// extension: .toml for TOML, anything else for YAML. ${VAR} references are
// expanded from the environment.
// Returns an empty config if the file doesn't exist (not an error).
// Returns an error only if the file exists but cannot be parsed.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	expanded := []byte(os.ExpandEnv(string(data)))

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(expanded, cfg)
	} else {
		err = yaml.Unmarshal(expanded, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.Path = path
	return cfg, nil
}

// FindAndLoad searches for a config file starting from the given directory
// and walking up to parent directories until it finds one or reaches root.
// The YAML file wins when a directory holds both.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		for _, name := range FileNames() {
			configPath := filepath.Join(dir, name)
			if _, err := os.Stat(configPath); err == nil {
				return LoadFrom(configPath)
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return &Config{}, nil
		}
		dir = parent
	}
}

// LoadEnv loads dir/.env into the environment without overriding variables
// that are already set. A missing file is not an error.
func LoadEnv(dir string) error {
	path := filepath.Join(dir, EnvFileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// IsEmpty returns true if nothing was configured.
func (c *Config) IsEmpty() bool {
	return c.Source == "" && c.Target == "" && len(c.Tags) == 0 && !c.PublishAll
}

// Merge combines another config into this one. Lists are additive; other
// scalar values override when set.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	c.Tags = append(c.Tags, other.Tags...)
	c.Scan.Include = append(c.Scan.Include, other.Scan.Include...)
	c.Scan.Exclude = append(c.Scan.Exclude, other.Scan.Exclude...)

	override(&c.Source, other.Source)
	override(&c.Target, other.Target)
	override(&c.Folder, other.Folder)
	override(&c.BaseURL, other.BaseURL)
	override(&c.AliasDivider, other.AliasDivider)
	override(&c.Site.Theme, other.Site.Theme)
	override(&c.Site.Title, other.Site.Title)
	override(&c.Site.Description, other.Site.Description)
	override(&c.Site.Domain, other.Site.Domain)
	override(&c.Site.ColorScheme, other.Site.ColorScheme)
	override(&c.Site.Footer, other.Site.Footer)
	override(&c.Output.Report, other.Output.Report)

	if other.Concurrency > 0 {
		c.Concurrency = other.Concurrency
	}
	c.PublishAll = c.PublishAll || other.PublishAll
	c.Output.Stats = c.Output.Stats || other.Output.Stats
	c.Output.Strict = c.Output.Strict || other.Output.Strict
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// SiteDir returns the directory the site files go to.
func (c *Config) SiteDir() string {
	for _, f := range DocsFolders {
		if c.Folder == f {
			return filepath.Join(c.Target, "docs")
		}
	}
	return c.Target
}

// Validate checks the configuration. Every error wraps ErrInvalid.
func (c *Config) Validate() error {
	folders := make([]any, 0, len(RootFolders)+len(DocsFolders))
	for _, f := range append(append([]string{}, RootFolders...), DocsFolders...) {
		folders = append(folders, f)
	}

	err := validation.ValidateStruct(c,
		validation.Field(&c.Source, validation.Required, validation.Length(1, MaxPathLength),
			validation.By(isDir)),
		validation.Field(&c.Target, validation.Required, validation.Length(1, MaxPathLength)),
		validation.Field(&c.Folder, validation.In(folders...)),
		validation.Field(&c.Tags, validation.Each(validation.Length(0, MaxPathLength))),
		validation.Field(&c.BaseURL, validation.Length(0, MaxPathLength),
			validation.Match(rootedURL).Error("must start with /")),
		validation.Field(&c.AliasDivider, validation.By(isDivider)),
		validation.Field(&c.Concurrency, validation.Min(0)),
		validation.Field(&c.Site),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Validate checks the site settings.
func (s SiteConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Theme, validation.Length(0, MaxThemeLength)),
		validation.Field(&s.Title, validation.Length(0, MaxTitleLength)),
		validation.Field(&s.Description, validation.Length(0, MaxDescriptionLength)),
		validation.Field(&s.ColorScheme, validation.Length(0, MaxColorSchemeLength),
			validation.In("light", "dark")),
		validation.Field(&s.Domain, is.Domain, validation.By(notGitHubPages)),
	)
}

func isDir(value any) error {
	path, _ := value.(string)
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s doesn't exist", path)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

func isDivider(value any) error {
	d, _ := value.(string)
	if strings.ContainsAny(d, "[]\n") {
		return errors.New("must not contain brackets or newlines")
	}
	return nil
}

func notGitHubPages(value any) error {
	domain, _ := value.(string)
	if strings.HasSuffix(domain, "github.io") {
		return errors.New("only a custom domain can be set; omit it for *.github.io")
	}
	return nil
}
