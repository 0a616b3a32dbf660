// Package jekyll builds the _config.yml and CNAME files of a published site.
package jekyll

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultTheme is used when no theme is configured.
	DefaultTheme = "just-the-docs"

	// JustTheDocsRemote is the remote theme just-the-docs resolves to.
	JustTheDocsRemote = "asstart/just-the-docs"

	// ConfigFile is the Jekyll configuration file name.
	ConfigFile = "_config.yml"

	// CNAMEFile holds the custom domain for GitHub Pages.
	CNAMEFile = "CNAME"

	remoteThemePlugin = "jekyll-remote-theme"
)

// DefaultSiteFooter is the just-the-docs footer used when none is set.
const DefaultSiteFooter = `This site powered by <a href="https://github.com/just-the-docs/just-the-docs">Just the Docs</a>, ` +
	`a documentation theme for Jekyll, from notes published with notepress`

// ColorSchemes lists the just-the-docs color schemes.
var ColorSchemes = []string{"light", "dark"}

// ErrUnknownTheme is returned for a theme that cannot be resolved.
var ErrUnknownTheme = errors.New("unknown jekyll theme")

var (
	defaultPlugins = []string{"jekyll-seo-tag"}

	// themeNames maps short theme names to their full Jekyll name.
	themeNames = map[string]string{
		DefaultTheme:      JustTheDocsRemote,
		JustTheDocsRemote: JustTheDocsRemote,
		"minima":          "minima",
	}

	// localThemes ship as gems and need no remote theme plugin.
	localThemes = map[string]bool{"minima": true}

	// versionedTheme accepts GitHub Pages themes pinned to a semantic version,
	// like pages-themes/cayman@v0.2.0.
	versionedTheme = regexp.MustCompile(
		`^pages-themes/[\w-]+@v(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)` +
			`(?:-((?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*)(?:\.(?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*))*))?` +
			`(?:\+([0-9a-zA-Z-]+(?:\.[0-9a-zA-Z-]+)*))?$`)
)

// Options are the site settings that end up in _config.yml.
type Options struct {
	Theme       string
	Title       string
	Description string
	BaseURL     string
	Domain      string
	ColorScheme string
	SiteFooter  string
}

// Config is the generated Jekyll configuration. Field order is the key order
// of the written file.
type Config struct {
	Theme       string   `yaml:"theme,omitempty"`
	Plugins     []string `yaml:"plugins"`
	Title       string   `yaml:"title,omitempty"`
	Description string   `yaml:"description,omitempty"`
	RemoteTheme string   `yaml:"remote_theme,omitempty"`
	BaseURL     string   `yaml:"baseurl,omitempty"`
	Domain      string   `yaml:"domain,omitempty"`

	// JustTheDocs is only set for the just-the-docs remote theme.
	JustTheDocs *JustTheDocs `yaml:"-"`
}

// JustTheDocs holds the theme specific settings.
type JustTheDocs struct {
	SearchEnabled  bool    `yaml:"search_enabled"`
	Search         Search  `yaml:"search"`
	Mermaid        Mermaid `yaml:"mermaid"`
	HeadingAnchors bool    `yaml:"heading_anchors"`
	ColorScheme    string  `yaml:"color_scheme"`
	BackToTop      bool    `yaml:"back_to_top"`
	BackToTopText  string  `yaml:"back_to_top_text"`
	SiteFooter     string  `yaml:"site_footer"`
}

// Search configures the just-the-docs search index.
type Search struct {
	HeadingLevel       int  `yaml:"heading_level"`
	Previews           int  `yaml:"previews"`
	PreviewWordsBefore int  `yaml:"preview_words_before"`
	PreviewWordsAfter  int  `yaml:"preview_words_after"`
	RelURL             bool `yaml:"rel_url"`
	Button             bool `yaml:"button"`
}

// Mermaid pins the mermaid.js version used for diagrams.
type Mermaid struct {
	Version string `yaml:"version"`
}

// DefaultJustTheDocs returns the theme settings with the given color scheme.
// Unknown schemes fall back to light.
func DefaultJustTheDocs(colorScheme string) *JustTheDocs {
	if !slices.Contains(ColorSchemes, colorScheme) {
		colorScheme = "light"
	}
	return &JustTheDocs{
		SearchEnabled: true,
		Search: Search{
			HeadingLevel:       2,
			Previews:           3,
			PreviewWordsBefore: 5,
			PreviewWordsAfter:  10,
			RelURL:             true,
			Button:             false,
		},
		Mermaid:        Mermaid{Version: "9.1.3"},
		HeadingAnchors: true,
		ColorScheme:    colorScheme,
		BackToTop:      true,
		BackToTopText:  "Back to top",
		SiteFooter:     DefaultSiteFooter,
	}
}

// ResolveTheme returns the full theme name and whether it is loaded through
// the remote theme plugin.
func ResolveTheme(theme string) (name string, remote bool, err error) {
	if theme == "" {
		theme = DefaultTheme
	}
	if full, ok := themeNames[theme]; ok {
		return full, !localThemes[full], nil
	}
	if versionedTheme.MatchString(theme) {
		return theme, true, nil
	}
	return "", false, fmt.Errorf("%w %q: use one of just-the-docs, minima or a versioned name like pages-themes/cayman@v0.2.0",
		ErrUnknownTheme, theme)
}

// New builds the configuration for opts.
func New(opts Options) (*Config, error) {
	theme, remote, err := ResolveTheme(opts.Theme)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Plugins:     append([]string(nil), defaultPlugins...),
		Title:       opts.Title,
		Description: opts.Description,
		BaseURL:     opts.BaseURL,
		Domain:      opts.Domain,
	}

	if remote {
		cfg.Plugins = append(cfg.Plugins, remoteThemePlugin)
		cfg.RemoteTheme = theme
	} else {
		cfg.Theme = theme
	}

	if cfg.RemoteTheme == JustTheDocsRemote {
		cfg.JustTheDocs = DefaultJustTheDocs(opts.ColorScheme)
		if opts.SiteFooter != "" {
			cfg.JustTheDocs.SiteFooter = opts.SiteFooter
		}
	}

	return cfg, nil
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", ConfigFile, err)
	}
	if c.JustTheDocs == nil {
		return out, nil
	}

	theme, err := yaml.Marshal(c.JustTheDocs)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", ConfigFile, err)
	}
	return append(out, theme...), nil
}

// Write stores _config.yml in dir, and CNAME when a domain is set.
func (c *Config) Write(dir string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", ConfigFile, err)
	}

	if c.Domain == "" {
		return nil
	}
	if err := os.WriteFile(filepath.Join(dir, CNAMEFile), []byte(c.Domain), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", CNAMEFile, err)
	}
	return nil
}
