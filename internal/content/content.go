// Package content runs a note through filters, an AST stage chain and the
// markdown serializer.
package content

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/yuin/goldmark/ast"

	"github.com/notepress/notepress/internal/markdown"
)

// ErrParse is returned when a document cannot be parsed.
var ErrParse = errors.New("parse document")

// Config is the per-run pipeline configuration.
type Config struct {
	// SourceDir is the vault directory being published.
	SourceDir string
	// RootDir bounds link resolution. Usually equal to SourceDir.
	RootDir string
	// BaseURL prefixes every rewritten link when set.
	BaseURL string
	// AliasDivider separates wikilink target and alias. Defaults to "|".
	AliasDivider string
	// Tags selects documents to publish by their frontmatter tags.
	Tags []string
	// PublishAll disables tag selection.
	PublishAll bool
}

// Document is a parsed note handed to each stage.
type Document struct {
	// Path is the absolute path of the note on disk.
	Path string
	// Source is the raw note text the AST refers to.
	Source []byte
	// Root is the AST; stages mutate it in place.
	Root *ast.Document
}

// Stage transforms a document and returns the media files it referenced.
type Stage interface {
	Apply(doc *Document) ([]string, error)
}

// StageFunc adapts a function to the Stage interface.
type StageFunc func(doc *Document) ([]string, error)

// Apply implements Stage.
func (f StageFunc) Apply(doc *Document) ([]string, error) {
	return f(doc)
}

// Filter decides from the raw text whether a document is processed.
type Filter func(raw []byte) bool

// Status tells whether a document was rendered.
type Status int

const (
	// Rendered means Result.Text holds the output.
	Rendered Status = iota
	// Skipped means a filter rejected the document.
	Skipped
)

// String returns the lowercase status name.
func (s Status) String() string {
	if s == Skipped {
		return "skipped"
	}
	return "rendered"
}

// Result is the outcome of processing one document.
type Result struct {
	Status Status
	Text   []byte
	Media  []string
}

// Pipeline processes documents with a fixed configuration, stage chain and
// filter set. It holds no per-document state and is safe for concurrent use
// as long as its stages are.
type Pipeline struct {
	cfg     Config
	engine  *markdown.Engine
	stages  []Stage
	filters []Filter
}

// New validates cfg once and returns a pipeline that applies stages in the
// given order to documents accepted by every filter.
func New(cfg Config, stages []Stage, filters []Filter) (*Pipeline, error) {
	engine, err := markdown.NewEngine(cfg.AliasDivider)
	if err != nil {
		return nil, fmt.Errorf("creating markdown engine: %w", err)
	}

	return &Pipeline{
		cfg:     cfg,
		engine:  engine,
		stages:  append([]Stage(nil), stages...),
		filters: append([]Filter(nil), filters...),
	}, nil
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Process runs one document. path is the absolute path of the note and raw
// its content. Failures concern this document only.
func (p *Pipeline) Process(path string, raw []byte) (res Result, err error) {
	for _, accept := range p.filters {
		if !accept(raw) {
			return Result{Status: Skipped}, nil
		}
	}

	doc, err := p.parse(path, raw)
	if err != nil {
		return Result{}, err
	}

	var media []string
	for i, stage := range p.stages {
		m, err := stage.Apply(doc)
		if err != nil {
			return Result{}, fmt.Errorf("stage %d on %s: %w", i, path, err)
		}
		media = append(media, m...)
	}

	text, err := p.engine.Render(doc.Root, doc.Source)
	if err != nil {
		return Result{}, fmt.Errorf("rendering %s: %w", path, err)
	}

	return Result{Status: Rendered, Text: text, Media: media}, nil
}

// Render serializes a document without running any stage.
func (p *Pipeline) Render(path string, raw []byte) ([]byte, error) {
	doc, err := p.parse(path, raw)
	if err != nil {
		return nil, err
	}
	return p.engine.Render(doc.Root, doc.Source)
}

func (p *Pipeline) parse(path string, raw []byte) (doc *Document, err error) {
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("%w %s: not valid UTF-8", ErrParse, path)
	}

	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("%w %s: %v", ErrParse, path, r)
		}
	}()

	source := append([]byte(nil), raw...)
	return &Document{
		Path:   path,
		Source: source,
		Root:   p.engine.Parse(source),
	}, nil
}
