// Package pipeline runs the irdump load -> dump -> render pipeline.
//
// The CLI and tests share this code so that every entry point schedules,
// annotates and caches graphs the same way.
//
// # Stages
//
//  1. Load: read a graph file (JSON or TOML) into an [ir.Graph]
//  2. Dump: snapshot and export the graph through [dump.Printer] into one
//     encoder per requested format
//  3. Render: collect the encoded bytes; SVG is rendered from the DOT text
//     of the first graph
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "loop.toml",
//	    Formats: []string{"bgv", "svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	bgv := result.Artifacts["bgv"]
package pipeline

import (
	"context"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/irdump/pkg/cache"
	"github.com/matzehuels/irdump/pkg/config"
	"github.com/matzehuels/irdump/pkg/dump"
	"github.com/matzehuels/irdump/pkg/errors"
	"github.com/matzehuels/irdump/pkg/ir"
	"github.com/matzehuels/irdump/pkg/schedule"
)

// DefaultLoopFrequency is the assumed iteration count of a loop when
// estimating block probabilities.
const DefaultLoopFrequency = 10.0

// DumpIDKey is the group property carrying the id of one pipeline run.
const DumpIDKey = "dump-id"

// SourceKey is the group property carrying the graph file path.
const SourceKey = "source"

// Options configures one pipeline run.
type Options struct {
	// Source is the graph file to load.
	Source string `json:"source"`

	// Formats are the artifacts to produce (bgv, json, dot, svg).
	Formats []string `json:"formats,omitempty"`

	ScheduleOnDump bool    `json:"schedule_on_dump,omitempty"`
	Probabilities  bool    `json:"probabilities,omitempty"`
	LoopFrequency  float64 `json:"loop_frequency,omitempty"`

	// ReportError, when set, dumps the graph as if a compilation had
	// failed with this message. The graph is then always scheduled.
	ReportError string `json:"report_error,omitempty"`

	// Detailed adds node properties to DOT and SVG labels.
	Detailed bool `json:"detailed,omitempty"`

	// TTL bounds the lifetime of cached artifacts. Zero never expires.
	TTL time.Duration `json:"-"`

	// Refresh ignores cached artifacts but still stores new ones.
	Refresh bool `json:"-"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// FromConfig builds options for source from a loaded configuration.
func FromConfig(cfg *config.Config, source string) Options {
	return Options{
		Source:         source,
		Formats:        slices.Clone(cfg.Output.Formats),
		ScheduleOnDump: cfg.Debug.ScheduleOnDump,
		Probabilities:  cfg.Debug.Probabilities,
		LoopFrequency:  cfg.Debug.LoopFrequency,
		Detailed:       cfg.Output.Detailed,
		TTL:            cfg.Cache.TTL.Duration,
	}
}

// Result is the output of a pipeline run.
type Result struct {
	// Graph is the loaded graph. After the run it carries the schedule the
	// dump computed, if any.
	Graph *ir.Graph

	// GraphHash is the content hash of the source file.
	GraphHash string

	// DumpID identifies this run in the group properties. Artifacts served
	// from the cache keep the id of the run that produced them.
	DumpID string

	// Artifacts holds the encoded output keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline timings and sizes.
type Stats struct {
	NodeCount  int
	LoadTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo reports which artifacts came from the cache.
type CacheInfo struct {
	Hits      []string // formats served from the cache
	RenderHit bool     // every format was served from the cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !slices.Contains(config.Formats, format) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: %v)", format, config.Formats)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults. It
// is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Source == "" {
		return errors.New(errors.ErrCodeInvalidInput, "source is required")
	}
	if err := errors.ValidatePath(o.Source); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{config.FormatBinary}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.Formats = dedupe(o.Formats)
	if o.LoopFrequency == 0 {
		o.LoopFrequency = DefaultLoopFrequency
	}
	if o.LoopFrequency < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "loop frequency must be at least 1, got %v", o.LoopFrequency)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// DebugContext builds the dump context for these options.
func (o *Options) DebugContext(ctx context.Context) *dump.DebugContext {
	dc := dump.NewDebugContext(ctx, dump.Config{
		Logger:    o.Logger,
		Options:   dump.Options{ScheduleOnDump: o.ScheduleOnDump, Probabilities: o.Probabilities},
		Scheduler: &schedule.Phase{LoopFrequency: o.LoopFrequency},
	})
	if o.ReportError != "" {
		dc = dc.WithError(errors.New(errors.ErrCodeInternal, "%s", o.ReportError))
	}
	return dc
}

// ArtifactKeyOpts returns cache key options for format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:         format,
		ScheduleOnDump: o.ScheduleOnDump,
		Probabilities:  o.Probabilities,
		ReportingError: o.ReportError,
		Detailed:       o.Detailed,
		LoopFrequency:  o.LoopFrequency,
	}
}

func dedupe(formats []string) []string {
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}
