package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/irdump/pkg/cache"
	"github.com/matzehuels/irdump/pkg/errors"
	"github.com/matzehuels/irdump/pkg/ir"
	"github.com/matzehuels/irdump/pkg/irfile"
	"github.com/matzehuels/irdump/pkg/observability"
)

const keyTypeArtifact = "artifact"

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no results; several goroutines may share one Runner as
// long as they do not dump the same graph concurrently.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// NewID generates dump ids. Defaults to random UUIDs.
	NewID func() string
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		NewID:  uuid.NewString,
	}
}

// Execute runs the complete load -> dump -> render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	loadStart := time.Now()
	g, hash, err := r.Load(ctx, opts.Source)
	if err != nil {
		return nil, err
	}
	result.Graph = g
	result.GraphHash = hash
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = g.NodeCount()

	r.Logger.Info("loaded graph",
		"graph", g.Name(),
		"nodes", g.NodeCount(),
		"duration", result.Stats.LoadTime)

	renderStart := time.Now()
	artifacts, info, id, err := r.RenderWithCacheInfo(ctx, g, hash, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo = info
	result.DumpID = id
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", len(info.Hits),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads the graph file at path and returns it with the hash of the
// file contents.
func (r *Runner) Load(ctx context.Context, path string) (*ir.Graph, string, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, path)
	start := time.Now()

	g, hash, err := load(path)

	nodes := 0
	if g != nil {
		nodes = g.NodeCount()
	}
	hooks.OnLoadComplete(ctx, path, nodes, time.Since(start), err)
	return g, hash, err
}

func load(path string) (*ir.Graph, string, error) {
	g, err := irfile.Load(path)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeIO, err, "read %s", path)
	}
	return g, cache.Hash(data), nil
}

// RenderWithCacheInfo produces every requested artifact, serving what it
// can from the cache and dumping the graph once for the rest. The returned
// id is the dump id of the fresh artifacts, or empty if all were cached.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *ir.Graph, graphHash string, opts Options) (map[string][]byte, CacheInfo, string, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, CacheInfo{}, "", err
	}
	hooks := observability.Cache()

	var info CacheInfo
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil {
				r.Logger.Warn("cache read failed", "format", format, "error", err)
			}
			if err == nil && hit {
				hooks.OnCacheHit(ctx, keyTypeArtifact)
				artifacts[format] = data
				info.Hits = append(info.Hits, format)
				continue
			}
			hooks.OnCacheMiss(ctx, keyTypeArtifact)
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		info.RenderHit = true
		return artifacts, info, "", nil
	}

	id := r.NewID()
	pipeHooks := observability.Pipeline()
	pipeHooks.OnRenderStart(ctx, missing)
	start := time.Now()
	rendered, err := Render(ctx, g, missing, id, opts)
	pipeHooks.OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, info, "", err
	}

	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, opts.TTL); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "error", err)
			continue
		}
		hooks.OnCacheSet(ctx, keyTypeArtifact, len(data))
	}
	return artifacts, info, id, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
