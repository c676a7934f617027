package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"debuggen/internal/driver"
	"debuggen/internal/graphfile"
	"debuggen/internal/observ"
	"debuggen/internal/trace"
	"debuggen/internal/types"
)

// run is one invocation of the generation pipeline.
type run struct {
	cmd      *cobra.Command
	ctx      context.Context
	settings settings
	timer    *observ.Timer
	span     *trace.Span
	tui      bool // follow rendering with the progress view
}

func startRun(cmd *cobra.Command, args []string, name string) (*run, func(), error) {
	s, err := resolveSettings(cmd, args)
	if err != nil {
		return nil, nil, err
	}
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return nil, nil, err
	}
	ctx := commandContext(cmd)
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, name, 0)
	r := &run{
		cmd:      cmd,
		ctx:      trace.WithSpan(ctx, span),
		settings: s,
		timer:    observ.NewTimer(),
		span:     span,
	}
	return r, func() {
		span.End("")
		if s.Timings {
			fmt.Fprint(cmd.ErrOrStderr(), r.timer.Summary())
		}
		cleanup()
	}, nil
}

// phase runs fn as a timed, traced pass.
func (r *run) phase(name string, fn func() (string, error)) error {
	idx := r.timer.Begin(name)
	span := trace.Begin(trace.FromContext(r.ctx), trace.ScopePass, name, r.span.ID())
	note, err := fn()
	if err != nil {
		note = "failed"
	}
	r.timer.End(idx, note)
	span.End(note)
	return err
}

// load reads and decodes the graph description.
func (r *run) load() ([]byte, *graphfile.Document, error) {
	var data []byte
	var doc *graphfile.Document
	err := r.phase("load", func() (string, error) {
		var err error
		data, err = os.ReadFile(r.settings.Input)
		if err != nil {
			return "", fmt.Errorf("failed to read graph description: %w", err)
		}
		doc, err = graphfile.Decode(data)
		if err != nil {
			return "", fmt.Errorf("%s: %w", r.settings.Input, err)
		}
		return strconv.Itoa(len(doc.Types)) + " types", nil
	})
	return data, doc, err
}

// build binds and validates the decoded description.
func (r *run) build(doc *graphfile.Document) (*types.Graph, error) {
	var g *types.Graph
	err := r.phase("validate", func() (string, error) {
		var err error
		g, err = graphfile.Build(doc)
		if err != nil {
			return "", fmt.Errorf("%s: %w", r.settings.Input, err)
		}
		return strconv.Itoa(g.Len()-1) + " nodes", nil
	})
	return g, err
}

func (r *run) loadGraph() (*types.Graph, error) {
	_, doc, err := r.load()
	if err != nil {
		return nil, err
	}
	return r.build(doc)
}

// generate produces the rendered records, going through the disk cache when
// it is enabled.
func (r *run) generate() (*driver.Result, error) {
	data, doc, err := r.load()
	if err != nil {
		return nil, err
	}

	var cache *driver.DiskCache
	var key driver.Digest
	if r.settings.Cache {
		cache, err = driver.OpenDiskCache("debuggen")
		if err != nil {
			r.warnf("cache disabled: %v", err)
			cache = nil
		}
		key = driver.CacheKey(data, "idents="+r.settings.identsName(), "verify="+strconv.FormatBool(r.settings.Verify))
	}
	if cache != nil {
		plan, ok, err := cache.Get(key)
		if err != nil {
			r.warnf("cache read failed: %v", err)
		}
		if ok {
			res, err := plan.Result()
			if err == nil {
				trace.Point(trace.FromContext(r.ctx), trace.ScopePass, "cache", "hit "+key.String()[:12], r.span.ID())
				return res, nil
			}
			r.warnf("ignoring cache entry: %v", err)
		}
	}

	g, err := r.build(doc)
	if err != nil {
		return nil, err
	}
	var res *driver.Result
	err = r.phase("render", func() (string, error) {
		opts := driver.Options{
			Jobs:   r.settings.Jobs,
			Verify: r.settings.Verify,
			Idents: r.settings.idents(),
		}
		var err error
		if r.tui {
			res, err = generateWithUI(r.ctx, "rendering "+r.settings.Input, g, opts)
		} else {
			res, err = driver.Generate(r.ctx, g, opts)
		}
		if err != nil {
			return "", err
		}
		return strconv.Itoa(len(res.Records)) + " records", nil
	})
	if err != nil {
		return nil, err
	}
	if cache != nil {
		if err := cache.Put(key, driver.NewPlan(res)); err != nil {
			r.warnf("cache write failed: %v", err)
		}
	}
	return res, nil
}

// writeOutput streams write to the configured output or stdout.
func (r *run) writeOutput(write func(io.Writer) error) error {
	out := r.settings.Output
	if out == "" || out == "-" {
		return write(r.cmd.OutOrStdout())
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := write(f); err != nil {
		_ = f.Close() //nolint:errcheck
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if !r.settings.Quiet {
		fmt.Fprintf(r.cmd.ErrOrStderr(), "wrote %s\n", out)
	}
	return nil
}

func (r *run) warnf(format string, args ...any) {
	if r.settings.Quiet {
		return
	}
	fmt.Fprintf(r.cmd.ErrOrStderr(), "warning: "+format+"\n", args...)
}
