// Package driver runs a generation pass over a sealed type graph.
package driver

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"debuggen/internal/debugimpl"
	"debuggen/internal/emit"
	"debuggen/internal/ident"
	"debuggen/internal/testkit"
	"debuggen/internal/trace"
	"debuggen/internal/types"
)

// Options controls a generation pass.
type Options struct {
	// Jobs bounds concurrent record rendering; <= 0 uses GOMAXPROCS.
	Jobs int
	// Verify checks every procedure against the structural invariants.
	Verify bool
	// Idents converts field names; nil uses them verbatim.
	Idents ident.Func
	// Progress, when set, receives one queued event per record up front and
	// rendering/done/error events as records are processed.
	Progress ProgressSink
}

// Record is the rendered plan for one whitelisted record.
type Record struct {
	ID        types.TypeID
	Name      string
	Kind      types.CompKind
	Generics  []string
	Procedure debugimpl.Procedure
}

// Result holds every record in TypeID order.
type Result struct {
	Records []Record
}

// Generate renders every whitelisted record of g. The graph is validated
// first if it is not sealed yet.
func Generate(ctx context.Context, g *types.Graph, opts Options) (*Result, error) {
	if g == nil {
		return nil, fmt.Errorf("driver: nil graph")
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid type graph: %w", err)
	}
	rctx := debugimpl.NewContext(g, opts.Idents)
	targets := collectRecords(g)

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "render", trace.CurrentSpan(ctx))
	span.WithExtra("records", strconv.Itoa(len(targets)))
	defer span.End("")

	if len(targets) == 0 {
		return &Result{}, nil
	}

	for _, id := range targets {
		report(opts.Progress, g.Name(id), StatusQueued)
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Each task writes only its own slot.
	records := make([]Record, len(targets))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(min(jobs, len(targets)))
	for i, id := range targets {
		eg.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			name := g.Name(id)
			report(opts.Progress, name, StatusRendering)
			rec, err := renderRecord(rctx, id, opts, tracer, span.ID())
			if err != nil {
				report(opts.Progress, name, StatusError)
				return err
			}
			records[i] = rec
			report(opts.Progress, name, StatusDone)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return &Result{Records: records}, nil
}

func collectRecords(g *types.Graph) []types.TypeID {
	var out []types.TypeID
	for i := 1; i < g.Len(); i++ {
		id, err := safecast.Conv[uint32](i)
		if err != nil {
			panic(fmt.Errorf("type id overflow: %w", err))
		}
		tid := types.TypeID(id)
		if g.Kind(tid) == types.KindComp && g.IsWhitelisted(tid) {
			out = append(out, tid)
		}
	}
	return out
}

func renderRecord(rctx *debugimpl.Context, id types.TypeID, opts Options, tracer trace.Tracer, parent uint64) (rec Record, err error) {
	g := rctx.Graph()
	span := trace.Begin(tracer, trace.ScopeRecord, "record:"+g.Name(id), parent)
	defer func() {
		if r := recover(); r != nil {
			perr, ok := r.(error)
			if !ok {
				perr = fmt.Errorf("%v", r)
			}
			err = fmt.Errorf("rendering %s: %w", g.Name(id), perr)
		}
		span.End(errDetail(err))
	}()

	info, _ := g.CompInfo(id)
	proc := debugimpl.RenderRecord(rctx, id, info.Fields, info.Kind)
	if opts.Verify {
		if verr := testkit.CheckProcedureInvariants(proc); verr != nil {
			return Record{}, fmt.Errorf("verification failed: %w", verr)
		}
	}
	span.WithExtra("values", strconv.Itoa(len(proc.Args)))

	var generics []string
	for _, p := range info.TypeParams {
		generics = append(generics, g.Name(p))
	}
	return Record{
		ID:        id,
		Name:      g.Name(id),
		Kind:      info.Kind,
		Generics:  generics,
		Procedure: proc,
	}, nil
}

func errDetail(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Units converts the result into emission units in record order.
func (r *Result) Units() []emit.Unit {
	units := make([]emit.Unit, 0, len(r.Records))
	for _, rec := range r.Records {
		units = append(units, emit.Unit{
			Target: emit.Target{Name: rec.Name, Generics: rec.Generics},
			Proc:   rec.Procedure,
		})
	}
	return units
}
