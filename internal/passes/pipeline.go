// Package passes implements the ordered graph transformations and checks
// that run over a generator tree between IR construction and code
// generation.
package passes

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"kratosc/internal/debugdb"
	"kratosc/internal/diag"
	"kratosc/internal/ir"
)

// Pass is one ordered step of the pipeline. Run either mutates design in
// place and returns nil, or returns a non-nil error and leaves design
// unmodified from the caller's point of view.
type Pass interface {
	Name() string
	Run(ctx context.Context, design *ir.Design) error
}

// Parallelizable is implemented by passes whose per-generator body can run
// concurrently, one exclusive generator subtree per worker.
type Parallelizable interface {
	PerGenerator() bool
	RunGenerator(ctx context.Context, g *ir.Generator) error
}

// Mode controls how the pipeline reacts to a failing pass.
type Mode int

const (
	// StopOnFirstError aborts the pipeline at the first failing pass.
	StopOnFirstError Mode = iota
	// BestEffort runs every pass regardless of earlier failures,
	// collecting every error before returning.
	BestEffort
)

// Pipeline runs an ordered list of passes over a Design.
type Pipeline struct {
	passes      []Pass
	Mode        Mode
	NumCPUs     int
	PassTimeout time.Duration
	Reporter    *diag.Reporter
}

// Manager is an alias for Pipeline, kept for familiarity with pipeline
// managers elsewhere in the ecosystem that use that name.
type Manager = Pipeline

// NewPipeline creates an empty Pipeline with NumCPUs defaulted to the
// detected core count.
func NewPipeline(reporter *diag.Reporter) *Pipeline {
	return &Pipeline{
		NumCPUs:  runtime.NumCPU(),
		Reporter: reporter,
	}
}

// Add appends a pass to the end of the pipeline.
func (p *Pipeline) Add(pass Pass) *Pipeline {
	p.passes = append(p.passes, pass)
	return p
}

// Passes returns the pipeline's configured passes, in run order.
func (p *Pipeline) Passes() []Pass { return append([]Pass(nil), p.passes...) }

// Run executes every configured pass, in order, against design.
func (p *Pipeline) Run(ctx context.Context, design *ir.Design) error {
	var errs []error
	for _, pass := range p.passes {
		if err := ctx.Err(); err != nil {
			return err
		}
		runCtx := ctx
		var cancel context.CancelFunc
		if p.PassTimeout > 0 {
			runCtx, cancel = context.WithTimeout(ctx, p.PassTimeout)
		}
		err := p.runPass(runCtx, pass, design)
		if cancel != nil {
			cancel()
		}
		if err != nil {
			if runCtx.Err() == context.DeadlineExceeded {
				err = &ir.Error{Kind: ir.KindPassTimeout, Message: fmt.Sprintf("pass %s exceeded its time budget", pass.Name())}
			}
			if p.Reporter != nil {
				p.Reporter.ReportIRError(err)
			}
			if p.Mode == StopOnFirstError {
				return err
			}
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("pipeline completed with %d error(s): %w", len(errs), errs[0])
	}
	return nil
}

func (p *Pipeline) runPass(ctx context.Context, pass Pass, design *ir.Design) error {
	parallel, ok := pass.(Parallelizable)
	if !ok || !parallel.PerGenerator() || p.NumCPUs <= 1 {
		return pass.Run(ctx, design)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(p.NumCPUs)
	for _, g := range design.Generators() {
		g := g
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			return parallel.RunGenerator(groupCtx, g)
		})
	}
	return group.Wait()
}

// DefaultPipeline returns the ten representative passes in their
// dependency order, reporting diagnostics to reporter and publishing
// breakpoint assignments to db. db may be nil, in which case
// InjectDebugBreakPoints is a no-op.
func DefaultPipeline(reporter *diag.Reporter, db *debugdb.Database) *Pipeline {
	p := NewPipeline(reporter)
	p.Add(&FixAssignmentType{})
	p.Add(&RemoveUnusedVars{})
	p.Add(&VerifyConnectivity{})
	p.Add(&MergeWireAssignments{})
	p.Add(&HashGenerators{})
	p.Add(&UniquifyGenerators{})
	p.Add(&CreateModuleInstantiation{})
	p.Add(&DecoupleGeneratorPorts{})
	p.Add(&InjectDebugBreakPoints{DB: db})
	p.Add(&InsertVerilatorPublic{})
	return p
}
