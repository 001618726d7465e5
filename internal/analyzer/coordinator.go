package analyzer

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"codescope/internal/api"
	"codescope/internal/cserr"
	"codescope/internal/database"
	"codescope/internal/deps"
	"codescope/internal/framework"
	"codescope/internal/lang"
	"codescope/internal/metrics"
	"codescope/internal/scan"
	"codescope/internal/security"
)

const defaultWorkers = 4

// Options configures a Coordinator. Zero values fall back to the
// defaults of each phase.
type Options struct {
	Scan     scan.Options
	Security security.Options
	Weights  metrics.Weights
	// Workers bounds per-file fan-out. Defaults to 4.
	Workers int
	Logger  *slog.Logger
}

// Coordinator drives the phases in order and collects their results
// into a Report. A Coordinator is reusable; each Analyze call is an
// independent run.
type Coordinator struct {
	scanner    *scan.Scanner
	frameworks *framework.Detector
	deps       *deps.Analyzer
	api        *api.Analyzer
	db         *database.Analyzer
	security   *security.Scanner
	metrics    *metrics.Calculator

	workers int
	log     *slog.Logger

	mu    sync.Mutex
	phase Phase
}

// New creates a Coordinator. Fails if the vulnerability catalog cannot
// be loaded, so a broken catalog surfaces before any run starts.
func New(opts Options) (*Coordinator, error) {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	opts.Scan.Logger = opts.Logger
	opts.Security.Logger = opts.Logger

	sec, err := security.NewScanner(opts.Security)
	if err != nil {
		return nil, err
	}

	return &Coordinator{
		scanner:    scan.NewScanner(opts.Scan),
		frameworks: framework.NewDetector(opts.Logger),
		deps:       deps.NewAnalyzer(opts.Logger),
		api:        api.NewAnalyzer(opts.Logger),
		db:         database.NewAnalyzer(opts.Logger),
		security:   sec,
		metrics:    metrics.NewCalculator(opts.Weights, opts.Logger),
		workers:    opts.Workers,
		log:        opts.Logger,
		phase:      PhaseIdle,
	}, nil
}

// Phase reports the stage of the run in progress, or the terminal
// stage of the last run.
func (c *Coordinator) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *Coordinator) setPhase(p Phase) {
	c.mu.Lock()
	c.phase = p
	c.mu.Unlock()
	c.log.Debug("phase", "phase", string(p))
}

// Analyze runs the full pipeline over root. Only an invalid root is
// fatal with nothing to show; any later failure returns the partially
// populated report alongside the error. Cancellation is honored
// between phases.
func (c *Coordinator) Analyze(ctx context.Context, root string) (*Report, error) {
	report := newReport(root)

	fail := func(err error) (*Report, error) {
		c.setPhase(PhaseFailed)
		report.finish(PhaseFailed)
		c.log.Error("analysis failed", "root", root, "error", err)
		return report, err
	}

	c.setPhase(PhaseScanning)
	snap, err := c.scanner.Scan(ctx, root)
	if err != nil {
		return fail(err)
	}
	report.Root = snap.Root
	report.TotalFiles = len(snap.Files)
	report.TotalDirs = snap.Dirs
	report.SkippedFiles = snap.Skipped
	report.Warnings = append(report.Warnings, snap.Warnings...)

	if err := between(ctx, "detect"); err != nil {
		return fail(err)
	}

	// Language and framework detection are independent reads of the
	// snapshot, so they run concurrently into distinct report slots.
	c.setPhase(PhaseDetecting)
	dg, _ := errgroup.WithContext(ctx)
	dg.Go(func() error {
		report.Languages = lang.Aggregate(snap)
		return nil
	})
	dg.Go(func() error {
		report.Frameworks = c.frameworks.Detect(snap)
		return nil
	})
	if err := dg.Wait(); err != nil {
		return fail(err)
	}

	if err := between(ctx, "extract"); err != nil {
		return fail(err)
	}

	c.setPhase(PhaseExtracting)
	eg, _ := errgroup.WithContext(ctx)
	eg.Go(func() error {
		report.Dependencies = c.deps.Analyze(snap)
		return nil
	})
	eg.Go(func() error {
		report.API = c.api.Analyze(snap)
		return nil
	})
	eg.Go(func() error {
		report.Database = c.db.Analyze(snap)
		return nil
	})
	if err := eg.Wait(); err != nil {
		return fail(err)
	}

	// Manifest warnings belong on the report, not nested twice.
	report.Warnings = append(report.Warnings, report.Dependencies.Warnings...)
	report.Dependencies.Warnings = nil

	if err := between(ctx, "security"); err != nil {
		return fail(err)
	}

	c.setPhase(PhaseScanningSecurity)
	sec, err := c.scanSecurity(ctx, snap, report.Dependencies.Dependencies)
	if err != nil {
		return fail(err)
	}
	report.Security = sec

	if err := between(ctx, "aggregate"); err != nil {
		return fail(err)
	}

	c.setPhase(PhaseAggregating)
	report.Metrics = c.metrics.Calculate(snap, report.Security)

	c.setPhase(PhaseDone)
	report.finish(PhaseDone)
	c.log.Info("analysis complete",
		"root", report.Root,
		"files", report.TotalFiles,
		"durationMs", report.DurationMS)
	return report, nil
}

// scanSecurity fans the per-file scans over a bounded worker pool.
// Each worker writes its own slot; the merge walks slots in file order
// so the result is independent of scheduling.
func (c *Coordinator) scanSecurity(ctx context.Context, snap *scan.Snapshot, dependencies []deps.Dependency) (security.Result, error) {
	slots := make([][]security.Issue, len(snap.Files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i := range snap.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slots[i] = c.security.ScanFile(snap.Files[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return security.Result{}, cserr.Wrap(cserr.Canceled, "security scan interrupted", err)
	}

	var issues []security.Issue
	for _, slot := range slots {
		issues = append(issues, slot...)
	}
	issues = append(issues, c.security.ScanDependencies(dependencies)...)
	return security.BuildResult(issues), nil
}

func between(ctx context.Context, next string) error {
	if err := ctx.Err(); err != nil {
		return cserr.Wrap(cserr.Canceled, "run canceled before "+next+" phase", err)
	}
	return nil
}
