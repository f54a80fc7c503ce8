// Package reconciler joins spatial-transcriptomics observation tables with
// externally computed cell-type assignments.
//
// The join is a left join keyed by Normalize(cell) against
// Normalize(cell_index): every observation survives, unmatched rows are
// labelled Unassigned, and the output table gains exactly one cell_type
// column. Pairs are processed one at a time and each owns its lookup.
package reconciler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/exseq/pkg/constants"
	"github.com/agentstation/exseq/pkg/errors"
	"github.com/agentstation/exseq/pkg/logging"
	"github.com/agentstation/exseq/pkg/table"
)

// Resource names used in NotFoundError so operators know which input is gone.
const (
	ResourcePrimary   = "regions genes file"
	ResourceSecondary = "cell type file"
)

// Reconciler adds cell types to observation tables.
type Reconciler interface {
	// Reconcile processes a single pair. Nothing is written unless the whole
	// augmented table was built.
	Reconcile(ctx context.Context, pair Pair) (*Result, error)

	// Run processes pairs sequentially. A failing pair is logged and recorded;
	// the rest still run.
	Run(ctx context.Context, pairs []Pair) *Report
}

type reconciler struct {
	logger *zerolog.Logger
	dryRun bool
}

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}
	return &reconciler{logger: o.logger, dryRun: o.dryRun}, nil
}

// log prefers a logger carried by ctx over the configured one.
func (r *reconciler) log(ctx context.Context) *zerolog.Logger {
	if l := logging.FromContext(ctx); l != logging.Default() {
		return l
	}
	return r.logger
}

// Reconcile implements Reconciler.
func (r *reconciler) Reconcile(ctx context.Context, pair Pair) (*Result, error) {
	start := time.Now()
	log := r.log(ctx).With().Str("sample", pair.Name()).Logger()

	if err := pair.Validate(); err != nil {
		return nil, err
	}

	// Load both inputs before doing any work so a missing file fails fast.
	log.Info().Str("path", pair.Primary).Msg("Loading regions genes table")
	observations, err := table.Read(ResourcePrimary, pair.Primary)
	if err != nil {
		return nil, err
	}
	log.Info().Int("rows", observations.Len()).Msg("Loaded regions genes table")
	if observations.Has(constants.ColumnCellType) {
		log.Warn().
			Str("path", pair.Primary).
			Msg("Regions genes table already has a cell_type column; another one is appended")
	}

	log.Info().Str("path", pair.Secondary).Msg("Loading cell type table")
	assignmentTable, err := table.Read(ResourceSecondary, pair.Secondary)
	if err != nil {
		return nil, err
	}
	log.Info().Int("rows", assignmentTable.Len()).Msg("Loaded cell type assignments")

	if err := ctx.Err(); err != nil {
		return nil, errors.Join(errors.ErrCanceled, err)
	}

	assignments, err := AssignmentsFromTable(assignmentTable)
	if err != nil {
		return nil, err
	}

	lookup := BuildLookup(assignments)
	log.Info().Int("cells", lookup.Len()).Msg("Created cell type mapping")
	if lookup.Duplicates() > 0 {
		log.Warn().
			Int("duplicates", lookup.Duplicates()).
			Msg("Cell type table repeats cell indexes; the last assignment wins")
	}

	augmented, err := Augment(observations, lookup)
	if err != nil {
		return nil, err
	}

	stats, err := Summarize(augmented)
	if err != nil {
		return nil, err
	}
	log.Info().
		Int("assigned", stats.Matched).
		Int("unassigned", stats.Unmatched).
		Msg("Cell type statistics")

	result := &Result{
		Pair:         pair,
		Observations: observations.Len(),
		Assignments:  len(assignments),
		LookupSize:   lookup.Len(),
		Duplicates:   lookup.Duplicates(),
		Stats:        stats,
	}

	if r.dryRun {
		log.Info().Str("path", pair.Output).Msg("Dry run, output not written")
	} else {
		log.Info().Str("path", pair.Output).Msg("Saving augmented table")
		if err := augmented.WriteFile(pair.Output); err != nil {
			return nil, err
		}
		result.Written = true
		log.Info().Int("rows", augmented.Len()).Msg("Successfully saved")
	}

	result.Duration = time.Since(start)
	return result, nil
}

// Run implements Reconciler.
func (r *reconciler) Run(ctx context.Context, pairs []Pair) *Report {
	report := &Report{Outcomes: make([]Outcome, 0, len(pairs))}
	log := r.log(ctx)

	for i, pair := range pairs {
		if ctx.Err() != nil {
			report.Skipped = len(pairs) - i
			log.Warn().Int("skipped", report.Skipped).Msg("Run canceled before all samples were processed")
			break
		}

		res, err := r.Reconcile(logging.WithLogger(ctx, log), pair)
		if err != nil {
			log.Error().
				Err(err).
				Str("sample", pair.Name()).
				Str("primary", pair.Primary).
				Str("secondary", pair.Secondary).
				Msg("Failed to add cell types")
		}
		report.add(pair, res, err)
	}

	log.Info().
		Int("succeeded", report.Succeeded).
		Int("failed", report.Failed).
		Int("total", report.Total()).
		Msg(report.Summary())
	return report
}
