package pipeline

import (
	"context"
	"log/slog"

	"bdcli/internal/aggregate"
	"bdcli/internal/analytics"
	"bdcli/internal/extract"
	"bdcli/internal/lookup"
	"bdcli/internal/merge"
	"bdcli/pkg/contracts/domain"
)

// definitionsHeaderSkip is the metadata row count of the reference sheet in
// the published workbook.
const definitionsHeaderSkip = 1

// ExtractStage parses the five indicator sources out of the workbook and
// persists each normalized table.
type ExtractStage struct {
	logger          *slog.Logger
	extractor       *extract.Extractor
	schemas         []extract.SheetSchema
	survivalSchemas []extract.SheetSchema
}

// NewExtractStage builds the extraction stage for the given sheet layouts.
func NewExtractStage(logger *slog.Logger, schemas, survivalSchemas []extract.SheetSchema) *ExtractStage {
	return &ExtractStage{
		logger:          logger,
		extractor:       extract.NewExtractor(logger),
		schemas:         schemas,
		survivalSchemas: survivalSchemas,
	}
}

func (s *ExtractStage) ID() string   { return "extract" }
func (s *ExtractStage) Name() string { return "Extract indicator tables" }

func (s *ExtractStage) Run(ctx context.Context, state *State) error {
	for _, schema := range s.schemas {
		table, err := s.extractor.ExtractIndicator(state.Workbook, schema)
		if err != nil {
			return err
		}
		state.Detail[schema.Indicator] = table
		if err := state.persist(ctx, detailTable(table)); err != nil {
			return err
		}
	}

	survival, err := s.extractor.ExtractSurvival(state.Workbook, s.survivalSchemas)
	if err != nil {
		return err
	}
	state.Survival = survival
	return state.persist(ctx, survivalTable(survival))
}

// LookupStage expands the industry-definition reference sheet into the
// division-to-group lookup table.
type LookupStage struct {
	builder   *lookup.Builder
	sheetName string
}

// NewLookupStage builds the lookup stage for the named reference sheet.
func NewLookupStage(logger *slog.Logger, sheetName string) *LookupStage {
	return &LookupStage{
		builder:   lookup.NewBuilder(logger, definitionsHeaderSkip),
		sheetName: sheetName,
	}
}

func (s *LookupStage) ID() string   { return "lookup" }
func (s *LookupStage) Name() string { return "Build division-group lookup" }

func (s *LookupStage) Run(ctx context.Context, state *State) error {
	entries, err := s.builder.Build(state.Workbook, s.sheetName)
	if err != nil {
		return err
	}
	state.Lookup = entries
	return state.persist(ctx, lookupTable(entries))
}

// MergeStage joins the indicator tables into the division-by-year panel.
type MergeStage struct {
	merger *merge.Merger
}

// NewMergeStage builds the merge stage for the given year window.
func NewMergeStage(logger *slog.Logger, yearFrom, yearTo int) *MergeStage {
	return &MergeStage{merger: merge.NewMerger(logger, yearFrom, yearTo)}
}

func (s *MergeStage) ID() string   { return "merge" }
func (s *MergeStage) Name() string { return "Merge indicators into panel" }

func (s *MergeStage) Run(ctx context.Context, state *State) error {
	panel, err := s.merger.Merge(
		state.Detail[domain.IndicatorBirths],
		state.Detail[domain.IndicatorActive],
		state.Detail[domain.IndicatorDeaths],
		state.Detail[domain.IndicatorHighGrowth],
		state.Survival,
	)
	if err != nil {
		return err
	}
	state.Panel = panel
	return state.persist(ctx, panelTable(panel))
}

// AggregateStage rolls the panel up to the configured groups.
type AggregateStage struct {
	aggregator *aggregate.Aggregator
}

// NewAggregateStage builds the aggregation stage for the group allow-list.
func NewAggregateStage(logger *slog.Logger, groups []string) *AggregateStage {
	return &AggregateStage{
		aggregator: aggregate.NewAggregator(logger, groups, aggregate.MissingAsZero),
	}
}

func (s *AggregateStage) ID() string   { return "aggregate" }
func (s *AggregateStage) Name() string { return "Aggregate panel to groups" }

func (s *AggregateStage) Run(ctx context.Context, state *State) error {
	state.Summary = s.aggregator.Summarize(state.Panel, state.Lookup)
	return state.persist(ctx, summaryTable(state.Summary))
}

// AnalyticsStage derives the per-group descriptive statistics.
type AnalyticsStage struct {
	logger *slog.Logger
}

// NewAnalyticsStage builds the analytics stage.
func NewAnalyticsStage(logger *slog.Logger) *AnalyticsStage {
	return &AnalyticsStage{logger: logger}
}

func (s *AnalyticsStage) ID() string   { return "analytics" }
func (s *AnalyticsStage) Name() string { return "Compute group statistics" }

func (s *AnalyticsStage) Run(ctx context.Context, state *State) error {
	state.Stats = analytics.Compute(s.logger, state.Summary)
	return state.persist(ctx, statsTable(state.Stats))
}

// DefaultStages wires the full pipeline in execution order.
func DefaultStages(logger *slog.Logger, yearFrom, yearTo int, groups []string) []Stage {
	return []Stage{
		NewExtractStage(logger, extract.IndicatorSchemas(), extract.SurvivalSchemas(yearFrom, yearTo)),
		NewLookupStage(logger, extract.SheetDefinitions),
		NewMergeStage(logger, yearFrom, yearTo),
		NewAggregateStage(logger, groups),
		NewAnalyticsStage(logger),
	}
}
