package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"bdcli/internal/infrastructure"
)

// Runner executes stages strictly in order. The first failure aborts the run:
// later stages never start, so no downstream artifact can be built from a
// broken upstream table.
type Runner struct {
	logger *slog.Logger
	tracer trace.Tracer
}

// NewRunner creates a runner. A nil tracer disables span emission.
func NewRunner(logger *slog.Logger, tracer trace.Tracer) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("pipeline")
	}
	return &Runner{logger: logger, tracer: tracer}
}

// Run executes the stages against the shared state and returns the manifest.
// The manifest is returned for failed runs too, alongside the error.
func (r *Runner) Run(ctx context.Context, stages []Stage, state *State) (*Manifest, error) {
	manifest := &Manifest{
		RunID:     uuid.NewString(),
		StartTime: time.Now(),
		Status:    "completed",
	}
	ctx = infrastructure.WithRunID(ctx, manifest.RunID)

	r.logger.InfoContext(ctx, "pipeline run starting", slog.Int("stages", len(stages)))

	for _, stage := range stages {
		exec, err := r.runStage(ctx, stage, state)
		manifest.recordStage(exec)
		if err != nil {
			manifest.Status = "failed"
			manifest.Error = err.Error()
			manifest.EndTime = time.Now()
			r.logger.ErrorContext(ctx, "pipeline run aborted",
				slog.String("stage", stage.ID()),
				slog.String("error", err.Error()))
			return manifest, err
		}
	}

	manifest.EndTime = time.Now()
	r.logger.InfoContext(ctx, "pipeline run complete",
		slog.String("duration", manifest.EndTime.Sub(manifest.StartTime).String()))

	return manifest, nil
}

func (r *Runner) runStage(ctx context.Context, stage Stage, state *State) (StageExecution, error) {
	exec := StageExecution{
		StageID:   stage.ID(),
		StageName: stage.Name(),
		StartTime: time.Now(),
	}

	ctx, span := r.tracer.Start(ctx, "stage."+stage.ID(),
		trace.WithAttributes(attribute.String("stage.name", stage.Name())))
	defer span.End()

	r.logger.InfoContext(ctx, "stage starting", slog.String("stage", stage.ID()))

	err := stage.Run(ctx, state)

	exec.EndTime = time.Now()
	exec.Duration = exec.EndTime.Sub(exec.StartTime).String()
	exec.Artifacts = state.drainArtifacts()

	if err != nil {
		exec.Status = StageStatusFailed
		exec.Error = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return exec, err
	}

	exec.Status = StageStatusCompleted
	span.SetStatus(codes.Ok, "")
	r.logger.InfoContext(ctx, "stage complete",
		slog.String("stage", stage.ID()),
		slog.String("duration", exec.Duration),
		slog.Int("artifacts", len(exec.Artifacts)))

	return exec, nil
}
