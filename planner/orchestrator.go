package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/BaSui01/delegateflow/catalog"
	"github.com/BaSui01/delegateflow/config"
	"github.com/BaSui01/delegateflow/internal/cache"
	"github.com/BaSui01/delegateflow/internal/metrics"
	"github.com/BaSui01/delegateflow/types"
)

// Orchestrator runs the delegation pipeline: validate, snapshot the
// catalog, select an agent, assess risk, plan the execution location
// and, for multi-agent tasks, plan coordination. Every stage after
// validation is a pure function of the task and the catalog snapshot,
// so identical tasks against an unchanged catalog produce identical
// decisions.
type Orchestrator struct {
	catalog      catalog.Catalog
	scorer       *Scorer
	risk         *RiskAssessor
	location     *LocationPlanner
	coordination *CoordinationPlanner
	ref          *config.ReferenceTable

	cache     *cache.Manager
	collector *metrics.Collector
	tracer    trace.Tracer
	logger    *zap.Logger
}

// Option configures optional orchestrator collaborators.
type Option func(*Orchestrator)

// WithCache attaches a decision cache. Cache failures degrade to
// recomputation, never to request failure.
func WithCache(m *cache.Manager) Option {
	return func(o *Orchestrator) { o.cache = m }
}

// WithMetrics attaches a metrics collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(o *Orchestrator) { o.collector = c }
}

// NewOrchestrator creates an orchestrator over the given catalog and
// industry reference table.
func NewOrchestrator(cat catalog.Catalog, ref *config.ReferenceTable, logger *zap.Logger, opts ...Option) *Orchestrator {
	if ref == nil {
		ref = config.DefaultReferenceTable()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "orchestrator"))

	o := &Orchestrator{
		catalog:      cat,
		scorer:       NewScorer(logger),
		risk:         NewRiskAssessor(ref),
		location:     NewLocationPlanner(),
		coordination: NewCoordinationPlanner(ref),
		ref:          ref,
		tracer:       otel.Tracer("github.com/BaSui01/delegateflow/planner"),
		logger:       logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Delegate plans a delegation decision for the task.
//
// The task is validated first; a missing required field or an industry
// absent from the reference table rejects the request with the field
// named. Tasks arriving without an ID are assigned one. After
// validation the only remaining failure is an empty candidate pool.
func (o *Orchestrator) Delegate(ctx context.Context, task *types.Task) (*types.DelegationDecision, error) {
	start := time.Now()

	ctx, span := o.tracer.Start(ctx, "planner.Delegate")
	defer span.End()

	if err := o.validate(task); err != nil {
		o.recordOutcome(task, "invalid")
		return nil, err
	}
	o.recordStage("validate", start)

	span.SetAttributes(
		attribute.String("task.id", task.ID),
		attribute.String("task.industry", task.Industry),
		attribute.String("task.complexity", string(task.Complexity)),
	)

	snapStart := time.Now()
	snap, err := o.catalog.Snapshot(ctx)
	if err != nil {
		o.recordOutcome(task, "error")
		return nil, types.NewError(types.ErrServiceUnavailable, "agent catalog unavailable").
			WithCause(err).WithRetryable(true)
	}
	o.recordStage("snapshot", snapStart)

	if decision, ok := o.cached(ctx, task, snap.Version()); ok {
		o.recordOutcome(task, "success")
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return decision, nil
	}

	scoreStart := time.Now()
	selection, err := o.scorer.Select(snap.ByIndustry(task.Industry), task)
	if err != nil {
		o.recordOutcome(task, "no_candidates")
		return nil, err
	}
	o.recordStage("score", scoreStart)

	riskStart := time.Now()
	risk := o.risk.Assess(task)
	o.recordStage("assess_risk", riskStart)

	locStart := time.Now()
	location := o.location.Plan(task)
	o.recordStage("plan_location", locStart)

	decision := &types.DelegationDecision{
		TaskID:            task.ID,
		SelectedAgent:     selection.Agent,
		Confidence:        selection.Score,
		AlternativeAgents: selection.Alternatives,
		Risk:              risk,
		ExecutionLocation: location,
	}

	if task.RequiresMultipleAgents {
		coordStart := time.Now()
		plan := o.coordination.Plan(task)
		decision.CoordinationPlan = &plan
		o.recordStage("plan_coordination", coordStart)
	}

	decision.Reasoning = buildReasoning(task, selection, decision)

	o.store(ctx, task, snap.Version(), decision)
	o.recordOutcome(task, "success")
	if o.collector != nil {
		o.collector.RecordDecision(string(location.Location), string(risk.Level), risk.Score)
	}

	o.logger.Info("delegation planned",
		zap.String("task_id", task.ID),
		zap.String("industry", task.Industry),
		zap.String("agent_id", selection.Agent.ID),
		zap.Float64("confidence", selection.Score),
		zap.String("risk_level", string(risk.Level)),
		zap.String("location", string(location.Location)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return decision, nil
}

// validate checks required fields and enum values, naming the first
// offending field. An empty task ID is not an error; intake assigns one.
func (o *Orchestrator) validate(task *types.Task) error {
	if task == nil {
		return types.NewValidationError("task", "task is required")
	}
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.Type == "" {
		return types.NewValidationError("type", "task type is required")
	}
	if task.Industry == "" {
		return types.NewValidationError("industry", "industry is required")
	}
	if !o.ref.Known(task.Industry) {
		return types.NewError(types.ErrUnknownIndustry,
			fmt.Sprintf("unknown industry %q", task.Industry)).WithField("industry")
	}
	if !task.Complexity.Valid() {
		return types.NewValidationError("complexity", fmt.Sprintf("invalid complexity %q", task.Complexity))
	}
	if !task.Priority.Valid() {
		return types.NewValidationError("priority", fmt.Sprintf("invalid priority %q", task.Priority))
	}
	if task.SafetyLevel != "" && !task.SafetyLevel.Valid() {
		return types.NewValidationError("safety_level", fmt.Sprintf("invalid safety level %q", task.SafetyLevel))
	}
	if task.DataSize != "" && !task.DataSize.Valid() {
		return types.NewValidationError("data_size", fmt.Sprintf("invalid data size %q", task.DataSize))
	}
	if task.MaxLatencyMs < 0 {
		return types.NewValidationError("max_latency_ms", "max latency must not be negative")
	}
	for i, req := range task.Requirements {
		if req.Capability == "" {
			return types.NewValidationError(
				fmt.Sprintf("requirements[%d].capability", i), "capability name is required")
		}
		if req.Weight < 0 {
			return types.NewValidationError(
				fmt.Sprintf("requirements[%d].weight", i), "weight must not be negative")
		}
	}
	return nil
}

// cached replays a previously planned decision for this exact task and
// catalog version. Errors other than a miss are logged and ignored.
func (o *Orchestrator) cached(ctx context.Context, task *types.Task, version uint64) (*types.DelegationDecision, bool) {
	if o.cache == nil {
		return nil, false
	}

	fp, err := cache.Fingerprint(task, version)
	if err != nil {
		return nil, false
	}

	decision, err := o.cache.Get(ctx, fp)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			o.logger.Warn("decision cache read failed", zap.Error(err))
		}
		if o.collector != nil {
			o.collector.RecordCacheMiss("decision")
		}
		return nil, false
	}

	if o.collector != nil {
		o.collector.RecordCacheHit("decision")
	}
	return decision, true
}

func (o *Orchestrator) store(ctx context.Context, task *types.Task, version uint64, decision *types.DelegationDecision) {
	if o.cache == nil {
		return
	}

	fp, err := cache.Fingerprint(task, version)
	if err != nil {
		return
	}
	if err := o.cache.Put(ctx, fp, decision); err != nil {
		o.logger.Warn("decision cache write failed", zap.Error(err))
	}
}

func (o *Orchestrator) recordStage(stage string, start time.Time) {
	if o.collector != nil {
		o.collector.RecordStage(stage, time.Since(start))
	}
}

func (o *Orchestrator) recordOutcome(task *types.Task, outcome string) {
	if o.collector == nil {
		return
	}
	industry := "unknown"
	if task != nil && task.Industry != "" {
		industry = task.Industry
	}
	o.collector.RecordDelegation(industry, outcome)
}

// buildReasoning assembles the human-readable trail for the decision.
func buildReasoning(task *types.Task, selection *Selection, decision *types.DelegationDecision) []string {
	agentName := selection.Agent.Name
	if agentName == "" {
		agentName = selection.Agent.ID
	}

	reasoning := []string{
		fmt.Sprintf("selected %s with selection score %.3f (highest in %s pool)",
			agentName, selection.Score, task.Industry),
		fmt.Sprintf("capability fitness %.2f against %d requirements",
			selection.Fitness, len(task.Requirements)),
		fmt.Sprintf("risk assessed %s (score %.2f)",
			decision.Risk.Level, decision.Risk.Score),
		fmt.Sprintf("execution planned at %s (edge %d, cloud %d)",
			decision.ExecutionLocation.Location,
			decision.ExecutionLocation.EdgeScore,
			decision.ExecutionLocation.CloudScore),
	}
	if decision.CoordinationPlan != nil {
		reasoning = append(reasoning,
			fmt.Sprintf("coordination uses %s topology over %s",
				decision.CoordinationPlan.Topology,
				decision.CoordinationPlan.CommunicationProtocol))
	}
	return reasoning
}
