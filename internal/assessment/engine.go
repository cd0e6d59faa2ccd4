// internal/assessment/engine.go
package assessment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"wellness-assessment/internal/common/cache"
	apperrors "wellness-assessment/internal/common/errors"
	"wellness-assessment/internal/common/logger"
	"wellness-assessment/internal/common/metrics"
)

// Operation names reported by PerformanceStats.
const (
	OpJobRisk             = "job_risk"
	OpRelationshipImpact  = "relationship_impact"
	OpCompositeAssessment = "composite_assessment"
)

// Standing items closing every action-priority list.
var standingPriorities = []string{
	"Review your budget monthly",
	"Retake this assessment in three months",
}

// Where a returned result came from, as reported on AssessmentsCompleted.
const (
	SourceLocal    = "local"
	SourceShared   = "shared"
	SourceComputed = "computed"
)

// cachedAssessment records how the flight that produced result obtained it.
type cachedAssessment struct {
	result *AssessmentScoringResult
	source string
}

// Engine orchestrates the scorers, merges their output and caches the result
// per (user, input) fingerprint. Safe for concurrent use.
type Engine struct {
	tables       Tables
	job          JobScorer
	relationship RelationshipScorer
	income       IncomeScorer
	cache        *cache.ResultCache[*cachedAssessment]
	shared       SharedResultStore
	monitor      *metrics.PerformanceMonitor
	tracer       trace.Tracer
	logger       logger.Logger
	now          func() time.Time
}

type engineOptions struct {
	tables        *Tables
	job           JobScorer
	relationship  RelationshipScorer
	income        IncomeScorer
	cacheTTL      time.Duration
	incomeTimeout time.Duration
	shared        SharedResultStore
	monitor       *metrics.PerformanceMonitor
	tracer        trace.Tracer
	now           func() time.Time
}

// Option customizes an Engine.
type Option func(*engineOptions)

// WithTables replaces DefaultTables. The tables are copied.
func WithTables(t Tables) Option {
	return func(o *engineOptions) {
		c := t.Clone()
		o.tables = &c
	}
}

func WithJobScorer(s JobScorer) Option {
	return func(o *engineOptions) { o.job = s }
}

func WithRelationshipScorer(s RelationshipScorer) Option {
	return func(o *engineOptions) { o.relationship = s }
}

// WithIncomeScorer bypasses the comparator adapter entirely.
func WithIncomeScorer(s IncomeScorer) Option {
	return func(o *engineOptions) { o.income = s }
}

func WithCacheTTL(ttl time.Duration) Option {
	return func(o *engineOptions) { o.cacheTTL = ttl }
}

func WithIncomeTimeout(d time.Duration) Option {
	return func(o *engineOptions) { o.incomeTimeout = d }
}

// WithSharedStore adds a cache tier consulted after a local miss.
func WithSharedStore(s SharedResultStore) Option {
	return func(o *engineOptions) { o.shared = s }
}

func WithMonitor(m *metrics.PerformanceMonitor) Option {
	return func(o *engineOptions) { o.monitor = m }
}

func WithTracer(t trace.Tracer) Option {
	return func(o *engineOptions) { o.tracer = t }
}

// WithClock sets the clock used for cache expiry and result timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *engineOptions) { o.now = now }
}

// NewEngine builds an Engine around an income comparator. comparator may be
// nil only when WithIncomeScorer is given.
func NewEngine(comparator IncomeComparator, log logger.Logger, opts ...Option) *Engine {
	o := engineOptions{
		cacheTTL:      cache.DefaultTTL,
		incomeTimeout: DefaultIncomeTimeout,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	tables := DefaultTables()
	if o.tables != nil {
		tables = *o.tables
	}
	if o.monitor == nil {
		o.monitor = metrics.NewPerformanceMonitor(metrics.DefaultHistorySize)
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer("wellness-assessment/assessment")
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if o.job == nil {
		o.job = NewJobRiskScorer(tables)
	}
	if o.relationship == nil {
		o.relationship = NewRelationshipImpactScorer(tables)
	}
	if o.income == nil {
		o.income = NewIncomeComparisonAdapter(comparator, o.incomeTimeout, o.monitor)
	}

	return &Engine{
		tables:       tables,
		job:          o.job,
		relationship: o.relationship,
		income:       o.income,
		cache:        cache.New[*cachedAssessment](o.cacheTTL, cache.WithClock(o.now)),
		shared:       o.shared,
		monitor:      o.monitor,
		tracer:       o.tracer,
		logger:       log,
		now:          o.now,
	}
}

// Calculate returns the composite assessment for userID and in, computing it
// at most once per fingerprint while a fresh cached result exists. Returned
// results are shared and must be treated as read-only.
func (e *Engine) Calculate(ctx context.Context, userID string, in AssessmentInput) (*AssessmentScoringResult, error) {
	ctx, span := e.tracer.Start(ctx, "assessment.calculate",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	result, source, err := e.calculate(ctx, userID, in)
	if err != nil {
		code := string(apperrors.Normalize(err).Code)
		metrics.AssessmentsFailed.WithLabelValues(code).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, code)
		e.logger.Warn("Assessment failed", map[string]interface{}{
			"user_id": userID,
			"code":    code,
			"error":   err,
		})
		return nil, err
	}

	metrics.AssessmentsCompleted.WithLabelValues(source).Inc()
	metrics.CacheEntries.Set(float64(e.cache.Len()))
	span.SetAttributes(
		attribute.String("assessment.source", source),
		attribute.String("assessment.risk_level", result.OverallRiskLevel),
	)
	return result, nil
}

// CalculateFromData parses a loosely typed payload and calculates it.
func (e *Engine) CalculateFromData(ctx context.Context, userID string, data map[string]interface{}) (*AssessmentScoringResult, error) {
	in, err := ParseAssessmentData(data)
	if err != nil {
		metrics.AssessmentsFailed.WithLabelValues(string(apperrors.Normalize(err).Code)).Inc()
		return nil, err
	}
	return e.Calculate(ctx, userID, in)
}

// Breakdown calculates (or reuses) the assessment and decomposes it.
func (e *Engine) Breakdown(ctx context.Context, userID string, in AssessmentInput) (*DetailedBreakdown, error) {
	result, err := e.Calculate(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	return buildBreakdown(e.tables, result), nil
}

// PerformanceStats returns the rolling average duration per operation in
// milliseconds.
func (e *Engine) PerformanceStats() map[string]float64 {
	return e.monitor.AveragesMillis()
}

// ClearCache empties the local cache and, when configured, the shared store.
func (e *Engine) ClearCache(ctx context.Context) error {
	e.cache.Clear()
	metrics.CacheEntries.Set(0)
	if e.shared == nil {
		return nil
	}
	if err := e.shared.Purge(ctx); err != nil {
		e.logger.Error("Failed to purge shared assessment store", map[string]interface{}{
			"error": err,
		})
		return err
	}
	return nil
}

func (e *Engine) calculate(ctx context.Context, userID string, in AssessmentInput) (*AssessmentScoringResult, string, error) {
	norm, warnings, err := in.Normalize(e.tables)
	if err != nil {
		return nil, "", err
	}
	key, err := Fingerprint(userID, norm)
	if err != nil {
		return nil, "", apperrors.NewCalculationFailedError("fingerprint", err)
	}

	// The computation outlives a caller that gives up so other waiters still
	// receive the result.
	computeCtx := context.WithoutCancel(ctx)
	entry, cached, err := e.cache.GetOrComputeStamped(ctx, key, func() (*cachedAssessment, time.Time, error) {
		if r, ok := e.loadShared(computeCtx, key); ok {
			// Expire locally when the shared copy would, not a full TTL from now.
			return &cachedAssessment{result: r, source: SourceShared}, r.Timestamp, nil
		}
		r, err := e.compute(computeCtx, userID, norm, warnings)
		if err != nil {
			return nil, time.Time{}, err
		}
		e.saveShared(computeCtx, key, r)
		return &cachedAssessment{result: r, source: SourceComputed}, time.Time{}, nil
	})
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			return nil, "", apperrors.NewCalculationFailedError(OpCompositeAssessment, err)
		}
		return nil, "", err
	}
	if cached {
		return entry.result, SourceLocal, nil
	}
	return entry.result, entry.source, nil
}

// loadShared treats store errors and results older than the TTL as misses.
func (e *Engine) loadShared(ctx context.Context, key string) (*AssessmentScoringResult, bool) {
	if e.shared == nil {
		return nil, false
	}
	r, ok, err := e.shared.Load(ctx, key)
	if err != nil {
		e.logger.Warn("Shared assessment store unavailable, computing locally", map[string]interface{}{
			"error": err,
		})
		return nil, false
	}
	if !ok || r == nil {
		return nil, false
	}
	if e.now().Sub(r.Timestamp) > e.cache.TTL() {
		return nil, false
	}
	return r, true
}

func (e *Engine) saveShared(ctx context.Context, key string, r *AssessmentScoringResult) {
	if e.shared == nil {
		return
	}
	if err := e.shared.Save(ctx, key, r, e.cache.TTL()); err != nil {
		e.logger.Warn("Failed to store assessment in shared store", map[string]interface{}{
			"error": err,
		})
	}
}

// compute runs the three scorers concurrently and merges them. Any failure
// aborts the whole assessment.
func (e *Engine) compute(ctx context.Context, userID string, in AssessmentInput, warnings []ValidationWarning) (*AssessmentScoringResult, error) {
	ctx, span := e.tracer.Start(ctx, "assessment.compute")
	defer span.End()
	defer e.monitor.Track(OpCompositeAssessment)()

	var (
		job JobRiskScore
		rel RelationshipScore
		inc IncomeComparisonScore
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer e.monitor.Track(OpJobRisk)()
		job = e.job.Score(in)
		return nil
	})
	g.Go(func() error {
		defer e.monitor.Track(OpRelationshipImpact)()
		rel = e.relationship.Score(in)
		return nil
	})
	g.Go(func() error {
		var err error
		inc, err = e.income.Score(gctx, in)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		if !apperrors.IsCalculationFailed(err) && !apperrors.IsInvalidInput(err) {
			err = apperrors.NewCalculationFailedError(OpIncomeComparison, err)
		}
		return nil, err
	}

	result := e.merge(userID, job, rel, inc, warnings)
	e.logger.Debug("Assessment computed", map[string]interface{}{
		"user_id":       userID,
		"assessment_id": result.AssessmentID,
		"risk_level":    result.OverallRiskLevel,
	})
	return result, nil
}

func (e *Engine) merge(userID string, job JobRiskScore, rel RelationshipScore, inc IncomeComparisonScore, warnings []ValidationWarning) *AssessmentScoringResult {
	t := e.tables

	overall := (t.JobRiskContribution[job.FinalRiskLevel] +
		t.SegmentRiskContribution[rel.Segment] +
		incomeRiskContribution(inc.OverallPercentile)) / 3

	jobConcern := job.FinalRiskLevel == RiskHigh || job.FinalRiskLevel == RiskCritical
	relConcern := rel.Segment == SegmentEmotionalManager || rel.Segment == SegmentCrisisMode
	incomeConcern := inc.OverallPercentile < 50

	var concerns []string
	if jobConcern {
		concerns = append(concerns, "Job Security Risk")
	}
	if relConcern {
		concerns = append(concerns, "Financial Relationship Stress")
	}
	if incomeConcern {
		concerns = append(concerns, "Income Gap")
	}

	var priorities []string
	if jobConcern {
		priorities = append(priorities, firstN(job.Recommendations, 2)...)
	}
	if relConcern {
		priorities = append(priorities, firstN(rel.Recommendations, 2)...)
	}
	if incomeConcern {
		priorities = append(priorities, firstN(inc.ActionPlan, 1)...)
	}
	priorities = append(priorities, standingPriorities...)
	priorities = firstN(priorities, 5)

	subscription := rel.ProductTier
	switch {
	case overall >= 0.8:
		subscription = TierProfessional
	case overall >= 0.6:
		subscription = TierMid
	}

	return &AssessmentScoringResult{
		AssessmentID:               uuid.NewString(),
		UserID:                     userID,
		JobRisk:                    job,
		Relationship:               rel,
		Income:                     inc,
		OverallRiskScore:           overall,
		OverallRiskLevel:           overallRiskLevel(overall),
		PrimaryConcerns:            concerns,
		ActionPriorities:           priorities,
		SubscriptionRecommendation: subscription,
		ConfidenceScore:            t.confidence(job.ConfidenceInterval, inc.ConfidenceLevel, len(warnings)),
		Warnings:                   append([]ValidationWarning(nil), warnings...),
		Timestamp:                  e.now().UTC(),
	}
}

func (t Tables) confidence(ci ConfidenceInterval, incomeConfidence float64, warnings int) float64 {
	wj, wi := t.JobConfidenceWeight, t.IncomeConfidenceWeight
	if wj+wi <= 0 {
		wj, wi = 0.5, 0.5
	}
	blended := (wj*(1-ci.Width()) + wi*incomeConfidence) / (wj + wi)
	return clamp01(blended - t.WarningPenalty*float64(warnings))
}

func incomeRiskContribution(percentile float64) float64 {
	switch {
	case percentile >= 80:
		return 0.1
	case percentile >= 60:
		return 0.3
	case percentile >= 40:
		return 0.5
	case percentile >= 20:
		return 0.7
	default:
		return 1.0
	}
}

func overallRiskLevel(score float64) string {
	switch {
	case score <= 0.3:
		return "Low Risk"
	case score <= 0.6:
		return "Medium Risk"
	case score <= 0.8:
		return "High Risk"
	default:
		return "Critical Risk"
	}
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		items = items[:n]
	}
	return append([]string(nil), items...)
}
