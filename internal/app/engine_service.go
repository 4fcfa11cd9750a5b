package app

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/vigil/internal/core/ladder"
	"github.com/example/vigil/internal/core/metric"
	"github.com/example/vigil/internal/core/rule"
	"github.com/example/vigil/internal/core/trigger"
	"github.com/example/vigil/internal/ports/primary"
	"github.com/example/vigil/internal/ports/secondary"
)

// Engine defaults. The cycle is batch-per-invocation: an external
// scheduler calls RunCycle at a fixed cadence, and pairs inside one
// cycle are parallelized up to defaultWorkers.
const (
	defaultWorkers     = 4
	defaultPairTimeout = 30 * time.Second
)

// globalEntityID keys metric state for rules with no project scope.
const globalEntityID = "global"

// EngineServiceImpl implements the EngineService interface. One
// RunCycle call evaluates every active rule against every candidate
// entity, consults the escalation ladder, dispatches actions for newly
// reached levels, and records each pair's outcome in the execution log.
type EngineServiceImpl struct {
	ruleRepo   secondary.RuleRepository
	stateRepo  secondary.StateRepository
	logRepo    secondary.ExecutionLogRepository
	provider   secondary.EntityProvider
	dispatcher *Dispatcher
	logger     *zap.Logger

	workers     int
	pairTimeout time.Duration

	// stateKeys serializes state writes per (rule, entity) pair so two
	// overlapping cycles cannot double-escalate the same pair.
	stateKeys keyedMutex
}

// NewEngineService creates a new EngineService with injected dependencies.
func NewEngineService(
	ruleRepo secondary.RuleRepository,
	stateRepo secondary.StateRepository,
	logRepo secondary.ExecutionLogRepository,
	provider secondary.EntityProvider,
	dispatcher *Dispatcher,
	logger *zap.Logger,
) *EngineServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EngineServiceImpl{
		ruleRepo:    ruleRepo,
		stateRepo:   stateRepo,
		logRepo:     logRepo,
		provider:    provider,
		dispatcher:  dispatcher,
		logger:      logger,
		workers:     defaultWorkers,
		pairTimeout: defaultPairTimeout,
	}
}

// Configure applies cycle settings from configuration. Non-positive
// values keep the engine defaults. Call before the first RunCycle;
// the engine does not guard concurrent reconfiguration.
func (s *EngineServiceImpl) Configure(workers int, pairTimeout time.Duration) {
	if workers > 0 {
		s.workers = workers
	}
	if pairTimeout > 0 {
		s.pairTimeout = pairTimeout
	}
}

// pair is one (rule, entity) evaluation unit.
type pair struct {
	rule      *rule.Rule
	entityID  string
	projectID string
	// milestone is set for milestone-trigger rules.
	milestone *trigger.MilestoneSnapshot
	// samples is set for metric-trigger rules.
	samples []metric.Sample
	// evalErr carries a snapshot or sample loading failure into the
	// outcome instead of aborting the cycle.
	evalErr error
}

// RunCycle evaluates all active rules against all candidate entities
// in a scope. Only rule listing and candidate listing failures abort
// the cycle; every per-pair failure is contained in the report.
func (s *EngineServiceImpl) RunCycle(ctx context.Context, req primary.RunCycleRequest) (*primary.CycleReport, error) {
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	report := &primary.CycleReport{
		Scope:     req.Scope,
		StartedAt: now.UTC().Format(time.RFC3339),
	}

	records, err := s.ruleRepo.ListActive(ctx, req.Scope)
	if err != nil {
		return nil, fmt.Errorf("failed to load active rules: %w", err)
	}

	pairs, err := s.buildPairs(ctx, records, req.Scope)
	if err != nil {
		return nil, err
	}

	s.logger.Info("cycle started",
		zap.String("scope", req.Scope),
		zap.Int("rules", len(records)),
		zap.Int("pairs", len(pairs)),
		zap.Bool("dry_run", req.DryRun))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, p := range pairs {
		p := p
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(gctx, s.pairTimeout)
			defer cancel()

			outcome := s.evaluatePair(pctx, p, now, req.DryRun)

			mu.Lock()
			report.Pairs = append(report.Pairs, outcome)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(report.Pairs, func(i, j int) bool {
		if report.Pairs[i].RuleID != report.Pairs[j].RuleID {
			return report.Pairs[i].RuleID < report.Pairs[j].RuleID
		}
		return report.Pairs[i].EntityID < report.Pairs[j].EntityID
	})

	for _, o := range report.Pairs {
		report.Evaluated++
		if o.Matched {
			report.Matched++
		}
		if o.Transition == primary.TransitionEscalate && o.Status != secondary.ExecutionStatusError {
			report.Escalated++
		}
		if o.Status == secondary.ExecutionStatusError {
			report.Errors++
		}
	}

	report.FinishedAt = time.Now().UTC().Format(time.RFC3339)
	s.logger.Info("cycle finished",
		zap.String("scope", req.Scope),
		zap.Int("evaluated", report.Evaluated),
		zap.Int("matched", report.Matched),
		zap.Int("escalated", report.Escalated),
		zap.Int("errors", report.Errors))

	return report, nil
}

// buildPairs expands active rules into (rule, entity) units. Milestone
// rules fan out across candidate milestones; metric rules evaluate one
// sample window per rule. A candidate listing failure aborts, since a
// partial entity set could cause missed or duplicate escalations.
func (s *EngineServiceImpl) buildPairs(ctx context.Context, records []*secondary.RuleRecord, scope string) ([]pair, error) {
	needMilestones := false
	for _, rec := range records {
		if rec.Rule.IsMilestoneTrigger() {
			needMilestones = true
			break
		}
	}

	var milestones []*secondary.MilestoneRecord
	if needMilestones {
		var err error
		milestones, err = s.provider.ListCandidateMilestones(ctx, scope)
		if err != nil {
			return nil, fmt.Errorf("failed to load candidate milestones: %w", err)
		}
	}

	var pairs []pair
	for _, rec := range records {
		r := rec.Rule
		if r.IsMilestoneTrigger() {
			for _, ms := range milestones {
				if r.Scope != "" && ms.ProjectID != r.Scope {
					continue
				}
				p := pair{rule: &r, entityID: ms.ID, projectID: ms.ProjectID}
				snap, err := milestoneSnapshot(ms)
				if err != nil {
					p.evalErr = err
				} else {
					p.milestone = snap
				}
				pairs = append(pairs, p)
			}
			continue
		}

		// Metric rules evaluate one window per rule, keyed by the
		// rule's scope (or the cycle's when the rule is global).
		effScope := r.Scope
		if effScope == "" {
			effScope = scope
		}
		entityID := effScope
		if entityID == "" {
			entityID = globalEntityID
		}

		p := pair{rule: &r, entityID: entityID, projectID: effScope}
		sampleRecords, err := s.provider.ListMetricSamples(ctx, effScope, r.Trigger.Metric)
		if err != nil {
			p.evalErr = fmt.Errorf("failed to load samples for metric %s: %w", r.Trigger.Metric, err)
		} else {
			p.samples, p.evalErr = metricSamples(sampleRecords)
		}
		pairs = append(pairs, p)
	}

	return pairs, nil
}

// evaluatePair runs one (rule, entity) unit through match, ladder
// decision, dispatch, and bookkeeping. All failures are folded into
// the returned outcome.
func (s *EngineServiceImpl) evaluatePair(ctx context.Context, p pair, now time.Time, dryRun bool) primary.PairOutcome {
	outcome := primary.PairOutcome{
		RuleID:     p.rule.ID,
		RuleName:   p.rule.Name,
		EntityID:   p.entityID,
		Transition: primary.TransitionNone,
		Status:     secondary.ExecutionStatusSuccess,
	}

	if p.evalErr != nil {
		outcome.Status = secondary.ExecutionStatusError
		outcome.Error = p.evalErr.Error()
		s.appendLog(ctx, &outcome, dryRun)
		return outcome
	}

	var match trigger.MatchResult
	if p.milestone != nil {
		match = trigger.MatchMilestone(p.rule, *p.milestone, now)
	} else {
		match = trigger.MatchMetric(p.rule, p.samples)
	}
	outcome.Matched = match.Matched
	outcome.Reason = match.Reason
	if match.Matched {
		outcome.Level = match.LevelTag
	}

	unlock := s.stateKeys.lock(p.rule.ID + "\x00" + p.entityID)
	defer unlock()

	stRecord, err := s.stateRepo.Load(ctx, p.rule.ID, p.entityID)
	if err != nil {
		outcome.Status = secondary.ExecutionStatusError
		outcome.Error = fmt.Sprintf("failed to load state: %v", err)
		s.appendLog(ctx, &outcome, dryRun)
		return outcome
	}
	st := stateFromRecord(stRecord, p.rule.ID, p.entityID)

	transition := ladder.Decide(st, match.Matched, match.LevelRank)
	outcome.Transition = string(transition)

	if dryRun {
		if transition == ladder.TransitionEscalate {
			outcome.ActionsAttempted = plannedActions(p.rule, match)
		}
		outcome.Status = secondary.ExecutionStatusSkipped
		return outcome
	}

	switch transition {
	case ladder.TransitionEscalate:
		s.escalate(ctx, p, match, st, now, &outcome)

	case ladder.TransitionReset:
		// Back to dormant: the row disappears so a recurrence climbs
		// from the bottom again.
		if err := s.stateRepo.Delete(ctx, p.rule.ID, p.entityID); err != nil {
			outcome.Status = secondary.ExecutionStatusError
			outcome.Error = fmt.Sprintf("failed to reset state: %v", err)
		}

	case ladder.TransitionNone:
		if st.HighestRank > 0 {
			if err := s.saveState(ctx, ladder.Touch(st, now)); err != nil {
				outcome.Status = secondary.ExecutionStatusError
				outcome.Error = fmt.Sprintf("failed to touch state: %v", err)
			}
		}
	}

	s.appendLog(ctx, &outcome, dryRun)
	return outcome
}

// escalate dispatches the matched level's actions and advances the
// ladder. State is only advanced after at least one action succeeded
// (or the level has no actions), and only treated as advanced once the
// persisted write succeeds.
func (s *EngineServiceImpl) escalate(ctx context.Context, p pair, match trigger.MatchResult, st ladder.State, now time.Time, outcome *primary.PairOutcome) {
	dctx := DispatchContext{
		Rule:      p.rule,
		Match:     match,
		EntityID:  p.entityID,
		ProjectID: p.projectID,
	}
	if p.milestone != nil {
		dctx.EntityName = p.milestone.Name
		if p.milestone.DueDate != nil {
			dctx.DueDate = p.milestone.DueDate.Format(time.RFC3339)
		}
	} else {
		dctx.EntityName = p.rule.Trigger.Metric
	}

	result := s.dispatcher.Dispatch(ctx, dctx)
	outcome.ActionsAttempted = result.Attempted

	switch {
	case result.Succeeded():
		outcome.Status = secondary.ExecutionStatusSuccess
	case result.AllFailed():
		outcome.Status = secondary.ExecutionStatusError
		outcome.Error = joinErrors(result.Failures)
	default:
		outcome.Status = secondary.ExecutionStatusPartial
		outcome.Error = joinErrors(result.Failures)
	}

	s.logger.Info("escalated",
		zap.String("rule", p.rule.ID),
		zap.String("entity", p.entityID),
		zap.String("level", match.LevelTag),
		zap.Int("rank", match.LevelRank),
		zap.String("status", outcome.Status))

	if outcome.Status == secondary.ExecutionStatusError {
		// Nothing landed; leave the ladder where it was so the next
		// cycle retries this level.
		return
	}

	advanced := ladder.Advance(st, match.LevelTag, match.LevelRank, now)
	if err := s.saveState(ctx, advanced); err != nil {
		outcome.Status = secondary.ExecutionStatusError
		outcome.Error = fmt.Sprintf("failed to persist escalation state: %v", err)
	}
}

func (s *EngineServiceImpl) saveState(ctx context.Context, st ladder.State) error {
	return s.stateRepo.Save(ctx, stateToRecord(st))
}

// appendLog records the pair's outcome in the append-only execution
// log. Log write failures are surfaced on the outcome; there is
// nothing else to roll back.
func (s *EngineServiceImpl) appendLog(ctx context.Context, outcome *primary.PairOutcome, dryRun bool) {
	if dryRun {
		return
	}

	entry := &secondary.ExecutionLogRecord{
		RuleID:           outcome.RuleID,
		EntityID:         outcome.EntityID,
		MatchedLevel:     outcome.Level,
		ActionsAttempted: outcome.ActionsAttempted,
		Status:           outcome.Status,
		ErrorMessage:     outcome.Error,
	}
	if err := s.logRepo.Append(ctx, entry); err != nil {
		s.logger.Error("failed to append execution log",
			zap.String("rule", outcome.RuleID),
			zap.String("entity", outcome.EntityID),
			zap.Error(err))
		outcome.Status = secondary.ExecutionStatusError
		if outcome.Error == "" {
			outcome.Error = fmt.Sprintf("failed to append execution log: %v", err)
		}
	}
}

// plannedActions reports what a dry-run escalation would dispatch.
func plannedActions(r *rule.Rule, match trigger.MatchResult) []string {
	actions := r.Actions
	if match.Level != nil && len(match.Level.Actions) > 0 {
		actions = match.Level.Actions
	}
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a.Type)
	}
	return names
}

func joinErrors(errs []error) string {
	msg := ""
	for i, err := range errs {
		if i > 0 {
			msg += "; "
		}
		msg += err.Error()
	}
	return msg
}

func stateFromRecord(record *secondary.StateRecord, ruleID, entityID string) ladder.State {
	st := ladder.State{RuleID: ruleID, EntityID: entityID}
	if record == nil {
		return st
	}
	st.HighestRank = record.HighestRank
	st.HighestLevel = record.HighestLevel
	if record.LastEvaluatedAt != "" {
		st.LastEvaluatedAt, _ = time.Parse(time.RFC3339, record.LastEvaluatedAt)
	}
	if record.LastActionAt != "" {
		st.LastActionAt, _ = time.Parse(time.RFC3339, record.LastActionAt)
	}
	return st
}

func stateToRecord(st ladder.State) *secondary.StateRecord {
	record := &secondary.StateRecord{
		RuleID:       st.RuleID,
		EntityID:     st.EntityID,
		HighestRank:  st.HighestRank,
		HighestLevel: st.HighestLevel,
	}
	if !st.LastEvaluatedAt.IsZero() {
		record.LastEvaluatedAt = st.LastEvaluatedAt.UTC().Format(time.RFC3339)
	}
	if !st.LastActionAt.IsZero() {
		record.LastActionAt = st.LastActionAt.UTC().Format(time.RFC3339)
	}
	return record
}

func milestoneSnapshot(record *secondary.MilestoneRecord) (*trigger.MilestoneSnapshot, error) {
	snap := &trigger.MilestoneSnapshot{
		ID:        record.ID,
		ProjectID: record.ProjectID,
		Name:      record.Name,
		Status:    record.Status,
	}
	if record.DueDate != "" {
		due, err := time.Parse(time.RFC3339, record.DueDate)
		if err != nil {
			return nil, fmt.Errorf("milestone %s has malformed due date %q: %w", record.ID, record.DueDate, err)
		}
		snap.DueDate = &due
	}
	if record.CompletedDate != "" {
		completed, err := time.Parse(time.RFC3339, record.CompletedDate)
		if err != nil {
			return nil, fmt.Errorf("milestone %s has malformed completed date %q: %w", record.ID, record.CompletedDate, err)
		}
		snap.CompletedDate = &completed
	}
	return snap, nil
}

func metricSamples(records []*secondary.MetricSampleRecord) ([]metric.Sample, error) {
	samples := make([]metric.Sample, len(records))
	for i, r := range records {
		ts, err := time.Parse(time.RFC3339, r.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("sample %s has malformed timestamp %q: %w", r.ID, r.Timestamp, err)
		}
		samples[i] = metric.Sample{Value: r.Value, Timestamp: ts}
	}
	return samples, nil
}

// keyedMutex hands out one mutex per string key.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// lock acquires the key's mutex and returns its unlock func.
func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Ensure EngineServiceImpl implements the interface
var _ primary.EngineService = (*EngineServiceImpl)(nil)
