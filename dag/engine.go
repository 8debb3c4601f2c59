package dag

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tradeflowhq/tradeflow/errors"
	"github.com/tradeflowhq/tradeflow/logger"
	"github.com/tradeflowhq/tradeflow/observability"
)

// Engine drives level-by-level execution of a graph. It owns the resolved
// units, the execution history, and the failure policy: nodes within a
// level all run to completion (collect-all), and once any node has failed
// no later level starts.
//
// The graph is never mutated; Execute calls are independent of each other
// apart from the unit cache.
type Engine struct {
	graph    *Graph
	registry *Registry
	history  *History
	log      *logger.Logger
	metrics  *observability.Metrics

	unitsMu sync.Mutex
	units   map[string]Unit

	producers map[string][]string

	maxParallel  int
	nodeTimeout  time.Duration
	historyLimit int
	wrap         func(nodeID string, u Unit) Unit
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxParallel caps concurrent nodes per level (0 = one goroutine per
// node in the level).
func WithMaxParallel(n int) Option {
	return func(e *Engine) { e.maxParallel = n }
}

// WithNodeTimeout bounds each node's Run call. Expiry converts to a
// timeout error result for that node, not a crash.
func WithNodeTimeout(d time.Duration) Option {
	return func(e *Engine) { e.nodeTimeout = d }
}

// WithHistoryLimit bounds the retained execution history.
func WithHistoryLimit(n int) Option {
	return func(e *Engine) { e.historyLimit = n }
}

// WithLogger sets the engine logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithMetrics enables run and node metric recording.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithUnitWrapper decorates every resolved unit, e.g. with logging or
// tracing. The wrapper runs once per node id, at resolution time.
func WithUnitWrapper(wrap func(nodeID string, u Unit) Unit) Option {
	return func(e *Engine) { e.wrap = wrap }
}

// New creates an Engine over an immutable graph. The graph's structural
// invariants are checked here; units resolve lazily on the first Execute
// and stay cached for the engine's lifetime.
func New(g *Graph, r *Registry, opts ...Option) (*Engine, error) {
	e := &Engine{
		graph:    g,
		registry: r,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logger.Get("engine")
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}

	e.producers = make(map[string][]string, len(g.Nodes))
	for _, n := range g.Nodes {
		e.producers[n.ID] = g.Producers(n.ID)
	}
	e.history = NewHistory(e.historyLimit)

	return e, nil
}

// Graph returns the engine's graph.
func (e *Engine) Graph() *Graph { return e.graph }

// History returns the bounded execution history.
func (e *Engine) History() *History { return e.history }

// Info describes the resolved execution order and node declarations.
type Info struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Nodes       []NodeDecl `json:"nodes"`
	Edges       []Edge     `json:"edges"`
	Levels      [][]string `json:"levels"`
	Order       []string   `json:"execution_order"`
}

// Info returns the read-only inspection view of the graph.
func (e *Engine) Info() *Info {
	// New validated acyclicity; resolution cannot fail here.
	levels, _ := BuildLevels(e.graph)
	return &Info{
		Name:        e.graph.Name,
		Description: e.graph.Description,
		Nodes:       e.graph.Nodes,
		Edges:       e.graph.Edges,
		Levels:      levels,
		Order:       FlattenLevels(levels),
	}
}

// Execute runs the whole graph once. Structural problems (cycle, unknown
// capability, failed construction) return an error before any node runs.
// Node-level failures never escape as errors: callers always receive a
// RunResult and inspect its status and per-node results.
func (e *Engine) Execute(ctx context.Context, initialInput Payload) (*RunResult, error) {
	return e.execute(ctx, newExecutionID(), initialInput)
}

// ExecuteAsync starts a run in the background and returns its
// pre-allocated execution id. The eventual RunResult is retrievable from
// the history under that id.
func (e *Engine) ExecuteAsync(initialInput Payload) string {
	execID := newExecutionID()
	go func() {
		if _, err := e.execute(context.Background(), execID, initialInput); err != nil {
			e.log.Error("background execution aborted", logger.ErrorFields("execute", err))
		}
	}()
	return execID
}

func (e *Engine) execute(ctx context.Context, execID string, initialInput Payload) (*RunResult, error) {
	started := time.Now()
	log := e.log.WithFields(logger.Fields(logger.FieldExecutionID, execID))

	levels, err := BuildLevels(e.graph)
	if err != nil {
		log.Error("graph resolution failed", logger.ErrorFields("resolve", err))
		return nil, err
	}
	units, err := e.resolveUnits()
	if err != nil {
		log.Error("unit resolution failed", logger.ErrorFields("resolve", err))
		return nil, err
	}

	log.Info("execution started", logger.Fields(
		logger.FieldGraph, e.graph.Name,
		"nodes", len(e.graph.Nodes),
		"levels", len(levels),
	))

	run := &RunResult{ID: execID, Status: StatusSuccess}
	byID := make(map[string]NodeResult, len(e.graph.Nodes))
	var mu sync.Mutex
	failed := false

	for _, level := range levels {
		if ctxErr := ctx.Err(); ctxErr != nil {
			run.Error = fmt.Sprintf("execution cancelled: %v", ctxErr)
			failed = true
			break
		}
		// Fail-fast applies at the level boundary: results already
		// produced are retained, no node not yet started is attempted.
		if failed {
			break
		}

		run.Order = append(run.Order, level...)

		// Same-level nodes only read results from earlier levels, so a
		// snapshot taken at the barrier is complete for every mapper call
		// in this level.
		snapshot := make(map[string]NodeResult, len(byID))
		for k, v := range byID {
			snapshot[k] = v
		}

		sem := make(chan struct{}, e.concurrency(len(level)))
		var wg sync.WaitGroup
		for _, id := range level {
			wg.Add(1)
			go func(nodeID string) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()

				nr := e.executeNode(ctx, nodeID, units[nodeID], snapshot, initialInput)

				mu.Lock()
				byID[nodeID] = nr
				if nr.Status != StatusSuccess {
					failed = true
				}
				mu.Unlock()

				if nr.Status == StatusSuccess {
					log.Debug("node completed", logger.Fields(
						logger.FieldNode, nodeID,
						logger.FieldDuration, nr.Duration.Milliseconds(),
					))
				} else {
					log.Warn("node failed", logger.Fields(
						logger.FieldNode, nodeID,
						logger.FieldError, nr.Error,
					))
				}
				if e.metrics != nil {
					e.metrics.RecordNode(ctx, nodeID, string(nr.Status), nr.Duration)
				}
			}(id)
		}
		wg.Wait()
	}

	run.Results = make([]NodeResult, 0, len(run.Order))
	for _, id := range run.Order {
		if nr, ok := byID[id]; ok {
			run.Results = append(run.Results, nr)
		}
	}
	run.Output = Aggregate(run.Results)
	if failed {
		run.Status = StatusError
	}
	run.Timestamp = time.Now()
	run.Duration = time.Since(started)

	e.history.Add(run)
	if e.metrics != nil {
		e.metrics.RecordRun(ctx, string(run.Status), run.Duration)
	}

	if run.Status == StatusSuccess {
		log.Info("execution completed", logger.Fields(
			logger.FieldStatus, string(run.Status),
			"attempted", len(run.Results),
			logger.FieldDuration, run.Duration.Milliseconds(),
		))
	} else {
		log.Warn("execution failed", logger.Fields(
			logger.FieldStatus, string(run.Status),
			"attempted", len(run.Results),
			logger.FieldDuration, run.Duration.Milliseconds(),
		))
	}

	return run, nil
}

// executeNode builds one node's input and runs its unit. Every failure
// mode, including a mapping failure, becomes that node's error result.
func (e *Engine) executeNode(ctx context.Context, nodeID string, unit Unit, results map[string]NodeResult, initialInput Payload) NodeResult {
	decl, _ := e.graph.Node(nodeID)
	input, err := BuildInput(decl, e.producers[nodeID], results, initialInput)
	if err != nil {
		return errorResult(nodeID, err, time.Now())
	}
	return runUnit(ctx, nodeID, unit, input, e.nodeTimeout)
}

// resolveUnits constructs every node's unit through the registry. The first
// resolution wins; later calls return the cached units.
func (e *Engine) resolveUnits() (map[string]Unit, error) {
	e.unitsMu.Lock()
	defer e.unitsMu.Unlock()
	if e.units != nil {
		return e.units, nil
	}

	units := make(map[string]Unit, len(e.graph.Nodes))
	for _, n := range e.graph.Nodes {
		b, ok := e.registry.Get(n.Uses)
		if !ok {
			return nil, errors.CapabilityUnknown(n.ID, n.Uses)
		}
		u, err := b(n.Config)
		if err != nil {
			return nil, errors.UnitConstruct(n.ID, err)
		}
		if e.wrap != nil {
			u = e.wrap(n.ID, u)
		}
		units[n.ID] = u
	}

	e.units = units
	return units, nil
}

func (e *Engine) concurrency(levelSize int) int {
	if e.maxParallel <= 0 || e.maxParallel > levelSize {
		return levelSize
	}
	return e.maxParallel
}

func newExecutionID() string {
	return "exec_" + uuid.NewString()
}
