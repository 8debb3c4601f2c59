package server

import (
	"github.com/gin-gonic/gin"

	"github.com/tradeflowhq/tradeflow/dag"
	apperrors "github.com/tradeflowhq/tradeflow/errors"
	"github.com/tradeflowhq/tradeflow/logger"
	"github.com/tradeflowhq/tradeflow/validation"
)

// API exposes a dag.Engine over HTTP. All routes live under /api/v1.
type API struct {
	engine   *dag.Engine
	registry *dag.Registry
	log      *logger.Logger
}

// NewAPI creates the HTTP API around an engine and its capability registry.
func NewAPI(engine *dag.Engine, registry *dag.Registry, log *logger.Logger) *API {
	if log == nil {
		log = logger.Get("api")
	}
	return &API{engine: engine, registry: registry, log: log.WithComponent("api")}
}

// Register mounts the API routes on the given router.
func (a *API) Register(r gin.IRouter) {
	v1 := r.Group("/api/v1")
	v1.GET("/dag", a.graphInfo)
	v1.POST("/dag/execute", a.execute)
	v1.POST("/dag/execute/async", a.executeAsync)
	v1.GET("/executions", a.executions)
	v1.GET("/executions/:id", a.execution)
	v1.GET("/agents", a.agents)
}

type executeRequest struct {
	Input map[string]any `json:"input"`
}

// bindExecuteRequest reads the optional request body. An empty body means an
// execution with no initial input.
func bindExecuteRequest(c *gin.Context) (executeRequest, error) {
	var req executeRequest
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return req, nil
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, apperrors.InvalidInput("input", err.Error())
	}
	return req, nil
}

// graphInfo reports the graph, its resolved levels, and execution order.
func (a *API) graphInfo(c *gin.Context) {
	RespondOK(c, a.engine.Info())
}

// execute runs the graph synchronously and returns the full RunResult.
// A failed run is still a 200; the failure lives in the result status.
func (a *API) execute(c *gin.Context) {
	req, err := bindExecuteRequest(c)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	result, err := a.engine.Execute(c.Request.Context(), req.Input)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOK(c, result)
}

// executeAsync starts a background run and immediately returns its id.
func (a *API) executeAsync(c *gin.Context) {
	req, err := bindExecuteRequest(c)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	id := a.engine.ExecuteAsync(req.Input)
	a.log.Info("Async execution started", map[string]any{"execution_id": id})
	RespondAccepted(c, gin.H{"execution_id": id, "status": "started"})
}

type executionsQuery struct {
	Limit int `form:"limit" json:"limit" validate:"gte=1,lte=100"`
}

// executions lists recent runs, newest first.
func (a *API) executions(c *gin.Context) {
	q := executionsQuery{Limit: 10}
	if err := c.ShouldBindQuery(&q); err != nil {
		RespondWithError(c, apperrors.InvalidInput("limit", err.Error()))
		return
	}
	if err := validation.Validate(q); err != nil {
		RespondWithError(c, err)
		return
	}

	results := a.engine.History().Recent(q.Limit)
	RespondOKWithMeta(c, results, &Meta{Count: len(results), Limit: q.Limit})
}

// execution fetches one run by id.
func (a *API) execution(c *gin.Context) {
	id := c.Param("id")
	result, ok := a.engine.History().Get(id)
	if !ok {
		RespondWithError(c, apperrors.NotFound("execution", id))
		return
	}
	RespondOK(c, result)
}

// agents reports registered capabilities and the graph nodes bound to each.
func (a *API) agents(c *gin.Context) {
	bound := make(map[string][]string)
	for _, n := range a.engine.Graph().Nodes {
		bound[n.Uses] = append(bound[n.Uses], n.ID)
	}

	locators := a.registry.Capabilities()
	out := make([]gin.H, 0, len(locators))
	for _, locator := range locators {
		out = append(out, gin.H{
			"capability": locator,
			"nodes":      bound[locator],
		})
	}
	RespondOKWithMeta(c, out, &Meta{Count: len(out)})
}
