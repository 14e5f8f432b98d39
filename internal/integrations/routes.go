package integrations

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/json-oracle/oracle_engine/config"
	"github.com/json-oracle/oracle_engine/internal/analysis"
	"github.com/json-oracle/oracle_engine/internal/auth"
	"github.com/json-oracle/oracle_engine/internal/dashboard"
	"github.com/json-oracle/oracle_engine/internal/models"
	"github.com/json-oracle/oracle_engine/internal/notify"
)

// IntegrationHandler carries the route dependencies.
type IntegrationHandler struct {
	svc      *Service
	pipeline *analysis.Pipeline
	agg      *dashboard.Aggregator
	hub      *notify.Hub
	log      *zap.SugaredLogger
}

// RegisterIntegrationRoutes sets up the integration, analysis and dashboard
// routes.
func RegisterIntegrationRoutes(router *gin.Engine, cfg *config.Config, svc *Service,
	pipeline *analysis.Pipeline, agg *dashboard.Aggregator, hub *notify.Hub, log *zap.SugaredLogger) *IntegrationHandler {
	handler := &IntegrationHandler{
		svc:      svc,
		pipeline: pipeline,
		agg:      agg,
		hub:      hub,
		log:      log,
	}

	mware := auth.Optional(cfg.JWT.SecretKey, log)

	routes := router.Group("/api/v1/integrations")
	routes.Use(mware)
	routes.POST("", handler.CreateIntegration)
	routes.GET("", handler.ListIntegrations)
	routes.GET("/:id", handler.GetIntegration)
	routes.DELETE("/:id", handler.DeleteIntegration)
	routes.GET("/:id/results", handler.GetResults)
	routes.GET("/:id/results/:result_id", handler.GetResult)

	analyze := router.Group("/api/v1")
	analyze.Use(mware)
	analyze.POST("/analyze", handler.Analyze)

	dash := router.Group("/api/v1/dashboard")
	dash.Use(mware)
	dash.GET("/stats", handler.GetDashboardStats)
	dash.GET("/ws-results", handler.GetResultsStream)

	return handler
}

// CreateIntegration registers an external system and returns its credential.
func (h *IntegrationHandler) CreateIntegration(ctx *gin.Context) {
	var req models.CreateIntegrationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	integration := h.svc.Create(req, auth.OwnerID(ctx))
	ctx.JSON(http.StatusCreated, integration)
}

func (h *IntegrationHandler) ListIntegrations(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.svc.List(auth.OwnerID(ctx)))
}

func (h *IntegrationHandler) GetIntegration(ctx *gin.Context) {
	integration, err := h.svc.Get(ctx.Param("id"), auth.OwnerID(ctx))
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "integration not found"})
		return
	}
	ctx.JSON(http.StatusOK, integration)
}

func (h *IntegrationHandler) DeleteIntegration(ctx *gin.Context) {
	if !h.svc.Delete(ctx.Param("id"), auth.OwnerID(ctx)) {
		ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "integration not found"})
		return
	}
	ctx.Status(http.StatusNoContent)
}

// GetResults lists an integration's results, newest first. The optional
// limit query bounds the page; a missing integration reads as an empty list.
func (h *IntegrationHandler) GetResults(ctx *gin.Context) {
	limit, err := strconv.Atoi(ctx.Query("limit"))
	if err != nil {
		limit = 0
	}

	results, err := h.svc.Results(ctx.Param("id"), auth.OwnerID(ctx), limit)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "integration not found"})
		return
	}
	ctx.JSON(http.StatusOK, results)
}

func (h *IntegrationHandler) GetResult(ctx *gin.Context) {
	result, err := h.svc.Result(ctx.Param("id"), ctx.Param("result_id"), auth.OwnerID(ctx))
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "result not found"})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// Analyze submits data for analysis and blocks until the result is terminal.
func (h *IntegrationHandler) Analyze(ctx *gin.Context) {
	var req models.AnalysisRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.pipeline.Submit(ctx.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidCredential):
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
		case errors.Is(err, models.ErrIntegrationInactive):
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "integration is not active"})
		default:
			ctx.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": err.Error(), "result": result})
		}
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func (h *IntegrationHandler) GetDashboardStats(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.agg.Snapshot(auth.OwnerID(ctx)))
}

// GetResultsStream upgrades to a websocket that pushes every terminal result.
func (h *IntegrationHandler) GetResultsStream(ctx *gin.Context) {
	if err := h.hub.Upgrade(ctx.Writer, ctx.Request); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "could not upgrade connection"})
	}
}
