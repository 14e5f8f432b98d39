package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/json-oracle/oracle_engine/constants"
	"github.com/json-oracle/oracle_engine/internal/inference"
	"github.com/json-oracle/oracle_engine/internal/models"
	"github.com/json-oracle/oracle_engine/internal/prompts"
	"github.com/json-oracle/oracle_engine/internal/store"
)

// Notifier receives terminal results for out-of-band delivery. Dispatch must
// not block the pipeline; implementations fan out on their own goroutines.
type Notifier interface {
	Dispatch(result models.AnalysisResult, webhookURL, callbackURL string)
}

// Pipeline drives one submission through its full lifecycle:
// credential resolution, pending/processing bookkeeping, a single inference
// call, interpretation, and finalization. No lock is held across the
// inference call, so slow model responses never stall reads or other
// submissions.
type Pipeline struct {
	store       *store.IntegrationStore
	results     *store.ResultLog
	interpreter Interpreter
	inferrer    inference.Inferrer
	notifier    Notifier
	log         *zap.SugaredLogger
}

func NewPipeline(st *store.IntegrationStore, results *store.ResultLog, interpreter Interpreter,
	inferrer inference.Inferrer, notifier Notifier, log *zap.SugaredLogger) *Pipeline {
	return &Pipeline{
		store:       st,
		results:     results,
		interpreter: interpreter,
		inferrer:    inferrer,
		notifier:    notifier,
		log:         log,
	}
}

// Submit runs one analysis to a terminal state. The returned result is
// Completed or Failed, never in-flight; on failure the error carries the
// same detail the stored record does.
func (p *Pipeline) Submit(ctx context.Context, req models.AnalysisRequest) (models.AnalysisResult, error) {
	integration, err := p.store.GetByAPIKey(req.APIKey)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.AnalysisResult{}, models.ErrInvalidCredential
		}
		return models.AnalysisResult{}, err
	}
	if integration.Status != models.IntegrationActive {
		p.log.Infow("submission refused, integration not active",
			"integration_id", integration.ID, "status", integration.Status)
		return models.AnalysisResult{}, models.ErrIntegrationInactive
	}

	result := models.AnalysisResult{
		ID:            uuid.NewString(),
		IntegrationID: integration.ID,
		SystemName:    integration.Name,
		DataSource:    "external_system",
		Status:        models.AnalysisPending,
		CreatedAt:     time.Now().UTC(),
	}
	p.results.Append(integration.ID, result)
	p.store.Touch(integration.ID)

	result.Status = models.AnalysisProcessing
	started := time.Now()

	domain := resolve(req.Domain, integration.Configuration.AnalysisDomain, constants.DefaultDomain)
	model := resolve(req.Model, integration.Configuration.AIModel, constants.DefaultModel)
	prompt := prompts.Build(domain, integration.Name)

	raw, err := p.inferrer.Infer(ctx, model, prompt)
	if err != nil {
		result.Status = models.AnalysisFailed
		result.Payload = map[string]any{"error": fmt.Sprintf("Analysis failed: %v", err)}
		result.ProcessingTime = time.Since(started).Seconds()
		p.finalize(integration.ID, result)
		p.log.Errorw("analysis failed", "integration_id", integration.ID, "result_id", result.ID, "err", err)
		return result, fmt.Errorf("analysis failed: %w", err)
	}

	result.Payload = p.interpreter.Parse(raw, req.Data)
	result.Status = models.AnalysisCompleted
	result.ProcessingTime = time.Since(started).Seconds()
	result.InsightsCount = CountInsights(result.Payload)
	result.RecommendationsCount = CountRecommendations(result.Payload)
	p.finalize(integration.ID, result)

	if p.notifier != nil {
		webhookURL := ""
		if integration.Configuration.NotificationSettings.WebhookNotifications {
			webhookURL = integration.WebhookURL
		}
		p.notifier.Dispatch(result, webhookURL, req.CallbackURL)
	}

	p.log.Infow("analysis completed",
		"integration_id", integration.ID,
		"result_id", result.ID,
		"processing_time", result.ProcessingTime,
		"insights", result.InsightsCount,
		"recommendations", result.RecommendationsCount)
	return result, nil
}

// finalize stores the terminal record. A missing sequence means the
// integration was deleted while the analysis ran; the outcome is dropped.
func (p *Pipeline) finalize(integrationID string, result models.AnalysisResult) {
	if err := p.results.Finalize(integrationID, result.ID, result); err != nil {
		p.log.Warnw("could not finalize result",
			"integration_id", integrationID, "result_id", result.ID, "err", err)
	}
}

// resolve picks the first non-empty value: request override, integration
// configuration, built-in default.
func resolve(requested, configured, fallback string) string {
	if requested != "" {
		return requested
	}
	if configured != "" {
		return configured
	}
	return fallback
}
