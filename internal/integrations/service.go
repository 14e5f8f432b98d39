package integrations

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/json-oracle/oracle_engine/constants"
	"github.com/json-oracle/oracle_engine/internal/models"
	"github.com/json-oracle/oracle_engine/internal/store"
	"github.com/json-oracle/oracle_engine/rabbitmq"
)

// Service coordinates the integration registry with the result log so the
// two stay consistent across the lifecycle: creation establishes an empty
// result sequence, deletion discards it.
type Service struct {
	store    *store.IntegrationStore
	results  *store.ResultLog
	qConn    *rabbitmq.Conn
	exchange string
	log      *zap.SugaredLogger
}

func NewService(st *store.IntegrationStore, results *store.ResultLog,
	qConn *rabbitmq.Conn, exchange string, log *zap.SugaredLogger) *Service {
	return &Service{
		store:    st,
		results:  results,
		qConn:    qConn,
		exchange: exchange,
		log:      log,
	}
}

// Create registers the integration and its empty result sequence. The
// returned record is the only response that ever carries a freshly minted
// API key.
func (s *Service) Create(req models.CreateIntegrationRequest, ownerID string) models.Integration {
	integration := s.store.Create(req, ownerID)
	s.results.InitSequence(integration.ID)
	go s.publishLifecycleEvent(constants.IntegrationCreated, integration.ID)
	return integration
}

// Get returns the integration; an owner mismatch reads as absence so ids
// cannot be probed across owners.
func (s *Service) Get(id, ownerID string) (models.Integration, error) {
	integration, err := s.store.GetByID(id)
	if err != nil {
		return models.Integration{}, err
	}
	if ownerID != "" && integration.OwnerID != ownerID {
		return models.Integration{}, models.ErrNotFound
	}
	return integration, nil
}

// List returns all integrations visible to the owner.
func (s *Service) List(ownerID string) []models.Integration {
	return s.store.List(ownerID)
}

// Delete removes the integration and discards its result sequence. Returns
// false when there was nothing to delete.
func (s *Service) Delete(id, ownerID string) bool {
	if _, err := s.Get(id, ownerID); err != nil {
		return false
	}
	if !s.store.Delete(id) {
		return false
	}
	s.results.DiscardSequence(id)
	go s.publishLifecycleEvent(constants.IntegrationDeleted, id)
	return true
}

// Results returns the integration's result sequence, newest first. A missing
// or deleted integration reads as an empty sequence, not an error.
func (s *Service) Results(id, ownerID string, limit int) ([]models.AnalysisResult, error) {
	integration, err := s.store.GetByID(id)
	if err == nil && ownerID != "" && integration.OwnerID != ownerID {
		return nil, models.ErrNotFound
	}
	return s.results.Query(id, limit), nil
}

// Result returns one result by id.
func (s *Service) Result(id, resultID, ownerID string) (models.AnalysisResult, error) {
	if ownerID != "" {
		integration, err := s.store.GetByID(id)
		if err != nil {
			return models.AnalysisResult{}, err
		}
		if integration.OwnerID != ownerID {
			return models.AnalysisResult{}, models.ErrNotFound
		}
	}
	return s.results.Get(id, resultID)
}

func (s *Service) publishLifecycleEvent(routingKey, integrationID string) {
	if s.qConn == nil || s.qConn.Channel == nil {
		return
	}
	body, err := json.Marshal(map[string]string{"integration_id": integrationID})
	if err != nil {
		return
	}
	if err := s.qConn.PublishMessage(s.exchange, routingKey, body); err != nil {
		s.log.Errorw("cannot publish lifecycle event", "routing_key", routingKey, "integration_id", integrationID, "err", err)
	}
}
