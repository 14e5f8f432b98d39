package store

import (
	"strings"
	"time"

	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/json-oracle/oracle_engine/internal/models"
)

// IntegrationStore is the process-wide registry of integrations. Records are
// indexed both by id and by API key so credential resolution never scans.
// A single reader-writer lock guards both indices; create/delete are
// low-frequency enough that coarse serialization is fine.
type IntegrationStore struct {
	mu    sync.RWMutex
	byID  map[string]*models.Integration
	byKey map[string]*models.Integration
	log   *zap.SugaredLogger
}

func NewIntegrationStore(log *zap.SugaredLogger) *IntegrationStore {
	return &IntegrationStore{
		byID:  make(map[string]*models.Integration),
		byKey: make(map[string]*models.Integration),
		log:   log,
	}
}

// newAPIKey builds a fresh credential. uuid v4 comes from crypto/rand, so
// collisions are negligible and keys are not guessable from prior keys.
func newAPIKey() string {
	return "json_oracle_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Create registers a new integration with a fresh id and API key. ownerID is
// empty in anonymous mode. Always succeeds.
func (s *IntegrationStore) Create(req models.CreateIntegrationRequest, ownerID string) models.Integration {
	integration := &models.Integration{
		ID:            uuid.NewString(),
		Name:          req.Name,
		SystemType:    req.SystemType,
		APIKey:        newAPIKey(),
		WebhookURL:    req.WebhookURL,
		Status:        models.IntegrationActive,
		OwnerID:       ownerID,
		CreatedAt:     time.Now().UTC(),
		Configuration: req.Configuration,
	}

	s.mu.Lock()
	s.byID[integration.ID] = integration
	s.byKey[integration.APIKey] = integration
	s.mu.Unlock()

	s.log.Debugw("integration created", "id", integration.ID, "name", integration.Name, "system_type", integration.SystemType)
	return *integration
}

// GetByID returns a copy of the integration or models.ErrNotFound.
func (s *IntegrationStore) GetByID(id string) (models.Integration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	integration, ok := s.byID[id]
	if !ok {
		return models.Integration{}, models.ErrNotFound
	}
	return *integration, nil
}

// GetByAPIKey resolves a credential through the key index, never the id index.
func (s *IntegrationStore) GetByAPIKey(key string) (models.Integration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	integration, ok := s.byKey[key]
	if !ok {
		return models.Integration{}, models.ErrNotFound
	}
	return *integration, nil
}

// List returns all integrations, or only those owned by ownerID when it is
// non-empty. Ownership is a filter, not a security boundary.
func (s *IntegrationStore) List(ownerID string) []models.Integration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Integration, 0, len(s.byID))
	for _, integration := range s.byID {
		if ownerID != "" && integration.OwnerID != ownerID {
			continue
		}
		out = append(out, *integration)
	}
	return out
}

// Delete removes the integration from both indices. Returns false when the
// id was absent, which callers treat as an idempotent no-op.
func (s *IntegrationStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	integration, ok := s.byID[id]
	if !ok {
		return false
	}
	delete(s.byID, id)
	delete(s.byKey, integration.APIKey)
	s.log.Debugw("integration deleted", "id", id)
	return true
}

// SetStatus moves the integration to a new lifecycle state. Returns
// models.ErrNotFound for an unknown id.
func (s *IntegrationStore) SetStatus(id string, status models.IntegrationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	integration, ok := s.byID[id]
	if !ok {
		return models.ErrNotFound
	}
	integration.Status = status
	s.log.Debugw("integration status changed", "id", id, "status", status)
	return nil
}

// Touch records submission activity on the integration.
func (s *IntegrationStore) Touch(id string) {
	now := time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	if integration, ok := s.byID[id]; ok {
		integration.LastActivity = &now
	}
}

// SnapshotAll returns a point-in-time copy of every integration for
// aggregate reads.
func (s *IntegrationStore) SnapshotAll() []models.Integration {
	return s.List("")
}
