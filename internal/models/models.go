package models

import (
	"time"
)

// SystemType identifies the kind of external system behind an integration.
type SystemType string

const (
	SystemWebhook      SystemType = "Webhook"
	SystemRestAPI      SystemType = "RestApi"
	SystemDatabase     SystemType = "Database"
	SystemFileSystem   SystemType = "FileSystem"
	SystemMessageQueue SystemType = "MessageQueue"
	SystemCustom       SystemType = "Custom"
)

// IntegrationStatus is the lifecycle state of an integration. Only Active
// integrations accept analysis submissions.
type IntegrationStatus string

const (
	IntegrationActive   IntegrationStatus = "Active"
	IntegrationInactive IntegrationStatus = "Inactive"
	IntegrationError    IntegrationStatus = "Error"
	IntegrationPending  IntegrationStatus = "Pending"
)

// AnalysisStatus is the state of a single analysis attempt.
// Pending -> Processing -> Completed | Failed. Completed and Failed are terminal.
type AnalysisStatus string

const (
	AnalysisPending    AnalysisStatus = "Pending"
	AnalysisProcessing AnalysisStatus = "Processing"
	AnalysisCompleted  AnalysisStatus = "Completed"
	AnalysisFailed     AnalysisStatus = "Failed"
)

// Terminal reports whether the status permits no further transitions.
func (s AnalysisStatus) Terminal() bool {
	return s == AnalysisCompleted || s == AnalysisFailed
}

type NotificationSettings struct {
	EmailNotifications   bool `json:"email_notifications"`
	WebhookNotifications bool `json:"webhook_notifications"`
	DashboardAlerts      bool `json:"dashboard_alerts"`
	RealTimeUpdates      bool `json:"real_time_updates"`
}

// IntegrationConfig is opaque to the pipeline except for the webhook toggle.
type IntegrationConfig struct {
	AutoAnalyze          bool                 `json:"auto_analyze"`
	AnalysisDomain       string               `json:"analysis_domain,omitempty"`
	AIModel              string               `json:"ai_model,omitempty"`
	NotificationSettings NotificationSettings `json:"notification_settings"`
	DataFilters          []string             `json:"data_filters,omitempty"`
}

// Integration is one registered external system.
type Integration struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	SystemType    SystemType        `json:"system_type"`
	APIKey        string            `json:"api_key"`
	WebhookURL    string            `json:"webhook_url,omitempty"`
	Status        IntegrationStatus `json:"status"`
	OwnerID       string            `json:"owner_id,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	LastActivity  *time.Time        `json:"last_activity,omitempty"`
	Configuration IntegrationConfig `json:"configuration"`
}

// AnalysisResult is one analysis attempt tied to exactly one integration.
// Payload holds the normalized analysis output once Completed, or the error
// detail once Failed; it is nil while the attempt is in flight.
type AnalysisResult struct {
	ID                   string         `json:"id"`
	IntegrationID        string         `json:"integration_id"`
	SystemName           string         `json:"system_name"`
	DataSource           string         `json:"data_source"`
	Payload              any            `json:"analysis_result"`
	Status               AnalysisStatus `json:"status"`
	CreatedAt            time.Time      `json:"created_at"`
	ProcessingTime       float64        `json:"processing_time"`
	InsightsCount        int            `json:"insights_count"`
	RecommendationsCount int            `json:"recommendations_count"`
}

// CreateIntegrationRequest is the caller-facing creation payload.
type CreateIntegrationRequest struct {
	Name          string            `json:"name" binding:"required"`
	SystemType    SystemType        `json:"system_type" binding:"required"`
	WebhookURL    string            `json:"webhook_url"`
	Configuration IntegrationConfig `json:"configuration"`
}

// AnalysisRequest is the caller-facing submission payload. The API key is the
// sole credential; Data is forwarded as-is with no schema validation.
type AnalysisRequest struct {
	APIKey      string `json:"api_key" binding:"required"`
	Data        any    `json:"data"`
	Domain      string `json:"domain,omitempty"`
	Model       string `json:"model,omitempty"`
	CallbackURL string `json:"callback_url,omitempty"`
}

// DashboardStats is a point-in-time computed view, never stored.
type DashboardStats struct {
	TotalIntegrations  int     `json:"total_integrations"`
	ActiveIntegrations int     `json:"active_integrations"`
	TotalAnalyses      int     `json:"total_analyses"`
	SuccessfulAnalyses int     `json:"successful_analyses"`
	RecentAnalyses24h  int     `json:"recent_analyses_24h"`
	SuccessRate        float64 `json:"success_rate"`
}
