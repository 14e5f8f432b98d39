package constants

// Event routing keys published to the broker exchange.
const (
	AnalysisCompleted = "analysis.completed"
	AnalysisFailed    = "analysis.failed"

	IntegrationCreated = "integration.created"
	IntegrationDeleted = "integration.deleted"
)

// Defaults applied when an analysis request omits them.
const (
	DefaultDomain = "generic"
	DefaultModel  = "llama2"
)
