package screening

import "time"

const (
	// DefaultCorrelationWindow is how far back correlation rules look.
	DefaultCorrelationWindow = time.Hour

	// DefaultOperationTimeout bounds the collaborator calls of one operation.
	DefaultOperationTimeout = 5 * time.Second

	// correlationLimit is the distinct-value count at which a correlation
	// rule starts flagging. Above it the transaction is prohibited.
	correlationLimit = 2
)

// Operation names reported to MetricsCollector.RecordError.
const (
	opScore         = "score"
	opFeedback      = "feedback"
	opHistory       = "history"
	opHistoryByCard = "history_by_card"
)
