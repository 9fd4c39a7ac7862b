package errors

var (
	ErrInvalidTransaction = &DomainError{
		Kind:    KindValidation,
		Code:    "INVALID_TRANSACTION",
		Message: "invalid transaction",
	}
	ErrInvalidCardNumber = &DomainError{
		Kind:    KindValidation,
		Code:    "INVALID_CARD_NUMBER",
		Message: "invalid card number",
	}
	ErrInvalidFeedback = &DomainError{
		Kind:    KindValidation,
		Code:    "INVALID_FEEDBACK",
		Message: "invalid feedback",
	}
	ErrTransactionNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "TRANSACTION_NOT_FOUND",
		Message: "transaction not found",
	}
	ErrHistoryNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "HISTORY_NOT_FOUND",
		Message: "no transactions found for card",
	}
	ErrFeedbackAlreadySet = &DomainError{
		Kind:    KindConflict,
		Code:    "FEEDBACK_ALREADY_SET",
		Message: "feedback already recorded for transaction",
	}
	ErrFeedbackMatchesResult = &DomainError{
		Kind:    KindUnprocessableFeedback,
		Code:    "FEEDBACK_MATCHES_RESULT",
		Message: "feedback equals the transaction result",
	}
	ErrStorageUnavailable = &DomainError{
		Kind:      KindCollaborator,
		Code:      "STORAGE_UNAVAILABLE",
		Message:   "transaction storage unavailable",
		Retryable: true,
	}
	ErrBlocklistUnavailable = &DomainError{
		Kind:      KindCollaborator,
		Code:      "BLOCKLIST_UNAVAILABLE",
		Message:   "blocklist lookup failed",
		Retryable: true,
	}
)
