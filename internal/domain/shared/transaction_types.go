package shared

import "errors"

// Validation errors surfaced while processing transaction requests
var (
	ErrInvalidTransactionKind = errors.New("transaction kind must be DEPOSIT, WITHDRAWAL or SALE")
	ErrInvalidPrice           = errors.New("price must be positive")
	ErrMissingPrice           = errors.New("no price given and the product carries no reference price")
)

// TransactionKind defines the ledger operations applied to a farmer account
type TransactionKind string

const (
	TransactionKindDeposit    TransactionKind = "DEPOSIT"
	TransactionKindWithdrawal TransactionKind = "WITHDRAWAL"
	TransactionKindSale       TransactionKind = "SALE"
)

// TransactionStatus defines transaction processing states
type TransactionStatus string

const (
	TransactionStatusPending    TransactionStatus = "PENDING"
	TransactionStatusProcessing TransactionStatus = "PROCESSING"
	TransactionStatusCompleted  TransactionStatus = "COMPLETED"
	TransactionStatusFailed     TransactionStatus = "FAILED"
)

// FailureReason defines transaction failure categories
type FailureReason string

const (
	FailureReasonFarmerNotFound      FailureReason = "FARMER_NOT_FOUND"
	FailureReasonProductNotFound     FailureReason = "PRODUCT_NOT_FOUND"
	FailureReasonInsufficientStock   FailureReason = "INSUFFICIENT_STOCK"
	FailureReasonInsufficientBalance FailureReason = "INSUFFICIENT_BALANCE"
	FailureReasonInvalidQuantity     FailureReason = "INVALID_QUANTITY"
	FailureReasonInvalidPrice        FailureReason = "INVALID_PRICE"
	FailureReasonMissingPrice        FailureReason = "MISSING_PRICE"
	FailureReasonInvalidQuality      FailureReason = "INVALID_QUALITY"
	FailureReasonUnknownError        FailureReason = "UNKNOWN_ERROR"
)

// OutboxStatus defines message publishing states
type OutboxStatus string

const (
	OutboxStatusPending         OutboxStatus = "PENDING"
	OutboxStatusProcessed       OutboxStatus = "PROCESSED"
	OutboxStatusFailedToPublish OutboxStatus = "FAILED_TO_PUBLISH"
)
