package service

import "errors"

// Terminal errors surfaced to handlers. Per-contract persistence failures
// are not here: the generation engine collects those in the batch summary
// instead of aborting the run.
var (
	ErrUnauthorized          = errors.New("missing or invalid caller identity")
	ErrInvalidReferenceMonth = errors.New("reference month is not a valid date")
	ErrContractRequired      = errors.New("contract_id is required in single mode")
	ErrContractNotFound      = errors.New("contract not found")
	ErrUserNotFound          = errors.New("no user matches the payer email")
	ErrInvalidEvent          = errors.New("webhook event has no transaction id")
	ErrInvalidSecret         = errors.New("webhook secret mismatch")
)
