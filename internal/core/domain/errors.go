package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidFingerprint is returned when a checkpoint key cannot be decoded back to its description.
	ErrInvalidFingerprint = zerr.New("invalid fingerprint")

	// ErrLockTimeout is returned when the checkpoint lock cannot be acquired within its bound.
	ErrLockTimeout = zerr.New("timed out acquiring checkpoint lock")

	// ErrLockFailed is returned when the checkpoint lock cannot be acquired for reasons other than a timeout.
	ErrLockFailed = zerr.New("failed to acquire checkpoint lock")

	// ErrStoreCreateFailed is returned when the checkpoint store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create checkpoint store directory")

	// ErrStoreMarshalFailed is returned when the checkpoint entries cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal checkpoint store")

	// ErrStoreWriteFailed is returned when the checkpoint file cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write checkpoint store")

	// ErrStoreDeleteFailed is returned when the checkpoint file or its lock file cannot be removed.
	ErrStoreDeleteFailed = zerr.New("failed to delete checkpoint store")

	// ErrInvalidPattern is returned when a clear pattern is not a valid glob.
	ErrInvalidPattern = zerr.New("invalid checkpoint pattern")

	// ErrPayloadDecodeFailed is returned when a cached payload cannot be decoded into the requested type.
	ErrPayloadDecodeFailed = zerr.New("failed to decode checkpoint payload")

	// ErrTaskFailed is returned when a memoized computation fails.
	ErrTaskFailed = zerr.New("task execution failed")

	// ErrBatchFailed is returned when any item of a batch fails.
	ErrBatchFailed = zerr.New("batch execution failed")

	// ErrRetriesExhausted is returned when the reasoning retry loop gives up.
	ErrRetriesExhausted = zerr.New("max retries exceeded")

	// ErrNonThinkingBudget is returned when the text outside the reasoning span exceeds its budget.
	ErrNonThinkingBudget = zerr.New("non-thinking tokens exceeded max")

	// ErrIncompleteReasoning is returned when the model stops before closing its reasoning span,
	// or keeps continuing past the continuation bound without doing so.
	ErrIncompleteReasoning = zerr.New("model stopped without completing its reasoning")

	// ErrTransientRemote is returned for remote failures that are expected to succeed on retry.
	ErrTransientRemote = zerr.New("transient remote failure")

	// ErrRemoteRequestFailed is returned when a remote model request fails.
	ErrRemoteRequestFailed = zerr.New("remote model request failed")

	// ErrEmptyCompletion is returned when the remote model returns no choices.
	ErrEmptyCompletion = zerr.New("remote model returned no choices")

	// ErrMissingAPIKey is returned when no API key is configured for the remote model.
	ErrMissingAPIKey = zerr.New("missing API key")

	// ErrLengthMismatch is returned when responses and ground truths differ in length.
	ErrLengthMismatch = zerr.New("responses and ground truths differ in length")

	// ErrDivisionByZero is returned when an arithmetic expression divides by zero.
	ErrDivisionByZero = zerr.New("division by zero in expression")

	// ErrUnknownOperator is returned when an arithmetic expression carries an unsupported operator.
	ErrUnknownOperator = zerr.New("unsupported operator")

	// ErrUnknownExperimentKind is returned when an experiment names an unsupported dataset kind.
	ErrUnknownExperimentKind = zerr.New("unknown experiment kind")

	// ErrDatasetReadFailed is returned when a dataset file cannot be read.
	ErrDatasetReadFailed = zerr.New("failed to read dataset")

	// ErrDatasetParseFailed is returned when a dataset file cannot be parsed.
	ErrDatasetParseFailed = zerr.New("failed to parse dataset")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrArtifactWriteFailed is returned when a result snapshot cannot be written.
	ErrArtifactWriteFailed = zerr.New("failed to write artifact")

	// ErrInvalidExperiment is returned when a plan entry is incomplete or inconsistent.
	ErrInvalidExperiment = zerr.New("invalid experiment definition")

	// ErrInvalidSettings is returned when loaded settings fail validation.
	ErrInvalidSettings = zerr.New("invalid settings")

	// ErrNoExperiments is returned when the plan contains no experiments.
	ErrNoExperiments = zerr.New("no experiments specified")
)
