package eventstore

import (
	"git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
)

// Sentinel errors; failures wrap one of these with errors.WrapError so
// callers can match with errors.Is.
var (
	ErrDatabaseOpenFailed     = errors.EventStoreError("could not open history database").Build()
	ErrInitializeSchemaFailed = errors.EventStoreError("failed to initialize history schema").Build()
	ErrEventAppendFailed      = errors.EventStoreError("failed to append event to store").Build()
	ErrEventQueryFailed       = errors.EventStoreError("failed to query events from store").Build()
	ErrEventScanFailed        = errors.EventStoreError("failed to scan event rows").Build()
	ErrMarshalPayloadFailed   = errors.EventStoreError("failed to marshal event payload").Build()
)

func wrap(sentinel *errors.ClassifiedError, cause error) error {
	return errors.NewError(errors.CategoryEventStore, sentinel.Message()).
		WithCause(cause).
		Fatal().
		Build()
}
