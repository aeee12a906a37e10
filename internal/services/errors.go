package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound marks per-item resolution failures: the item is dropped
	// from the batch but the run continues.
	ErrNotFound = errors.New("not found")
	// ErrTransient marks failures worth retrying, such as delivery timeouts.
	ErrTransient = errors.New("transient failure")
	// ErrPermanent marks failures that must not be retried.
	ErrPermanent = errors.New("permanent failure")
	// ErrExternalTool marks subprocess failures (converter exit status,
	// missing output file). Fatal for the run.
	ErrExternalTool = errors.New("external tool error")
	// ErrValidation marks malformed inputs or documents.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks unusable configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrLedger marks dedup ledger storage failures. Fatal for the run;
	// no item may be claimed once the ledger is unreachable.
	ErrLedger = errors.New("ledger unavailable")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsItemFailure reports whether an error should drop a single item from the
// batch rather than abort the run.
func IsItemFailure(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRetryable reports whether an external call may be attempted again.
// Permanent failures always win over transient markers.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrPermanent) {
		return false
	}
	return errors.Is(err, ErrTransient)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
