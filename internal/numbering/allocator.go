// Package numbering allocates invoice numbers: a configurable prefix
// followed by a zero-padded sequence. Numbers are monotonically
// increasing per prefix and never reused, even when the invoice that
// carried one is later deleted.
package numbering

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// SequenceWidth is the fixed zero-padded width of the numeric suffix.
const SequenceWidth = 6

// DefaultMaxAttempts bounds the reserve retry loop under concurrent
// allocation.
const DefaultMaxAttempts = 5

var (
	// ErrSequenceConflict is returned by a SequenceStore when another
	// writer reserved the same number first. Callers retry.
	ErrSequenceConflict = errors.New("invoice number already reserved")

	// ErrAllocationExhausted is returned when the retry budget runs out.
	ErrAllocationExhausted = errors.New("invoice number allocation exhausted retries")
)

// SequenceStore is the persistence collaborator. LastNumber returns the
// most recently reserved number under the prefix, or "" when none exists.
// Reserve must be atomic: it fails with ErrSequenceConflict when the
// number was already taken.
type SequenceStore interface {
	LastNumber(ctx context.Context, prefix string) (string, error)
	Reserve(ctx context.Context, number string) error
}

// Allocator produces the next invoice number in sequence.
type Allocator struct {
	store       SequenceStore
	logger      *logrus.Logger
	maxAttempts int
}

// NewAllocator creates an allocator backed by the given store.
func NewAllocator(store SequenceStore, logger *logrus.Logger) *Allocator {
	if logger == nil {
		logger = logrus.New()
	}
	return &Allocator{
		store:       store,
		logger:      logger,
		maxAttempts: DefaultMaxAttempts,
	}
}

// NextNumber derives the successor of the last issued number under the
// prefix. An empty last number starts the sequence at 1. A last number
// whose suffix does not parse under the active prefix (the prefix was
// changed after numbers were issued) restarts the sequence at 1; this is
// a deliberate recovery policy and is logged as a warning, not treated
// as corruption.
func NextNumber(prefix, last string, logger *logrus.Logger) string {
	next := 1

	if last != "" {
		suffix, ok := strings.CutPrefix(last, prefix)
		if ok {
			if n, err := strconv.Atoi(suffix); err == nil && n >= 0 {
				next = n + 1
				ok = true
			} else {
				ok = false
			}
		}
		if !ok && logger != nil {
			logger.WithFields(logrus.Fields{
				"prefix":      prefix,
				"last_number": last,
			}).Warn("Last invoice number does not match active prefix, restarting sequence at 1")
		}
	}

	return fmt.Sprintf("%s%0*d", prefix, SequenceWidth, next)
}

// Next computes the next number without reserving it. Useful for
// previewing the number an invoice will receive.
func (a *Allocator) Next(ctx context.Context, prefix string) (string, error) {
	last, err := a.store.LastNumber(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to read last invoice number: %w", err)
	}
	return NextNumber(prefix, last, a.logger), nil
}

// Allocate reserves and returns the next number under the prefix. The
// read-last/compute/reserve sequence is retried when a concurrent writer
// wins the race for the same number, so no two invoices ever share one.
func (a *Allocator) Allocate(ctx context.Context, prefix string) (string, error) {
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		number, err := a.Next(ctx, prefix)
		if err != nil {
			return "", err
		}

		err = a.store.Reserve(ctx, number)
		if err == nil {
			return number, nil
		}
		if !errors.Is(err, ErrSequenceConflict) {
			return "", fmt.Errorf("failed to reserve invoice number %s: %w", number, err)
		}

		a.logger.WithFields(logrus.Fields{
			"number":  number,
			"attempt": attempt,
		}).Debug("Invoice number reservation conflict, retrying")
	}

	return "", ErrAllocationExhausted
}
