package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Shadojus/amorph/internal/models"
	"github.com/surrealdb/surrealdb.go"
)

var (
	// ErrAlreadyExists is returned when a species record id is already taken.
	ErrAlreadyExists = errors.New("species already exists")

	// ErrTransactionConflict is returned when SurrealDB aborts a write
	// because of a concurrent transaction. Such writes can be retried.
	ErrTransactionConflict = errors.New("transaction conflict")

	// ErrInvalidRecord is returned when a species row violates the table
	// schema, for example a field value of the wrong type.
	ErrInvalidRecord = errors.New("invalid species record")

	// ErrNotFound is models.ErrNotFound, so the memory catalog and the
	// database report missing species alike.
	ErrNotFound = models.ErrNotFound
)

// queryFailures maps fragments of SurrealDB query error messages onto the
// sentinels above. The first match wins.
var queryFailures = []struct {
	fragment string
	err      error
}{
	{"already exists", ErrAlreadyExists},
	{"already contains", ErrAlreadyExists},
	{"Transaction conflict", ErrTransactionConflict},
	{"Couldn't coerce", ErrInvalidRecord},
}

// queryError wraps a failed statement for op. SurrealDB query errors with a
// known message carry the matching sentinel; everything else keeps its own
// chain.
func queryError(op string, err error) error {
	if err == nil {
		return nil
	}
	var qe *surrealdb.QueryError
	if errors.As(err, &qe) {
		for _, f := range queryFailures {
			if strings.Contains(qe.Message, f.fragment) {
				return fmt.Errorf("%s: %w: %s", op, f.err, qe.Message)
			}
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Write retry policy for transaction conflicts.
const (
	writeAttempts = 3
	writeBackoff  = 50 * time.Millisecond
)

// retryConflicts runs fn until it succeeds, fails with anything other than
// ErrTransactionConflict, or writeAttempts is reached. The wait doubles
// after every conflict.
func retryConflicts(ctx context.Context, fn func() error) error {
	wait := writeBackoff
	var err error
	for attempt := 1; attempt <= writeAttempts; attempt++ {
		if err = fn(); err == nil || !errors.Is(err, ErrTransactionConflict) {
			return err
		}
		if attempt == writeAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
	return err
}
