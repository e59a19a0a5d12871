package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Shadojus/amorph/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/surrealdb/surrealdb.go"
)

func TestQueryError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"duplicate", &surrealdb.QueryError{Message: "Database record `species:x` already exists"}, ErrAlreadyExists},
		{"conflict", &surrealdb.QueryError{Message: "Transaction conflict: resource busy"}, ErrTransactionConflict},
		{"schema", &surrealdb.QueryError{Message: "Couldn't coerce value for field `name`"}, ErrInvalidRecord},
		{"wrapped", fmt.Errorf("query: %w", &surrealdb.QueryError{Message: "Transaction conflict"}), ErrTransactionConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := queryError("upsert species", tt.err)
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "upsert species: ")
		})
	}

	plain := errors.New("connection reset")
	err := queryError("get species", plain)
	assert.ErrorIs(t, err, plain)
	assert.NotErrorIs(t, err, ErrTransactionConflict)
	assert.NoError(t, queryError("noop", nil))
	assert.ErrorIs(t, ErrNotFound, models.ErrNotFound)
}

func TestRetryConflicts(t *testing.T) {
	conflict := fmt.Errorf("upsert species: %w", ErrTransactionConflict)

	calls := 0
	err := retryConflicts(context.Background(), func() error {
		calls++
		if calls < 2 {
			return conflict
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)

	calls = 0
	err = retryConflicts(context.Background(), func() error {
		calls++
		return conflict
	})
	assert.ErrorIs(t, err, ErrTransactionConflict)
	assert.Equal(t, writeAttempts, calls)

	calls = 0
	other := errors.New("boom")
	err = retryConflicts(context.Background(), func() error {
		calls++
		return other
	})
	assert.ErrorIs(t, err, other)
	assert.Equal(t, 1, calls, "only conflicts are retried")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = retryConflicts(ctx, func() error { return conflict })
	assert.ErrorIs(t, err, context.Canceled)
}
