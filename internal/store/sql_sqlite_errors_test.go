package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

func sqliteError(code sqlite3.ErrNo, extended sqlite3.ErrNoExtended) error {
	return sqlite3.Error{Code: code, ExtendedCode: extended}
}

func TestSQLiteErrorClassifier_Classify(t *testing.T) {
	classifier := NewSQLiteErrorClassifier()

	tests := []struct {
		name string
		err  error
		want ErrorClassification
	}{
		{name: "nil error", err: nil, want: NonRetryable},
		{name: "plain error", err: errors.New("boom"), want: NonRetryable},
		{name: "busy is retryable", err: sqliteError(sqlite3.ErrBusy, 0), want: Retryable},
		{name: "locked is retryable", err: sqliteError(sqlite3.ErrLocked, 0), want: Retryable},
		{name: "constraint is not retryable", err: sqliteError(sqlite3.ErrConstraint, sqlite3.ErrConstraintUnique), want: NonRetryable},
		{name: "io error is not retryable", err: sqliteError(sqlite3.ErrIoErr, 0), want: NonRetryable},
		{name: "wrapped busy error is unwrapped", err: fmt.Errorf("exec: %w", sqliteError(sqlite3.ErrBusy, 0)), want: Retryable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifier.Classify(tt.err))
		})
	}
}

func TestSQLiteErrorClassifier_IsUniqueViolation(t *testing.T) {
	classifier := NewSQLiteErrorClassifier()

	assert.True(t, classifier.IsUniqueViolation(sqliteError(sqlite3.ErrConstraint, sqlite3.ErrConstraintUnique)))
	assert.True(t, classifier.IsUniqueViolation(sqliteError(sqlite3.ErrConstraint, sqlite3.ErrConstraintPrimaryKey)))
	assert.True(t, classifier.IsUniqueViolation(fmt.Errorf("insert: %w", sqliteError(sqlite3.ErrConstraint, sqlite3.ErrConstraintUnique))))
	assert.False(t, classifier.IsUniqueViolation(sqliteError(sqlite3.ErrConstraint, sqlite3.ErrConstraintForeignKey)))
	assert.False(t, classifier.IsUniqueViolation(errors.New("boom")))
	assert.False(t, classifier.IsUniqueViolation(nil))
}
