package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/travel-tracker/internal/domain/entities"
	"github.com/ersonp/travel-tracker/internal/domain/mocks"
)

func TestMigrationService_Run(t *testing.T) {
	statements := []entities.Statement{
		{SQL: "CREATE TABLE countries (id SERIAL PRIMARY KEY)", Line: 1},
		{SQL: "CREATE TABLE countries (id SERIAL PRIMARY KEY)", Line: 3},
		{SQL: "INSERT INTO countries (id) VALUES (1)", Line: 5},
	}

	t.Run("continues past failures", func(t *testing.T) {
		db := mocks.NewRelationalDB()
		failing := entities.Statement{SQL: "DROP TABLE missing", Line: 2}
		db.ExecErrs[failing.SQL] = errors.New(`table "missing" does not exist`)

		var logs bytes.Buffer
		svc := NewMigrationService(db, slog.New(slog.NewTextHandler(&logs, nil)))

		result, err := svc.Run(context.Background(), []entities.Statement{statements[0], failing, statements[2]})
		require.NoError(t, err)

		assert.Equal(t, 2, result.Executed)
		assert.Equal(t, 1, result.Failed)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, 2, result.Errors[0].Line)
		assert.Len(t, db.Executed, 3)
		assert.Contains(t, logs.String(), "statement failed, continuing")
		assert.Contains(t, logs.String(), "DROP TABLE missing")
	})

	t.Run("empty script", func(t *testing.T) {
		db := mocks.NewRelationalDB()
		svc := NewMigrationService(db, nil)

		result, err := svc.Run(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, 0, result.Total())
	})

	t.Run("stops on cancellation", func(t *testing.T) {
		db := mocks.NewRelationalDB()
		svc := NewMigrationService(db, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := svc.Run(ctx, statements)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, result.Total())
		assert.Empty(t, db.Executed)
	})
}
