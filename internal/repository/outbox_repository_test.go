package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaidashi/backoffice-api/internal/database"
	"github.com/vaidashi/backoffice-api/internal/models"
	"github.com/vaidashi/backoffice-api/internal/repository"
	"github.com/vaidashi/backoffice-api/pkg/logger"
)

func newMessage(t *testing.T, aggregateID string) *models.OutboxMessage {
	t.Helper()
	msg, err := models.NewEvent(models.AggregateOrder, aggregateID, models.EventOrderCreated, map[string]string{"id": aggregateID})
	require.NoError(t, err)
	return msg
}

// exercise runs the lifecycle every implementation must support
func exercise(t *testing.T, repo repository.OutboxRepository) {
	ctx := context.Background()

	first := newMessage(t, "ORDER-9001")
	second := newMessage(t, "ORDER-9002")
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	assert.NotZero(t, first.ID)
	assert.Greater(t, second.ID, first.ID)

	pending, err := repo.GetPendingMessages(ctx, 1)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, repo.MarkAsProcessing(ctx, first.ID))
	got, err := repo.GetMessage(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OutboxStatusProcessing, got.Status)
	assert.Equal(t, 1, got.ProcessingAttempts)

	require.NoError(t, repo.MarkAsRetry(ctx, first.ID, "broker down"))
	got, _ = repo.GetMessage(ctx, first.ID)
	assert.Equal(t, models.OutboxStatusPending, got.Status)
	require.NotNil(t, got.LastError)
	assert.Equal(t, "broker down", *got.LastError)

	require.NoError(t, repo.MarkAsCompleted(ctx, first.ID))
	got, _ = repo.GetMessage(ctx, first.ID)
	assert.Equal(t, models.OutboxStatusCompleted, got.Status)
	assert.NotNil(t, got.ProcessedAt)

	require.NoError(t, repo.MarkAsFailed(ctx, second.ID, "gave up"))
	got, _ = repo.GetMessage(ctx, second.ID)
	assert.Equal(t, models.OutboxStatusFailed, got.Status)

	_, err = repo.GetMessage(ctx, 1<<40)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMemoryOutboxRepository(t *testing.T) {
	t.Parallel()

	repo := repository.NewMemoryOutboxRepository()
	exercise(t, repo)

	pending, err := repo.GetPendingMessages(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.ErrorIs(t, repo.MarkAsCompleted(context.Background(), 404), repository.ErrNotFound)
}

func TestMemoryOutboxRepository_ReturnsCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := repository.NewMemoryOutboxRepository()
	msg := newMessage(t, "ORDER-0001")
	require.NoError(t, repo.Create(ctx, msg))

	pending, err := repo.GetPendingMessages(ctx, 10)
	require.NoError(t, err)
	pending[0].Status = models.OutboxStatusCompleted

	again, _ := repo.GetPendingMessages(ctx, 10)
	assert.Len(t, again, 1)
}

func TestPostgresOutboxRepository(t *testing.T) {
	dsn := os.Getenv("OUTBOX_TEST_DSN")
	if dsn == "" {
		t.Skip("OUTBOX_TEST_DSN not set")
	}

	log := logger.NewNopLogger()
	db, err := database.New(dsn, log)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.RunMigrations(ctx))
	_, err = db.DB.ExecContext(ctx, "DELETE FROM outbox_messages WHERE aggregate_id LIKE 'ORDER-90%'")
	require.NoError(t, err)

	exercise(t, repository.NewPostgresOutboxRepository(db, log))
}
