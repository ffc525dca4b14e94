package navigator

import (
	"context"
	"testing"
	"time"

	"recruitment-portal/internal/common/database"
	"recruitment-portal/internal/common/errors"
	"recruitment-portal/internal/common/logger"
	"recruitment-portal/internal/form/rules"
	"recruitment-portal/internal/form/session"
	"recruitment-portal/internal/form/validator"
	"recruitment-portal/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNavigator(t *testing.T) (*Navigator, *session.Store) {
	mr := miniredis.RunT(t)
	client := &database.RedisClient{
		Client: redis.NewClient(&redis.Options{Addr: mr.Addr()}),
	}
	table := rules.Default()
	log := logger.NewTestLogger(t)
	store := session.NewStore(client, table, time.Hour, log)
	return New(store, validator.New(table, log), table, log), store
}

func TestNavigator_NextBlockedUntilStepPasses(t *testing.T) {
	nav, store := newTestNavigator(t)
	ctx := context.Background()

	rec, err := store.Create(ctx)
	require.NoError(t, err)

	// Step 0 requires the instructions acknowledgement: the block is a
	// gate, not a field error.
	rec, result, err := nav.Next(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Gate)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 0, rec.CurrentStep)

	yes := true
	_, err = store.SetAcknowledgements(ctx, rec.ID, models.AcknowledgementsUpdate{InstructionsRead: &yes})
	require.NoError(t, err)

	rec, result, err = nav.Next(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, 1, rec.CurrentStep)
}

func TestNavigator_BackNeverValidates(t *testing.T) {
	nav, store := newTestNavigator(t)
	ctx := context.Background()

	rec, err := store.Create(ctx)
	require.NoError(t, err)

	yes := true
	_, err = store.SetAcknowledgements(ctx, rec.ID, models.AcknowledgementsUpdate{InstructionsRead: &yes})
	require.NoError(t, err)
	rec, _, err = nav.Next(ctx, rec.ID)
	require.NoError(t, err)
	require.Equal(t, 1, rec.CurrentStep)

	// Step 1 is nowhere near filled in, going back is still allowed.
	rec, err = nav.Back(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, rec.CurrentStep)

	// Back at the first step is a no-op, not an error.
	rec, err = nav.Back(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, rec.CurrentStep)
}

func TestNavigator_MissingDraft(t *testing.T) {
	nav, _ := newTestNavigator(t)
	ctx := context.Background()

	_, _, err := nav.Next(ctx, "no-such-draft")
	require.Error(t, err)
	se, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeApplicationNotFound, se.Code)

	_, err = nav.Back(ctx, "no-such-draft")
	assert.Error(t, err)
}

func TestNavigator_SubmittedDraftRefusesNavigation(t *testing.T) {
	nav, store := newTestNavigator(t)
	ctx := context.Background()

	rec, err := store.Create(ctx)
	require.NoError(t, err)

	now := time.Now().UTC()
	rec.Status = models.StatusSubmitted
	rec.SubmittedAt = &now
	require.NoError(t, store.Save(ctx, rec))

	_, _, err = nav.Next(ctx, rec.ID)
	se, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeApplicationSubmitted, se.Code)

	_, err = nav.Back(ctx, rec.ID)
	assert.Error(t, err)
}
