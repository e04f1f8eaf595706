package implementation

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/cridiv/Aedar/internal/model"
	"github.com/cridiv/Aedar/pkg/calendar"
	"github.com/cridiv/Aedar/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarCredentialRepositoryUpsert(t *testing.T) {
	dsn := os.Getenv("TEST_DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("TEST_DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, false)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.CalendarCredential{}))

	ctx := context.Background()
	repo := NewCalendarCredentialRepository(db)
	userID := uuid.NewString()
	t.Cleanup(func() { _ = repo.Delete(ctx, userID) })

	_, err = repo.Get(ctx, userID)
	assert.ErrorIs(t, err, calendar.ErrCredentialNotFound)

	first := calendar.Credential{AccessToken: "first", RefreshToken: "rt"}
	require.NoError(t, repo.Set(ctx, userID, first))

	second := calendar.Credential{AccessToken: "second", Expiry: time.Now().Add(time.Hour).UTC().Truncate(time.Second)}
	require.NoError(t, repo.Set(ctx, userID, second))

	got, err := repo.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "second", got.AccessToken)
	assert.Empty(t, got.RefreshToken)
	assert.True(t, second.Expiry.Equal(got.Expiry))
}
