package refreshToken_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"workspace-service/internal/repository/refreshToken"
)

func TestRefreshTokenRepo(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	repo := refreshToken.New(db)

	userID := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	key := "refresh:" + userID.String()

	t.Run("SaveToken", func(t *testing.T) {
		mock.ExpectSet(key, "token123", 7*24*time.Hour).SetVal("OK")
		err := repo.SaveToken(ctx, userID, "token123", 7*24*time.Hour)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ValidateToken (match)", func(t *testing.T) {
		mock.ExpectGet(key).SetVal("token123")
		valid, err := repo.ValidateToken(ctx, userID, "token123")
		assert.NoError(t, err)
		assert.True(t, valid)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ValidateToken (mismatch)", func(t *testing.T) {
		mock.ExpectGet(key).SetVal("token123")
		valid, err := repo.ValidateToken(ctx, userID, "other")
		assert.NoError(t, err)
		assert.False(t, valid)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DeleteToken", func(t *testing.T) {
		mock.ExpectDel(key).SetVal(1)
		err := repo.DeleteToken(ctx, userID)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
