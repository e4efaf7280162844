package service_test

import (
	"context"
	"testing"
	"time"

	"workspace-service/internal/repository/BlackListRepo"
	"workspace-service/internal/repository/refreshToken"
	"workspace-service/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func setupAuthService(t *testing.T) *service.AuthService {
	// стартуем miniredis
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(mr.Close)
	// клиент go-redis
	cli := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	// репозитории
	refRepo := refreshToken.New(cli)
	blRepo := BlackListRepo.NewBlackListRepo(cli)
	// userRepo для этих тестов не нужен, методы с ним не вызываем
	return service.NewAuthService(nil, "test-jwt-secret", refRepo, blRepo)
}

func TestGenerateJWT_And_GetUIDByToken(t *testing.T) {
	s := setupAuthService(t)

	userID := uuid.New()
	tokenStr, err := s.GenerateJWT(userID)
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenStr)

	// распарсим и убедимся, что вернулся наш UID
	uid, valid := s.GetUIDByToken(context.Background(), tokenStr)
	assert.True(t, valid)
	assert.Equal(t, userID, uid)
}

func TestGetUIDByToken_InvalidAndExpired(t *testing.T) {
	s := setupAuthService(t)

	// 1) совсем не токен
	_, valid := s.GetUIDByToken(context.Background(), "not-a-token")
	assert.False(t, valid)

	// 2) токен с правильной подписью, но сразу истёк
	now := time.Now().Add(-time.Hour)
	claims := &jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now.Add(-time.Hour)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	expired, err := tok.SignedString([]byte("test-jwt-secret"))
	assert.NoError(t, err)

	uid, valid2 := s.GetUIDByToken(context.Background(), expired)
	assert.False(t, valid2)
	assert.Equal(t, uuid.Nil, uid)
}

func TestGetUIDByToken_Blacklisted(t *testing.T) {
	s := setupAuthService(t)
	ctx := context.Background()

	claims := &jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ts, err := tok.SignedString([]byte("test-jwt-secret"))
	assert.NoError(t, err)

	// заносим в чёрный список
	err = s.BlacklistRepo().AddToken(ctx, ts, claims.ExpiresAt.Time)
	assert.NoError(t, err)

	uid, valid := s.GetUIDByToken(ctx, ts)
	assert.False(t, valid)
	assert.Equal(t, uuid.Nil, uid)
}

func TestRefreshToken_Expired(t *testing.T) {
	s := setupAuthService(t)

	// нет сохранённого токена → ValidateToken вернёт false → RefreshToken error
	_, _, err := s.RefreshToken(context.Background(), uuid.New(), "some-random")
	assert.Error(t, err)
}

func TestLogout_BlacklistsAccessToken(t *testing.T) {
	s := setupAuthService(t)
	ctx := context.Background()

	userID := uuid.New()
	ts, err := s.GenerateJWT(userID)
	assert.NoError(t, err)

	err = s.Logout(ctx, userID, ts)
	assert.NoError(t, err)

	// теперь токен должен быть в blacklist
	blacklisted, err := s.BlacklistRepo().IsTokenBlacklisted(ctx, ts)
	assert.NoError(t, err)
	assert.True(t, blacklisted)
}
