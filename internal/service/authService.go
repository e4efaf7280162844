package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"workspace-service/internal/model/user"
	"workspace-service/internal/repository/BlackListRepo"
	"workspace-service/internal/repository/refreshToken"
	"workspace-service/internal/repository/userRepo"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Сделал регулярку для проверки почты на валидность
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

const (
	refreshTokenExpireTime = 7 * 24 * time.Hour
	jwtTokenExpireTime     = 3 * time.Hour
)

type AuthService struct {
	userRepo      *userRepo.UserRepo
	jwtSecretKey  string
	refreshRepo   *refreshToken.RefreshTokenRepo
	blacklistRepo *BlackListRepo.BlackListRepo
}

func NewAuthService(userRepo *userRepo.UserRepo, jwtString string, tokenRepo *refreshToken.RefreshTokenRepo, blacklistrepo *BlackListRepo.BlackListRepo) *AuthService {
	return &AuthService{userRepo: userRepo, jwtSecretKey: jwtString, refreshRepo: tokenRepo, blacklistRepo: blacklistrepo}
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (uuid.UUID, error) {
	if username == "" || email == "" || password == "" {
		return uuid.Nil, fmt.Errorf("invalid format")
	}

	if !emailRegex.MatchString(email) {
		return uuid.Nil, fmt.Errorf("invalid email format")
	}

	if existingUser, err := s.userRepo.GetUserByEmail(ctx, email); err == nil && existingUser != nil {
		return uuid.Nil, fmt.Errorf("email already exists")
	}

	usersWithSameUsername, _ := s.userRepo.GetByUsername(ctx, username)
	if len(usersWithSameUsername) > 0 {
		return uuid.Nil, fmt.Errorf("username already taken")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepo.Create(ctx, username, email, string(hashedPassword))
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, string, error) {
	users, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil || users == nil {
		return "", "", errors.New("user not found")
	}

	var matchedUser *user.User
	for _, u := range users {
		if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err == nil {
			matchedUser = u
			break
		}
	}

	if matchedUser == nil {
		return "", "", errors.New("invalid credentials")
	}

	accessToken, err := s.generateJWT(matchedUser.ID)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	refresh, err := s.generateRefreshToken(ctx, matchedUser.ID)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return accessToken, refresh, nil
}

func (s *AuthService) generateJWT(userID uuid.UUID) (string, error) {
	payload := jwt.RegisteredClaims{
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(jwtTokenExpireTime)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	tokenStr, err := token.SignedString([]byte(s.jwtSecretKey))
	if err != nil {
		return "", err
	}
	return tokenStr, nil
}

func (s *AuthService) GetUIDByToken(ctx context.Context, token string) (uuid.UUID, bool) {
	blacklisted, err := s.blacklistRepo.IsTokenBlacklisted(ctx, token)
	if err != nil || blacklisted {
		return uuid.Nil, false
	}

	payload := &jwt.RegisteredClaims{}
	parsedToken, err := jwt.ParseWithClaims(token, payload, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecretKey), nil
	})

	if err != nil || !parsedToken.Valid {
		return uuid.Nil, false
	}

	uid, err := uuid.Parse(payload.Subject)
	if err != nil {
		return uuid.Nil, false
	}

	return uid, true
}

func (s *AuthService) generateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	token := uuid.NewString()
	err := s.refreshRepo.SaveToken(ctx, userID, token, refreshTokenExpireTime)
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, accessToken string) error {
	if err := s.refreshRepo.DeleteToken(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	payload := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(accessToken, payload, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecretKey), nil
	})
	if err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}
	if err := s.blacklistRepo.AddToken(ctx, accessToken, payload.ExpiresAt.Time); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	return nil
}

func (s *AuthService) RefreshToken(ctx context.Context, userID uuid.UUID, oldRefreshToken string) (string, string, error) {
	valid, err := s.refreshRepo.ValidateToken(ctx, userID, oldRefreshToken)
	if err != nil || !valid {
		return "", "", fmt.Errorf("expired refresh token")
	}

	newAccessToken, err := s.generateJWT(userID)
	if err != nil {
		return "", "", err
	}

	newRefreshToken, err := s.generateRefreshToken(ctx, userID)
	if err != nil {
		return "", "", err
	}

	return newAccessToken, newRefreshToken, nil
}

// для тестов
// ---------------------------------------
func (s *AuthService) GenerateJWT(userID uuid.UUID) (string, error) {
	return s.generateJWT(userID)
}

func (s *AuthService) BlacklistRepo() *BlackListRepo.BlackListRepo {
	return s.blacklistRepo
}

//---------------------------------------
