package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/complyhq/complybot/internal/config"
	"github.com/complyhq/complybot/internal/models"
	"github.com/complyhq/complybot/internal/repo/mongodb"
)

// AuthUsecase is the identity gateway: sign-up, sign-in, sign-out and
// current-user resolution from a bearer token. Identity errors propagate to
// the caller with their original message; there is no retry policy.
type AuthUsecase interface {
	SignUp(ctx context.Context, req models.SignUpRequest, userAgent, ipAddress string) (*models.AuthResponse, error)
	SignIn(ctx context.Context, req models.SignInRequest, userAgent, ipAddress string) (*models.AuthResponse, error)
	SignOut(ctx context.Context, tokenString string) error
	ValidateToken(ctx context.Context, tokenString string) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) (*models.UserProfile, error)
}

type authUsecase struct {
	profileRepo mongodb.ProfileRepository
	tokenRepo   mongodb.AuthTokenRepository
	jwtSecret   []byte
	tokenTTL    time.Duration
}

func NewAuthUsecase(cfg *config.Config, profileRepo mongodb.ProfileRepository, tokenRepo mongodb.AuthTokenRepository) AuthUsecase {
	return &authUsecase{
		profileRepo: profileRepo,
		tokenRepo:   tokenRepo,
		jwtSecret:   []byte(cfg.Auth.JWTSecret),
		tokenTTL:    cfg.Auth.TokenTTL,
	}
}

func (uc *authUsecase) SignUp(ctx context.Context, req models.SignUpRequest, userAgent, ipAddress string) (*models.AuthResponse, error) {
	if _, err := uc.profileRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, models.ErrEmailTaken
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("check existing profile: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	profile := &models.UserProfile{
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := uc.profileRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	return uc.issueToken(ctx, profile, userAgent, ipAddress)
}

func (uc *authUsecase) SignIn(ctx context.Context, req models.SignInRequest, userAgent, ipAddress string) (*models.AuthResponse, error) {
	profile, err := uc.profileRepo.GetByEmail(ctx, req.Email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("get profile by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	return uc.issueToken(ctx, profile, userAgent, ipAddress)
}

func (uc *authUsecase) SignOut(ctx context.Context, tokenString string) error {
	return uc.tokenRepo.Revoke(ctx, hashToken(tokenString))
}

func (uc *authUsecase) ValidateToken(ctx context.Context, tokenString string) (*models.UserProfile, error) {
	claims, err := uc.parseJWT(tokenString)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	stored, err := uc.tokenRepo.GetByTokenHash(ctx, hashToken(tokenString))
	if err != nil {
		return nil, fmt.Errorf("token not found: %w", err)
	}
	if stored.IsRevoked {
		return nil, errors.New("token has been revoked")
	}
	if stored.ExpiresAt.Before(time.Now()) {
		return nil, errors.New("token has expired")
	}

	profile, err := uc.profileRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return profile, nil
}

// UpdateProfile merges the supplied fields into the caller's own profile.
// The onboarding flag is owned by the onboarding engine and cannot be set
// through this path.
func (uc *authUsecase) UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) (*models.UserProfile, error) {
	update.HasCompletedOnboarding = nil
	if err := uc.profileRepo.Merge(ctx, userID, update); err != nil {
		return nil, err
	}
	return uc.profileRepo.GetByID(ctx, userID)
}

type jwtClaims struct {
	models.JWTClaims
	jwt.RegisteredClaims
}

func (uc *authUsecase) issueToken(ctx context.Context, profile *models.UserProfile, userAgent, ipAddress string) (*models.AuthResponse, error) {
	expiresAt := time.Now().Add(uc.tokenTTL)
	claims := jwtClaims{
		JWTClaims: models.JWTClaims{
			UserID: profile.ID.Hex(),
			Email:  profile.Email,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(uc.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	authToken := &models.AuthToken{
		UserID:    profile.ID,
		TokenHash: hashToken(tokenString),
		ExpiresAt: expiresAt,
		UserAgent: userAgent,
		IPAddress: ipAddress,
	}
	if err := uc.tokenRepo.Create(ctx, authToken); err != nil {
		return nil, fmt.Errorf("store auth token: %w", err)
	}

	user := *profile
	user.PasswordHash = ""
	return &models.AuthResponse{
		Token:     tokenString,
		User:      user,
		ExpiresAt: expiresAt,
	}, nil
}

func (uc *authUsecase) parseJWT(tokenString string) (*jwtClaims, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return uc.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}
	return claims, nil
}

func hashToken(tokenString string) string {
	sum := sha256.Sum256([]byte(tokenString))
	return hex.EncodeToString(sum[:])
}
