package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/docchat/docchat-be/repository"
	"github.com/docchat/docchat-be/types"
	"github.com/docchat/docchat-be/utils"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const resetTokenTTL = time.Hour

type AuthService interface {
	Register(ctx context.Context, req types.RegisterRequest) error
	Login(ctx context.Context, req types.LoginRequest) (*types.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*types.TokenResponse, error)
	GetUser(ctx context.Context, userID string) (*types.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type authService struct {
	users  repository.UserRepo
	tokens *utils.TokenManager
	mailer Mailer
}

func NewAuthService(users repository.UserRepo, tokens *utils.TokenManager, mailer Mailer) AuthService {
	return &authService{
		users:  users,
		tokens: tokens,
		mailer: mailer,
	}
}

func (s *authService) Register(ctx context.Context, req types.RegisterRequest) error {
	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return types.NewAppError(types.KindBadRequest, "email already registered", nil)
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return types.NewAppError(types.KindStorageFailure, "failed to check existing account", err)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return types.NewAppError(types.KindProcessingFailure, "failed to hash password", err)
	}

	now := time.Now().Unix()
	user := &types.User{
		ID:       bson.NewObjectID().Hex(),
		Email:    req.Email,
		Password: hash,
		FullName: req.FullName,
		CreateAt: now,
		UpdateAt: now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return types.NewAppError(types.KindStorageFailure, "failed to create account", err)
	}
	return nil
}

func (s *authService) Login(ctx context.Context, req types.LoginRequest) (*types.TokenResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, types.ErrInvalidCredentials
		}
		return nil, types.NewAppError(types.KindStorageFailure, "failed to load account", err)
	}
	if !utils.CheckPassword(user.Password, req.Password) {
		return nil, types.ErrInvalidCredentials
	}
	return s.issueTokens(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	userID, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, types.ErrInvalidCredentials
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, types.ErrInvalidCredentials
		}
		return nil, types.NewAppError(types.KindStorageFailure, "failed to load account", err)
	}
	return s.issueTokens(user)
}

func (s *authService) GetUser(ctx context.Context, userID string) (*types.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, types.NewAppError(types.KindNotFound, "account not found", err)
		}
		return nil, types.NewAppError(types.KindStorageFailure, "failed to load account", err)
	}
	return user, nil
}

// RequestPasswordReset succeeds whether or not the email is registered so the
// endpoint cannot be used to probe for accounts.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil
		}
		return types.NewAppError(types.KindStorageFailure, "failed to load account", err)
	}

	user.ResetToken = uuid.NewString()
	user.ResetExpiresAt = time.Now().Add(resetTokenTTL).Unix()
	user.UpdateAt = time.Now().Unix()
	if err := s.users.Update(ctx, user); err != nil {
		return types.NewAppError(types.KindStorageFailure, "failed to store reset token", err)
	}

	body := fmt.Sprintf("Use this token to reset your password: %s\nIt expires in one hour.", user.ResetToken)
	if err := s.mailer.Send(user.Email, "Password reset", body); err != nil {
		slog.Error("failed to send reset mail", "email", user.Email, "err", err)
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.users.FindByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.NewAppError(types.KindBadRequest, "invalid or expired reset token", err)
		}
		return types.NewAppError(types.KindStorageFailure, "failed to load account", err)
	}
	if user.ResetExpiresAt < time.Now().Unix() {
		return types.NewAppError(types.KindBadRequest, "invalid or expired reset token", nil)
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return types.NewAppError(types.KindProcessingFailure, "failed to hash password", err)
	}
	user.Password = hash
	user.ResetToken = ""
	user.ResetExpiresAt = 0
	user.UpdateAt = time.Now().Unix()
	if err := s.users.Update(ctx, user); err != nil {
		return types.NewAppError(types.KindStorageFailure, "failed to update password", err)
	}
	return nil
}

func (s *authService) issueTokens(user *types.User) (*types.TokenResponse, error) {
	access, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, types.NewAppError(types.KindProcessingFailure, "failed to sign access token", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(user)
	if err != nil {
		return nil, types.NewAppError(types.KindProcessingFailure, "failed to sign refresh token", err)
	}
	return &types.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}
