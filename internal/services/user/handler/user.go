package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"

	"sunatstock/internal/api"
	"sunatstock/internal/database/models"
	sysutils "sunatstock/internal/utils"
)

var ErrUsernameTaken = errors.New("username already exists")

// --- Handler ---
type UserHandler struct {
	db       *gorm.DB
	log      zerolog.Logger
	validate *validator.Validate
}

func NewUserHandler(db *gorm.DB, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		db:       db,
		log:      logger,
		validate: validator.New(),
	}
}

// --- Conversion Helpers ---
func userToAPI(user models.User) api.User {
	return api.User{
		ID:        user.ID,
		Username:  user.Username,
		FullName:  user.FullName,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// --- Authentication ---

// Login checks the password by plain comparison and returns a token on a
// match. Unknown users and wrong passwords both yield (nil, nil).
func (s *UserHandler) Login(ctx context.Context, req api.LoginRequest) (*api.LoginResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, status.Error(codes.InvalidArgument, "username and password are required")
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn().Str("username", req.Username).Msg("login failed: unknown user")
			return nil, nil
		}
		s.log.Error().Err(err).Msg("login lookup failed")
		return nil, status.Errorf(codes.Internal, "database error: %v", err)
	}

	if user.PasswordHash != req.Password {
		s.log.Warn().Str("username", req.Username).Msg("login failed: wrong password")
		return nil, nil
	}

	token, _, err := sysutils.GenerateToken(user.ID, user.Username, sysutils.TokenTTL)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "error generating token: %v", err)
	}

	s.log.Info().Int64("user_id", user.ID).Msg("login successful")
	return &api.LoginResult{
		User:  userToAPI(user),
		Token: token,
	}, nil
}

// --- Registration ---

// CreateUser seeds a staff account. The password is stored as given.
func (s *UserHandler) CreateUser(ctx context.Context, username, password, fullName string) (*api.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" || strings.TrimSpace(fullName) == "" {
		return nil, errors.New("username, password and full name are required")
	}

	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrUsernameTaken
		}

		user = models.User{
			Username:     username,
			PasswordHash: password,
			FullName:     strings.TrimSpace(fullName),
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user created")
	out := userToAPI(user)
	return &out, nil
}
