package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mvasseur/fripe-backend/pkg/db/models"
	dbtypes "github.com/mvasseur/fripe-backend/pkg/db/types"
	pkgerrors "github.com/mvasseur/fripe-backend/pkg/errors"
	"github.com/mvasseur/fripe-backend/pkg/logger"
	"github.com/mvasseur/fripe-backend/pkg/security"
)

// Uploader pushes a local file to the media host under a stable public id.
type Uploader interface {
	Upload(ctx context.Context, localPath, publicID string) (*dbtypes.ImageDescriptor, error)
}

// Service exposes account operations.
type Service interface {
	Signup(ctx context.Context, input SignupInput) (*PublicProfile, error)
	Login(ctx context.Context, input LoginInput) (*PublicProfile, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type service struct {
	repo        *Repository
	uploader    Uploader
	mediaFolder string
	logg        *logger.Logger
}

// NewService constructs the account service.
func NewService(repo *Repository, uploader Uploader, mediaFolder string, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if uploader == nil {
		return nil, fmt.Errorf("uploader required")
	}
	if mediaFolder == "" {
		mediaFolder = "fripe"
	}
	return &service{
		repo:        repo,
		uploader:    uploader,
		mediaFolder: mediaFolder,
		logg:        logg,
	}, nil
}

// Signup creates a new account. The avatar, when provided, is uploaded
// before the row is persisted so a failed upload leaves no orphan account.
func (s *service) Signup(ctx context.Context, input SignupInput) (*PublicProfile, error) {
	email := normalizeEmail(input.Email)

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "User already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup email")
	}

	creds, err := security.Register(input.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid password")
	}

	user := &models.User{
		ID:    uuid.New(),
		Email: email,
		Account: models.Account{
			Username: input.Username,
			Phone:    input.Phone,
		},
		Token: creds.Token,
		Hash:  creds.Hash,
		Salt:  creds.Salt,
	}

	if input.AvatarPath != "" {
		publicID := fmt.Sprintf("%s/users/%s", s.mediaFolder, user.ID)
		avatar, uploadErr := s.uploader.Upload(ctx, input.AvatarPath, publicID)
		if uploadErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, uploadErr, "upload avatar")
		}
		user.Account.Avatar = avatar
	}

	if _, err := s.repo.Create(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "user.signup")
	}

	return FromModel(user), nil
}

// Login verifies the password and returns the public projection. Unknown
// emails and wrong passwords produce the same unauthorized error.
func (s *service) Login(ctx context.Context, input LoginInput) (*PublicProfile, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup email")
	}

	if !security.Verify(input.Password, user.Salt, user.Hash) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized")
	}

	return FromModel(user), nil
}

// Authenticate resolves an opaque bearer token by exact match.
func (s *service) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized")
	}
	user, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup token")
	}
	return user, nil
}

// GetByID loads an account by primary key.
func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "User not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
