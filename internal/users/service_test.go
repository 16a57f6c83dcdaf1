package users

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	dbtypes "github.com/mvasseur/fripe-backend/pkg/db/types"
	pkgerrors "github.com/mvasseur/fripe-backend/pkg/errors"
)

type fakeUploader struct {
	calls []string
	err   error
}

func (f *fakeUploader) Upload(_ context.Context, _, publicID string) (*dbtypes.ImageDescriptor, error) {
	f.calls = append(f.calls, publicID)
	if f.err != nil {
		return nil, f.err
	}
	return &dbtypes.ImageDescriptor{
		PublicID:  publicID,
		SecureURL: "https://res.cloudinary.test/" + publicID + ".jpg",
		Format:    "jpg",
	}, nil
}

func newTestService(t *testing.T) (Service, *Repository, *fakeUploader) {
	t.Helper()
	repo := NewRepository(openTestDB(t))
	uploader := &fakeUploader{}
	svc, err := NewService(repo, uploader, "fripe", nil)
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}
	return svc, repo, uploader
}

func signupInput() SignupInput {
	return SignupInput{
		Email:    "marie@example.com",
		Username: "marie",
		Password: "s3cret",
	}
}

func TestSignupReturnsPublicProfileWithToken(t *testing.T) {
	svc, repo, _ := newTestService(t)

	profile, err := svc.Signup(context.Background(), signupInput())
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	if profile.ID == uuid.Nil {
		t.Fatal("expected a minted id")
	}
	if profile.Token == "" {
		t.Fatal("expected an opaque token")
	}
	if profile.Account.Username != "marie" {
		t.Fatalf("unexpected username %q", profile.Account.Username)
	}

	stored, err := repo.FindByEmail(context.Background(), "marie@example.com")
	if err != nil {
		t.Fatalf("stored user not found: %v", err)
	}
	if stored.Hash == "" || stored.Salt == "" {
		t.Fatal("expected hash and salt to be persisted")
	}
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.Signup(context.Background(), signupInput()); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}

	_, err := svc.Signup(context.Background(), signupInput())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if typed.Message() != "User already exists" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestSignupUploadsAvatarBeforePersisting(t *testing.T) {
	svc, repo, uploader := newTestService(t)

	input := signupInput()
	input.AvatarPath = "/tmp/avatar.jpg"

	profile, err := svc.Signup(context.Background(), input)
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	if len(uploader.calls) != 1 {
		t.Fatalf("expected one upload, got %d", len(uploader.calls))
	}
	expected := "fripe/users/" + profile.ID.String()
	if uploader.calls[0] != expected {
		t.Fatalf("expected public id %q, got %q", expected, uploader.calls[0])
	}

	stored, err := repo.FindByID(context.Background(), profile.ID)
	if err != nil {
		t.Fatalf("stored user not found: %v", err)
	}
	if stored.Account.Avatar == nil || stored.Account.Avatar.PublicID != expected {
		t.Fatalf("expected avatar descriptor persisted, got %+v", stored.Account.Avatar)
	}
}

func TestSignupFailedUploadPersistsNothing(t *testing.T) {
	svc, repo, uploader := newTestService(t)
	uploader.err = errors.New("cloudinary down")

	input := signupInput()
	input.AvatarPath = "/tmp/avatar.jpg"

	_, err := svc.Signup(context.Background(), input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}

	if _, err := repo.FindByEmail(context.Background(), "marie@example.com"); err == nil {
		t.Fatal("expected no user row after failed upload")
	}
}

func TestLoginReturnsProjectionWithoutSecrets(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.Signup(context.Background(), signupInput()); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	profile, err := svc.Login(context.Background(), LoginInput{Email: "marie@example.com", Password: "s3cret"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if profile.Token == "" {
		t.Fatal("expected token in login projection")
	}
	if profile.Email != "marie@example.com" {
		t.Fatalf("unexpected email %q", profile.Email)
	}
}

func TestLoginNormalizesEmailCase(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.Signup(context.Background(), signupInput()); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	if _, err := svc.Login(context.Background(), LoginInput{Email: "Marie@Example.COM", Password: "s3cret"}); err != nil {
		t.Fatalf("login with mixed-case email failed: %v", err)
	}
}

func TestLoginRejectsWrongPasswordAndUnknownEmailAlike(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.Signup(context.Background(), signupInput()); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	_, wrongPass := svc.Login(context.Background(), LoginInput{Email: "marie@example.com", Password: "nope"})
	_, unknown := svc.Login(context.Background(), LoginInput{Email: "ghost@example.com", Password: "nope"})

	for _, err := range []error{wrongPass, unknown} {
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
			t.Fatalf("expected unauthorized, got %v", err)
		}
	}
	if wrongPass.Error() == "" || wrongPass.Error() != unknown.Error() {
		t.Fatal("expected identical errors for wrong password and unknown email")
	}
}

func TestAuthenticateByToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	profile, err := svc.Signup(context.Background(), signupInput())
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	user, err := svc.Authenticate(context.Background(), profile.Token)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if user.ID != profile.ID {
		t.Fatalf("expected user %s, got %s", profile.ID, user.ID)
	}

	_, err = svc.Authenticate(context.Background(), "bogus")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for unknown token, got %v", err)
	}
}
