package controllers

import (
	"net/http"

	"github.com/mvasseur/fripe-backend/api/responses"
	"github.com/mvasseur/fripe-backend/api/validators"
	"github.com/mvasseur/fripe-backend/internal/users"
	pkgerrors "github.com/mvasseur/fripe-backend/pkg/errors"
	"github.com/mvasseur/fripe-backend/pkg/logger"
)

// UserSignup handles account creation, with an optional profile picture.
func UserSignup(svc users.Service, maxUploadBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		if err := validators.ParseForm(r, maxUploadBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		avatarPath, cleanup, err := validators.SaveFormFile(r, "picture")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer cleanup()

		input := users.SignupInput{
			Email:      r.FormValue("email"),
			Username:   r.FormValue("username"),
			Password:   r.FormValue("password"),
			AvatarPath: avatarPath,
		}
		if phone := r.FormValue("phone"); phone != "" {
			input.Phone = &phone
		}
		if err := validators.ValidateStruct(&input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Signup(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, profile)
	}
}

// UserLogin verifies credentials and returns the public projection.
func UserLogin(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		if err := validators.ParseForm(r, 0); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := users.LoginInput{
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
		}
		if err := validators.ValidateStruct(&input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Login(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"message":      "You can login",
			"searchedUser": profile,
		})
	}
}
