package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mvasseur/fripe-backend/api/middleware"
	"github.com/mvasseur/fripe-backend/api/responses"
	"github.com/mvasseur/fripe-backend/api/validators"
	"github.com/mvasseur/fripe-backend/internal/offers"
	pkgerrors "github.com/mvasseur/fripe-backend/pkg/errors"
	"github.com/mvasseur/fripe-backend/pkg/logger"
	"github.com/mvasseur/fripe-backend/pkg/pagination"
)

// OfferPublish creates a listing owned by the authenticated user.
func OfferPublish(svc offers.Service, maxUploadBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "offer service unavailable"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := validators.ParseForm(r, maxUploadBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		picturePath, cleanup, err := validators.SaveFormFile(r, "picture")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer cleanup()

		price, err := parseFormPrice(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := offers.PublishInput{
			Title:       r.FormValue("title"),
			Description: r.FormValue("description"),
			Price:       price,
			Brand:       r.FormValue("brand"),
			Size:        r.FormValue("size"),
			Condition:   r.FormValue("condition"),
			Color:       r.FormValue("color"),
			City:        r.FormValue("city"),
			PicturePath: picturePath,
		}
		if err := validators.ValidateStruct(&input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Publish(r.Context(), actorID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// OffersList serves the filtered, sorted, paginated catalog.
func OffersList(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "offer service unavailable"))
			return
		}

		priceMin, err := validators.ParseQueryFloat(r, "priceMin")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		priceMax, err := validators.ParseQueryFloat(r, "priceMax")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sort := strings.TrimSpace(r.URL.Query().Get("sort"))
		if sort != "" && sort != offers.SortAsc && sort != offers.SortDesc {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "sort must be asc or desc").WithDetails(map[string]any{"field": "sort"}))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := validators.ParseQueryInt(r, "page", 1, 1, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), offers.ListInput{
			Filters: offers.ListFilters{
				Title:    r.URL.Query().Get("title"),
				PriceMin: priceMin,
				PriceMax: priceMax,
				Sort:     sort,
			},
			Pagination: pagination.Params{Limit: limit, Page: page},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// OfferDetail serves a single listing with its owner projection.
func OfferDetail(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "offer service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "invalid offer id").WithDetails(map[string]any{"field": "id"}))
			return
		}

		dto, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// OfferUpdate replaces the mutable fields of an owned listing.
func OfferUpdate(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "offer service unavailable"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := validators.ParseForm(r, 0); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rawID := strings.TrimSpace(r.FormValue("objectId"))
		if rawID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Unknown offer"))
			return
		}
		offerID, err := uuid.Parse(rawID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "invalid offer id").WithDetails(map[string]any{"field": "objectId"}))
			return
		}

		price, err := parseFormPrice(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := offers.UpdateInput{
			OfferID:     offerID,
			Title:       r.FormValue("title"),
			Description: r.FormValue("description"),
			Price:       price,
			Brand:       r.FormValue("brand"),
			Size:        r.FormValue("size"),
			Condition:   r.FormValue("condition"),
			Color:       r.FormValue("color"),
			City:        r.FormValue("city"),
		}
		if err := validators.ValidateStruct(&input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Update(r.Context(), actorID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"message": "Offer updated",
			"offer":   dto,
		})
	}
}

// OfferDelete removes an owned listing after an existence check.
func OfferDelete(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "offer service unavailable"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rawID := strings.TrimSpace(r.URL.Query().Get("objectId"))
		if rawID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Unknown offer"))
			return
		}
		offerID, err := uuid.Parse(rawID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "invalid offer id").WithDetails(map[string]any{"field": "objectId"}))
			return
		}

		if err := svc.Delete(r.Context(), actorID, offerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"message": "Offer was deleted"})
	}
}

func actorFromContext(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized")
	}
	actorID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized")
	}
	return actorID, nil
}

func parseFormPrice(r *http.Request) (float64, error) {
	raw := strings.TrimSpace(r.FormValue("price"))
	if raw == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "price is required").WithDetails(map[string]any{"field": "price"})
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "price must be numeric").WithDetails(map[string]any{"field": "price"})
	}
	return price, nil
}
