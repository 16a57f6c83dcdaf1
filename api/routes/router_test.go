package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mvasseur/fripe-backend/api/controllers"
	"github.com/mvasseur/fripe-backend/internal/offers"
	"github.com/mvasseur/fripe-backend/internal/users"
	"github.com/mvasseur/fripe-backend/pkg/config"
	"github.com/mvasseur/fripe-backend/pkg/db/models"
	dbtypes "github.com/mvasseur/fripe-backend/pkg/db/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubUploader struct{}

func (stubUploader) Upload(_ context.Context, _, publicID string) (*dbtypes.ImageDescriptor, error) {
	return &dbtypes.ImageDescriptor{PublicID: publicID, SecureURL: "https://res.cloudinary.test/" + publicID}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.Offer{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	cfg := &config.Config{}
	cfg.App.Env = config.AppEnvDev
	cfg.Media.MaxUploadMB = 20

	userSvc, err := users.NewService(users.NewRepository(conn), stubUploader{}, "fripe", nil)
	if err != nil {
		t.Fatalf("failed to build user service: %v", err)
	}
	offerSvc, err := offers.NewService(offers.NewRepository(conn), userSvc, stubUploader{}, "fripe", nil)
	if err != nil {
		t.Fatalf("failed to build offer service: %v", err)
	}

	return NewRouter(Deps{
		Config:       cfg,
		UserService:  userSvc,
		OfferService: offerSvc,
		Pingers:      map[string]controllers.Pinger{"db": stubPinger{}},
	})
}

func postForm(t *testing.T, router http.Handler, path, token string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return body
}

func signup(t *testing.T, router http.Handler, email, username, password string) map[string]any {
	t.Helper()
	w := postForm(t, router, "/user/signup", "", url.Values{
		"email":    {email},
		"username": {username},
		"password": {password},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("signup returned %d: %s", w.Code, w.Body.String())
	}
	return decodeBody(t, w)
}

func publish(t *testing.T, router http.Handler, token, title, price string) map[string]any {
	t.Helper()
	w := postForm(t, router, "/offer/publish", token, url.Values{
		"title":       {title},
		"description": {title + " description"},
		"price":       {price},
		"brand":       {"Zara"},
		"size":        {"M"},
		"condition":   {"Good"},
		"color":       {"Black"},
		"city":        {"Lyon"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("publish returned %d: %s", w.Code, w.Body.String())
	}
	return decodeBody(t, w)
}

func TestSignupThenLogin(t *testing.T) {
	router := newTestRouter(t)

	created := signup(t, router, "a@x.com", "bob", "p1")
	if token, _ := created["token"].(string); token == "" {
		t.Fatalf("signup payload missing token: %v", created)
	}
	if id, _ := created["_id"].(string); id == "" {
		t.Fatalf("signup payload missing id: %v", created)
	}
	if _, leaked := created["hash"]; leaked {
		t.Fatal("signup payload must not contain the hash")
	}

	w := postForm(t, router, "/user/login", "", url.Values{
		"email":    {"a@x.com"},
		"password": {"p1"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["message"] != "You can login" {
		t.Fatalf("unexpected login message %v", body["message"])
	}
	searched, ok := body["searchedUser"].(map[string]any)
	if !ok {
		t.Fatalf("expected searchedUser projection, got %v", body)
	}
	if _, leaked := searched["hash"]; leaked {
		t.Fatal("login payload must not contain the hash")
	}
	if _, leaked := searched["salt"]; leaked {
		t.Fatal("login payload must not contain the salt")
	}

	w = postForm(t, router, "/user/login", "", url.Values{
		"email":    {"a@x.com"},
		"password": {"wrong"},
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", w.Code)
	}
}

func TestDuplicateSignupRejected(t *testing.T) {
	router := newTestRouter(t)

	signup(t, router, "a@x.com", "bob", "p1")

	w := postForm(t, router, "/user/signup", "", url.Values{
		"email":    {"a@x.com"},
		"username": {"bob2"},
		"password": {"p2"},
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d", w.Code)
	}
}

func TestUnauthenticatedMutationsRejected(t *testing.T) {
	router := newTestRouter(t)

	w := postForm(t, router, "/offer/publish", "", url.Values{
		"title":       {"Jacket"},
		"description": {"desc"},
		"price":       {"50"},
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthenticated publish, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/offers", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	body := decodeBody(t, rec)
	if body["count"].(float64) != 0 {
		t.Fatalf("rejected publish must not persist anything, count=%v", body["count"])
	}
}

func TestPublishAndPriceFilter(t *testing.T) {
	router := newTestRouter(t)

	created := signup(t, router, "seller@x.com", "seller", "p1")
	token := created["token"].(string)

	publish(t, router, token, "Jacket", "50")

	get := func(query string) map[string]any {
		req := httptest.NewRequest(http.MethodGet, "/offers"+query, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("list returned %d: %s", rec.Code, rec.Body.String())
		}
		return decodeBody(t, rec)
	}

	included := get("?priceMin=40&priceMax=60")
	if included["count"].(float64) != 1 {
		t.Fatalf("expected offer inside price window, got %v", included["count"])
	}

	excluded := get("?priceMin=60&priceMax=70")
	if excluded["count"].(float64) != 0 {
		t.Fatalf("expected offer outside price window, got %v", excluded["count"])
	}
}

func TestOfferDetailUpdateAndDelete(t *testing.T) {
	router := newTestRouter(t)

	created := signup(t, router, "seller@x.com", "seller", "p1")
	token := created["token"].(string)

	offer := publish(t, router, token, "Jacket", "80")
	offerID := offer["_id"].(string)

	req := httptest.NewRequest(http.MethodGet, "/offer/"+offerID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("detail returned %d: %s", rec.Code, rec.Body.String())
	}
	detail := decodeBody(t, rec)
	owner, ok := detail["owner"].(map[string]any)
	if !ok {
		t.Fatalf("expected owner projection, got %v", detail)
	}
	account := owner["account"].(map[string]any)
	if account["username"] != "seller" {
		t.Fatalf("unexpected owner account %v", account)
	}

	updateForm := url.Values{
		"objectId":    {offerID},
		"title":       {"Denim Jacket"},
		"description": {"updated"},
		"price":       {"45"},
	}
	updateReq := httptest.NewRequest(http.MethodPut, "/offer/update", strings.NewReader(updateForm.Encode()))
	updateReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	updateReq.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, updateReq)
	if rec.Code != http.StatusOK {
		t.Fatalf("update returned %d: %s", rec.Code, rec.Body.String())
	}
	updated := decodeBody(t, rec)
	if updated["message"] != "Offer updated" {
		t.Fatalf("unexpected update message %v", updated["message"])
	}

	deleteReq := httptest.NewRequest(http.MethodDelete, "/offer/delete?objectId="+offerID, nil)
	deleteReq.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, deleteReq)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete returned %d: %s", rec.Code, rec.Body.String())
	}
	deleted := decodeBody(t, rec)
	if deleted["message"] != "Offer was deleted" {
		t.Fatalf("unexpected delete message %v", deleted["message"])
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/offer/"+offerID, nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}

	deleteAgain := httptest.NewRequest(http.MethodDelete, "/offer/delete?objectId="+offerID, nil)
	deleteAgain.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, deleteAgain)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing offer, got %d", rec.Code)
	}
}

func TestUnmatchedRoutesReturnPageNotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != "Page not found" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Fripe-Env") == "" {
		t.Fatal("expected env header on health endpoints")
	}
}
