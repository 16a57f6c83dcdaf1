package cloudinary

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mvasseur/fripe-backend/pkg/config"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(config.CloudinaryConfig{
		CloudName: "fripe-test",
		APIKey:    "key123",
		APISecret: "shhh",
		Timeout:   5 * time.Second,
	}, nil)
	require.NoError(t, err)
	client.baseURL = baseURL
	return client
}

func writeTempImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "picture.jpg")
	require.NoError(t, os.WriteFile(path, []byte("fake-jpeg-bytes"), 0o600))
	return path
}

func TestUploadSendsSignedMultipart(t *testing.T) {
	var gotPublicID, gotSignature, gotTimestamp, gotAPIKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1_1/fripe-test/image/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		gotPublicID = r.FormValue("public_id")
		gotSignature = r.FormValue("signature")
		gotTimestamp = r.FormValue("timestamp")
		gotAPIKey = r.FormValue("api_key")

		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"public_id":  gotPublicID,
			"secure_url": "https://res.cloudinary.test/" + gotPublicID + ".jpg",
			"width":      640,
			"height":     480,
			"format":     "jpg",
			"bytes":      15,
		})
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	desc, err := client.Upload(context.Background(), writeTempImage(t), "fripe/offers/abc")
	require.NoError(t, err)

	require.Equal(t, "fripe/offers/abc", desc.PublicID)
	require.Equal(t, "https://res.cloudinary.test/fripe/offers/abc.jpg", desc.SecureURL)
	require.Equal(t, 640, desc.Width)
	require.Equal(t, "jpg", desc.Format)

	require.Equal(t, "key123", gotAPIKey)
	require.NotEmpty(t, gotTimestamp)

	sum := sha1.Sum([]byte("public_id=fripe/offers/abc&timestamp=" + gotTimestamp + "shhh"))
	require.Equal(t, hex.EncodeToString(sum[:]), gotSignature)
}

func TestUploadSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "Invalid image file"},
		})
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.Upload(context.Background(), writeTempImage(t), "fripe/offers/bad")
	require.ErrorContains(t, err, "Invalid image file")
}

func TestUploadRequiresPathAndPublicID(t *testing.T) {
	client := newTestClient(t, "http://unused")

	_, err := client.Upload(context.Background(), "", "fripe/offers/x")
	require.Error(t, err)

	_, err = client.Upload(context.Background(), writeTempImage(t), "")
	require.Error(t, err)
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "key123", user)
		require.Equal(t, "shhh", pass)
		require.Equal(t, "/v1_1/fripe-test/usage", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	require.NoError(t, client.Ping(context.Background()))
}

func TestNewClientValidatesCredentials(t *testing.T) {
	_, err := NewClient(config.CloudinaryConfig{APIKey: "k", APISecret: "s"}, nil)
	require.Error(t, err)

	_, err = NewClient(config.CloudinaryConfig{CloudName: "c"}, nil)
	require.Error(t, err)
}
