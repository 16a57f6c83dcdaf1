package cloudinary

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mvasseur/fripe-backend/pkg/config"
	dbtypes "github.com/mvasseur/fripe-backend/pkg/db/types"
	"github.com/mvasseur/fripe-backend/pkg/logger"
)

const (
	defaultBaseURL = "https://api.cloudinary.com"
	pingTimeout    = 5 * time.Second
)

// Client talks to the Cloudinary upload and admin APIs over plain HTTP.
// Credentials are injected once at startup and carried here; nothing in
// this package reads the environment.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cloudName  string
	apiKey     string
	apiSecret  string
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewClient validates the credentials and builds an upload client.
func NewClient(cfg config.CloudinaryConfig, logg *logger.Logger) (*Client, error) {
	if cfg.CloudName == "" {
		return nil, errors.New("cloudinary cloud name is required")
	}
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, errors.New("cloudinary api credentials are required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		cloudName:  cfg.CloudName,
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
	}, nil
}

type uploadResponse struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Format    string `json:"format"`
	Bytes     int64  `json:"bytes"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload pushes the file at localPath to the image store under publicID
// and returns the durable descriptor.
func (c *Client) Upload(ctx context.Context, localPath, publicID string) (*dbtypes.ImageDescriptor, error) {
	if localPath == "" {
		return nil, errors.New("upload: file path is required")
	}
	if publicID == "" {
		return nil, errors.New("upload: public id is required")
	}

	file, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("upload: open %s: %w", filepath.Base(localPath), err)
	}
	defer func() { _ = file.Close() }()

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	params := map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	}

	body, contentType, err := buildUploadBody(file, params, c.apiKey, signParams(params, c.apiSecret))
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/v1_1/%s/image/upload", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var decoded uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("upload: decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("status %d", resp.StatusCode)
		if decoded.Error != nil && decoded.Error.Message != "" {
			msg = decoded.Error.Message
		}
		return nil, fmt.Errorf("upload: %s", msg)
	}

	return &dbtypes.ImageDescriptor{
		PublicID:  decoded.PublicID,
		SecureURL: decoded.SecureURL,
		Width:     decoded.Width,
		Height:    decoded.Height,
		Format:    decoded.Format,
		Bytes:     decoded.Bytes,
	}, nil
}

// Ping hits the usage endpoint with basic auth to back the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/v1_1/%s/usage", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.apiKey, c.apiSecret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cloudinary health check: status %d", resp.StatusCode)
	}
	return nil
}

// signParams implements the Cloudinary request signature: SHA-1 over the
// sorted key=value pairs joined by '&', with the api secret appended.
func signParams(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}

func buildUploadBody(file *os.File, params map[string]string, apiKey, signature string) (io.Reader, string, error) {
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		var err error
		defer func() {
			if err != nil {
				_ = pw.CloseWithError(err)
				return
			}
			_ = pw.Close()
		}()

		for k, v := range params {
			if err = writer.WriteField(k, v); err != nil {
				return
			}
		}
		if err = writer.WriteField("api_key", apiKey); err != nil {
			return
		}
		if err = writer.WriteField("signature", signature); err != nil {
			return
		}

		var part io.Writer
		part, err = writer.CreateFormFile("file", filepath.Base(file.Name()))
		if err != nil {
			return
		}
		if _, err = io.Copy(part, file); err != nil {
			return
		}
		err = writer.Close()
	}()

	return pr, writer.FormDataContentType(), nil
}
