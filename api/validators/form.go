package validators

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	pkgerrors "github.com/mvasseur/fripe-backend/pkg/errors"
)

// ParseForm reads a multipart or urlencoded body, capping it at maxBytes.
// Field access afterwards goes through r.FormValue / r.MultipartForm.
func ParseForm(r *http.Request, maxBytes int64) error {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)
	}

	memLimit := maxBytes
	if memLimit <= 0 {
		memLimit = 32 << 20
	}

	contentType := r.Header.Get("Content-Type")
	var err error
	if strings.HasPrefix(contentType, "multipart/form-data") {
		err = r.ParseMultipartForm(memLimit)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return pkgerrors.New(pkgerrors.CodeValidation, "request body too large")
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form body")
	}
	return nil
}

// SaveFormFile spools the named upload to a temp file and returns its path.
// The cleanup func removes the temp file; it is safe to call even when the
// field is absent (path is "" in that case, with a nil error).
func SaveFormFile(r *http.Request, field string) (string, func(), error) {
	noop := func() {}

	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", noop, nil
		}
		return "", noop, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid file upload")
	}
	defer func() { _ = file.Close() }()

	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		return "", noop, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "spool upload")
	}

	if _, err := io.Copy(tmp, file); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", noop, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "spool upload")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", noop, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "spool upload")
	}

	path := tmp.Name()
	return path, func() { _ = os.Remove(path) }, nil
}
