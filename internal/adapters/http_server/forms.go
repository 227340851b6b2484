package httpserver

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"venue_booking/internal/app"
	"venue_booking/internal/domain"
)

// form is a parsed multipart or urlencoded body.
type form struct {
	r     *http.Request
	files []multipart.File
}

// parseForm accepts multipart and urlencoded bodies up to max bytes.
func parseForm(w http.ResponseWriter, r *http.Request, max int64) (*form, error) {
	r.Body = http.MaxBytesReader(w, r.Body, max)
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(max)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, domain.Invalid("File too large")
		}
		return nil, domain.Invalid("Invalid form body")
	}
	return &form{r: r}, nil
}

func (f *form) close() {
	for _, file := range f.files {
		_ = file.Close()
	}
}

func (f *form) str(key string) string { return strings.TrimSpace(f.r.FormValue(key)) }

// opt returns nil when key is absent or blank.
func (f *form) opt(key string) *string {
	if s := f.str(key); s != "" {
		return &s
	}
	return nil
}

func (f *form) floatVal(key, msg string) (*float64, error) {
	s := f.str(key)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, domain.Invalid(msg)
	}
	return &v, nil
}

func (f *form) intVal(key, msg string) (*int, error) {
	s := f.str(key)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, domain.Invalid(msg)
	}
	return &v, nil
}

// upload returns the picture part, or nil when none was sent.
func (f *form) upload(key string) (*app.Upload, error) {
	if f.r.MultipartForm == nil {
		return nil, nil
	}
	file, hdr, err := f.r.FormFile(key)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Invalid("Invalid picture upload")
	}
	f.files = append(f.files, file)
	return &app.Upload{
		Filename:    hdr.Filename,
		Body:        file,
		Size:        hdr.Size,
		ContentType: hdr.Header.Get("Content-Type"),
	}, nil
}
