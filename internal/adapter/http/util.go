package adapthttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"mealmate/internal/app"
	"mealmate/internal/domain"
	"mealmate/internal/logger"

	"github.com/gorilla/mux"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, s string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(s))
}

func writeError(w http.ResponseWriter, status int, err error) {
	body := map[string]any{"error": err.Error()}
	var verr *app.ValidationError
	if errors.As(err, &verr) {
		body["fields"] = verr.Fields
	}
	writeJSON(w, status, body)
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	var verr *app.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, app.ErrInvalidCredentials), errors.Is(err, app.ErrInvalidToken):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// writeServiceError reports err with its mapped status. Internal errors are
// logged and never echoed to the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("%s %s [%s]: %v", r.Method, r.URL.Path, requestID(r), err)
		writeError(w, status, errors.New("internal server error"))
		return
	}
	writeError(w, status, err)
}

// parseJSON decodes the request body into dst. Values of the wrong type or
// malformed dates are reported as field errors.
func parseJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	err = json.Unmarshal(body, dst)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return invalidParam(typeErr.Field, "must be a "+jsonKind(typeErr.Type))
	}
	var fmtErr *domain.FormatError
	if errors.As(err, &fmtErr) {
		if field := fieldWithValue(body, fmtErr.Value); field != "" {
			return invalidParam(field, "must be "+fmtErr.Want)
		}
	}
	return fmt.Errorf("invalid json: %w", err)
}

// fieldWithValue returns the top-level key of body whose value is v.
func fieldWithValue(body []byte, v string) string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return ""
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	want := strings.TrimSpace(v)
	for _, k := range keys {
		raw := obj[k]
		var s string
		if json.Unmarshal(raw, &s) == nil && strings.TrimSpace(s) == want {
			return k
		}
		if strings.TrimSpace(string(raw)) == want {
			return k
		}
	}
	return ""
}

func jsonKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.String:
		return "string"
	case reflect.Slice, reflect.Array:
		return "list"
	}
	return "object"
}

func pathID(r *http.Request, key string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[key], 10, 64)
	if err != nil || id <= 0 {
		return 0, invalidParam(key, "must be a positive integer")
	}
	return id, nil
}

func pathDate(r *http.Request, key string) (domain.Date, error) {
	return parseDateParam(key, mux.Vars(r)[key])
}

func queryDate(r *http.Request, key string) (domain.Date, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return domain.Date{}, invalidParam(key, "is required")
	}
	return parseDateParam(key, v)
}

func parseDateParam(key, v string) (domain.Date, error) {
	d, err := domain.ParseDate(v)
	if err != nil {
		return domain.Date{}, invalidParam(key, "must be a date in YYYY-MM-DD form")
	}
	return d, nil
}

func intQuery(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func invalidParam(key, msg string) error {
	return &app.ValidationError{Fields: map[string]string{key: msg}}
}

func withNoCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

func spaFromDisk(dir string) http.Handler {
	fileServer := http.FileServer(http.Dir(dir))
	indexPath := path.Join(dir, "index.html")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqPath := path.Clean(r.URL.Path)
		if reqPath == "/" {
			http.ServeFile(w, r, indexPath)
			return
		}

		staticPath := path.Join(dir, reqPath)
		if _, err := os.Stat(staticPath); err == nil {
			fileServer.ServeHTTP(w, r)
			return
		}

		http.ServeFile(w, r, indexPath)
	})
}
