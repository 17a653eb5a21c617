// Package respond writes JSON responses and maps errors onto them.
package respond

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"expense-api/internal/apperr"
	"expense-api/internal/log"
)

// JSON writes v with status. A nil v writes no body.
func JSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	if v == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to encode response",
			log.FieldPath, r.URL.Path,
			log.FieldError, err)
	}
}

// Error writes err using its apperr kind. Internal causes are logged and
// replaced by a generic message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperr.As(err)
	if appErr.Kind == apperr.KindInternal {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldError, err)
	}
	JSON(w, r, appErr.Kind.Status(), Body(appErr))
}

// Body renders e the way clients expect: field errors as a map of lists,
// everything else as {"detail": ...} plus an optional code.
func Body(e *apperr.Error) interface{} {
	if len(e.Fields) > 0 {
		return e.Fields
	}
	body := map[string]string{"detail": e.Detail}
	if e.Kind == apperr.KindInternal {
		body["detail"] = apperr.MsgInternal
	}
	if e.Code != "" {
		body["code"] = e.Code
	}
	return body
}

// Decode reads a JSON object from r into v. An empty body leaves v untouched
// so that field validation reports what is missing. Malformed bodies are
// validation errors.
func Decode(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return apperr.Validation("JSON parse error - " + err.Error())
	}
	return nil
}
