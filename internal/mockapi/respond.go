package mockapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDetail writes a FastAPI style {"detail": "..."} error.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

type fieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// writeValidation writes a 422 with one detail item per invalid field.
func writeValidation(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []fieldError{{Loc: []string{"body"}, Msg: "Invalid request body", Type: "value_error"}},
		})
		return
	}
	items := make([]fieldError, 0, len(verrs))
	for _, e := range verrs {
		items = append(items, fieldError{
			Loc:  []string{"body", e.Field()},
			Msg:  validationMessage(e),
			Type: "value_error." + e.Tag(),
		})
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": items})
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field required"
	case "email":
		return "value is not a valid email address"
	case "gte":
		return "ensure this value is greater than or equal to " + e.Param()
	case "min":
		return "ensure this value has at least " + e.Param() + " characters"
	case "max":
		return "ensure this value has at most " + e.Param() + " characters"
	case "eqfield":
		return "passwords do not match"
	default:
		return "invalid value"
	}
}

// pageParams reads skip and limit. Bad values fall back to the defaults.
func pageParams(r *http.Request, defaultLimit int) (skip, limit int) {
	limit = defaultLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("skip")); err == nil && v > 0 {
		skip = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	return skip, limit
}

func window[T any](items []T, skip, limit int) []T {
	if skip >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit < end-skip {
		end = skip + limit
	}
	return items[skip:end]
}

// decode reads a JSON body into v and validates it.
func (s *Server) decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return s.validate.Struct(v)
}
