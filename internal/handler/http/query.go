package http

import (
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/jenfranx30/savemate-backend/pkg/errors"
)

// queryString returns a trimmed query parameter, or nil when it is absent or blank.
func queryString(r *http.Request, key string) *string {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil
	}
	return &v
}

func queryFloat(r *http.Request, key string) (*float64, error) {
	v := queryString(r, key)
	if v == nil {
		return nil, nil
	}
	f, err := strconv.ParseFloat(*v, 64)
	if err != nil {
		return nil, apperrors.InvalidInput(key + " must be a number")
	}
	return &f, nil
}

func queryInt64(r *http.Request, key string) (*int64, error) {
	v := queryString(r, key)
	if v == nil {
		return nil, nil
	}
	n, err := strconv.ParseInt(*v, 10, 64)
	if err != nil {
		return nil, apperrors.InvalidInput(key + " must be an integer")
	}
	return &n, nil
}

func queryBool(r *http.Request, key string) (*bool, error) {
	v := queryString(r, key)
	if v == nil {
		return nil, nil
	}
	b, err := strconv.ParseBool(*v)
	if err != nil {
		return nil, apperrors.InvalidInput(key + " must be true or false")
	}
	return &b, nil
}
