package utils

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"tripwise/apperr"
)

type QueryOptions struct {
	Page  int
	Limit int
}

// ParseQueryOptions reads page/limit, defaulting to page 1 and limit 10.
// Explicit values are passed through so services can reject non-positive ones.
func ParseQueryOptions(r *http.Request) (QueryOptions, error) {
	q := r.URL.Query()
	opts := QueryOptions{Page: 1, Limit: 10}

	var err error
	if opts.Page, err = QueryInt(r, "page", 1); err != nil {
		return opts, err
	}
	if s := q.Get("limit"); s != "" {
		if opts.Limit, err = strconv.Atoi(strings.TrimSpace(s)); err != nil {
			return opts, apperr.InvalidArgument("limit", "must be an integer")
		}
	} else if opts.Limit, err = QueryInt(r, "page_size", 10); err != nil {
		return opts, err
	}
	return opts, nil
}

func QueryInt(r *http.Request, key string, def int) (int, error) {
	s := strings.TrimSpace(r.URL.Query().Get(key))
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperr.InvalidArgument(key, "must be an integer")
	}
	return v, nil
}

func QueryFloat(r *http.Request, key string) (float64, error) {
	s := strings.TrimSpace(r.URL.Query().Get(key))
	if s == "" {
		return 0, apperr.InvalidArgument(key, "is required")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, apperr.InvalidArgument(key, "must be a number")
	}
	return v, nil
}

func QueryOptionalFloat(r *http.Request, key string) (*float64, error) {
	if strings.TrimSpace(r.URL.Query().Get(key)) == "" {
		return nil, nil
	}
	v, err := QueryFloat(r, key)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func QueryBool(r *http.Request, key string) *bool {
	s := strings.TrimSpace(r.URL.Query().Get(key))
	if s == "" {
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil
	}
	return &v
}

func QueryDate(r *http.Request, key string) (*time.Time, error) {
	s := strings.TrimSpace(r.URL.Query().Get(key))
	if s == "" {
		return nil, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, apperr.InvalidArgument(key, "must be a date (YYYY-MM-DD or RFC 3339)")
	}
	return &t, nil
}

func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// DecodeJSON reads the request body into dst.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		return apperr.InvalidArgument("body", "invalid request payload")
	}
	return nil
}
