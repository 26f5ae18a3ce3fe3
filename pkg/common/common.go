package common

import (
	"errors"
	"strconv"
)

// CommonResponse is a lightweight response wrapper used by HTTP handlers.
type CommonResponse struct {
	Code  int         `json:"code"`
	Msg   string      `json:"msg,omitempty"`
	Error string      `json:"error,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)

var ErrInvalidPage = errors.New("limit and offset must be non-negative integers")

// Page is a limit/offset window over a listing.
type Page struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ParsePage reads limit and offset query values. Empty values fall back to the
// defaults and limit is capped at MaxPageSize.
func ParsePage(limitRaw, offsetRaw string) (Page, error) {
	page := Page{Limit: DefaultPageSize}
	if limitRaw != "" {
		n, err := strconv.Atoi(limitRaw)
		if err != nil || n < 0 {
			return Page{}, ErrInvalidPage
		}
		if n > 0 {
			page.Limit = min(n, MaxPageSize)
		}
	}
	if offsetRaw != "" {
		n, err := strconv.Atoi(offsetRaw)
		if err != nil || n < 0 {
			return Page{}, ErrInvalidPage
		}
		page.Offset = n
	}
	return page, nil
}
