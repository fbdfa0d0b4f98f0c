package api

import (
	"fmt"
	"net/http"
	"strconv"
)

// Pagination defaults and bounds.
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PaginatedResponse is the list envelope: total match count, absolute links
// to the adjacent pages (null at the edges), and the page of results.
type PaginatedResponse struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// pageParams holds the parsed page/page_size query parameters.
type pageParams struct {
	Page     int
	PageSize int
}

// Limit returns the SQL LIMIT for the page.
func (p pageParams) Limit() int {
	return p.PageSize
}

// Offset returns the SQL OFFSET for the page.
func (p pageParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// parsePageParams reads page (1-based) and page_size from the query string,
// clamping to sane bounds. Malformed values fall back to the defaults, as
// the original API treats them leniently.
func parsePageParams(r *http.Request) pageParams {
	params := pageParams{Page: 1, PageSize: defaultPageSize}

	if raw := r.URL.Query().Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page > 0 {
			params.Page = page
		}
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if size, err := strconv.Atoi(raw); err == nil && size > 0 {
			if size > maxPageSize {
				size = maxPageSize
			}
			params.PageSize = size
		}
	}

	return params
}

// NewPaginatedResponse wraps a page of results in the list envelope,
// deriving next/previous links from the request URL.
func NewPaginatedResponse(
	r *http.Request,
	params pageParams,
	count int64,
	results interface{},
) PaginatedResponse {
	resp := PaginatedResponse{
		Count:   count,
		Results: results,
	}

	lastPage := int((count + int64(params.PageSize) - 1) / int64(params.PageSize))
	if params.Page < lastPage {
		next := pageURL(r, params.Page+1)
		resp.Next = &next
	}
	if params.Page > 1 {
		prev := pageURL(r, params.Page-1)
		resp.Previous = &prev
	}

	return resp
}

// pageURL rebuilds the request URL with the page parameter replaced. Links
// are absolute; scheme and host come from the forwarding headers when a
// reverse proxy supplies them.
func pageURL(r *http.Request, page int) string {
	u := *r.URL
	q := u.Query()
	q.Set("page", fmt.Sprintf("%d", page))
	u.RawQuery = q.Encode()

	u.Scheme = "http"
	if r.TLS != nil {
		u.Scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		u.Scheme = proto
	}
	u.Host = r.Host
	if host := r.Header.Get("X-Forwarded-Host"); host != "" {
		u.Host = host
	}

	return u.String()
}
