package pagination

import (
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 6
	MaxPageSize     = 20

	pageParam  = "page"
	limitParam = "limit"
)

// Params is a parsed page/limit pair, always within bounds.
type Params struct {
	Page  int
	Limit int
}

// FromQuery reads ?page= and ?limit=, clamping to defaults on garbage.
func FromQuery(c *gin.Context) Params {
	p := Params{Page: 1, Limit: DefaultPageSize}

	if raw := c.Query(pageParam); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			p.Page = n
		}
	}
	if raw := c.Query(limitParam); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			p.Limit = n
			if p.Limit > MaxPageSize {
				p.Limit = MaxPageSize
			}
		}
	}
	return p
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is the list envelope: count plus next/previous page links.
type Page struct {
	Count    int         `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// NewPage wraps results, deriving next/previous links from the request URL.
func NewPage(c *gin.Context, count int, p Params, results interface{}) Page {
	page := Page{Count: count, Results: results}

	if p.Offset()+p.Limit < count {
		page.Next = pageLink(c, p.Page+1, p.Limit)
	}
	if p.Page > 1 {
		page.Previous = pageLink(c, p.Page-1, p.Limit)
	}
	return page
}

func pageLink(c *gin.Context, page, limit int) *string {
	u := *c.Request.URL

	q := u.Query()
	q.Set(pageParam, strconv.Itoa(page))
	q.Set(limitParam, strconv.Itoa(limit))
	u.RawQuery = q.Encode()

	link := absoluteURL(c, &u)
	return &link
}

func absoluteURL(c *gin.Context, u *url.URL) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	abs := *u
	abs.Scheme = scheme
	abs.Host = c.Request.Host
	return abs.String()
}
