package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultPage = 1
)

type Options struct {
	DefaultPerPage int
	MaxPerPage     int
	AllowAll       bool
	AllHardCap     int
}

var (
	DefaultOpts = Options{DefaultPerPage: 5, MaxPerPage: 100}
	ExportOpts  = Options{DefaultPerPage: 100, MaxPerPage: 1000, AllowAll: true, AllHardCap: 10_000}
)

// ListQuery is the query string of a stateless list request.
type ListQuery struct {
	Page    int
	PerPage int
	Status  string
	Search  string
	All     bool
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

// ParseListQuery reads page, per_page (or limit), status and q.
func ParseListQuery(c *fiber.Ctx, opt Options) ListQuery {
	q := c.Queries()

	page := atoiDefault(q["page"], DefaultPage)
	if page < 1 {
		page = DefaultPage
	}

	perRaw := strings.TrimSpace(firstNonEmpty(q["per_page"], q["limit"]))
	all := false
	per := opt.DefaultPerPage

	if opt.AllowAll && strings.EqualFold(perRaw, "all") {
		all = true
		page = 1
		per = opt.AllHardCap
		if per <= 0 {
			per = opt.MaxPerPage
		}
	} else {
		if n, err := strconv.Atoi(perRaw); err == nil && n > 0 {
			per = n
		}
		if opt.MaxPerPage > 0 && per > opt.MaxPerPage {
			per = opt.MaxPerPage
		}
		if per < 1 {
			per = opt.DefaultPerPage
		}
	}

	return ListQuery{
		Page:    page,
		PerPage: per,
		Status:  strings.TrimSpace(q["status"]),
		Search:  firstNonEmpty(q["q"], q["search"]),
		All:     all,
	}
}

type Meta struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
	NextPage   *int `json:"next_page,omitempty"`
	PrevPage   *int `json:"prev_page,omitempty"`
}

// BuildMeta describes page out of total items; totalPages is 0 for an
// empty list.
func BuildMeta(total, page, perPage int) Meta {
	totalPages := 0
	if total > 0 && perPage > 0 {
		totalPages = (total + perPage - 1) / perPage
	}
	meta := Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    totalPages > 0 && page < totalPages,
	}
	if meta.HasPrev {
		prev := page - 1
		meta.PrevPage = &prev
	}
	if meta.HasNext {
		next := page + 1
		meta.NextPage = &next
	}
	return meta
}
