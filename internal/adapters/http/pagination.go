package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopwindow/shopwindow/internal/core/filters"
)

// ListResponse wraps list results with pagination metadata. next and
// previous are page numbers, null at either end of the collection.
type ListResponse struct {
	Count    int         `json:"count"`
	Next     *int        `json:"next"`
	Previous *int        `json:"previous"`
	Results  interface{} `json:"results"`
}

// NewListResponse builds the envelope for one page of results.
func NewListResponse(results interface{}, total int, page filters.PageSpec) ListResponse {
	resp := ListResponse{Count: total, Results: results}
	if page.Size <= 0 {
		return resp
	}
	if page.Page > 1 {
		prev := page.Page - 1
		resp.Previous = &prev
	}
	if page.Offset()+page.Size < total {
		next := page.Page + 1
		resp.Next = &next
	}
	return resp
}

// SetLinkHeaders adds RFC 8288 Link headers for paginated responses.
// It uses the current request path with page/page_size parameters.
func SetLinkHeaders(c *fiber.Ctx, total int, page filters.PageSpec) {
	if page.Size <= 0 {
		return
	}
	base := c.Path()
	link := func(p int, rel string) string {
		return fmt.Sprintf(`<%s?page=%d&page_size=%d>; rel="%s"`, base, p, page.Size, rel)
	}

	lastPage := (total + page.Size - 1) / page.Size
	if lastPage < 1 {
		lastPage = 1
	}

	links := []string{link(1, "first")}
	if page.Page > 1 {
		links = append(links, link(page.Page-1, "prev"))
	}
	if page.Offset()+page.Size < total {
		links = append(links, link(page.Page+1, "next"))
	}
	links = append(links, link(lastPage, "last"))

	c.Set("Link", strings.Join(links, ", "))
}
