package pagination

import "strconv"

// Page is offset pagination as exposed by list endpoints (?page=&limit=).
type Page struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Info is the pagination block returned next to a list.
type Info struct {
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// ParsePage reads page/limit query values, falling back to page 1 and defLimit.
// limit is capped at maxLimit.
func ParsePage(pageStr, limitStr string, defLimit, maxLimit int) Page {
	p := Page{Page: 1, Limit: defLimit}
	if n, err := strconv.Atoi(pageStr); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
		p.Limit = n
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Info builds the response block for total rows.
func (p Page) Info(total int64) Info {
	pages := int64(0)
	if p.Limit > 0 {
		pages = (total + int64(p.Limit) - 1) / int64(p.Limit)
	}
	return Info{Total: total, Pages: pages, Page: p.Page, Limit: p.Limit}
}
