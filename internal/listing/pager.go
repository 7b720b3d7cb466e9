// Package listing holds the shared machinery behind the paginated
// management views: page bookkeeping, row selection, debounced search
// and bulk deletion.
package listing

import "github.com/AKASH-DEV-23/taskctl/pkg/models"

// DefaultPageSize matches the server's default page window.
const DefaultPageSize = 10

// Pager tracks the current position inside a server-paginated list.
type Pager struct {
	page       int
	limit      int
	totalPages int
	totalItems int
}

// NewPager starts at page 1 with the given window size. A non-positive
// limit falls back to DefaultPageSize.
func NewPager(limit int) *Pager {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	return &Pager{page: 1, limit: limit, totalPages: 1}
}

func (p *Pager) Page() int  { return p.page }
func (p *Pager) Limit() int { return p.limit }

func (p *Pager) TotalPages() int { return p.totalPages }
func (p *Pager) TotalItems() int { return p.totalItems }

// SetTotals records the server's pagination envelope and clamps the
// current page into the new range.
func (p *Pager) SetTotals(pg models.Pagination) {
	p.totalPages = pg.TotalPages
	if p.totalPages < 1 {
		p.totalPages = 1
	}
	p.totalItems = pg.TotalItems
	if p.page > p.totalPages {
		p.page = p.totalPages
	}
	if p.page < 1 {
		p.page = 1
	}
}

// Next advances one page. Reports whether the position changed.
func (p *Pager) Next() bool {
	if p.page >= p.totalPages {
		return false
	}
	p.page++
	return true
}

// Prev steps back one page. Reports whether the position changed.
func (p *Pager) Prev() bool {
	if p.page <= 1 {
		return false
	}
	p.page--
	return true
}

// Reset returns to the first page, as after a search term change.
func (p *Pager) Reset() { p.page = 1 }

// StepBackIfEmptied handles the page going empty after deletions: when
// rows remain on earlier pages the pager steps back so the next fetch
// lands on a populated page. Reports whether it moved.
func (p *Pager) StepBackIfEmptied(visible int) bool {
	if visible > 0 || p.page <= 1 {
		return false
	}
	p.page--
	return true
}
