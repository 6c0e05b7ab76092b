package pagination

import (
	"math"
	"time"

	"gorm.io/gorm"
)

// PageRequest holds pagination parameters parsed from query strings.
type PageRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Defaults fills in default values when page or page_size are not provided.
func (p *PageRequest) Defaults() {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.PageSize == 0 {
		p.PageSize = 20
	}
}

// Offset returns the SQL OFFSET for the current page.
func (p *PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PageResponse wraps a paginated list of items with metadata.
type PageResponse[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// NewPageResponse creates a PageResponse from the given data and total count.
func NewPageResponse[T any](data []T, page, pageSize int, totalItems int64) PageResponse[T] {
	totalPages := int(math.Ceil(float64(totalItems) / float64(pageSize)))
	if data == nil {
		data = []T{}
	}
	return PageResponse[T]{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}

// Paginate returns a GORM scope that applies OFFSET and LIMIT for the given page request.
func Paginate(req PageRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(req.Offset()).Limit(req.PageSize)
	}
}

// Slice pages an in-memory list, for read models merged from several tables.
func Slice[T any](items []T, req PageRequest) PageResponse[T] {
	req.Defaults()
	total := len(items)
	start := min(req.Offset(), total)
	end := min(start+req.PageSize, total)
	return NewPageResponse(items[start:end], req.Page, req.PageSize, int64(total))
}

// DateRange is an optional inclusive [From, To] filter. To covers the whole day
// when given as a bare date.
type DateRange struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// Scope returns a GORM scope filtering column by the range.
func (r DateRange) Scope(column string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if r.From != nil {
			db = db.Where(column+" >= ?", *r.From)
		}
		if r.To != nil {
			db = db.Where(column+" < ?", r.end())
		}
		return db
	}
}

func (r DateRange) end() time.Time {
	if r.To.Equal(r.To.Truncate(24 * time.Hour)) {
		return r.To.Add(24 * time.Hour)
	}
	return r.To.Add(time.Nanosecond)
}
