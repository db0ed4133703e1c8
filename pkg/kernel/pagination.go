package kernel

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PaginationOptions is a 1-based page request
type PaginationOptions struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// NewPaginationOptions applies defaults for zero values
func NewPaginationOptions(page, pageSize int) PaginationOptions {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return PaginationOptions{Page: page, PageSize: pageSize}
}

// Offset is the number of rows to skip
func (p PaginationOptions) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type Page struct {
	Number      int  `json:"number"`
	Size        int  `json:"size"`
	Total       int  `json:"total"`
	Pages       int  `json:"pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// NewPage derives page metadata from a request and the total match count
func NewPage(opts PaginationOptions, total int) Page {
	pages := 0
	if opts.PageSize > 0 {
		pages = (total + opts.PageSize - 1) / opts.PageSize
	}
	return Page{
		Number:      opts.Page,
		Size:        opts.PageSize,
		Total:       total,
		Pages:       pages,
		HasNext:     opts.Page*opts.PageSize < total,
		HasPrevious: opts.Page > 1,
	}
}

type Paginated[T any] struct {
	Items []T  `json:"items"`
	Page  Page `json:"page"`
	Empty bool `json:"empty"`
}

// NewPaginated wraps items with page metadata
func NewPaginated[T any](items []T, opts PaginationOptions, total int) *Paginated[T] {
	if items == nil {
		items = []T{}
	}
	return &Paginated[T]{
		Items: items,
		Page:  NewPage(opts, total),
		Empty: len(items) == 0,
	}
}

// MapPaginated converts the items of p while keeping its page metadata
func MapPaginated[T, R any](p *Paginated[T], fn func(T) R) *Paginated[R] {
	out := make([]R, 0, len(p.Items))
	for _, item := range p.Items {
		out = append(out, fn(item))
	}
	return &Paginated[R]{
		Items: out,
		Page:  p.Page,
		Empty: p.Empty,
	}
}
