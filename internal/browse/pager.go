package browse

// PageSize is the number of cards per browse page.
const PageSize = 20

// TotalPages returns the page count for n items, never less than 1.
func TotalPages(n int) int {
	if n <= 0 {
		return 1
	}
	return (n + PageSize - 1) / PageSize
}

// Pager tracks the current 1-based page.
type Pager struct {
	page int
}

// NewPager creates a pager on page 1.
func NewPager() Pager {
	return Pager{page: 1}
}

// Page returns the current 1-based page.
func (p *Pager) Page() int {
	if p.page < 1 {
		return 1
	}
	return p.page
}

// Reset returns to page 1.
func (p *Pager) Reset() {
	p.page = 1
}

// Next advances unless already on the last page of n items.
func (p *Pager) Next(n int) bool {
	if p.Page() >= TotalPages(n) {
		return false
	}
	p.page = p.Page() + 1
	return true
}

// Prev goes back unless already on page 1.
func (p *Pager) Prev() bool {
	if p.Page() <= 1 {
		return false
	}
	p.page--
	return true
}

// Clamp keeps the page within [1, TotalPages(n)].
func (p *Pager) Clamp(n int) {
	p.page = min(max(p.page, 1), TotalPages(n))
}

// Slice returns the items of page (1-based) for PageSize.
func Slice[T any](items []T, page int) []T {
	start := (max(page, 1) - 1) * PageSize
	if start >= len(items) {
		return []T{}
	}
	end := min(start+PageSize, len(items))
	return items[start:end]
}
