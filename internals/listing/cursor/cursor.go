package cursor

// Cursor tracks a 1-based page over a list whose length it is told about.
// It never clamps on its own when the count shrinks; the owner calls Repair.
type Cursor struct {
	page     int
	pageSize int
	count    int
}

func New(pageSize int) *Cursor {
	if pageSize < 1 {
		pageSize = 1
	}
	return &Cursor{page: 1, pageSize: pageSize}
}

func (c *Cursor) Page() int     { return c.page }
func (c *Cursor) PageSize() int { return c.pageSize }
func (c *Cursor) Count() int    { return c.count }

func (c *Cursor) SetCount(n int) {
	if n < 0 {
		n = 0
	}
	c.count = n
}

// MaxPage is ceil(count/pageSize), 0 for an empty list.
func (c *Cursor) MaxPage() int {
	return (c.count + c.pageSize - 1) / c.pageSize
}

func (c *Cursor) upper() int {
	if m := c.MaxPage(); m > 1 {
		return m
	}
	return 1
}

func (c *Cursor) Next() {
	c.page++
	if u := c.upper(); c.page > u {
		c.page = u
	}
}

func (c *Cursor) Prev() {
	c.page--
	if c.page < 1 {
		c.page = 1
	}
}

func (c *Cursor) Jump(n int) {
	c.page = max(1, min(n, c.MaxPage()))
}

// Reset goes back to page 1, used when the filter inputs change.
func (c *Cursor) Reset() { c.page = 1 }

// OutOfRange reports whether the page sits past the last page.
func (c *Cursor) OutOfRange() bool {
	return c.page > c.upper()
}

// Repair jumps to the last page when the page is out of range.
func (c *Cursor) Repair() bool {
	if !c.OutOfRange() {
		return false
	}
	c.Jump(c.MaxPage())
	return true
}

// Bounds is the [start, end) window into a list of Count items.
func (c *Cursor) Bounds() (int, int) {
	start := (c.page - 1) * c.pageSize
	if start > c.count {
		start = c.count
	}
	end := start + c.pageSize
	if end > c.count {
		end = c.count
	}
	return start, end
}

// Slice returns the visible page of items.
func Slice[T any](c *Cursor, items []T) []T {
	c.SetCount(len(items))
	start, end := c.Bounds()
	return items[start:end]
}
