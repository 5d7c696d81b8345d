package domain

// Counts tallies accepted rows per process type.
// Categories iterate in the order they were first seen.
type Counts struct {
	order  []string
	counts map[string]int
}

// NewCounts creates an empty tally.
func NewCounts() *Counts {
	return &Counts{counts: make(map[string]int)}
}

// Add increments the count for a category.
func (c *Counts) Add(category string) {
	c.AddN(category, 1)
}

// AddN adds n to the count for a category.
func (c *Counts) AddN(category string, n int) {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	if _, seen := c.counts[category]; !seen {
		c.order = append(c.order, category)
	}
	c.counts[category] += n
}

// Get returns the count for a category.
func (c *Counts) Get(category string) int {
	if c == nil {
		return 0
	}
	return c.counts[category]
}

// Categories returns the categories in first-seen order.
func (c *Counts) Categories() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of distinct categories.
func (c *Counts) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// Total returns the sum over all categories.
func (c *Counts) Total() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

// Entries returns category/count pairs in first-seen order.
func (c *Counts) Entries() []CountEntry {
	if c == nil {
		return nil
	}
	entries := make([]CountEntry, 0, len(c.order))
	for _, cat := range c.order {
		entries = append(entries, CountEntry{Category: cat, Count: c.counts[cat]})
	}
	return entries
}

// CountEntry is one category and its count.
type CountEntry struct {
	Category string
	Count    int
}
