package corpus

import "strings"

// SourceUnit is one source file held fully in memory. Line numbers are
// 1-indexed at the API surface; the slicer's internal tables use
// 0-indexed rows and convert at the edges. Content is normalized to
// \n-joined physical lines so syntax tree rows and the line table
// always agree.
type SourceUnit struct {
	ID      string
	Content []byte
	lines   []string
}

func NewUnit(id string, content []byte) *SourceUnit {
	lines := SplitLines(string(content))
	return &SourceUnit{
		ID:      id,
		Content: []byte(strings.Join(lines, "\n")),
		lines:   lines,
	}
}

// SplitLines splits source into physical lines: \n, \r\n and lone \r
// all end a line, and a trailing line break does not produce an empty
// final line.
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

// Line returns the 1-indexed physical line, or "" when out of range.
func (u *SourceUnit) Line(n int) string {
	if n < 1 || n > len(u.lines) {
		return ""
	}
	return u.lines[n-1]
}

func (u *SourceUnit) LineCount() int {
	return len(u.lines)
}

// Corpus is an insertion-ordered collection of source units keyed by ID.
// Resolution walks units in the order they were added, so corpus order
// decides which unit owns a name that is defined in several.
type Corpus struct {
	order []string
	units map[string]*SourceUnit
}

func New() *Corpus {
	return &Corpus{units: make(map[string]*SourceUnit)}
}

// Add inserts a unit. Re-adding an existing ID replaces the content but
// keeps the unit's original position.
func (c *Corpus) Add(u *SourceUnit) {
	if _, exists := c.units[u.ID]; !exists {
		c.order = append(c.order, u.ID)
	}
	c.units[u.ID] = u
}

func (c *Corpus) Get(id string) (*SourceUnit, bool) {
	u, ok := c.units[id]
	return u, ok
}

// Remove deletes a unit and its position. Unknown IDs are no-ops.
func (c *Corpus) Remove(id string) {
	if _, exists := c.units[id]; !exists {
		return
	}
	delete(c.units, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// IDs returns unit identifiers in insertion order.
func (c *Corpus) IDs() []string {
	ids := make([]string, len(c.order))
	copy(ids, c.order)
	return ids
}

func (c *Corpus) Len() int {
	return len(c.order)
}
