package diag

import "sort"

// Bag accumulates the diagnostics of one file, with an upper bound on
// how many are kept.
type Bag struct {
	items []Diagnostic
	max   int
}

// NewBag creates a Bag keeping at most max diagnostics. max <= 0 means
// unbounded.
func NewBag(max int) *Bag {
	capHint := max
	if capHint <= 0 || capHint > 64 {
		capHint = 64
	}
	return &Bag{items: make([]Diagnostic, 0, capHint), max: max}
}

// Add appends a diagnostic, honoring the limit. Returns false when the
// diagnostic was not added.
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Len returns the number of collected diagnostics.
func (b *Bag) Len() int { return len(b.items) }

// Items returns a read-only view of the diagnostics. Do not modify the
// returned slice; it aliases the Bag's storage.
func (b *Bag) Items() []Diagnostic { return b.items }

// Merge appends the diagnostics of another bag, growing the limit when
// needed to fit every element.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	if total := len(b.items) + len(other.items); b.max > 0 && total > b.max {
		b.max = total
	}
	b.items = append(b.items, other.items...)
}

// Sort orders diagnostics by file, then line, then severity, then
// message. The stable sort is what restores non-decreasing line order
// after references arrived grouped by function context.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.File != dj.File {
			return di.File < dj.File
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Severity != dj.Severity {
			return di.Severity < dj.Severity
		}
		return di.Message < dj.Message
	})
}

// Count returns the number of diagnostics with the given severity.
func (b *Bag) Count(sev Severity) int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity == sev {
			n++
		}
	}
	return n
}

// Warnings returns the number of set+get warnings, excluding compile
// and module failures.
func (b *Bag) Warnings() int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity.Warning() {
			n++
		}
	}
	return n
}
