package models

// Segment is a named customer grouping with a derived member count.
//
// Rule is stored as entered but is not evaluated: CustomerCount is always
// recomputed with CountRepeatBuyers, the same predicate for every segment.
type Segment struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	Rule          string `json:"rule,omitempty"`
	CustomerCount int    `json:"customerCount"`
}

// RecountSegments overwrites every segment's CustomerCount with the number of
// repeat buyers in customers. The slice is modified in place and returned.
func RecountSegments(segments []Segment, customers []Customer) []Segment {
	count := CountRepeatBuyers(customers)
	for i := range segments {
		segments[i].CustomerCount = count
	}
	return segments
}
