package reconcile

// SelectCandidate picks the listing that represents a supplier in the merge.
// Only listings with a datasheet qualify. The highest available quantity wins;
// listings without a reported quantity rank below any reported one, and on
// equal quantities the earliest listing is kept.
func SelectCandidate(listings []Candidate) Selection {
	best := -1
	for i := range listings {
		if listings[i].DatasheetURL == "" {
			continue
		}
		if best < 0 || moreAvailable(listings[i], listings[best]) {
			best = i
		}
	}
	if best < 0 {
		return NoCandidate()
	}
	return Selected(listings[best])
}

// moreAvailable reports whether a has strictly more stock than b.
func moreAvailable(a, b Candidate) bool {
	switch {
	case a.AvailableQuantity == nil:
		return false
	case b.AvailableQuantity == nil:
		return true
	default:
		return *a.AvailableQuantity > *b.AvailableQuantity
	}
}
