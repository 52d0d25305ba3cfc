package presenter

// NextIndex returns the index after current if it is still inside seq.
// The ok return is false at the end of the sequence; consumers use that to
// disable their "next" controls.
func NextIndex(seq []Slide, current int) (int, bool) {
	if current+1 < len(seq) {
		return current + 1, true
	}
	return 0, false
}

// PrevIndex returns the index before current if it is >= 0.
// The ok return is false at the start of the sequence.
func PrevIndex(seq []Slide, current int) (int, bool) {
	if current-1 >= 0 && current-1 < len(seq) {
		return current - 1, true
	}
	return 0, false
}

// SlideGroup is one bucket of slides sharing a group key, in sequence order.
type SlideGroup struct {
	Key    string  `json:"key"`
	Label  string  `json:"label"`
	Slides []Slide `json:"slides"`
}

// GroupByKey buckets seq by GroupKey, preserving first-seen order of keys.
// Slides without a group key fall into one implicit ungrouped bucket with an
// empty key.
func GroupByKey(seq []Slide) []SlideGroup {
	groups := make([]SlideGroup, 0, len(seq))
	byKey := make(map[string]int)

	for _, s := range seq {
		i, seen := byKey[s.GroupKey]
		if !seen {
			i = len(groups)
			byKey[s.GroupKey] = i
			groups = append(groups, SlideGroup{Key: s.GroupKey, Label: s.GroupLabel})
		}
		groups[i].Slides = append(groups[i].Slides, s)
	}

	return groups
}
