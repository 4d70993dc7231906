package batch

// A List is a render queue: an ordered sequence of batches filled with
// first-fit insertion.
//
// The zero value is an empty list of MaxSize batches ready to use.
//
type List struct {
	// Size is the capacity of the batches created by the list. Zero means
	// MaxSize. Changing Size only affects batches created afterwards.
	Size int

	batches []*Batch
	n       int // active batches; batches[n:] are kept for reuse
}

// Insert adds dc to the first batch that accepts it. If none does, a new batch
// is appended to the list.
//
// Insertion is O(B) where B is the number of batches in the list.
//
func (l *List) Insert(dc *DrawCall) {
	for _, b := range l.batches[:l.n] {
		if b.Add(dc) {
			return
		}
	}
	if l.n < len(l.batches) && l.batches[l.n].size == l.size() {
		b := l.batches[l.n]
		b.reset(dc.Key())
		b.Add(dc)
	} else {
		l.batches = append(l.batches[:l.n], NewSize(dc, l.size()))
	}
	l.n++
}

func (l *List) size() int {
	if l.Size > 0 {
		return l.Size
	}
	return MaxSize
}

// Cap returns the capacity of new batches.
//
func (l *List) Cap() int { return l.size() }

// Clear empties the list. Batch storage is retained and reused by subsequent
// insertions.
//
func (l *List) Clear() {
	for _, b := range l.batches[:l.n] {
		b.n = 0
	}
	l.n = 0
}

// Len returns the number of batches in the list.
//
func (l *List) Len() int { return l.n }

// Batches returns the batches in creation order. The returned slice is only
// valid until the next call to Insert or Clear.
//
func (l *List) Batches() []*Batch {
	return l.batches[:l.n]
}

// Stats describes the contents of a List.
//
type Stats struct {
	Batches   int
	Instances int
}

// Stats returns the number of batches and the total number of instances in the
// list.
//
func (l *List) Stats() Stats {
	s := Stats{Batches: l.n}
	for _, b := range l.batches[:l.n] {
		s.Instances += b.n
	}
	return s
}
