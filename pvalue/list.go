package pvalue

import "github.com/benbjohnson/immutable"

// List is a persistent ordered sequence. The zero List is empty.
type List struct {
	l *immutable.List[any]
}

// NewList returns a List holding values in order.
func NewList(values ...any) List {
	if len(values) == 0 {
		return List{}
	}
	return List{l: immutable.NewList[any](values...)}
}

func (l List) tree() *immutable.List[any] {
	if l.l == nil {
		return immutable.NewList[any]()
	}
	return l.l
}

// Len returns the number of elements.
func (l List) Len() int {
	if l.l == nil {
		return 0
	}
	return l.l.Len()
}

// Get returns the element at i and whether i is in range.
func (l List) Get(i int) (any, bool) {
	if i < 0 || i >= l.Len() {
		return nil, false
	}
	return l.l.Get(i), true
}

// Set returns a List with element i replaced. Setting i == Len appends.
func (l List) Set(i int, v any) (List, bool) {
	switch {
	case i == l.Len():
		return l.Append(v), true
	case i < 0 || i > l.Len():
		return l, false
	}
	return List{l: l.l.Set(i, v)}, true
}

// Append returns a List with v added at the end.
func (l List) Append(v any) List { return List{l: l.tree().Append(v)} }

// Delete returns a List without element i; later elements shift down.
func (l List) Delete(i int) List {
	n := l.Len()
	if i < 0 || i >= n {
		return l
	}
	out := l.l.Slice(0, i)
	for j := i + 1; j < n; j++ {
		out = out.Append(l.l.Get(j))
	}
	return List{l: out}
}

// Values returns the elements as a fresh slice.
func (l List) Values() []any {
	out := make([]any, 0, l.Len())
	if l.l == nil {
		return out
	}
	itr := l.l.Iterator()
	for !itr.Done() {
		_, v := itr.Next()
		out = append(out, v)
	}
	return out
}

// MarshalJSON encodes the list as a JSON array.
func (l List) MarshalJSON() ([]byte, error) { return marshalPlain(l) }
