package intervaltable

import (
	"fmt"

	"github.com/henderiw/intervaltree/pkg/interval"
	"k8s.io/apimachinery/pkg/labels"
)

type Entry[T any] interface {
	Interval() interval.Interval[T]
	Labels() labels.Set
	String() string
}

type entry[T any] struct {
	iv     interval.Interval[T]
	labels labels.Set
}

type Entries[T any] []Entry[T]

func (r entry[T]) Interval() interval.Interval[T] { return r.iv }
func (r entry[T]) Labels() labels.Set             { return r.labels }
func (r entry[T]) String() string {
	return fmt.Sprintf("interval: %s, labels: %s", r.iv.String(), r.labels.String())
}

func NewEntry[T any](iv interval.Interval[T], labels labels.Set) Entry[T] {
	return entry[T]{
		iv:     iv,
		labels: labels,
	}
}
