package interval

import (
	"encoding/json"
	"fmt"
)

// Bounds serialize as {"included":v}, {"excluded":v}, or "unbounded", so
// the kind and the contained value round-trip exactly. Tree structure and
// balancing priorities are deliberately not part of the format: an external
// serializer walks Intervals() and rebuilds with NewFrom.

func (b Bound[T]) MarshalJSON() ([]byte, error) {
	switch b.Kind {
	case BoundInclusive:
		return json.Marshal(map[string]T{"included": b.Value})
	case BoundExclusive:
		return json.Marshal(map[string]T{"excluded": b.Value})
	default:
		return json.Marshal("unbounded")
	}
}

func (b *Bound[T]) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "unbounded" {
			return fmt.Errorf("unknown bound %q", s)
		}
		*b = Unbound[T]()
		return nil
	}
	var m map[string]T
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if len(m) != 1 {
		return fmt.Errorf("bound must carry exactly one kind, got %d", len(m))
	}
	for kind, v := range m {
		switch kind {
		case "included":
			*b = Incl(v)
		case "excluded":
			*b = Excl(v)
		default:
			return fmt.Errorf("unknown bound kind %q", kind)
		}
	}
	return nil
}

// MarshalJSON writes the stored intervals as an ordered array.
func (t *Tree[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Intervals())
}

// UnmarshalJSON rebuilds the tree from an ordered array of intervals. The
// comparator must already be set, so unmarshal into a tree built with New
// or NewFunc.
func (t *Tree[T]) UnmarshalJSON(data []byte) error {
	if t.cmp == nil {
		return fmt.Errorf("cannot unmarshal into a tree without a comparator")
	}
	var ivs []Interval[T]
	if err := json.Unmarshal(data, &ivs); err != nil {
		return err
	}
	t.Clear()
	for _, iv := range ivs {
		if err := t.Insert(iv); err != nil {
			return err
		}
	}
	return nil
}
