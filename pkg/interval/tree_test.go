package interval

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tj/assert"
)

// checkTree verifies the structural invariants after an operation: search
// order, heap order on priorities, the subtree max-end augmentation against
// a recomputation from scratch, and the stored size.
func checkTree[T any](t *testing.T, tr *Tree[T]) {
	t.Helper()
	if count := checkNode(t, tr, tr.root); count != tr.size {
		t.Errorf("size: -want %d, +got: %d\n", count, tr.size)
	}
	ivs := tr.Intervals()
	for i := 1; i < len(ivs); i++ {
		if Compare(tr.cmp, ivs[i-1], ivs[i]) > 0 {
			t.Errorf("in-order walk not sorted: %s before %s\n", ivs[i-1], ivs[i])
		}
	}
}

func checkNode[T any](t *testing.T, tr *Tree[T], n *node[T]) int {
	t.Helper()
	if n == nil {
		return 0
	}
	left := checkNode(t, tr, n.left)
	right := checkNode(t, tr, n.right)

	max := n.key.End
	if n.left != nil {
		if Compare(tr.cmp, n.left.key, n.key) > 0 {
			t.Errorf("search order violated: left %s above %s\n", n.left.key, n.key)
		}
		if n.left.priority > n.priority {
			t.Errorf("heap order violated at %s\n", n.key)
		}
		if CompareEnds(tr.cmp, n.left.maxEnd, max) > 0 {
			max = n.left.maxEnd
		}
	}
	if n.right != nil {
		if Compare(tr.cmp, n.right.key, n.key) < 0 {
			t.Errorf("search order violated: right %s above %s\n", n.right.key, n.key)
		}
		if n.right.priority > n.priority {
			t.Errorf("heap order violated at %s\n", n.key)
		}
		if CompareEnds(tr.cmp, n.right.maxEnd, max) > 0 {
			max = n.right.maxEnd
		}
	}
	if CompareEnds(tr.cmp, max, n.maxEnd) != 0 {
		t.Errorf("subtree max end stale at %s\n", n.key)
	}
	return 1 + left + right
}

func TestInsert(t *testing.T) {
	cases := map[string]struct {
		intervals   []Interval[int]
		invalid     []Interval[int]
		expectedLen int
	}{
		"Normal": {
			intervals:   []Interval[int]{Closed(1, 5), ClosedOpen(7, 9), AtMost(0)},
			expectedLen: 3,
		},
		"Duplicates": {
			intervals:   []Interval[int]{Closed(1, 5), Closed(1, 5), Closed(1, 5)},
			expectedLen: 3,
		},
		"SharedStart": {
			intervals:   []Interval[int]{Closed(1, 5), Closed(1, 9), ClosedOpen(1, 5)},
			expectedLen: 3,
		},
		"Invalid": {
			intervals:   []Interval[int]{Closed(1, 5)},
			invalid:     []Interval[int]{Open(5, 5), ClosedOpen(5, 5), OpenClosed(5, 5), Closed(7, 3)},
			expectedLen: 1,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			tr := New[int]()
			for _, iv := range tc.intervals {
				err := tr.Insert(iv)
				assert.NoError(t, err)
				checkTree(t, tr)
			}
			for _, iv := range tc.invalid {
				err := tr.Insert(iv)
				assert.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInterval))
			}
			if tr.Len() != tc.expectedLen {
				t.Errorf("%s: -want %d, +got: %d\n", name, tc.expectedLen, tr.Len())
			}
			checkTree(t, tr)
		})
	}
}

func TestRemove(t *testing.T) {
	cases := map[string]struct {
		intervals   []Interval[int]
		remove      []Interval[int]
		notFound    []Interval[int]
		expectedLen int
	}{
		"Present": {
			intervals:   []Interval[int]{Closed(1, 5), ClosedOpen(7, 9), AtMost(0)},
			remove:      []Interval[int]{ClosedOpen(7, 9)},
			expectedLen: 2,
		},
		"Absent": {
			intervals:   []Interval[int]{Closed(1, 5)},
			notFound:    []Interval[int]{Closed(1, 6), ClosedOpen(1, 5), Closed(2, 5), AtLeast(1)},
			expectedLen: 1,
		},
		"OneOfDuplicates": {
			intervals:   []Interval[int]{Closed(1, 5), Closed(1, 5)},
			remove:      []Interval[int]{Closed(1, 5)},
			expectedLen: 1,
		},
		"All": {
			intervals:   []Interval[int]{Closed(1, 5), Open(2, 8), AtLeast(10), LessThan(0)},
			remove:      []Interval[int]{LessThan(0), Closed(1, 5), AtLeast(10), Open(2, 8)},
			expectedLen: 0,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			tr := New[int]()
			for _, iv := range tc.intervals {
				assert.NoError(t, tr.Insert(iv))
			}
			for _, iv := range tc.remove {
				assert.True(t, tr.Remove(iv))
				checkTree(t, tr)
			}
			for _, iv := range tc.notFound {
				before := tr.Intervals()
				assert.False(t, tr.Remove(iv))
				checkTree(t, tr)
				if diff := cmp.Diff(before, tr.Intervals()); diff != "" {
					t.Errorf("%s: tree changed by failed remove (-want +got):\n%s", name, diff)
				}
			}
			if tr.Len() != tc.expectedLen {
				t.Errorf("%s: -want %d, +got: %d\n", name, tc.expectedLen, tr.Len())
			}
		})
	}
}

func TestInsertRemoveCycle(t *testing.T) {
	tr := New[int]()
	iv := ClosedOpen(3, 12)
	for i := 0; i < 50; i++ {
		assert.NoError(t, tr.Insert(iv))
	}
	checkTree(t, tr)
	for i := 0; i < 50; i++ {
		assert.True(t, tr.Remove(iv))
		checkTree(t, tr)
	}
	assert.True(t, tr.IsEmpty())
	assert.Nil(t, tr.root)
	assert.False(t, tr.Remove(iv))
}

func TestOverlaps(t *testing.T) {
	rootKey := Closed(2, 3)
	leftKey := Closed(0, 1)
	leftLeftKey := ClosedOpen(-5, 10)
	rightKey := GreaterThan(3)

	tr := New[int]()
	assert.NoError(t, tr.Insert(rootKey))
	assert.NoError(t, tr.Insert(leftKey))
	if diff := cmp.Diff([]Interval[int]{rootKey}, tr.Overlaps(rootKey)); diff != "" {
		t.Errorf("overlaps (-want +got):\n%s", diff)
	}

	assert.NoError(t, tr.Insert(leftLeftKey))
	if diff := cmp.Diff([]Interval[int]{leftLeftKey, leftKey, rootKey}, tr.Overlaps(All[int]())); diff != "" {
		t.Errorf("overlaps (-want +got):\n%s", diff)
	}
	assert.Empty(t, tr.Overlaps(AtLeast(100)))

	assert.NoError(t, tr.Insert(rightKey))
	cases := map[string]struct {
		query    Interval[int]
		expected []Interval[int]
	}{
		"Root":         {rootKey, []Interval[int]{leftLeftKey, rootKey}},
		"All":          {All[int](), []Interval[int]{leftLeftKey, leftKey, rootKey, rightKey}},
		"FarRight":     {AtLeast(100), []Interval[int]{rightKey}},
		"MidRange":     {ClosedOpen(3, 10), []Interval[int]{leftLeftKey, rootKey, rightKey}},
		"OpenMid":      {Open(3, 10), []Interval[int]{leftLeftKey, rightKey}},
		"LessThanTwo":  {LessThan(2), []Interval[int]{leftLeftKey, leftKey}},
		"AtMostTwo":    {AtMost(2), []Interval[int]{leftLeftKey, leftKey, rootKey}},
		"AtMostThree":  {AtMost(3), []Interval[int]{leftLeftKey, leftKey, rootKey}},
		"BeforeOrigin": {Closed(-100, -6), nil},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if diff := cmp.Diff(tc.expected, tr.Overlaps(tc.query)); diff != "" {
				t.Errorf("%s: overlaps (-want +got):\n%s", name, diff)
			}
		})
	}
}

func TestOverlapsOrderIndependent(t *testing.T) {
	keys := []Interval[int]{
		ClosedOpen(-5, 10), Closed(0, 1), Closed(2, 3), GreaterThan(3),
		LessThan(-20), Open(10, 20), Closed(15, 15),
	}
	queries := []Interval[int]{
		All[int](), Closed(0, 3), Open(9, 16), AtMost(-20), Point(10),
	}
	orders := [][]int{
		{0, 1, 2, 3, 4, 5, 6},
		{6, 5, 4, 3, 2, 1, 0},
		{3, 0, 6, 1, 5, 2, 4},
	}

	base := New[int]()
	for _, k := range keys {
		assert.NoError(t, base.Insert(k))
	}
	for _, order := range orders {
		tr := New[int]()
		for _, i := range order {
			assert.NoError(t, tr.Insert(keys[i]))
		}
		checkTree(t, tr)
		for _, q := range queries {
			if diff := cmp.Diff(base.Overlaps(q), tr.Overlaps(q)); diff != "" {
				t.Errorf("query %s: insertion order changed result (-want +got):\n%s", q, diff)
			}
		}
	}
}

func TestExcludedBoundsTouchingDoNotOverlap(t *testing.T) {
	tr := New[int]()
	assert.NoError(t, tr.Insert(Interval[int]{Unbound[int](), Excl(5)}))
	assert.Empty(t, tr.Overlaps(Interval[int]{Excl(5), Unbound[int]()}))

	tr = New[int]()
	assert.NoError(t, tr.Insert(Interval[int]{Excl(5), Unbound[int]()}))
	assert.Empty(t, tr.Overlaps(Interval[int]{Unbound[int](), Excl(5)}))
	assert.Empty(t, tr.OverlapsPoint(5))
	assert.False(t, tr.ContainsPoint(5))
	assert.True(t, tr.ContainsPoint(6))
}

func TestOverlapsPoint(t *testing.T) {
	cases := map[string]struct {
		stored   []Interval[int]
		point    int
		expected []Interval[int]
	}{
		"PointInterval": {
			stored:   []Interval[int]{Point(5)},
			point:    5,
			expected: []Interval[int]{Point(5)},
		},
		"ExclStartMisses": {
			stored: []Interval[int]{GreaterThan(5)},
			point:  5,
		},
		"InclusiveEdges": {
			stored:   []Interval[int]{Closed(0, 5), ClosedOpen(5, 9)},
			point:    5,
			expected: []Interval[int]{Closed(0, 5), ClosedOpen(5, 9)},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			tr, err := NewFrom(tc.stored...)
			assert.NoError(t, err)
			if diff := cmp.Diff(tc.expected, tr.OverlapsPoint(tc.point)); diff != "" {
				t.Errorf("%s: overlaps (-want +got):\n%s", name, diff)
			}
		})
	}
}

func TestContainsPoint(t *testing.T) {
	tr, err := NewFrom(ClosedOpen(10, 20), Open(30, 40), AtLeast(40))
	assert.NoError(t, err)

	cases := map[int]bool{
		10:  true,
		19:  true,
		20:  false,
		30:  false,
		35:  true,
		40:  true,
		100: true,
		0:   false,
	}
	for p, want := range cases {
		if got := tr.ContainsPoint(p); got != want {
			t.Errorf("point %d: -want %v, +got: %v\n", p, want, got)
		}
	}
}

func TestContainsInterval(t *testing.T) {
	tr, err := NewFrom(ClosedOpen(10, 20), Open(30, 40), AtLeast(40))
	assert.NoError(t, err)

	cases := map[string]struct {
		query Interval[int]
		want  bool
	}{
		"Exact":             {ClosedOpen(10, 20), true},
		"Within":            {Closed(12, 15), true},
		"AcrossGap":         {Closed(10, 20), false},
		"TailCovered":       {Closed(35, 37), true},
		"JoinedAtInclusive": {Closed(31, 50), true},
		"Uncovered":         {AtMost(0), false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := tr.ContainsInterval(tc.query); got != tc.want {
				t.Errorf("%s: -want %v, +got: %v\n", name, tc.want, got)
			}
		})
	}
}

func TestDifference(t *testing.T) {
	cases := map[string]struct {
		stored   []Interval[int]
		query    Interval[int]
		expected []Interval[int]
	}{
		"GapsAroundSingleClaim": {
			stored:   []Interval[int]{Closed(2, 4)},
			query:    ClosedOpen(0, 10),
			expected: []Interval[int]{ClosedOpen(0, 2), Open(4, 10)},
		},
		"NothingStored": {
			stored:   nil,
			query:    Closed(1, 5),
			expected: []Interval[int]{Closed(1, 5)},
		},
		"NoOverlapReturnsQuery": {
			stored:   []Interval[int]{Closed(100, 200)},
			query:    Open(1, 5),
			expected: []Interval[int]{Open(1, 5)},
		},
		"FullyCovered": {
			stored: []Interval[int]{Closed(0, 10)},
			query:  Closed(2, 5),
		},
		"LeadingGapOnly": {
			stored:   []Interval[int]{ClosedOpen(0, 10), OpenClosed(10, 30), GreaterThan(50)},
			query:    Closed(-5, 30),
			expected: []Interval[int]{ClosedOpen(-5, 0), Point(10)},
		},
		"UnboundedQueryStart": {
			stored:   []Interval[int]{ClosedOpen(0, 10), OpenClosed(10, 30), GreaterThan(50)},
			query:    LessThan(10),
			expected: []Interval[int]{LessThan(0)},
		},
		"CoveredUnboundedTail": {
			stored:   []Interval[int]{ClosedOpen(0, 10), OpenClosed(10, 30), GreaterThan(50)},
			query:    AtLeast(100),
			expected: nil,
		},
		"Sweep": {
			stored: []Interval[int]{
				ClosedOpen(2, 10), Closed(4, 6), Open(10, 20), OpenClosed(30, 35),
				Closed(30, 40), Closed(30, 35), GreaterThan(45), Closed(60, 70),
			},
			query: OpenClosed(0, 100),
			expected: []Interval[int]{
				Open(0, 2), Point(10), ClosedOpen(20, 30), OpenClosed(40, 45),
			},
		},
		"SweepInnerClosed": {
			stored: []Interval[int]{
				ClosedOpen(2, 10), Closed(4, 6), Open(10, 20), OpenClosed(30, 35),
				Closed(30, 40), Closed(30, 35), GreaterThan(45), Closed(60, 70),
			},
			query:    Closed(19, 40),
			expected: []Interval[int]{ClosedOpen(20, 30)},
		},
		"SweepFromGapStart": {
			stored: []Interval[int]{
				ClosedOpen(2, 10), Closed(4, 6), Open(10, 20), OpenClosed(30, 35),
				Closed(30, 40), Closed(30, 35), GreaterThan(45), Closed(60, 70),
			},
			query:    Closed(20, 45),
			expected: []Interval[int]{ClosedOpen(20, 30), OpenClosed(40, 45)},
		},
		"SweepOpenQueryEnd": {
			stored: []Interval[int]{
				ClosedOpen(2, 10), Closed(4, 6), Open(10, 20), OpenClosed(30, 35),
				Closed(30, 40), Closed(30, 35), GreaterThan(45), Closed(60, 70),
			},
			query:    ClosedOpen(20, 45),
			expected: []Interval[int]{ClosedOpen(20, 30), Open(40, 45)},
		},
		"TrailingPoint": {
			stored: []Interval[int]{
				ClosedOpen(2, 10), Closed(4, 6), Open(10, 20), OpenClosed(30, 35),
				Closed(30, 40), Closed(30, 35), GreaterThan(45), Closed(60, 70),
			},
			query:    Closed(2, 10),
			expected: []Interval[int]{Point(10)},
		},
		"ConsecutiveExcluded": {
			stored:   []Interval[int]{ClosedOpen(10, 20), Open(30, 40)},
			query:    Closed(0, 40),
			expected: []Interval[int]{ClosedOpen(0, 10), Closed(20, 30), Point(40)},
		},
		"UnboundedQueryEnd": {
			stored:   []Interval[int]{Closed(1, 2)},
			query:    AtLeast(0),
			expected: []Interval[int]{ClosedOpen(0, 1), GreaterThan(2)},
		},
		"UnboundedQueryBothSides": {
			stored:   []Interval[int]{Closed(0, 5)},
			query:    All[int](),
			expected: []Interval[int]{LessThan(0), GreaterThan(5)},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			tr, err := NewFrom(tc.stored...)
			assert.NoError(t, err)
			got := tr.Difference(tc.query)
			if diff := cmp.Diff(tc.expected, got); diff != "" {
				t.Errorf("%s: difference (-want +got):\n%s", name, diff)
			}
			// no gap may overlap anything stored
			for _, gap := range got {
				if overlapping := tr.Overlaps(gap); len(overlapping) != 0 {
					t.Errorf("%s: gap %s overlaps stored %s\n", name, gap, overlapping[0])
				}
			}
		})
	}
}

func TestIterate(t *testing.T) {
	key1 := ClosedOpen(10, 20)
	key2 := AtLeast(40)
	key3 := Open(30, 40)
	key4 := AtMost(50)
	key5 := OpenClosed(-10, -5)
	key6 := Closed(-10, -4)

	tr, err := NewFrom(key1, key2, key3, key4, key5, key6)
	assert.NoError(t, err)

	expected := []Interval[int]{key4, key6, key5, key1, key3, key2}
	if diff := cmp.Diff(expected, tr.Intervals()); diff != "" {
		t.Errorf("in-order walk (-want +got):\n%s", diff)
	}

	var count int
	iter := tr.Iterate()
	for iter.Next() {
		count++
	}
	if count != len(expected) {
		t.Errorf("iterator count: -want %d, +got: %d\n", len(expected), count)
	}

	empty := New[int]()
	assert.False(t, empty.Iterate().Next())
}

func TestClone(t *testing.T) {
	tr, err := NewFrom(Closed(1, 5), Open(7, 9), AtMost(0))
	assert.NoError(t, err)

	clone := tr.Clone()
	checkTree(t, clone)
	assert.True(t, tr.Remove(Open(7, 9)))
	assert.NoError(t, tr.Insert(Closed(100, 200)))

	if diff := cmp.Diff([]Interval[int]{AtMost(0), Closed(1, 5), Open(7, 9)}, clone.Intervals()); diff != "" {
		t.Errorf("clone changed with original (-want +got):\n%s", diff)
	}
}

func TestClear(t *testing.T) {
	tr, err := NewFrom(Closed(1, 5), AtLeast(8))
	assert.NoError(t, err)
	assert.Equal(t, 2, tr.Len())
	assert.False(t, tr.IsEmpty())

	tr.Clear()
	assert.True(t, tr.IsEmpty())
	assert.Equal(t, 0, tr.Len())
	assert.Nil(t, tr.root)
}

func TestInvariantSequence(t *testing.T) {
	inserts := []Interval[int]{
		Closed(16, 100), ClosedOpen(8, 9), ClosedOpen(5, 8), OpenClosed(15, 23),
		Closed(0, 3), ClosedOpen(13, 26), AtMost(-2), GreaterThan(90),
		Closed(7, 7), Open(2, 40), Closed(16, 100), LessThan(-10),
		Point(55), OpenClosed(-3, 12), AtLeast(200), Closed(-7, -7),
	}
	removes := []Interval[int]{
		ClosedOpen(8, 9), AtMost(-2), Closed(16, 100), Point(55),
		Open(2, 40), LessThan(-10),
	}

	tr := New[int]()
	for _, iv := range inserts {
		assert.NoError(t, tr.Insert(iv))
		checkTree(t, tr)
	}
	for _, iv := range removes {
		assert.True(t, tr.Remove(iv))
		checkTree(t, tr)
	}
	assert.Equal(t, len(inserts)-len(removes), tr.Len())
}

func TestStringer(t *testing.T) {
	tr := New[int]()
	assert.Equal(t, "empty tree", tr.String())

	assert.NoError(t, tr.Insert(Closed(1, 5)))
	assert.NoError(t, tr.Insert(LessThan(0)))
	assert.Equal(t, "(-inf,0) [1,5]", tr.String())
}
