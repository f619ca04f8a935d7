package Multisets

import (
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/g-m-twostay/go-collect/Trees"
)

var rg = *rand.New(rand.NewSource(0))

var _ Multiset[int, uint] = (*TreeMultiset[int, uint])(nil)

func TestTreeMultiset_AddCount(t *testing.T) {
	m := New[int, uint]()
	for _, x := range [][2]uint{{5, 1}, {3, 1}, {5, 2}} {
		if _, err := m.Add(int(x[0]), x[1]); err != nil {
			t.Fatalf("add %v: %v", x, err)
		}
	}
	if c := m.Count(5); c != 3 {
		t.Errorf("count(5) is %d, want 3", c)
	}
	if c := m.Count(3); c != 1 {
		t.Errorf("count(3) is %d, want 1", c)
	}
	if c := m.Count(4); c != 0 {
		t.Errorf("count(4) is %d, want 0", c)
	}
	var order []int
	for it := m.Ascend(); ; {
		e, ok := it()
		if !ok {
			break
		}
		order = append(order, e.Elem)
	}
	if len(order) != 2 || order[0] != 3 || order[1] != 5 {
		t.Errorf("iteration order %v, want [3 5]", order)
	}
	if s := m.Size(); s != 4 {
		t.Errorf("size %d, want 4", s)
	}
	if d := m.Distinct(); d != 2 {
		t.Errorf("distinct %d, want 2", d)
	}
}

func TestTreeMultiset_Random(t *testing.T) {
	m := New[int, uint]()
	content := make(map[int]uint)
	for i := 0; i < 20000; i++ {
		k := rg.Intn(4000)
		switch rg.Intn(3) {
		case 0:
			c := uint(rg.Intn(4) + 1)
			if prev, err := m.Add(k, c); err != nil {
				t.Fatalf("add: %v", err)
			} else if prev != content[k] {
				t.Errorf("add %v reported previous count %d, want %d", k, prev, content[k])
			}
			content[k] += c
		case 1:
			c := uint(rg.Intn(6) + 1)
			if prev, err := m.Remove(k, c); err != nil {
				t.Fatalf("remove: %v", err)
			} else if prev != content[k] {
				t.Errorf("remove %v reported previous count %d, want %d", k, prev, content[k])
			}
			if content[k] <= c {
				delete(content, k)
			} else {
				content[k] -= c
			}
		default:
			c := uint(rg.Intn(3))
			if _, err := m.SetCount(k, c); err != nil {
				t.Fatalf("setCount: %v", err)
			}
			if c == 0 {
				delete(content, k)
			} else {
				content[k] = c
			}
		}
	}
	if d := m.Distinct(); d != uint(len(content)) {
		t.Errorf("distinct %d, want %d", d, len(content))
	}
	var total uint
	for k, c := range content {
		total += c
		if got := m.Count(k); got != c {
			t.Errorf("count(%d) is %d, want %d", k, got, c)
		}
	}
	if s := m.Size(); s != total {
		t.Errorf("size %d, want %d", s, total)
	}
	prev, first := 0, true
	for it := m.Ascend(); ; {
		e, ok := it()
		if !ok {
			break
		}
		if !first && e.Elem <= prev {
			t.Errorf("ascending iteration not ascending at %d", e.Elem)
		}
		if content[e.Elem] != e.Count {
			t.Errorf("iteration sees %d at count %d, want %d", e.Elem, e.Count, content[e.Elem])
		}
		prev, first = e.Elem, false
	}
}

func TestTreeMultiset_RoundTrip(t *testing.T) {
	m := New[int, uint]()
	m.Add(11, 4)
	before := m.Count(11)
	m.Add(11, 3)
	m.Remove(11, 3)
	if c := m.Count(11); c != before {
		t.Errorf("add then remove left count %d, want %d", c, before)
	}
}

func TestTreeMultiset_SetCountIf(t *testing.T) {
	m := New[int, uint]()
	m.Add(2, 5)
	if ok, err := m.SetCountIf(2, 4, 9); err != nil || ok {
		t.Errorf("conditional set with wrong expectation: ok=%v err=%v", ok, err)
	}
	if c := m.Count(2); c != 5 {
		t.Errorf("failed conditional set changed count to %d", c)
	}
	if ok, err := m.SetCountIf(2, 5, 9); err != nil || !ok {
		t.Errorf("conditional set with right expectation: ok=%v err=%v", ok, err)
	}
	if c := m.Count(2); c != 9 {
		t.Errorf("count after conditional set is %d, want 9", c)
	}
	if ok, err := m.SetCountIf(3, 0, 0); err != nil || !ok {
		t.Errorf("vacuous conditional set: ok=%v err=%v", ok, err)
	}
}

func TestTreeMultiset_Views(t *testing.T) {
	m := New[int, uint]()
	for _, k := range []int{5, 10, 15} {
		m.Add(k, 1)
	}
	head := m.HeadMultiset(10, Trees.Open)
	if d := head.Distinct(); d != 1 {
		t.Errorf("head view holds %d elements, want 1", d)
	}
	if c := head.Count(5); c != 1 {
		t.Errorf("head view count(5) is %d, want 1", c)
	}
	// 10 stays excluded by the open bound even after growing underneath
	m.Add(10, 1)
	if c := head.Count(10); c != 0 {
		t.Errorf("head view count(10) is %d, want 0", c)
	}
	// a write through the view is visible to the base
	if _, err := head.Add(5, 1); err != nil {
		t.Fatalf("add through view: %v", err)
	}
	if c := m.Count(5); c != 2 {
		t.Errorf("base count(5) is %d after view write, want 2", c)
	}
	// mutators reject elements outside the view
	var re ElemRangeError[int]
	if _, err := head.Add(12, 1); !errors.As(err, &re) || re.Elem != 12 {
		t.Errorf("out-of-range add returned %v", err)
	}
	if c, err := head.Remove(15, 1); c != 0 || err != nil {
		t.Errorf("out-of-range remove is not a no-op: %d, %v", c, err)
	}
	if c := m.Count(15); c != 1 {
		t.Errorf("out-of-range remove through view changed the base")
	}
	// nested views narrow further
	sub := m.TailMultiset(5, Trees.Open).HeadMultiset(15, Trees.Open)
	if d := sub.Distinct(); d != 1 {
		t.Errorf("middle view holds %d elements, want 1", d)
	}
	if mn, ok := sub.Minimum(); !ok || mn != 10 {
		t.Errorf("middle view minimum %v %v, want 10", mn, ok)
	}
	if mx, ok := m.Maximum(); !ok || mx != 15 {
		t.Errorf("maximum %v %v, want 15", mx, ok)
	}
}

func TestTreeMultiset_Clear(t *testing.T) {
	m := New[int, uint]()
	for k := 0; k < 100; k++ {
		m.Add(k, uint(k%3+1))
	}
	mid := m.SubMultiset(25, Trees.Closed, 75, Trees.Open)
	if err := mid.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if d := mid.Distinct(); d != 0 {
		t.Errorf("cleared view still holds %d elements", d)
	}
	if d := m.Distinct(); d != 50 {
		t.Errorf("base holds %d elements after view clear, want 50", d)
	}
	if m.Count(24) == 0 || m.Count(75) == 0 || m.Count(50) != 0 {
		t.Errorf("view clear removed the wrong elements")
	}
	root := m.root.Load()
	if err := mid.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
	if m.root.Load() != root {
		t.Errorf("clearing an already-clear range swapped the root")
	}
}

func TestTreeMultiset_Descend(t *testing.T) {
	m := New[int, uint]()
	for i := 0; i < 1000; i++ {
		m.Add(rg.Intn(500), 1)
	}
	view := m.SubMultiset(100, Trees.Closed, 400, Trees.Open)
	prev, first := 0, true
	for it := view.Descend(); ; {
		e, ok := it()
		if !ok {
			break
		}
		if e.Elem < 100 || e.Elem >= 400 {
			t.Errorf("descending iteration escaped the view at %d", e.Elem)
		}
		if !first && e.Elem >= prev {
			t.Errorf("descending iteration not descending at %d", e.Elem)
		}
		prev, first = e.Elem, false
	}
}

// Entries handed out stay frozen while the live tree moves on.
func TestTreeMultiset_IterationSnapshot(t *testing.T) {
	m := New[int, uint]()
	for k := 0; k < 100; k++ {
		m.Add(k, 1)
	}
	it := m.Ascend()
	e, _ := it()
	m.Add(e.Elem, 5)
	m.Clear()
	if e.Elem != 0 || e.Count != 1 {
		t.Errorf("returned entry changed to %v", e)
	}
	// the iterator keeps walking its snapshot
	seen := 1
	for {
		if _, ok := it(); !ok {
			break
		}
		seen++
	}
	if seen != 100 {
		t.Errorf("snapshot iteration saw %d entries, want 100", seen)
	}
}

func TestTreeMultiset_Concurrent(t *testing.T) {
	const gs, per = 8, 500
	m := New[int, uint]()
	var wg sync.WaitGroup
	var conflicts [gs]int
	for g := 0; g < gs; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < per; i++ {
				for {
					_, err := m.Add(7, 1)
					if err == nil {
						break
					}
					if !errors.Is(err, ErrConcurrentMod) {
						t.Errorf("unexpected mutation error %v", err)
						return
					}
					conflicts[g]++
				}
			}
		}(g)
	}
	wg.Wait()
	if c := m.Count(7); c != gs*per {
		t.Errorf("count(7) is %d after concurrent adds, want %d", c, gs*per)
	}
	total := 0
	for _, c := range conflicts {
		total += c
	}
	t.Logf("conflicts retried: %d.\n", total)
}
