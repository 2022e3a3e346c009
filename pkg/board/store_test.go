package board

import (
	"testing"

	"github.com/google/uuid"

	"github.com/tilemark/blockboard/pkg/geom"
)

func img(w, h float64) *Block {
	return NewImage("img.png", geom.Size{W: w, H: h})
}

func TestInsertAndOrder(t *testing.T) {
	s := NewStore()
	a, b, c := img(100, 100), img(100, 100), img(100, 100)
	s.Insert(a)
	s.Insert(b)
	s.InsertAt(1, c)

	want := []uuid.UUID{a.ID, c.ID, b.ID}
	got := s.OrderedIDs()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	if s.IndexOf(c.ID) != 1 {
		t.Errorf("IndexOf(c) = %d, want 1", s.IndexOf(c.ID))
	}
	if s.IndexOf(uuid.New()) != -1 {
		t.Error("IndexOf(unknown) should be -1")
	}
}

func TestInsertAtClamps(t *testing.T) {
	s := NewStore()
	a := img(10, 10)
	s.InsertAt(-3, a)
	if s.IndexOf(a.ID) != 0 {
		t.Errorf("negative index should clamp to 0, got %d", s.IndexOf(a.ID))
	}
	b := img(10, 10)
	s.InsertAt(99, b)
	if s.IndexOf(b.ID) != 1 {
		t.Errorf("oversized index should clamp to end, got %d", s.IndexOf(b.ID))
	}
}

func TestRemoveCascadesToChildren(t *testing.T) {
	s := NewStore()
	box := NewBox(160)
	s.Insert(box)
	child := img(50, 50)
	if !s.Adopt(box.ID, child) {
		t.Fatal("Adopt failed")
	}

	removed := s.Remove(box.ID)
	if len(removed) != 2 {
		t.Fatalf("removed %d ids, want 2", len(removed))
	}
	if s.Get(child.ID) != nil {
		t.Error("child should be deleted with its box")
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestRemoveNestedDetachesFromParent(t *testing.T) {
	s := NewStore()
	box := NewBox(160)
	s.Insert(box)
	child := img(50, 50)
	s.Adopt(box.ID, child)

	removed := s.Remove(child.ID)
	if len(removed) != 1 || removed[0] != child.ID {
		t.Fatalf("removed = %v, want just the child", removed)
	}
	if len(box.Children) != 0 {
		t.Errorf("box still lists %d children", len(box.Children))
	}
}

func TestExtractKeepsBlockInIndex(t *testing.T) {
	s := NewStore()
	a := img(10, 10)
	s.Insert(a)

	if !s.Extract(a.ID) {
		t.Fatal("Extract failed")
	}
	if s.Len() != 0 {
		t.Error("extracted block should leave the sequence")
	}
	if s.Get(a.ID) == nil {
		t.Error("extracted block should stay in the id index")
	}
	if s.Extract(a.ID) {
		t.Error("second Extract should report false")
	}
}

func TestBoxBoundary(t *testing.T) {
	s := NewStore()
	if s.BoxBoundary() != 0 {
		t.Errorf("empty store boundary = %d, want 0", s.BoxBoundary())
	}
	s.Insert(NewBox(160))
	s.Insert(NewBox(160))
	s.Insert(img(10, 10))
	if s.BoxBoundary() != 2 {
		t.Errorf("boundary = %d, want 2", s.BoxBoundary())
	}
}

func TestFindBoxAt(t *testing.T) {
	s := NewStore()
	box := NewBox(160)
	box.Pos = geom.Point{X: 100, Y: 100}
	s.Insert(box)

	if got := s.FindBoxAt(geom.Point{X: 150, Y: 150}, uuid.Nil); got != box.ID {
		t.Errorf("FindBoxAt inside = %s, want %s", got, box.ID)
	}
	if got := s.FindBoxAt(geom.Point{X: 50, Y: 50}, uuid.Nil); got != uuid.Nil {
		t.Errorf("FindBoxAt outside = %s, want nil", got)
	}
	if got := s.FindBoxAt(geom.Point{X: 150, Y: 150}, box.ID); got != uuid.Nil {
		t.Error("excluded box should not match")
	}
}

func TestMaxImageHeight(t *testing.T) {
	s := NewStore()
	if s.MaxImageHeight() != 0 {
		t.Error("empty store should report 0")
	}
	s.Insert(img(100, 120))
	s.Insert(img(100, 300))
	s.Insert(NewBox(500)) // boxes do not count
	if got := s.MaxImageHeight(); got != 300 {
		t.Errorf("MaxImageHeight = %v, want 300", got)
	}
}

func TestResetCounters(t *testing.T) {
	s := NewStore()
	a := img(10, 10)
	a.Counter = 7
	s.Insert(a)
	box := NewBox(160)
	s.Insert(box)
	nested := img(10, 10)
	nested.Counter = 3
	s.Adopt(box.ID, nested)

	s.ResetCounters()
	if a.Counter != 0 || nested.Counter != 0 {
		t.Errorf("counters = %d, %d after reset", a.Counter, nested.Counter)
	}
}
