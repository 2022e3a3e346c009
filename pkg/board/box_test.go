package board

import (
	"testing"

	"github.com/google/uuid"

	"github.com/tilemark/blockboard/pkg/errors"
	"github.com/tilemark/blockboard/pkg/geom"
)

func chainOf(s *Store, c *Chains, blocks ...*Block) {
	for _, b := range blocks {
		c.Toggle(s, b.ID)
	}
}

func TestPackMovesChainIntoBox(t *testing.T) {
	s, bs := storeWith(3)
	bs[0].Pos = geom.Point{X: 200, Y: 50}
	bs[1].Pos = geom.Point{X: 80, Y: 120}
	c := NewChains()
	chainOf(s, c, bs[0], bs[1])

	boxID, err := Pack(s, c, 160)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}

	box := s.Get(boxID)
	if box == nil || !box.IsBox() {
		t.Fatal("pack should create a box block")
	}
	if s.IndexOf(boxID) != 0 {
		t.Errorf("box at index %d, want 0", s.IndexOf(boxID))
	}
	if box.Pos.X != 80 || box.Pos.Y != 50 {
		t.Errorf("box at %+v, want members' top-left corner (80, 50)", box.Pos)
	}
	if len(box.Children) != 2 {
		t.Fatalf("box holds %d children, want 2", len(box.Children))
	}
	if s.Len() != 2 { // box + the unchained third block
		t.Errorf("Len = %d, want 2", s.Len())
	}
	if c.Active() != uuid.Nil {
		t.Error("pack should consume the chain")
	}
	if len(c.Remembered()) != 0 {
		t.Error("a packed chain must not be remembered")
	}
	if s.Get(bs[0].ID) == nil {
		t.Error("nested blocks must stay resolvable by id")
	}
}

func TestPackNeedsTwoMembers(t *testing.T) {
	s, bs := storeWith(1)
	c := NewChains()
	c.Toggle(s, bs[0].ID)

	if _, err := Pack(s, c, 160); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Pack with pending-only selection: err = %v, want INVALID_INPUT", err)
	}
}

func TestPackRejectsBoxMember(t *testing.T) {
	s := NewStore()
	box := NewBox(160)
	s.Insert(box)
	a := img(100, 100)
	s.Insert(a)
	c := NewChains()
	chainOf(s, c, box, a)

	if _, err := Pack(s, c, 160); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Pack with box member: err = %v, want INVALID_INPUT", err)
	}
}

func TestUnpackRestoresChildrenAsChain(t *testing.T) {
	s, bs := storeWith(3)
	c := NewChains()
	chainOf(s, c, bs[0], bs[1])
	boxID, err := Pack(s, c, 160)
	if err != nil {
		t.Fatal(err)
	}

	released, err := Unpack(s, c, boxID)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if len(released) != 2 {
		t.Fatalf("released %d blocks, want 2", len(released))
	}
	if s.Get(boxID) != nil {
		t.Error("box should be gone after unpack")
	}
	if s.Len() != 3 {
		t.Errorf("Len = %d, want 3", s.Len())
	}
	if c.Active() == uuid.Nil {
		t.Error("released blocks should form a fresh chain")
	}
	for _, id := range released {
		if s.IndexOf(id) < 0 {
			t.Errorf("released block %s missing from the sequence", id)
		}
	}
}

func TestUnpackInsertsAfterRemainingBoxes(t *testing.T) {
	s, bs := storeWith(4)
	c := NewChains()
	chainOf(s, c, bs[0], bs[1])
	first, _ := Pack(s, c, 160)
	chainOf(s, c, bs[2], bs[3])
	second, _ := Pack(s, c, 160)
	if s.IndexOf(second) != 0 || s.IndexOf(first) != 1 {
		t.Fatal("boxes should lead the sequence, newest first")
	}

	released, err := Unpack(s, c, second)
	if err != nil {
		t.Fatal(err)
	}
	// One box remains at index 0; released blocks follow it.
	if s.IndexOf(first) != 0 {
		t.Errorf("remaining box at %d, want 0", s.IndexOf(first))
	}
	for _, id := range released {
		if s.IndexOf(id) < 1 {
			t.Errorf("released block %s placed before the box boundary", id)
		}
	}
}

func TestUnpackErrors(t *testing.T) {
	s, bs := storeWith(1)
	c := NewChains()
	if _, err := Unpack(s, c, uuid.New()); !errors.Is(err, errors.ErrCodeBlockNotFound) {
		t.Errorf("unknown id: err = %v, want BLOCK_NOT_FOUND", err)
	}
	if _, err := Unpack(s, c, bs[0].ID); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("image id: err = %v, want INVALID_INPUT", err)
	}
}

func TestDropIntoBoxSingle(t *testing.T) {
	s := NewStore()
	box := NewBox(160)
	s.Insert(box)
	a := img(100, 100)
	s.Insert(a)
	c := NewChains()

	moved, err := DropIntoBox(s, c, box.ID, a.ID)
	if err != nil {
		t.Fatalf("DropIntoBox: %v", err)
	}
	if len(moved) != 1 || moved[0] != a.ID {
		t.Fatalf("moved = %v, want [a]", moved)
	}
	if s.IndexOf(a.ID) != -1 {
		t.Error("dropped block should leave the top-level sequence")
	}
	if len(box.Children) != 1 || box.Children[0] != a.ID {
		t.Error("box should adopt the dropped block")
	}
}

func TestDropIntoBoxMovesWholeChain(t *testing.T) {
	s := NewStore()
	box := NewBox(160)
	s.Insert(box)
	a, b, d := img(10, 10), img(10, 10), img(10, 10)
	s.Insert(a)
	s.Insert(b)
	s.Insert(d)
	c := NewChains()
	chainOf(s, c, a, b)

	moved, err := DropIntoBox(s, c, box.ID, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(moved) != 2 {
		t.Fatalf("moved %d blocks, want the whole chain (2)", len(moved))
	}
	if len(box.Children) != 2 {
		t.Errorf("box holds %d children, want 2", len(box.Children))
	}
	if c.Active() != uuid.Nil {
		t.Error("chain should dissolve after moving into the box")
	}
	if s.IndexOf(d.ID) < 0 {
		t.Error("unchained block must stay on the canvas")
	}
}

func TestDropIntoBoxRejectsBox(t *testing.T) {
	s := NewStore()
	target := NewBox(160)
	other := NewBox(160)
	s.Insert(target)
	s.Insert(other)
	c := NewChains()

	if _, err := DropIntoBox(s, c, target.ID, other.ID); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("box into box: err = %v, want INVALID_INPUT", err)
	}
}
