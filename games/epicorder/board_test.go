package epicorder

import (
	"slices"
	"testing"
)

func testBoard() Board {
	return Board{
		Stockpile: {"a", "b", "c"},
		"tl-1":    {"d", "e"},
		"tl-2":    {},
	}
}

func TestBoardMoveCard(t *testing.T) {
	b := testBoard()

	if !b.MoveCard("b", Stockpile, "tl-1", 1) {
		t.Fatal("move reported failure")
	}

	if want := []string{"a", "c"}; !slices.Equal(b[Stockpile], want) {
		t.Errorf("stockpile: got %v, want %v", b[Stockpile], want)
	}
	if want := []string{"d", "b", "e"}; !slices.Equal(b["tl-1"], want) {
		t.Errorf("tl-1: got %v, want %v", b["tl-1"], want)
	}
}

func TestBoardMoveCardClampsIndex(t *testing.T) {
	b := testBoard()
	b.MoveCard("a", Stockpile, "tl-1", 99)
	b.MoveCard("c", Stockpile, "tl-1", -4)

	if want := []string{"c", "d", "e", "a"}; !slices.Equal(b["tl-1"], want) {
		t.Errorf("tl-1: got %v, want %v", b["tl-1"], want)
	}
}

func TestBoardMoveCardMissingSourceIsNoop(t *testing.T) {
	b := testBoard()
	before := b.Clone()

	if b.MoveCard("d", Stockpile, "tl-2", 0) {
		t.Fatal("move of a card not in the stated source reported success")
	}

	for k, v := range before {
		if !slices.Equal(b[k], v) {
			t.Errorf("%s changed: got %v, want %v", k, b[k], v)
		}
	}
}

func TestBoardReorder(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"forward", 0, 2, []string{"b", "c", "a"}},
		{"backward", 2, 0, []string{"c", "a", "b"}},
		{"same", 1, 1, []string{"a", "b", "c"}},
		{"past end", 0, 10, []string{"b", "c", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testBoard()
			if !b.Reorder(Stockpile, tt.from, tt.to) {
				t.Fatal("reorder reported failure")
			}
			if !slices.Equal(b[Stockpile], tt.want) {
				t.Errorf("got %v, want %v", b[Stockpile], tt.want)
			}
		})
	}

	b := testBoard()
	if b.Reorder(Stockpile, 5, 0) {
		t.Error("reorder from an out-of-range index reported success")
	}
}

func TestBoardWouldOverflow(t *testing.T) {
	b := testBoard()

	if !b.WouldOverflow("tl-1", 2) {
		t.Error("tl-1 holds 2 cards with capacity 2, expected overflow")
	}
	if b.WouldOverflow("tl-1", 3) {
		t.Error("tl-1 holds 2 cards with capacity 3, expected room")
	}
	if b.WouldOverflow("tl-2", 3) {
		t.Error("empty timeline reported overflow")
	}
}

func TestBoardLocate(t *testing.T) {
	b := testBoard()

	if got, ok := b.Locate("e"); !ok || got != "tl-1" {
		t.Errorf("Locate(e): got %q %v, want tl-1 true", got, ok)
	}
	if _, ok := b.Locate("z"); ok {
		t.Error("Locate found a card that is not on the board")
	}
}

func TestBoardAllPlaced(t *testing.T) {
	timelines := []Timeline{{ID: "tl-1"}, {ID: "tl-2"}}

	b := testBoard()
	if b.AllPlaced(timelines) {
		t.Error("stockpile is not empty")
	}

	b = Board{Stockpile: {}, "tl-1": {"a", "b"}, "tl-2": {}}
	if b.AllPlaced(timelines) {
		t.Error("tl-2 is empty")
	}

	b["tl-2"] = []string{"c"}
	if !b.AllPlaced(timelines) {
		t.Error("expected every card placed")
	}
}

func TestBoardCloneIsIndependent(t *testing.T) {
	b := testBoard()
	c := b.Clone()
	c.MoveCard("a", Stockpile, "tl-2", 0)

	if len(b["tl-2"]) != 0 || len(b[Stockpile]) != 3 {
		t.Errorf("original board changed: %v", b)
	}
}
