package phrase

import (
	"reflect"
	"testing"
)

func TestLedgerOrder(t *testing.T) {
	var l Ledger
	l.Append(Item{ID: "1", Label: "J'ai faim"})
	l.Append(Item{ID: "10", Label: "Je veux du pain"})
	l.Append(Item{ID: "8", Label: "Merci"})

	items := l.Items()
	if got := IDs(items); !reflect.DeepEqual(got, []string{"1", "10", "8"}) {
		t.Fatalf("expected insertion order, got %v", got)
	}
	if got := Text(items); got != "J'ai faim Je veux du pain Merci" {
		t.Errorf("unexpected text %q", got)
	}

	last, ok := l.RemoveLast()
	if !ok || last.ID != "8" {
		t.Fatalf("expected to remove 8, got %+v ok=%v", last, ok)
	}
	if l.Len() != 2 {
		t.Errorf("expected 2 items, got %d", l.Len())
	}
	if last, _ := l.Last(); last.ID != "10" {
		t.Errorf("expected last 10, got %s", last.ID)
	}
}

func TestLedgerEmpty(t *testing.T) {
	var l Ledger
	if _, ok := l.RemoveLast(); ok {
		t.Error("RemoveLast on empty ledger should report false")
	}
	if _, ok := l.Last(); ok {
		t.Error("Last on empty ledger should report false")
	}
	l.Append(Item{ID: "a"})
	l.Clear()
	if l.Len() != 0 || Text(l.Items()) != "" {
		t.Error("expected empty ledger after Clear")
	}
}

func TestItemsIsACopy(t *testing.T) {
	var l Ledger
	l.Append(Item{ID: "a", Label: "A"})
	items := l.Items()
	items[0].ID = "mutated"
	if got := l.Items()[0].ID; got != "a" {
		t.Errorf("ledger mutated through copy: %q", got)
	}
}

func TestTextSkipsBlankLabels(t *testing.T) {
	got := Text([]Item{{ID: "1", Label: " salama "}, {ID: "2"}, {ID: "3", Label: "tompoko"}})
	if got != "salama tompoko" {
		t.Errorf("got %q", got)
	}
}
