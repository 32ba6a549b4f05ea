package app

import "testing"

func TestAllAnsweredFalseOnEmptySet(t *testing.T) {
	ps := newPlayerSet()
	if ps.allAnswered() {
		t.Fatalf("empty set must not count as all answered")
	}

	p := ps.add("Alice", nil)
	if ps.allAnswered() {
		t.Fatalf("unanswered player must not count as all answered")
	}
	p.Answered = true
	if !ps.allAnswered() {
		t.Fatalf("expected all answered")
	}
}

func TestWinnerTieBreaksByJoinOrder(t *testing.T) {
	ps := newPlayerSet()
	first := ps.add("Alice", nil)
	second := ps.add("Bob", nil)
	first.Score = 2
	second.Score = 2

	w, ok := ps.winner()
	if !ok || w.ID != first.ID {
		t.Fatalf("expected earliest joiner to win the tie, got %+v", w)
	}

	second.Score = 3
	if w, _ := ps.winner(); w.ID != second.ID {
		t.Fatalf("expected higher score to win, got %+v", w)
	}
}

func TestWinnerOnEmptySet(t *testing.T) {
	ps := newPlayerSet()
	if _, ok := ps.winner(); ok {
		t.Fatalf("expected no winner on empty set")
	}
}

func TestScoresKeyedByDisplayName(t *testing.T) {
	ps := newPlayerSet()
	a := ps.add("Al", nil)
	b := ps.add("Al", nil)
	a.Score = 1
	b.Score = 2

	scores := ps.scores()
	if len(scores) != 2 {
		t.Fatalf("expected duplicate base names to stay distinct keys, got %v", scores)
	}
	if scores["Al (1)"] != 1 || scores["Al (2)"] != 2 {
		t.Fatalf("unexpected score map %v", scores)
	}
}
