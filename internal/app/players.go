package app

import (
	"fmt"

	"github.com/google/uuid"
)

// Player is a session member. All fields are guarded by the owning session's
// lock and the pointer never leaves it; callers outside the lock get a
// PlayerInfo snapshot instead.
type Player struct {
	ID          string
	Name        string
	DisplayName string
	Score       int
	Answered    bool
	Conn        Conn
}

// PlayerInfo is a point-in-time identity snapshot taken under the session
// lock, safe to hold and read outside it. The live display name can still be
// rewritten when a duplicate base name joins later; the snapshot keeps the
// value from join time.
type PlayerInfo struct {
	ID          string
	DisplayName string
}

// playerSet keeps a session's players by id while preserving join order.
// Join order defines host precedence and breaks winner ties.
type playerSet struct {
	byID  map[string]*Player
	order []*Player
}

func newPlayerSet() *playerSet {
	return &playerSet{byID: make(map[string]*Player)}
}

// add creates a player with a fresh id and a display name disambiguated
// against earlier players sharing the same base name. The k-th player named
// "Al" becomes "Al (k)"; when the second one arrives the first is rewritten
// from "Al" to "Al (1)". Suffixes are monotonic and never re-packed after a
// leave.
func (ps *playerSet) add(name string, conn Conn) *Player {
	p := &Player{
		ID:          uuid.NewString(),
		Name:        name,
		DisplayName: name,
		Conn:        conn,
	}

	same := 0
	for _, existing := range ps.order {
		if existing.Name == name {
			same++
		}
	}
	if same > 0 {
		p.DisplayName = fmt.Sprintf("%s (%d)", name, same+1)
		if same == 1 {
			for _, existing := range ps.order {
				if existing.Name == name && existing.DisplayName == name {
					existing.DisplayName = fmt.Sprintf("%s (1)", name)
					break
				}
			}
		}
	}

	ps.byID[p.ID] = p
	ps.order = append(ps.order, p)
	return p
}

func (ps *playerSet) remove(id string) *Player {
	p, ok := ps.byID[id]
	if !ok {
		return nil
	}
	delete(ps.byID, id)
	for i, candidate := range ps.order {
		if candidate.ID == id {
			ps.order = append(ps.order[:i], ps.order[i+1:]...)
			break
		}
	}
	return p
}

func (ps *playerSet) get(id string) (*Player, bool) {
	p, ok := ps.byID[id]
	return p, ok
}

func (ps *playerSet) len() int { return len(ps.order) }

func (ps *playerSet) each(fn func(*Player)) {
	for _, p := range ps.order {
		fn(p)
	}
}

// names returns display names in join order.
func (ps *playerSet) names() []string {
	names := make([]string, 0, len(ps.order))
	for _, p := range ps.order {
		names = append(names, p.DisplayName)
	}
	return names
}

// scores is keyed by display name, which is unique within the session.
func (ps *playerSet) scores() map[string]int {
	scores := make(map[string]int, len(ps.order))
	for _, p := range ps.order {
		scores[p.DisplayName] = p.Score
	}
	return scores
}

// allAnswered is false for an empty set; no players does not mean everyone
// answered.
func (ps *playerSet) allAnswered() bool {
	if len(ps.order) == 0 {
		return false
	}
	for _, p := range ps.order {
		if !p.Answered {
			return false
		}
	}
	return true
}

func (ps *playerSet) resetAnswers() {
	for _, p := range ps.order {
		p.Answered = false
	}
}

func (ps *playerSet) resetScores() {
	for _, p := range ps.order {
		p.Score = 0
	}
}

// winner returns the highest-scoring player; ties go to the earliest joiner.
func (ps *playerSet) winner() (*Player, bool) {
	var best *Player
	for _, p := range ps.order {
		if best == nil || p.Score > best.Score {
			best = p
		}
	}
	return best, best != nil
}
