/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package epicorder

import (
	"math"
	"slices"
)

// Mark is the per-card verdict shown after a single-player Finish.
type Mark string

const (
	MarkNone   Mark = "none"
	MarkGreen  Mark = "green"  // right timeline, right position
	MarkYellow Mark = "yellow" // right timeline, wrong position
	MarkRed    Mark = "red"    // wrong timeline or never placed
)

// Flash is the short-lived feedback for the latest multiplayer drop.
type Flash string

const (
	FlashIdle   Flash = "idle"
	FlashGreen  Flash = "green"
	FlashYellow Flash = "yellow"
	FlashRed    Flash = "red"
)

const (
	pointsGreen  = 2
	pointsYellow = 1
)

// Grading is the outcome of grading a whole board.
type Grading struct {
	Marks   map[string]Mark `json:"marks"`
	Score   int             `json:"score"`
	Perfect int             `json:"perfect"`
}

// Percent returns the score as a rounded percentage of a perfect score.
func (g Grading) Percent() int {
	if g.Perfect == 0 {
		return 0
	}
	return int(math.Round(float64(g.Score) / float64(g.Perfect) * 100))
}

// Grade marks every card on the board. Each timeline is compared, position
// by position, with the chronological order of the cards it holds. Cards
// left in the stockpile are red.
func Grade(board Board, timelines []Timeline, catalog Catalog) Grading {
	g := Grading{
		Marks: make(map[string]Mark, board.Count()),
	}

	for _, tl := range timelines {
		placed := board[tl.ID]
		correct := catalog.Chronological(placed)

		for idx, id := range placed {
			switch {
			case catalog[id].TimelineID != tl.ID:
				g.Marks[id] = MarkRed
			case correct[idx] == id:
				g.Marks[id] = MarkGreen
			default:
				g.Marks[id] = MarkYellow
			}
		}
	}

	for _, id := range board[Stockpile] {
		g.Marks[id] = MarkRed
	}

	for _, m := range g.Marks {
		switch m {
		case MarkGreen:
			g.Score += pointsGreen
		case MarkYellow:
			g.Score += pointsYellow
		}
	}
	g.Perfect = pointsGreen * board.Count()

	return g
}

// GradeSequence judges a proposed timeline sequence after card was dropped
// into timeline: red when the card belongs elsewhere, green when proposed is
// already in chronological order, yellow otherwise.
func GradeSequence(catalog Catalog, timeline, card string, proposed []string) Flash {
	if catalog[card].TimelineID != timeline {
		return FlashRed
	}
	if slices.Equal(proposed, catalog.Chronological(proposed)) {
		return FlashGreen
	}
	return FlashYellow
}

// GradeDrop judges inserting card at index into sequence, the cards already
// on timeline with card itself left out. sequence is not changed.
func GradeDrop(catalog Catalog, timeline string, sequence []string, card string, index int) Flash {
	index = min(max(index, 0), len(sequence))
	proposed := slices.Insert(slices.Clone(sequence), index, card)
	return GradeSequence(catalog, timeline, card, proposed)
}

// Verdict summarises a percentage for the results screen.
type Verdict string

const (
	VerdictGreat Verdict = "great"
	VerdictGood  Verdict = "good"
	VerdictKeep  Verdict = "keep"
)

func VerdictFor(percent int) Verdict {
	switch {
	case percent >= 90:
		return VerdictGreat
	case percent >= 60:
		return VerdictGood
	default:
		return VerdictKeep
	}
}

func (v Verdict) Message() string {
	switch v {
	case VerdictGreat:
		return "Phenomenal!"
	case VerdictGood:
		return "Nice work!"
	default:
		return "Keep going!"
	}
}
