/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package epicorder

import "slices"

// Stockpile is the container holding every card not yet placed on a timeline.
const Stockpile = "stockpile"

// Board maps a container ID (Stockpile or a timeline ID) to the ordered card
// IDs it holds. Every card lives in exactly one container.
type Board map[string][]string

// NewBoard puts every card into the stockpile, in the given order, and
// creates an empty container per timeline.
func NewBoard(timelines []Timeline, cardIDs []string) Board {
	b := make(Board, len(timelines)+1)
	b[Stockpile] = slices.Clone(cardIDs)
	if b[Stockpile] == nil {
		b[Stockpile] = []string{}
	}
	for _, tl := range timelines {
		b[tl.ID] = []string{}
	}
	return b
}

func (b Board) Clone() Board {
	out := make(Board, len(b))
	for k, v := range b {
		out[k] = slices.Clone(v)
		if out[k] == nil {
			out[k] = []string{}
		}
	}
	return out
}

func (b Board) Has(container string) bool {
	_, ok := b[container]
	return ok
}

// Locate returns the container currently holding card.
func (b Board) Locate(card string) (string, bool) {
	for container, ids := range b {
		if slices.Contains(ids, card) {
			return container, true
		}
	}
	return "", false
}

// IndexOf returns the position of card within container, or -1.
func (b Board) IndexOf(container, card string) int {
	return slices.Index(b[container], card)
}

// MoveCard takes card out of from and inserts it into to at index. The call
// is a no-op returning false when card is not in from. Capacity is not
// checked here; callers test WouldOverflow first.
func (b Board) MoveCard(card, from, to string, index int) bool {
	if from == to {
		return b.Reorder(from, b.IndexOf(from, card), index)
	}

	i := b.IndexOf(from, card)
	if i < 0 {
		return false
	}

	b[from] = slices.Delete(slices.Clone(b[from]), i, i+1)

	dst := slices.Clone(b[to])
	index = min(max(index, 0), len(dst))
	b[to] = slices.Insert(dst, index, card)

	return true
}

// Reorder moves the card at position from to position to inside container,
// keeping every other card in its relative order.
func (b Board) Reorder(container string, from, to int) bool {
	ids := b[container]
	if from < 0 || from >= len(ids) {
		return false
	}
	to = min(max(to, 0), len(ids)-1)
	if from == to {
		return true
	}

	card := ids[from]
	out := slices.Delete(slices.Clone(ids), from, from+1)
	b[container] = slices.Insert(out, to, card)

	return true
}

// WouldOverflow reports whether timeline already holds capacity cards.
func (b Board) WouldOverflow(timeline string, capacity int) bool {
	return len(b[timeline]) >= capacity
}

// AllPlaced reports whether the stockpile is empty and every timeline holds
// at least one card. It says nothing about whether the placement is correct.
func (b Board) AllPlaced(timelines []Timeline) bool {
	if len(b[Stockpile]) > 0 {
		return false
	}
	for _, tl := range timelines {
		if len(b[tl.ID]) == 0 {
			return false
		}
	}
	return true
}

// Count returns the total number of cards on the board.
func (b Board) Count() int {
	n := 0
	for _, ids := range b {
		n += len(ids)
	}
	return n
}
