/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

/*
Package epicorder implements the rules of Epic Order, a timeline-ordering
game: players take shuffled historical event cards from a stockpile and
place each one on the timeline it belongs to, in chronological order.

A game is driven through an Engine. Single-player games are graded once,
when the player finishes; multiplayer games grade every drop onto a
timeline and pass the turn after it. Time only moves when Tick is called,
so a caller may drive the engine from a real ticker, a test or a
simulation.
*/
package epicorder
