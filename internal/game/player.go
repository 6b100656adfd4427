package game

// Player is a member of a four-player game. Point totals accumulate for the
// whole round; the float flags track the once-per-game stake-doubling
// privilege. Players are owned by the Game and mutated only through
// settlement and float invocation.
type Player struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Handicap float64 `json:"handicap"`
	Points   int     `json:"points"`

	// FloatedHole is set while the player's float is in effect on the
	// current hole and resets at the start of every hole.
	FloatedHole bool `json:"floated_hole"`

	// FloatUsed is set once the player has consumed their float and never
	// resets for the remainder of the game.
	FloatUsed bool `json:"float_used"`
}
