package board

// IsRepetition reports whether the current position occurred before since
// the last irreversible move.
func (p *Position) IsRepetition() bool {
	for i := p.repetitionStart(); i < p.HisPly-1; i++ {
		if p.history[i].Key == p.Key {
			return true
		}
	}
	return false
}

// RepetitionCount returns how many earlier occurrences of the current
// position lie in the reversible part of the history.
func (p *Position) RepetitionCount() int {
	n := 0
	for i := p.repetitionStart(); i < p.HisPly-1; i++ {
		if p.history[i].Key == p.Key {
			n++
		}
	}
	return n
}

func (p *Position) repetitionStart() int {
	if start := p.HisPly - p.FiftyMove; start > 0 {
		return start
	}
	return 0
}

// InsufficientMaterial reports whether neither side can possibly mate: bare
// kings, a single minor piece, or bishops that all stand on one color.
func (p *Position) InsufficientMaterial() bool {
	for _, pce := range []Piece{WhitePawn, BlackPawn, WhiteRook, BlackRook, WhiteQueen, BlackQueen} {
		if p.pceNum[pce] > 0 {
			return false
		}
	}
	knights := p.pceNum[WhiteKnight] + p.pceNum[BlackKnight]
	bishops := p.pceNum[WhiteBishop] + p.pceNum[BlackBishop]
	if knights+bishops <= 1 {
		return true
	}
	if knights > 0 {
		return false
	}
	shade := -1
	for _, pce := range []Piece{WhiteBishop, BlackBishop} {
		for _, sq := range p.PieceSquares(pce) {
			s := (sq.File() + sq.Rank()) & 1
			if shade >= 0 && s != shade {
				return false
			}
			shade = s
		}
	}
	return true
}

// OutcomeKind classifies a game state.
type OutcomeKind int

const (
	Ongoing OutcomeKind = iota
	Draw
	Checkmate
)

// Draw reasons.
const (
	ReasonFiftyMove    = "fifty move rule"
	ReasonThreefold    = "threefold repetition"
	ReasonInsufficient = "insufficient material"
	ReasonStalemate    = "stalemate"
	ReasonMoveLimit    = "move limit"
)

// Outcome is the game-over verdict for a position.
type Outcome struct {
	Kind   OutcomeKind
	Reason string // draw reason, empty otherwise
	Winner Color  // valid for Checkmate
}

// IsOver reports whether the game has ended.
func (o Outcome) IsOver() bool {
	return o.Kind != Ongoing
}

// String returns "draw:<reason>", "checkmate:<winner>", or "" while the game
// is still in progress.
func (o Outcome) String() string {
	switch o.Kind {
	case Draw:
		return "draw:" + o.Reason
	case Checkmate:
		return "checkmate:" + o.Winner.String()
	}
	return ""
}

// Outcome evaluates the game-over rules in order: fifty-move rule, threefold
// repetition, insufficient material, then checkmate or stalemate.
func (p *Position) Outcome() Outcome {
	if p.FiftyMove >= 100 {
		return Outcome{Kind: Draw, Reason: ReasonFiftyMove}
	}
	if p.RepetitionCount() >= 2 {
		return Outcome{Kind: Draw, Reason: ReasonThreefold}
	}
	if p.InsufficientMaterial() {
		return Outcome{Kind: Draw, Reason: ReasonInsufficient}
	}
	if !p.HasLegalMove() {
		if p.InCheck() {
			return Outcome{Kind: Checkmate, Winner: p.Side.Other()}
		}
		return Outcome{Kind: Draw, Reason: ReasonStalemate}
	}
	if p.HisPly >= MaxGameMoves-MaxDepth-1 {
		return Outcome{Kind: Draw, Reason: ReasonMoveLimit}
	}
	return Outcome{}
}
