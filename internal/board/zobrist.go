package board

// Zobrist keys. The generator is seeded with a constant so keys, and with
// them stored repetition history, are identical across runs.
var (
	pieceKeys  [NumPieces][NumSquares]uint64 // pieceKeys[Empty] doubles as the en passant key
	castleKeys [16]uint64
	sideKey    uint64
)

func init() {
	initZobrist()
}

type prng struct {
	state uint64
}

// xorshift64*
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := &prng{state: 0x98F107A2BEEF1234}
	for p := 0; p < NumPieces; p++ {
		for sq := 0; sq < NumSquares; sq++ {
			pieceKeys[p][sq] = rng.next()
		}
	}
	for i := range castleKeys {
		castleKeys[i] = rng.next()
	}
	sideKey = rng.next()
}

func (p *Position) hashPiece(pce Piece, sq Square) { p.Key ^= pieceKeys[pce][sq] }
func (p *Position) hashCastle()                    { p.Key ^= castleKeys[p.Castle] }
func (p *Position) hashSide()                      { p.Key ^= sideKey }
func (p *Position) hashEnPassant()                 { p.Key ^= pieceKeys[Empty][p.EnPassant] }

// ComputeKey recomputes the Zobrist key from scratch. After any sequence of
// MakeMove/TakeMove it equals p.Key.
func (p *Position) ComputeKey() uint64 {
	var key uint64
	for sq := Square(0); sq < NumSquares; sq++ {
		pce := p.pieces[sq]
		if pce != Empty && pce != OffBoard {
			key ^= pieceKeys[pce][sq]
		}
	}
	if p.Side == White {
		key ^= sideKey
	}
	if p.EnPassant != NoSquare {
		key ^= pieceKeys[Empty][p.EnPassant]
	}
	key ^= castleKeys[p.Castle]
	return key
}
