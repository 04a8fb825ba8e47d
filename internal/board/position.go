package board

import (
	"fmt"
	"strings"
)

// Capacity limits. MaxDepth bounds the search ply and with it the move arena;
// MaxGameMoves bounds the undo history.
const (
	MaxGameMoves     = 2048
	MaxPositionMoves = 256
	MaxDepth         = 64
)

// DebugValidation enables a full Validate after every MakeMove and TakeMove.
// A failed check panics. Slow; meant for tests.
var DebugValidation = false

// CastlingRights is a 4-bit set of the remaining castling options.
type CastlingRights uint8

const (
	WhiteKingSide CastlingRights = 1 << iota
	WhiteQueenSide
	BlackKingSide
	BlackQueenSide
	NoCastling  CastlingRights = 0
	AllCastling CastlingRights = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
)

// String returns the FEN castling field.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var sb strings.Builder
	if cr&WhiteKingSide != 0 {
		sb.WriteByte('K')
	}
	if cr&WhiteQueenSide != 0 {
		sb.WriteByte('Q')
	}
	if cr&BlackKingSide != 0 {
		sb.WriteByte('k')
	}
	if cr&BlackQueenSide != 0 {
		sb.WriteByte('q')
	}
	return sb.String()
}

// castlePerm is ANDed with the rights for both the from and the to square of
// every move. Moving or capturing on a king or rook home square clears the
// matching rights.
var castlePerm [NumSquares]CastlingRights

func init() {
	for i := range castlePerm {
		castlePerm[i] = AllCastling
	}
	castlePerm[A1] = AllCastling &^ WhiteQueenSide
	castlePerm[E1] = AllCastling &^ (WhiteKingSide | WhiteQueenSide)
	castlePerm[H1] = AllCastling &^ WhiteKingSide
	castlePerm[A8] = AllCastling &^ BlackQueenSide
	castlePerm[E8] = AllCastling &^ (BlackKingSide | BlackQueenSide)
	castlePerm[H8] = AllCastling &^ BlackKingSide
}

// Undo is the irreversible state saved before a move so it can be taken back.
type Undo struct {
	Move      Move
	Castle    CastlingRights
	EnPassant Square
	FiftyMove int
	Key       uint64
}

// Position is a full game state on the 10x12 board. It also owns the move
// arena and ordering tables used by the search, so one Position must not be
// used from two goroutines at once.
type Position struct {
	pieces [NumSquares]Piece

	Side      Color
	EnPassant Square
	FiftyMove int // half moves since the last capture or pawn move
	Ply       int // depth below the search root
	HisPly    int // half moves since the position was loaded
	Castle    CastlingRights
	Key       uint64

	material [2]int
	pceNum   [NumPieces]int
	pList    [NumPieces][10]Square

	history [MaxGameMoves]Undo

	moveList      [MaxDepth * MaxPositionMoves]Move
	moveScores    [MaxDepth * MaxPositionMoves]int
	moveListStart [MaxDepth + 1]int

	// Killers holds the two most recent quiet cutoff moves per ply.
	Killers [2][MaxDepth]Move
	// History accumulates depth^2 for quiet moves that raised alpha.
	History [NumPieces][NumSquares]int

	// FEN full move number at HisPly zero and whether black moved first.
	startFullMove int
	startBlack    bool
}

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		panic("board: start position: " + err.Error())
	}
	return pos
}

// Copy returns an independent deep copy.
func (p *Position) Copy() *Position {
	c := *p
	return &c
}

// reset clears everything to an empty board.
func (p *Position) reset() {
	*p = Position{}
	for sq := range p.pieces {
		p.pieces[sq] = OffBoard
	}
	for i := 0; i < 64; i++ {
		p.pieces[SquareFrom64(i)] = Empty
	}
	p.Side = Both
	p.EnPassant = NoSquare
	p.startFullMove = 1
}

// PieceAt returns the content of sq; OffBoard for border cells.
func (p *Position) PieceAt(sq Square) Piece {
	if sq < 0 || sq >= NumSquares {
		return OffBoard
	}
	return p.pieces[sq]
}

// Material returns the summed piece values of color c.
func (p *Position) Material(c Color) int {
	return p.material[c]
}

// Count returns how many pieces of kind pce are on the board.
func (p *Position) Count(pce Piece) int {
	return p.pceNum[pce]
}

// PieceSquares returns the squares holding pce. The slice aliases internal
// storage and is only valid until the next move.
func (p *Position) PieceSquares(pce Piece) []Square {
	return p.pList[pce][:p.pceNum[pce]]
}

// KingSquare returns the square of c's king.
func (p *Position) KingSquare(c Color) Square {
	k := Kings[c]
	if p.pceNum[k] == 0 {
		return NoSquare
	}
	return p.pList[k][0]
}

// FullMove returns the FEN full move number.
func (p *Position) FullMove() int {
	half := p.HisPly
	if p.startBlack {
		half++
	}
	return p.startFullMove + half/2
}

// MoveHistory returns the moves played since the position was loaded, oldest
// first.
func (p *Position) MoveHistory() []Move {
	moves := make([]Move, p.HisPly)
	for i := range moves {
		moves[i] = p.history[i].Move
	}
	return moves
}

func (p *Position) addPiece(sq Square, pce Piece) {
	p.hashPiece(pce, sq)
	p.pieces[sq] = pce
	p.material[pce.Color()] += pce.Value()
	p.pList[pce][p.pceNum[pce]] = sq
	p.pceNum[pce]++
}

func (p *Position) clearPiece(sq Square) {
	pce := p.pieces[sq]
	p.hashPiece(pce, sq)
	p.pieces[sq] = Empty
	p.material[pce.Color()] -= pce.Value()

	n := p.pceNum[pce] - 1
	for i := 0; i <= n; i++ {
		if p.pList[pce][i] == sq {
			p.pList[pce][i] = p.pList[pce][n]
			p.pceNum[pce] = n
			return
		}
	}
	panic(fmt.Sprintf("board: %v on %v missing from piece list", pce, sq))
}

func (p *Position) movePiece(from, to Square) {
	pce := p.pieces[from]
	p.hashPiece(pce, from)
	p.pieces[from] = Empty
	p.hashPiece(pce, to)
	p.pieces[to] = pce

	for i := 0; i < p.pceNum[pce]; i++ {
		if p.pList[pce][i] == from {
			p.pList[pce][i] = to
			return
		}
	}
	panic(fmt.Sprintf("board: %v on %v missing from piece list", pce, from))
}

// Validate checks the internal consistency of the position: board cells and
// piece lists agree, counts and material match, the key matches a full
// recomputation, and the ply counters are in range.
func (p *Position) Validate() error {
	var (
		num      [NumPieces]int
		material [2]int
	)
	for sq := Square(0); sq < NumSquares; sq++ {
		pce := p.pieces[sq]
		if !sq.OnBoard() {
			if pce != OffBoard {
				return fmt.Errorf("border square %d holds %v", sq, pce)
			}
			continue
		}
		if pce == OffBoard {
			return fmt.Errorf("off-board sentinel on %v", sq)
		}
		if pce != Empty {
			num[pce]++
			material[pce.Color()] += pce.Value()
		}
	}
	for pce := WhitePawn; pce <= BlackKing; pce++ {
		if num[pce] != p.pceNum[pce] {
			return fmt.Errorf("count of %v is %d, board has %d", pce, p.pceNum[pce], num[pce])
		}
		for _, sq := range p.PieceSquares(pce) {
			if p.pieces[sq] != pce {
				return fmt.Errorf("piece list has %v on %v, board has %v", pce, sq, p.pieces[sq])
			}
		}
	}
	if material != p.material {
		return fmt.Errorf("material %v, board has %v", p.material, material)
	}
	if p.Side != White && p.Side != Black {
		return fmt.Errorf("invalid side to move %d", p.Side)
	}
	if p.EnPassant != NoSquare {
		want := 5
		if p.Side == Black {
			want = 2
		}
		if !p.EnPassant.OnBoard() || p.EnPassant.Rank() != want {
			return fmt.Errorf("invalid en passant square %v", p.EnPassant)
		}
	}
	if p.Ply < 0 || p.Ply > MaxDepth {
		return fmt.Errorf("ply %d out of range", p.Ply)
	}
	if p.HisPly < 0 || p.HisPly >= MaxGameMoves || p.Ply > p.HisPly {
		return fmt.Errorf("history ply %d out of range (ply %d)", p.HisPly, p.Ply)
	}
	if key := p.ComputeKey(); key != p.Key {
		return fmt.Errorf("key %016x, recomputed %016x", p.Key, key)
	}
	return nil
}

func (p *Position) mustValidate() {
	if err := p.Validate(); err != nil {
		panic("board: " + err.Error())
	}
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			sb.WriteString(p.pieces[NewSquare(file, rank)].String())
			sb.WriteByte(' ')
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.Side)
	fmt.Fprintf(&sb, "Castling: %s\n", p.Castle)
	fmt.Fprintf(&sb, "En passant: %s\n", p.EnPassant)
	fmt.Fprintf(&sb, "Fifty move: %d\n", p.FiftyMove)
	fmt.Fprintf(&sb, "Key: %016x\n", p.Key)
	return sb.String()
}
