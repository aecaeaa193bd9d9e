package common

import "strings"

// Move packs from, to, moving piece, captured piece and promotion piece into
// the low 21 bits. MoveEmpty and MoveNull never collide with a generated move
// because generated moves always carry a non-empty moving piece.
type Move int32

const (
	MoveEmpty Move = 0
	MoveNull  Move = 1 << 21
)

func makeMove(from, to, movingPiece, capturedPiece int) Move {
	return Move(from ^ (to << 6) ^ (movingPiece << 12) ^ (capturedPiece << 15))
}

func makePawnMove(from, to, capturedPiece, promotion int) Move {
	return Move(from ^ (to << 6) ^ (Pawn << 12) ^ (capturedPiece << 15) ^ (promotion << 18))
}

func (m Move) From() int {
	return int(m & 63)
}

func (m Move) To() int {
	return int((m >> 6) & 63)
}

func (m Move) MovingPiece() int {
	return int((m >> 12) & 7)
}

func (m Move) CapturedPiece() int {
	return int((m >> 15) & 7)
}

func (m Move) Promotion() int {
	return int((m >> 18) & 7)
}

func (m Move) FromTo() int {
	return int(m & 4095)
}

// IsOk reports whether m is a real move rather than one of the sentinels.
func (m Move) IsOk() bool {
	return m != MoveEmpty && m != MoveNull
}

func (m Move) String() string {
	if m == MoveEmpty {
		return "0000"
	}
	var sPromotion = ""
	if m.Promotion() != Empty {
		sPromotion = string("nbrq"[m.Promotion()-Knight])
	}
	return SquareName(m.From()) + SquareName(m.To()) + sPromotion
}

// MoveFromTo rebuilds a full move from the compact (from, to, promotion)
// triple a transposition table entry stores. The result still has to be
// validated against generated moves before use.
func (p *Position) MoveFromTo(from, to, promotion int) Move {
	var movingPiece = p.WhatPiece(from)
	if movingPiece == Empty {
		return MoveEmpty
	}
	var capturedPiece = p.WhatPiece(to)
	if movingPiece == Pawn {
		if to == p.EpSquare && p.EpSquare != SquareNone {
			capturedPiece = Pawn
		}
		return makePawnMove(from, to, capturedPiece, promotion)
	}
	return makeMove(from, to, movingPiece, capturedPiece)
}

func (p *Position) MakeMoveLAN(lan string) (Position, bool) {
	var buffer [MaxMoves]OrderedMove
	var ml = p.GenerateMoves(buffer[:])
	for i := range ml {
		var mv = ml[i].Move
		if strings.EqualFold(mv.String(), lan) {
			var newPosition = Position{}
			if p.MakeMove(mv, &newPosition) {
				return newPosition, true
			}
			return Position{}, false
		}
	}
	return Position{}, false
}
