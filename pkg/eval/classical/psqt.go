package eval

import (
	. "github.com/avolkov/zenith/pkg/common"
)

var pieceValue = [PIECE_NB]Score{
	Pawn:   S(PawnValueMg, PawnValueEg),
	Knight: S(KnightValueMg, KnightValueEg),
	Bishop: S(BishopValueMg, BishopValueEg),
	Rook:   S(RookValueMg, RookValueEg),
	Queen:  S(QueenValueMg, QueenValueEg),
}

// Piece-square bonuses for the queenside half of the board, mirrored to the
// kingside; ranks run from the first rank of the piece's own side.
var pstBonus = [PIECE_NB][RANK_NB][4]Score{
	Knight: {
		{S(-161, -105), S(-96, -82), S(-80, -46), S(-73, -14)},
		{S(-83, -69), S(-43, -54), S(-21, -17), S(-10, 9)},
		{S(-71, -50), S(-22, -39), S(0, -7), S(9, 28)},
		{S(-25, -41), S(18, -25), S(43, 6), S(47, 38)},
		{S(-26, -46), S(16, -25), S(38, 3), S(50, 40)},
		{S(-11, -54), S(37, -38), S(56, -7), S(65, 27)},
		{S(-63, -65), S(-19, -50), S(5, -24), S(14, 13)},
		{S(-195, -109), S(-67, -89), S(-42, -50), S(-29, -13)},
	},
	Bishop: {
		{S(-44, -58), S(-13, -31), S(-25, -37), S(-34, -19)},
		{S(-20, -34), S(20, -9), S(12, -14), S(1, 4)},
		{S(-9, -23), S(27, 0), S(21, -3), S(11, 16)},
		{S(-11, -26), S(28, -3), S(21, -5), S(10, 16)},
		{S(-11, -26), S(27, -4), S(16, -7), S(9, 14)},
		{S(-17, -24), S(16, -2), S(12, 0), S(2, 13)},
		{S(-23, -34), S(17, -10), S(6, -12), S(-2, 6)},
		{S(-35, -55), S(-11, -32), S(-19, -36), S(-29, -17)},
	},
	Rook: {
		{S(-25, 0), S(-16, 0), S(-16, 0), S(-9, 0)},
		{S(-21, 0), S(-8, 0), S(-3, 0), S(0, 0)},
		{S(-21, 0), S(-9, 0), S(-4, 0), S(2, 0)},
		{S(-22, 0), S(-6, 0), S(-1, 0), S(2, 0)},
		{S(-22, 0), S(-7, 0), S(0, 0), S(1, 0)},
		{S(-21, 0), S(-7, 0), S(0, 0), S(2, 0)},
		{S(-12, 0), S(4, 0), S(8, 0), S(12, 0)},
		{S(-23, 0), S(-15, 0), S(-11, 0), S(-5, 0)},
	},
	Queen: {
		{S(0, -71), S(-4, -56), S(-3, -42), S(-1, -29)},
		{S(-4, -56), S(6, -30), S(9, -21), S(8, -5)},
		{S(-2, -39), S(6, -17), S(9, -8), S(9, 5)},
		{S(-1, -29), S(8, -5), S(10, 9), S(7, 19)},
		{S(-3, -27), S(9, -5), S(8, 10), S(7, 21)},
		{S(-2, -40), S(6, -16), S(8, -10), S(10, 3)},
		{S(-2, -55), S(7, -30), S(7, -21), S(6, -6)},
		{S(-1, -74), S(-4, -55), S(-1, -43), S(0, -30)},
	},
	King: {
		{S(272, 0), S(325, 41), S(273, 80), S(190, 93)},
		{S(277, 57), S(305, 98), S(241, 138), S(183, 131)},
		{S(198, 86), S(253, 138), S(168, 165), S(120, 173)},
		{S(169, 103), S(191, 152), S(136, 168), S(108, 169)},
		{S(145, 98), S(176, 166), S(112, 197), S(69, 194)},
		{S(122, 87), S(159, 164), S(85, 174), S(36, 189)},
		{S(87, 40), S(120, 99), S(64, 128), S(25, 141)},
		{S(64, 5), S(87, 60), S(49, 75), S(0, 75)},
	},
}

// Pawns get full-width values: files matter asymmetrically for them.
var pstPawn = [RANK_NB][FILE_NB]Score{
	{},
	{S(0, -10), S(-5, -3), S(10, 7), S(13, -1), S(21, 7), S(17, 6), S(6, 1), S(-3, -20)},
	{S(-11, -6), S(-10, -6), S(15, -1), S(22, -1), S(26, -1), S(28, 2), S(4, -2), S(-24, -5)},
	{S(-9, 4), S(-18, -5), S(8, -4), S(22, -5), S(33, -6), S(25, -13), S(-4, -3), S(-16, -7)},
	{S(6, 18), S(-3, 2), S(-10, 2), S(1, -9), S(12, -13), S(6, -8), S(-12, 11), S(1, 9)},
	{S(-6, 25), S(-8, 17), S(5, 19), S(11, 29), S(-14, 29), S(0, 8), S(-12, 4), S(-14, 12)},
	{S(-10, -1), S(6, -6), S(-5, 18), S(-11, 22), S(-2, 22), S(-14, 17), S(12, 2), S(-1, 9)},
	{},
}

var psqt [PIECE_NB][SQUARE_NB]Score

func init() {
	for piece := Pawn; piece <= King; piece++ {
		for sq := 0; sq < SQUARE_NB; sq++ {
			var bonus Score
			if piece == Pawn {
				bonus = pstPawn[Rank(sq)][File(sq)]
			} else {
				var f = File(sq)
				if f >= FileE {
					f = FileH - f
				}
				bonus = pstBonus[piece][Rank(sq)][f]
			}
			psqt[piece][sq] = pieceValue[piece] + bonus
		}
	}
}

// PsqScore exposes the material plus piece-square sum; the NNUE gating
// wrapper keys off its endgame component.
func PsqScore(p *Position) Score {
	return psqScore(p)
}

// psqScore sums material and piece-square values from White's perspective.
func psqScore(p *Position) Score {
	var score Score
	for x := p.White; x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		score += psqt[p.WhatPiece(sq)][sq]
	}
	for x := p.Black; x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		score -= psqt[p.WhatPiece(sq)][FlipSquare(sq)]
	}
	return score
}
