package eval

import (
	"math/bits"

	. "github.com/avolkov/zenith/pkg/common"
)

const darkSquares = uint64(0xAA55AA55AA55AA55)

const (
	queenSideBB   = FileAMask | FileBMask | FileCMask | FileDMask
	centerFilesBB = FileCMask | FileDMask | FileEMask | FileFMask
	kingSideBB    = FileEMask | FileFMask | FileGMask | FileHMask
	centerBB      = (FileDMask | FileEMask) & (Rank4Mask | Rank5Mask)
)

var kingFlank = [FILE_NB]uint64{
	queenSideBB, queenSideBB, queenSideBB, centerFilesBB,
	centerFilesBB, kingSideBB, kingSideBB, kingSideBB,
}

var (
	adjacentFilesMask [FILE_NB]uint64
	forwardRanksMask  [COLOUR_NB][RANK_NB]uint64
	forwardFileMask   [COLOUR_NB][SQUARE_NB]uint64
	pawnAttackSpan    [COLOUR_NB][SQUARE_NB]uint64
	passedPawnMask    [COLOUR_NB][SQUARE_NB]uint64
	distanceBetween   [SQUARE_NB][SQUARE_NB]int
	campMask          [COLOUR_NB]uint64
	lowRanksMask      [COLOUR_NB]uint64
	outpostRanksMask  [COLOUR_NB]uint64
	spaceMask         [COLOUR_NB]uint64
)

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func pawnAttacksBySide(side int, sq int) uint64 {
	return PawnAttacks(sq, side)
}

func sameColorSquares(sq int) uint64 {
	if IsDarkSquare(sq) {
		return darkSquares
	}
	return ^darkSquares
}

func backmost(side int, bb uint64) int {
	if side == SideWhite {
		return bits.TrailingZeros64(bb)
	}
	return 63 - bits.LeadingZeros64(bb)
}

func frontmost(side int, bb uint64) int {
	return backmost(side^1, bb)
}

func shiftUp(side int, bb uint64) uint64 {
	if side == SideWhite {
		return Up(bb)
	}
	return Down(bb)
}

func forward(side int) int {
	if side == SideWhite {
		return 8
	}
	return -8
}

func init() {
	for i := 0; i < SQUARE_NB; i++ {
		for j := 0; j < SQUARE_NB; j++ {
			distanceBetween[i][j] = SquareDistance(i, j)
		}
	}

	for f := FileA; f <= FileH; f++ {
		adjacentFilesMask[f] = Left(FileMask[f]) | Right(FileMask[f])
	}
	for r := Rank1; r <= Rank8; r++ {
		forwardRanksMask[SideWhite][r] = UpFill(RankMask[r]) &^ RankMask[r]
		forwardRanksMask[SideBlack][r] = DownFill(RankMask[r]) &^ RankMask[r]
	}

	for sq := 0; sq < SQUARE_NB; sq++ {
		var x = SquareMask[sq]

		forwardFileMask[SideWhite][sq] = UpFill(Up(x))
		forwardFileMask[SideBlack][sq] = DownFill(Down(x))

		pawnAttackSpan[SideWhite][sq] = UpFill(UpLeft(x) | UpRight(x))
		pawnAttackSpan[SideBlack][sq] = DownFill(DownLeft(x) | DownRight(x))

		passedPawnMask[SideWhite][sq] = forwardFileMask[SideWhite][sq] | pawnAttackSpan[SideWhite][sq]
		passedPawnMask[SideBlack][sq] = forwardFileMask[SideBlack][sq] | pawnAttackSpan[SideBlack][sq]
	}

	campMask[SideWhite] = ^(Rank6Mask | Rank7Mask | Rank8Mask)
	campMask[SideBlack] = ^(Rank1Mask | Rank2Mask | Rank3Mask)

	lowRanksMask[SideWhite] = Rank2Mask | Rank3Mask
	lowRanksMask[SideBlack] = Rank7Mask | Rank6Mask

	outpostRanksMask[SideWhite] = Rank4Mask | Rank5Mask | Rank6Mask
	outpostRanksMask[SideBlack] = Rank5Mask | Rank4Mask | Rank3Mask

	spaceMask[SideWhite] = centerFilesBB & (Rank2Mask | Rank3Mask | Rank4Mask)
	spaceMask[SideBlack] = centerFilesBB & (Rank7Mask | Rank6Mask | Rank5Mask)
}
