// Package hybrid blends the classical evaluator with an NNUE network: the
// network is preferred in balanced positions, the classical evaluation keeps
// authority when the PSQ imbalance is large or material is nearly bare.
package hybrid

import (
	. "github.com/avolkov/zenith/pkg/common"

	classical "github.com/avolkov/zenith/pkg/eval/classical"
)

// NnueEvaluator produces the raw network output from the side to move
// perspective; loading and inference live outside the engine core.
type NnueEvaluator interface {
	Evaluate(p *Position) int
}

const (
	nnueThreshold1 = 682
	nnueThreshold2 = 176
)

type EvaluationService struct {
	classical *classical.EvaluationService
	nnue      NnueEvaluator
	nodes     uint64
}

func NewEvaluationService(nnue NnueEvaluator) *EvaluationService {
	return &EvaluationService{
		classical: classical.NewEvaluationService(),
		nnue:      nnue,
	}
}

func (e *EvaluationService) adjustedNNUE(p *Position) int {
	var mat = p.AllNonPawnMaterial() + PawnValueMg*p.PawnCount()
	return e.nnue.Evaluate(p)*(679+mat/32)/1024 + classical.Tempo
}

func (e *EvaluationService) Evaluate(p *Position) int {
	if e.nnue == nil {
		return e.classical.Evaluate(p)
	}

	e.nodes++

	// The psq endgame component approximates how lopsided the position is.
	var psq = abs(psqEg(p))
	var r50 = 16 + p.Rule50
	var largePsq = psq*16 > (nnueThreshold1+p.AllNonPawnMaterial()/64)*r50
	var useClassical = largePsq || (psq > PawnValueMg/4 && e.nodes&0xB == 0)

	// Really low material endings stay classical: the critical case is a
	// bishop and rook pawn against the bare king.
	var strongClassical = p.AllNonPawnMaterial() < 2*RookValueMg && p.PawnCount() < 2

	var v int
	if useClassical || strongClassical {
		v = e.classical.Evaluate(p)
	} else {
		v = e.adjustedNNUE(p)
	}

	// A small classical verdict despite a large imbalance means the
	// imbalance is compensated; trust the network after all.
	if largePsq && !strongClassical {
		if abs(v)*16 < nnueThreshold2*r50 ||
			(p.OppositeBishops() &&
				abs(v)*16 < (nnueThreshold1+p.AllNonPawnMaterial()/64)*r50 &&
				e.nodes&0xB == 0) {
			v = e.adjustedNNUE(p)
		}
	}

	return v
}

// psqEg sums material and piece-square endgame values from White's view.
func psqEg(p *Position) int {
	return classical.PsqScore(p).Eg()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
