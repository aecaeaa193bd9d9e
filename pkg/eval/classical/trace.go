package eval

import (
	"fmt"
	"strings"

	. "github.com/avolkov/zenith/pkg/common"
)

var termNames = [termNB]string{
	"Material", "Imbalance", "Pawns", "Knights", "Bishops", "Rooks", "Queens",
	"Mobility", "King safety", "Threats", "Passed pawns", "Space", "Initiative", "Total",
}

// white-only terms are reported as a single column
func termIsSingle(term int) bool {
	switch term {
	case termMaterial, termImbalance, termPawns, termInitiative, termTotal:
		return true
	}
	return false
}

func toCp(v int) float64 {
	return float64(v) / PawnValueEg
}

// Trace evaluates the position and renders the per-term breakdown, in pawns,
// from White's point of view.
func (e *EvaluationService) Trace(p *Position) string {
	e.TraceEnabled = true
	e.trace = [termNB][COLOUR_NB]Score{}
	var v = e.Evaluate(p)
	e.TraceEnabled = false

	if !p.WhiteMove {
		v = -v
	}

	var sb = &strings.Builder{}
	sb.WriteString("      Eval term |    White    |    Black    |    Total    \n")
	sb.WriteString("                |   MG    EG  |   MG    EG  |   MG    EG  \n")
	sb.WriteString("----------------+-------------+-------------+-------------\n")
	for term := 0; term < termNB; term++ {
		var w = e.trace[term][SideWhite]
		var b = e.trace[term][SideBlack]
		fmt.Fprintf(sb, "%15s | ", termNames[term])
		if termIsSingle(term) {
			sb.WriteString("  ---   --- |   ---   --- | ")
		} else {
			fmt.Fprintf(sb, "%5.2f %5.2f | %5.2f %5.2f | ",
				toCp(w.Mg()), toCp(w.Eg()), toCp(b.Mg()), toCp(b.Eg()))
		}
		fmt.Fprintf(sb, "%5.2f %5.2f \n", toCp(w.Mg()-b.Mg()), toCp(w.Eg()-b.Eg()))
	}
	fmt.Fprintf(sb, "\nTotal evaluation: %.2f (white side)\n", toCp(v))
	return sb.String()
}
