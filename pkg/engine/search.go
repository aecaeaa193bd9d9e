package engine

import (
	. "github.com/avolkov/zenith/pkg/common"
)

const razorMargin = 600

func futilityMargin(depth int) int {
	return 150 * depth
}

// alphaBeta is the main search. PV nodes carry a non-trivial window; all
// other invariants follow the step numbering of the classical driver:
// abort/draw, mate distance pruning, tt probe and cutoff, static eval,
// razoring, reverse futility, null move with verification, probcut, internal
// iterative deepening, then the move loop with singular extensions, shallow
// depth pruning and late move reductions.
func (t *thread) alphaBeta(alpha, beta, depth, height int, cutNode, skipEarlyPruning bool) int {
	var pvNode = beta != alpha+1
	var rootNode = pvNode && height == 0

	if depth <= 0 {
		return t.quiescence(alpha, beta, 0, height)
	}

	var e = t.engine
	var ss = t.at(height)
	var position = &ss.position
	var inCheck = position.IsCheck()

	t.clearPV(height)
	ss.moveCount = 0
	ss.statScore = 0
	var bestValue = -valueInfinity
	var bestMove = MoveEmpty

	if pvNode && t.selDepth < height+1 {
		t.selDepth = height + 1
	}

	if !rootNode {
		// Step 2. Aborted search and immediate draw
		if e.stop.Load() {
			return valueDraw
		}
		if t.isDraw(height) || height >= maxHeight {
			if height >= maxHeight && !inCheck {
				return t.evaluator.Evaluate(position)
			}
			return valueDraw
		}

		// Step 3. Mate distance pruning
		alpha = Max(alpha, lossIn(height))
		beta = Min(beta, winIn(height+1))
		if alpha >= beta {
			return alpha
		}
	}

	ss.currentMove = MoveEmpty
	ss.contIndex = 0
	t.at(height + 1).excludedMove = MoveEmpty
	t.at(height + 2).killer1 = MoveEmpty
	t.at(height + 2).killer2 = MoveEmpty
	var prevMove = t.at(height - 1).currentMove

	// Step 4. Transposition table lookup. An excluded move search must not
	// share the slot of the full search.
	var excludedMove = ss.excludedMove
	var posKey = position.Key ^ (uint64(excludedMove) << 16)
	var ttHit, ttDepth, ttValueRaw, ttEvalRaw, ttBound, ttMove16 = e.transTable.Probe(posKey)
	var ttValue = valueFromTT(ttValueRaw, height)
	var ttMove Move
	if rootNode {
		ttMove = t.rootMoves[t.pvIdx].Move
	} else if ttHit && ttMove16 != 0 {
		ttMove = position.MoveFromTo(int(ttMove16&63), int(ttMove16>>6&63), int(ttMove16>>12&7))
	}

	// Step 4b. TT cutoff at non-PV nodes; sorting heuristics learn from it.
	if !pvNode && ttHit && ttDepth >= depth && ttValue != valueNone &&
		boundAllowsCutoff(ttBound, ttValue, beta) {
		if ttMove != MoveEmpty {
			if ttValue >= beta {
				if !isCaptureOrPromotion(ttMove) {
					t.updateQuietStats(height, ttMove, statBonus(depth))
				}
				if t.at(height-1).moveCount == 1 && prevMove.IsOk() && prevMove.CapturedPiece() == Empty {
					t.updateContinuationHistories(height-1, t.at(height-1).contIndex, -statBonus(depth+1))
				}
			} else if !isCaptureOrPromotion(ttMove) {
				var penalty = -statBonus(depth)
				t.updateMainHistory(position.SideToMove(), ttMove, penalty)
				t.updateContinuationHistories(height, pieceSquareIndex(position.SideToMove(), ttMove), penalty)
			}
		}
		return ttValue
	}

	// Step 5. Static evaluation
	var eval int
	if inCheck {
		ss.staticEval = valueNone
		eval = valueNone
	} else {
		if ttHit {
			ss.staticEval = ttEvalRaw
			if ss.staticEval == valueNone {
				ss.staticEval = t.evaluator.Evaluate(position)
			}
			eval = ss.staticEval
			// ttValue can be a tighter estimate of the position
			if ttValue != valueNone && boundRefinesEval(ttBound, ttValue, eval) {
				eval = ttValue
			}
		} else {
			if prevMove == MoveNull {
				ss.staticEval = -t.at(height-1).staticEval + 2*tempo
			} else {
				ss.staticEval = t.evaluator.Evaluate(position)
			}
			eval = ss.staticEval
			e.transTable.Save(posKey, valueNone, boundNone, depthNone, MoveEmpty, ss.staticEval)
		}
	}

	var improving = inCheck ||
		ss.staticEval >= t.at(height-2).staticEval ||
		t.at(height-2).staticEval == valueNone

	if !inCheck && !skipEarlyPruning && position.NonPawnMaterial(position.SideToMove()) > 0 {

		// Step 6. Razoring
		if !pvNode && depth < 4 && eval+razorMargin <= alpha {
			if depth <= 1 {
				return t.quiescence(alpha, alpha+1, 0, height)
			}
			var ralpha = alpha - razorMargin
			var v = t.quiescence(ralpha, ralpha+1, 0, height)
			if v <= ralpha {
				return v
			}
		}

		// Step 7. Reverse futility pruning
		if !rootNode && depth < 7 &&
			eval-futilityMargin(depth) >= beta &&
			eval < valueKnownWin {
			return eval
		}

		// Step 8. Null move search with verification at high depths
		if !pvNode && eval >= beta &&
			ss.staticEval >= beta-36*depth+225 &&
			(height >= t.nmpPly || height%2 != t.nmpOdd) {

			var reduction = (823+67*depth)/256 + Min((eval-beta)/PawnValueMg, 3)

			t.makeMove(MoveNull, height)
			var nullValue int
			if depth-reduction < 1 {
				nullValue = -t.quiescence(-beta, -beta+1, 0, height+1)
			} else {
				nullValue = -t.alphaBeta(-beta, -beta+1, depth-reduction, height+1, !cutNode, true)
			}

			if nullValue >= beta {
				if nullValue >= valueWin {
					nullValue = beta
				}

				if abs(beta) < valueKnownWin && (depth < 12 || t.nmpPly != 0) {
					return nullValue
				}

				// Verification search with null move disabled for our side
				// over the first part of the remaining tree.
				t.nmpPly = height + 3*(depth-reduction)/4
				t.nmpOdd = height % 2

				var v int
				if depth-reduction < 1 {
					v = t.quiescence(beta-1, beta, 0, height)
				} else {
					v = t.alphaBeta(beta-1, beta, depth-reduction, height, false, true)
				}

				t.nmpOdd = 0
				t.nmpPly = 0

				if v >= beta {
					return nullValue
				}
			}
		}

		// Step 9. ProbCut: a good capture beating beta by a margin at
		// reduced depth almost always holds at full depth.
		if !pvNode && depth >= 5 && abs(beta) < valueWin {
			var rbeta = Min(beta+200, valueInfinity)

			var mp capturePicker
			mp.Init(t, height)
			for {
				var move = mp.Next()
				if move == MoveEmpty {
					break
				}
				if !seeGEZero(position, move) {
					continue
				}
				if !t.makeMove(move, height) {
					continue
				}
				var value = -t.alphaBeta(-rbeta, -rbeta+1, depth-4, height+1, !cutNode, false)
				if value >= rbeta {
					return value
				}
			}
		}

		// Step 10. Internal iterative deepening
		if depth >= 6 && ttMove == MoveEmpty &&
			(pvNode || ss.staticEval+256 >= beta) {
			var d = 3*depth/4 - 2
			t.alphaBeta(alpha, beta, d, height, cutNode, true)

			ttHit, ttDepth, ttValueRaw, ttEvalRaw, ttBound, ttMove16 = e.transTable.Probe(posKey)
			ttValue = valueFromTT(ttValueRaw, height)
			ttMove = MoveEmpty
			if ttHit && ttMove16 != 0 {
				ttMove = position.MoveFromTo(int(ttMove16&63), int(ttMove16>>6&63), int(ttMove16>>12&7))
			}
		}
	}

	// Step 11. Move loop
	var singularExtensionNode = !rootNode &&
		depth >= 8 &&
		ttMove != MoveEmpty &&
		ttValue != valueNone &&
		excludedMove == MoveEmpty &&
		(ttBound&boundLower) != 0 &&
		ttDepth >= depth-3

	var mp movePicker
	mp.Init(t, height, ttMove)

	var moveCount, quietCount, captureCount = 0, 0, 0
	var skipQuiets = false
	var ttCapture = false
	var pvExact = pvNode && ttHit && ttBound == boundExact

	for {
		var move = mp.Next(skipQuiets)
		if move == MoveEmpty {
			break
		}
		if move == excludedMove {
			continue
		}

		// At root obey the current MultiPV slice.
		if rootNode && t.rootMoveIndex(move) < t.pvIdx {
			continue
		}

		moveCount++
		ss.moveCount = moveCount

		var captureOrPromotion = isCaptureOrPromotion(move)
		var givesCheck = position.IsMoveCheck(move)
		var moveCountPruning = depth < 16 &&
			moveCount >= futilityMoveCounts[boolToInt(improving)][depth]

		var extension = 0

		// Step 12. Singular extension: if all moves but the tt move fail low
		// on a reduced window, the tt move is singular and gets extended.
		if singularExtensionNode && move == ttMove && t.legal(height, move) {
			var rBeta = Max(ttValue-2*depth, -valueMate)
			ss.excludedMove = move
			var value = t.alphaBeta(rBeta-1, rBeta, depth/2, height, cutNode, true)
			ss.excludedMove = MoveEmpty

			ss.moveCount = moveCount

			if value < rBeta {
				extension = 1
			}
		} else if givesCheck && !moveCountPruning && seeGEZero(position, move) {
			extension = 1
		}

		var newDepth = depth - 1 + extension

		// Step 13. Pruning at shallow depth
		if !rootNode &&
			position.NonPawnMaterial(position.SideToMove()) > 0 &&
			bestValue > valueLoss {

			if !captureOrPromotion && !givesCheck &&
				(!isAdvancedPawnPush(move, position.SideToMove()) ||
					position.AllNonPawnMaterial() >= 5000) {

				if moveCountPruning {
					skipQuiets = true
					continue
				}

				var lmrDepth = Max(newDepth-reduction(pvNode, improving, depth, moveCount), 0)
				var pieceToIdx = pieceSquareIndex(position.SideToMove(), move)

				if lmrDepth < 3 &&
					t.contHistValue(height, 1, pieceToIdx) < counterMovePruneThreshold &&
					t.contHistValue(height, 2, pieceToIdx) < counterMovePruneThreshold {
					continue
				}

				if lmrDepth < 7 && !inCheck &&
					ss.staticEval+256+200*lmrDepth <= alpha {
					continue
				}

				if lmrDepth < 8 && !SeeGE(position, move, -35*lmrDepth*lmrDepth) {
					continue
				}
			} else if depth < 7 && extension == 0 &&
				!SeeGE(position, move, -PawnValueEg*depth) {
				continue
			}
		}

		// Step 14. Make the move; legality is confirmed here.
		if !t.makeMove(move, height) {
			moveCount--
			ss.moveCount = moveCount
			continue
		}

		if move == ttMove && captureOrPromotion {
			ttCapture = true
		}

		var value int
		var doFullDepthSearch bool

		// Step 15. Reduced depth search (LMR)
		if depth >= 3 && moveCount > 1 && (!captureOrPromotion || moveCountPruning) {
			var r = reduction(pvNode, improving, depth, moveCount)

			if captureOrPromotion {
				if r > 0 {
					r--
				}
			} else {
				if t.at(height-1).moveCount > 15 {
					r--
				}
				if pvExact {
					r--
				}
				if ttCapture {
					r++
				}
				if cutNode {
					r += 2
				} else if !SeeGE(position, reverseMove(move), 0) {
					// the move escapes a capture
					r -= 2
				}

				var side = position.SideToMove()
				var pieceToIdx = pieceSquareIndex(side, move)
				ss.statScore = t.mainHistoryValue(side, move) +
					t.contHistValue(height, 1, pieceToIdx) +
					t.contHistValue(height, 2, pieceToIdx) +
					t.contHistValue(height, 4, pieceToIdx) -
					4000

				if ss.statScore >= 0 && t.at(height-1).statScore < 0 {
					r--
				} else if t.at(height-1).statScore >= 0 && ss.statScore < 0 {
					r++
				}

				r = Max(0, r-ss.statScore/20000)
			}

			var d = Max(newDepth-r, 1)
			value = -t.alphaBeta(-(alpha + 1), -alpha, d, height+1, true, false)
			doFullDepthSearch = value > alpha && d != newDepth
		} else {
			doFullDepthSearch = !pvNode || moveCount > 1
		}

		// Step 16. Full depth null-window search when LMR is skipped or
		// fails high
		if doFullDepthSearch {
			value = -t.alphaBeta(-(alpha + 1), -alpha, newDepth, height+1, !cutNode, false)
		}

		// Full PV search on the first move and on fail highs inside the
		// window.
		if pvNode && (moveCount == 1 || (value > alpha && (rootNode || value < beta))) {
			value = -t.alphaBeta(-beta, -alpha, newDepth, height+1, false, false)
		}

		// Step 17/18. A stopped search cannot be trusted.
		if e.stop.Load() {
			return valueDraw
		}

		if rootNode {
			var rm = &t.rootMoves[t.rootMoveIndex(move)]
			if moveCount == 1 || value > alpha {
				rm.Score = value
				rm.SelDepth = t.selDepth
				rm.PV = append([]Move{move}, t.at(height+1).pv.toSlice()...)
			} else {
				rm.Score = -valueInfinity
			}
		}

		if value > bestValue {
			bestValue = value
			if value > alpha {
				bestMove = move
				if pvNode && !rootNode {
					t.assignPV(height, move)
				}
				if pvNode && value < beta {
					alpha = value
				} else {
					break // fail high
				}
			}
		}

		if move != bestMove {
			if !captureOrPromotion && quietCount < len(ss.quietsSearched) {
				ss.quietsSearched[quietCount] = move
				quietCount++
			} else if captureOrPromotion && captureCount < len(ss.capturesSearched) {
				ss.capturesSearched[captureCount] = move
				captureCount++
			}
		}
	}

	// Step 20. Mate and stalemate detection. In a singular extension search
	// the excluded move could have been the only one.
	if moveCount == 0 {
		if excludedMove != MoveEmpty {
			bestValue = alpha
		} else if inCheck {
			bestValue = lossIn(height)
		} else {
			bestValue = valueDraw
		}
	} else if bestMove != MoveEmpty {
		var side = position.SideToMove()
		if !isCaptureOrPromotion(bestMove) {
			var bonus = statBonus(depth)
			t.updateQuietStats(height, bestMove, bonus)
			for i := 0; i < quietCount; i++ {
				t.updateMainHistory(side, ss.quietsSearched[i], -bonus)
				t.updateContinuationHistories(height, pieceSquareIndex(side, ss.quietsSearched[i]), -bonus)
			}
		} else {
			var bonus = statBonus(depth)
			t.updateCaptureHistory(side, bestMove, bonus)
			for i := 0; i < captureCount; i++ {
				t.updateCaptureHistory(side, ss.capturesSearched[i], -bonus)
			}
		}

		// Extra penalty for a quiet move of the previous ply when it gets
		// refuted by the first reply.
		if t.at(height-1).moveCount == 1 && prevMove.IsOk() && prevMove.CapturedPiece() == Empty {
			t.updateContinuationHistories(height-1, t.at(height-1).contIndex, -statBonus(depth+1))
		}
	} else if depth >= 3 && prevMove.IsOk() && prevMove.CapturedPiece() == Empty {
		// Bonus for the prior move that caused this fail low
		t.updateContinuationHistories(height-1, t.at(height-1).contIndex, statBonus(depth))
	}

	if excludedMove == MoveEmpty {
		var bound = boundUpper
		if bestValue >= beta {
			bound = boundLower
		} else if pvNode && bestMove != MoveEmpty {
			bound = boundExact
		}
		e.transTable.Save(posKey, valueToTT(bestValue, height), bound, depth, bestMove, ss.staticEval)
	}

	return bestValue
}

// quiescence resolves captures and checks until the position is quiet.
// depth starts at 0 and only selects whether quiet checks are generated.
func (t *thread) quiescence(alpha, beta, depth, height int) int {
	var pvNode = beta != alpha+1
	var e = t.engine
	var ss = t.at(height)
	var position = &ss.position
	var inCheck = position.IsCheck()

	t.clearPV(height)
	ss.currentMove = MoveEmpty
	ss.contIndex = 0
	var bestMove = MoveEmpty
	var oldAlpha = alpha

	if e.stop.Load() {
		return valueDraw
	}
	if t.isDraw(height) || height >= maxHeight {
		if height >= maxHeight && !inCheck {
			return t.evaluator.Evaluate(position)
		}
		return valueDraw
	}

	var ttDepth = depthQsNoChecks
	if inCheck || depth >= depthQsChecks {
		ttDepth = depthQsChecks
	}

	var posKey = position.Key
	var ttHit, ttEntryDepth, ttValueRaw, ttEvalRaw, ttBound, _ = e.transTable.Probe(posKey)
	var ttValue = valueFromTT(ttValueRaw, height)

	if !pvNode && ttHit && ttEntryDepth >= ttDepth && ttValue != valueNone &&
		boundAllowsCutoff(ttBound, ttValue, beta) {
		return ttValue
	}

	var bestValue int
	var futilityBase int

	if inCheck {
		ss.staticEval = valueNone
		bestValue = -valueInfinity
		futilityBase = -valueInfinity
	} else {
		if ttHit {
			ss.staticEval = ttEvalRaw
			if ss.staticEval == valueNone {
				ss.staticEval = t.evaluator.Evaluate(position)
			}
			bestValue = ss.staticEval
			if ttValue != valueNone && boundRefinesEval(ttBound, ttValue, bestValue) {
				bestValue = ttValue
			}
		} else {
			if t.at(height-1).currentMove == MoveNull {
				ss.staticEval = -t.at(height-1).staticEval + 2*tempo
			} else {
				ss.staticEval = t.evaluator.Evaluate(position)
			}
			bestValue = ss.staticEval
		}

		// Stand pat
		if bestValue >= beta {
			if !ttHit {
				e.transTable.Save(posKey, valueToTT(bestValue, height), boundLower,
					depthNone, MoveEmpty, ss.staticEval)
			}
			return bestValue
		}

		if pvNode && bestValue > alpha {
			alpha = bestValue
		}

		futilityBase = bestValue + 128
	}

	var mp qsMovePicker
	mp.Init(t, height, depth >= depthQsChecks)

	var moveCount = 0
	for {
		var move = mp.Next()
		if move == MoveEmpty {
			break
		}

		var givesCheck = position.IsMoveCheck(move)
		moveCount++

		// Futility pruning for non-check captures going nowhere
		if !inCheck && !givesCheck &&
			futilityBase > -valueKnownWin &&
			!isAdvancedPawnPush(move, position.SideToMove()) {

			var futilityValue = futilityBase + pieceValueEg(move.CapturedPiece())
			if futilityValue <= alpha {
				bestValue = Max(bestValue, futilityValue)
				continue
			}
			if futilityBase <= alpha && !SeeGE(position, move, 1) {
				bestValue = Max(bestValue, futilityBase)
				continue
			}
		}

		// Past the first evasions, quiet replies to a check must not lose
		// material.
		var evasionPrunable = inCheck &&
			(depth != 0 || moveCount > 2) &&
			bestValue > valueLoss &&
			move.CapturedPiece() == Empty

		if (!inCheck || evasionPrunable) && !seeGEZero(position, move) {
			continue
		}

		if !t.makeMove(move, height) {
			moveCount--
			continue
		}

		var value = -t.quiescence(-beta, -alpha, depth-1, height+1)

		if value > bestValue {
			bestValue = value
			if value > alpha {
				bestMove = move
				if pvNode {
					t.assignPV(height, move)
				}
				if pvNode && value < beta {
					alpha = value
				} else {
					break // fail high
				}
			}
		}
	}

	if inCheck && bestValue == -valueInfinity {
		return lossIn(height)
	}

	if e.stop.Load() {
		return bestValue
	}

	var bound = boundUpper
	if bestValue >= beta {
		bound = boundLower
	} else if pvNode && bestValue > oldAlpha {
		bound = boundExact
	}
	e.transTable.Save(posKey, valueToTT(bestValue, height), bound, ttDepth, bestMove, ss.staticEval)

	return bestValue
}

func boundAllowsCutoff(bound, ttValue, beta int) bool {
	if ttValue >= beta {
		return (bound & boundLower) != 0
	}
	return (bound & boundUpper) != 0
}

func boundRefinesEval(bound, ttValue, eval int) bool {
	if ttValue > eval {
		return (bound & boundLower) != 0
	}
	return (bound & boundUpper) != 0
}

func reverseMove(m Move) Move {
	return Move(m.To() | m.From()<<6 | m.MovingPiece()<<12)
}

func pieceValueEg(piece int) int {
	switch piece {
	case Pawn:
		return PawnValueEg
	case Knight:
		return KnightValueEg
	case Bishop:
		return BishopValueEg
	case Rook:
		return RookValueEg
	case Queen:
		return QueenValueEg
	}
	return 0
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func (t *thread) rootMoveIndex(move Move) int {
	for i := range t.rootMoves {
		if t.rootMoves[i].Move == move {
			return i
		}
	}
	return -1
}
