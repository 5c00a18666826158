package game

import "github.com/Shiro291/studio-sub000/internal/board"

type ScoreBreakdown struct {
	PlayerID      string
	Name          string
	Score         int
	FinishOrder   int
	CombinedScore int
}

func (b ScoreBreakdown) params() Params {
	return Params{
		"player":        b.Name,
		"score":         b.Score,
		"finishOrder":   b.FinishOrder,
		"combinedScore": b.CombinedScore,
	}
}

// CombinedScore ranks a finished player by arrival and score:
// (total - finishOrder + 1) * 10 + score.
func CombinedScore(p Player, total int) int {
	return (total-p.FinishOrder+1)*10 + p.Score
}

// EvaluateWinner picks the winner once every player has finished. Under
// WinFirstToFinish the winner is declared on arrival, so it reports false.
func EvaluateWinner(players []Player, cond board.WinningCondition) (Player, ScoreBreakdown, bool) {
	if len(players) == 0 {
		return Player{}, ScoreBreakdown{}, false
	}

	switch cond {
	case board.WinHighestScore:
		best := 0
		for i := 1; i < len(players); i++ {
			if players[i].Score > players[best].Score {
				best = i
			}
		}
		return players[best], breakdown(players[best], len(players)), true
	case board.WinCombinedOrderScore:
		total := len(players)
		best := 0
		for i := 1; i < len(players); i++ {
			if beatsCombined(players[i], players[best], total) {
				best = i
			}
		}
		return players[best], breakdown(players[best], total), true
	default:
		return Player{}, ScoreBreakdown{}, false
	}
}

func beatsCombined(p, q Player, total int) bool {
	ps, qs := CombinedScore(p, total), CombinedScore(q, total)
	switch {
	case ps != qs:
		return ps > qs
	case p.FinishOrder != q.FinishOrder:
		return p.FinishOrder < q.FinishOrder
	default:
		return p.Score > q.Score
	}
}

func breakdown(p Player, total int) ScoreBreakdown {
	return ScoreBreakdown{
		PlayerID:      p.ID,
		Name:          p.Name,
		Score:         p.Score,
		FinishOrder:   p.FinishOrder,
		CombinedScore: CombinedScore(p, total),
	}
}
