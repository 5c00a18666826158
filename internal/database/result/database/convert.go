package database

import (
	"github.com/Shiro291/studio-sub000/internal/database/result/model"
	"github.com/Shiro291/studio-sub000/internal/game"
)

// FromState records a finished game. The second return is false while the
// game has no winner.
func FromState(chatID int64, st game.State) (model.Result, bool) {
	if st.Status != game.StatusFinished || st.Winner == nil {
		return model.Result{}, false
	}

	r := model.NewResult(chatID)
	r.BoardID = st.Board.ID
	r.BoardName = st.Board.Settings.Name
	r.WinningCondition = string(st.Board.Settings.WinningCondition)
	r.Winner = st.Winner.Name
	r.WinnerScore = st.Winner.Score
	r.Players = make([]model.PlayerResult, len(st.Players))
	for i, p := range st.Players {
		r.Players[i] = model.PlayerResult{Name: p.Name, Score: p.Score, FinishOrder: p.FinishOrder}
	}

	return r, true
}
