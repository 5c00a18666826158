package game

import (
	"fmt"
	"time"

	"github.com/Shiro291/studio-sub000/internal/board"
	"github.com/Shiro291/studio-sub000/internal/database/playstate/model"
	"github.com/Shiro291/studio-sub000/internal/strpool"
)

const DefaultStoragePrefix = "tilequest"

var ErrPersistenceUnavailable = fmt.Errorf("persistence unavailable")

// Store keeps play states by key. Get reports found=false for a missing
// key rather than an error.
type Store interface {
	Put(key string, state model.State) error
	Get(key string) (state model.State, found bool, err error)
	Delete(key string) error
}

// Persistence bridges the engine to a Store. Storage errors are wrapped in
// ErrPersistenceUnavailable; the session logs them and keeps playing.
type Persistence struct {
	store  Store
	prefix string
	now    func() time.Time
}

func NewPersistence(store Store, prefix string) *Persistence {
	if prefix == "" {
		prefix = DefaultStoragePrefix
	}
	return &Persistence{store: store, prefix: prefix, now: time.Now}
}

// Key returns "<prefix>-play-state-<boardID>".
func (p *Persistence) Key(boardID string) string {
	b := strpool.Get()
	defer strpool.Put(b)

	b.WriteString(p.prefix)
	b.WriteString("-play-state-")
	b.WriteString(boardID)
	return b.String()
}

// Save writes a snapshot of s. States that are loading, in setup or
// mid-animation are skipped.
func (p *Persistence) Save(s State) error {
	if s.IsLoading || !s.Status.Settled() || s.Board.ID == "" {
		return nil
	}

	snap := Snapshot(s)
	snap.SavedAt = p.now()
	if err := p.store.Put(p.Key(s.Board.ID), snap); err != nil {
		return fmt.Errorf("save %s: %v: %w", s.Board.ID, err, ErrPersistenceUnavailable)
	}

	return nil
}

func (p *Persistence) Restore(boardID string) (model.State, bool, error) {
	st, ok, err := p.store.Get(p.Key(boardID))
	if err != nil {
		return model.State{}, false, fmt.Errorf("restore %s: %v: %w", boardID, err, ErrPersistenceUnavailable)
	}
	return st, ok, nil
}

func (p *Persistence) Clear(boardID string) error {
	if err := p.store.Delete(p.Key(boardID)); err != nil {
		return fmt.Errorf("clear %s: %v: %w", boardID, err, ErrPersistenceUnavailable)
	}
	return nil
}

// Snapshot projects the engine state onto its stored form.
func Snapshot(s State) model.State {
	snap := model.State{
		BoardID:              s.Board.ID,
		Players:              make([]model.Player, len(s.Players)),
		CurrentPlayerIndex:   s.CurrentPlayerIndex,
		DiceRoll:             s.DiceRoll,
		GameStatus:           string(s.Status),
		InteractionResolved:  s.InteractionResolved,
		Logs:                 make([]model.LogEntry, len(s.Logs)),
		PlayersFinishedCount: s.PlayersFinishedCount,
		Started:              s.Started,
	}

	for i, p := range s.Players {
		snap.Players[i] = toModelPlayer(p)
	}
	for i, e := range s.Logs {
		snap.Logs[i] = model.LogEntry{
			ID:            e.ID,
			MessageKey:    e.MessageKey,
			MessageParams: e.MessageParams,
			Timestamp:     e.Timestamp,
			Type:          string(e.Type),
		}
	}
	if s.ActiveTileForInteraction != nil {
		t := s.ActiveTileForInteraction.Clone()
		snap.ActiveTileForInteraction = &t
	}
	if s.Winner != nil {
		w := toModelPlayer(*s.Winner)
		snap.Winner = &w
	}

	return snap
}

func toModelPlayer(p Player) model.Player {
	return model.Player{
		ID:            p.ID,
		Name:          p.Name,
		Color:         p.Color,
		Position:      p.Position,
		Score:         p.Score,
		CurrentStreak: p.CurrentStreak,
		HasFinished:   p.HasFinished,
		FinishOrder:   p.FinishOrder,
	}
}

// Restore rebuilds a playable state from a stored snapshot of cfg, using the
// default random source.
func Restore(cfg board.Config, snap model.State) State {
	return newReducer(nil, nil).restore(board.Normalize(cfg), snap)
}

func (r *reducer) restore(cfg board.Config, snap model.State) State {
	cfg = board.ApplyRandomization(r.src, cfg, snap.ActiveTileForInteraction, board.RandomizeLoad)

	st := State{Board: cfg, Status: StatusPlaying, Logs: fromModelLogs(snap.Logs)}
	want := board.ClampPlayers(cfg.Settings.NumberOfPlayers)
	if len(snap.Players) != want {
		st.Players = GeneratePlayers(want)
		r.log(&st, MsgPlayerCountMismatch, LogWarning, Params{"saved": len(snap.Players), "configured": want})
		r.log(&st, MsgGameStarted, LogInfo, Params{"board": cfg.Settings.Name, "players": want})
		return st
	}

	last := cfg.LastIndex()
	st.Players = make([]Player, len(snap.Players))
	for i, mp := range snap.Players {
		// only finished players may stand on the finish tile
		bound := last
		if !mp.HasFinished && last > 0 {
			bound = last - 1
		}
		pos := max(0, min(mp.Position, bound))
		st.Players[i] = Player{
			ID:             mp.ID,
			Name:           mp.Name,
			Color:          mp.Color,
			Position:       pos,
			VisualPosition: pos,
			Score:          mp.Score,
			CurrentStreak:  mp.CurrentStreak,
			HasFinished:    mp.HasFinished,
			FinishOrder:    mp.FinishOrder,
		}
		if mp.HasFinished {
			st.PlayersFinishedCount++
		}
	}

	st.CurrentPlayerIndex = max(0, min(snap.CurrentPlayerIndex, len(st.Players)-1))
	st.DiceRoll = snap.DiceRoll
	st.Started = snap.Started

	if snap.Winner != nil {
		if idx := st.playerIndex(snap.Winner.ID); idx >= 0 {
			w := st.Players[idx]
			st.Winner = &w
		}
	}

	switch Status(snap.GameStatus) {
	case StatusInteractionPending:
		if snap.ActiveTileForInteraction != nil {
			if i, ok := cfg.TileByID(snap.ActiveTileForInteraction.ID); ok {
				active := cfg.Tiles[i].Clone()
				st.ActiveTileForInteraction = &active
				st.InteractionResolved = snap.InteractionResolved
				st.Status = StatusInteractionPending
			}
		}
	case StatusFinished:
		if st.Winner != nil {
			st.Status = StatusFinished
		}
	}

	r.log(&st, MsgGameResumed, LogInfo, Params{"board": cfg.Settings.Name, "status": string(st.Status)})
	return st
}

func fromModelLogs(logs []model.LogEntry) []LogEntry {
	n := min(len(logs), MaxLogEntries)
	out := make([]LogEntry, n)
	for i := 0; i < n; i++ {
		e := logs[i]
		out[i] = LogEntry{
			ID:            e.ID,
			MessageKey:    e.MessageKey,
			MessageParams: e.MessageParams,
			Timestamp:     e.Timestamp,
			Type:          LogType(e.Type),
		}
	}
	return out
}
