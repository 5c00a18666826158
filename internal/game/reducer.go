package game

import (
	"fmt"
	"time"

	"github.com/Shiro291/studio-sub000/internal/board"
)

// reducer computes the next state for one action. It works on a copy and
// collects side effects, so the caller commits all of it or none of it.
type reducer struct {
	src board.Source
	now func() time.Time

	sounds       []Sound
	clearStorage bool
}

func newReducer(src board.Source, now func() time.Time) *reducer {
	if src == nil {
		src = board.DefaultSource
	}
	if now == nil {
		now = time.Now
	}
	return &reducer{src: src, now: now}
}

func (r *reducer) log(s *State, key string, typ LogType, params Params) {
	s.Logs = appendEntry(s.Logs, newEntry(r.now(), key, typ, params))
}

func (r *reducer) play(snd Sound) {
	r.sounds = append(r.sounds, snd)
}

func (r *reducer) reduce(s State, a Action) (State, error) {
	if err := allowed(s.Status, a.Kind); err != nil {
		return s, err
	}

	next := s.clone()
	var err error
	switch a.Kind {
	case ActionLoadBoard:
		next, err = r.loadBoard(a)
	case ActionRollDice:
		err = r.rollDice(&next, a.PlayerID)
	case ActionAnimationTick:
		err = r.tick(&next, a.animation)
	case ActionAnswerQuiz:
		err = r.answerQuiz(&next, a.OptionID)
	case ActionAcknowledge:
		err = r.acknowledge(&next)
	case ActionProceed:
		r.proceed(&next)
	case ActionReset:
		next, err = r.reset(next)
	case ActionUpdateSettings:
		err = r.updateSettings(&next, a.Settings)
	case ActionRerandomizeVisuals:
		err = r.rerandomizeVisuals(&next)
	default:
		err = fmt.Errorf("%s: %w", a.Kind, ErrActionNotAllowed)
	}

	if err != nil {
		return s, err
	}

	return next, nil
}

func (r *reducer) fresh(cfg board.Config) State {
	return State{
		Board:   cfg,
		Players: GeneratePlayers(cfg.Settings.NumberOfPlayers),
		Status:  StatusPlaying,
	}
}

func (r *reducer) loadBoard(a Action) (State, error) {
	cfg := board.Normalize(a.Board)
	if len(cfg.Tiles) == 0 {
		return State{}, fmt.Errorf("board %s has no tiles: %w", cfg.ID, board.ErrInvalidFormat)
	}

	if a.Persisted != nil && a.Persisted.BoardID == cfg.ID {
		return r.restore(cfg, *a.Persisted), nil
	}

	st := r.fresh(board.ApplyRandomization(r.src, cfg, nil, board.RandomizeInitial))
	r.log(&st, MsgGameStarted, LogInfo, Params{"board": cfg.Settings.Name, "players": len(st.Players)})
	return st, nil
}

func (r *reducer) rollDice(s *State, playerID string) error {
	if s.Winner != nil {
		return fmt.Errorf("game already won: %w", ErrActionNotAllowed)
	}

	idx := s.CurrentPlayerIndex
	player, ok := s.CurrentPlayer()
	if !ok {
		return fmt.Errorf("no active player: %w", ErrActionNotAllowed)
	}
	if playerID != "" && playerID != player.ID {
		return ErrNotPlayersTurn
	}
	if player.HasFinished {
		return fmt.Errorf("%s already finished: %w", player.Name, ErrActionNotAllowed)
	}

	roll := 1 + board.Intn(r.src, s.Board.Settings.DiceSides)
	target := min(player.Position+roll, s.Board.LastIndex())

	s.DiceRoll = roll
	s.Started = true
	r.log(s, MsgDiceRolled, LogTurn, Params{"player": player.Name, "roll": roll})

	if target <= player.Position {
		r.log(s, MsgBlockedAtEnd, LogWarning, Params{"player": player.Name, "roll": roll})
		s.CurrentPlayerIndex = s.nextPlayerIndex()
		s.Status = StatusPlaying
		return nil
	}

	path := make([]int, 0, target-player.Position)
	for p := player.Position + 1; p <= target; p++ {
		path = append(path, p)
	}

	s.Players[idx].VisualPosition = player.Position
	s.PawnAnimation = &PawnAnimation{PlayerID: player.ID, Path: path}
	s.Status = StatusAnimatingPawn
	return nil
}

func (r *reducer) tick(s *State, anim *PawnAnimation) error {
	if anim == nil || s.PawnAnimation != anim {
		return ErrStaleAnimation
	}

	idx := s.playerIndex(anim.PlayerID)
	if idx < 0 || anim.CurrentStepIndex >= len(anim.Path) {
		return ErrStaleAnimation
	}

	s.Players[idx].VisualPosition = anim.Path[anim.CurrentStepIndex]
	r.play(SoundMove)

	if anim.CurrentStepIndex+1 < len(anim.Path) {
		s.PawnAnimation = &PawnAnimation{
			PlayerID:         anim.PlayerID,
			Path:             anim.Path,
			CurrentStepIndex: anim.CurrentStepIndex + 1,
		}
		return nil
	}

	s.PawnAnimation = nil
	r.land(s, idx)
	return nil
}

func (r *reducer) land(s *State, idx int) {
	p := &s.Players[idx]
	p.Position = p.VisualPosition
	tile, _ := s.Board.TileAt(p.Position)

	r.log(s, MsgLandedOnTile, LogMove, Params{"player": p.Name, "position": p.Position, "tileType": string(tile.Type)})

	if tile.Type == board.TileFinish && !p.HasFinished {
		s.PlayersFinishedCount++
		p.HasFinished = true
		p.FinishOrder = s.PlayersFinishedCount
		r.play(SoundFinish)
		r.log(s, MsgPlayerFinished, LogSuccess, Params{"player": p.Name, "finishOrder": p.FinishOrder})

		if s.Board.Settings.WinningCondition == board.WinFirstToFinish && s.Winner == nil {
			w := *p
			s.Winner = &w
			r.log(s, MsgFirstToFinishWinner, LogSuccess, Params{"player": p.Name, "score": p.Score})
		}
	}

	active := tile.Clone()
	if q, ok := active.Quiz(); ok {
		q.Options = board.ShuffleOptions(r.src, q.Options)
	}

	s.ActiveTileForInteraction = &active
	s.InteractionResolved = false
	s.Status = StatusInteractionPending
}

func (r *reducer) answerQuiz(s *State, optionID string) error {
	if s.ActiveTileForInteraction == nil {
		return fmt.Errorf("no active tile: %w", ErrActionNotAllowed)
	}
	q, ok := s.ActiveTileForInteraction.Quiz()
	if !ok {
		return fmt.Errorf("active tile is %s, not a quiz: %w", s.ActiveTileForInteraction.Type, ErrActionNotAllowed)
	}
	if s.InteractionResolved {
		return fmt.Errorf("quiz already answered: %w", ErrActionNotAllowed)
	}

	option, ok := q.Option(optionID)
	if !ok {
		return fmt.Errorf("option %q: %w", optionID, ErrUnknownOption)
	}

	p := &s.Players[s.CurrentPlayerIndex]
	s.InteractionResolved = true

	if option.IsCorrect {
		p.Score += q.Points
		p.CurrentStreak++
		r.play(SoundCorrect)
		r.log(s, MsgQuizCorrect, LogSuccess, Params{"player": p.Name, "points": q.Points, "streak": p.CurrentStreak})
		return nil
	}

	p.CurrentStreak = 0
	r.play(SoundIncorrect)
	r.log(s, MsgQuizIncorrect, LogError, Params{"player": p.Name, "answer": option.Text})

	from := p.Position
	to := punishedPosition(s.Board.Settings, from, s.DiceRoll, q.Difficulty)
	if to != from {
		p.Position, p.VisualPosition = to, to
		r.log(s, MsgPunished, LogWarning, Params{
			"player":     p.Name,
			"from":       from,
			"to":         to,
			"punishment": string(s.Board.Settings.PunishmentType),
		})
	}

	return nil
}

// punishedPosition applies the configured punishment after a wrong answer.
// The level-based step is the difficulty of the quiz that was answered.
func punishedPosition(settings board.Settings, position, roll, difficulty int) int {
	var back int
	switch settings.PunishmentType {
	case board.PunishmentRevertMove:
		back = roll
	case board.PunishmentMoveBackFixed:
		back = settings.PunishmentValue
	case board.PunishmentMoveBackLevelBased:
		back = max(1, min(difficulty, 3))
	default:
		return position
	}

	return max(0, position-back)
}

func (r *reducer) acknowledge(s *State) error {
	tile := s.ActiveTileForInteraction
	if tile == nil {
		return fmt.Errorf("no active tile: %w", ErrActionNotAllowed)
	}
	if tile.Type == board.TileQuiz {
		return fmt.Errorf("quiz tiles must be answered: %w", ErrActionNotAllowed)
	}
	if s.InteractionResolved {
		return fmt.Errorf("interaction already acknowledged: %w", ErrActionNotAllowed)
	}

	p := &s.Players[s.CurrentPlayerIndex]
	s.InteractionResolved = true

	if reward, ok := tile.Reward(); ok {
		points := reward.PointsOrZero()
		p.Score += points
		r.play(SoundReward)
		r.log(s, MsgRewardCollected, LogSuccess, Params{"player": p.Name, "points": points})
		return nil
	}

	r.log(s, MsgInteractionAcked, LogInfo, Params{"player": p.Name, "tileType": string(tile.Type)})
	return nil
}

func (r *reducer) proceed(s *State) {
	if s.Winner == nil && s.allFinished() {
		if w, b, ok := EvaluateWinner(s.Players, s.Board.Settings.WinningCondition); ok {
			s.Winner = &w
			r.play(SoundFinish)

			key := MsgWinnerHighestScore
			if s.Board.Settings.WinningCondition == board.WinCombinedOrderScore {
				key = MsgWinnerCombinedScore
			}
			r.log(s, key, LogSuccess, b.params())
		}
	}

	s.ActiveTileForInteraction = nil
	s.InteractionResolved = false
	s.DiceRoll = 0

	if s.Winner != nil {
		if idx := s.playerIndex(s.Winner.ID); idx >= 0 {
			w := s.Players[idx]
			s.Winner = &w
		}
		s.Status = StatusFinished
		r.log(s, MsgGameFinished, LogSuccess, Params{"winner": s.Winner.Name, "score": s.Winner.Score})
		return
	}

	s.CurrentPlayerIndex = s.nextPlayerIndex()
	s.Status = StatusPlaying
	if p, ok := s.CurrentPlayer(); ok {
		r.log(s, MsgNextTurn, LogTurn, Params{"player": p.Name})
	}
}

func (r *reducer) reset(s State) (State, error) {
	if s.Board.ID == "" {
		return s, fmt.Errorf("no board loaded: %w", ErrActionNotAllowed)
	}

	r.clearStorage = true
	st := r.fresh(board.ApplyRandomization(r.src, s.Board, nil, board.RandomizeReset))
	r.log(&st, MsgGameReset, LogInfo, Params{"board": st.Board.Settings.Name})
	r.log(&st, MsgGameStarted, LogInfo, Params{"board": st.Board.Settings.Name, "players": len(st.Players)})
	return st, nil
}

func (r *reducer) updateSettings(s *State, settings board.Settings) error {
	if s.Board.ID == "" {
		return fmt.Errorf("no board loaded: %w", ErrActionNotAllowed)
	}
	if s.Started {
		return fmt.Errorf("settings are locked once the game is under way: %w", ErrActionNotAllowed)
	}

	settings = board.NormalizeSettings(settings)
	cfg := s.Board.Clone()
	prevTiles := cfg.Settings.NumberOfTiles
	cfg.Settings = settings
	if settings.NumberOfTiles != prevTiles {
		cfg = board.Resize(cfg, settings.NumberOfTiles)
	}
	s.Board = cfg

	if settings.NumberOfPlayers != len(s.Players) {
		s.Players = GeneratePlayers(settings.NumberOfPlayers)
		s.CurrentPlayerIndex = 0
		s.PlayersFinishedCount = 0
		s.Winner = nil
	}

	r.log(s, MsgSettingsUpdated, LogInfo, Params{"players": len(s.Players), "tiles": len(cfg.Tiles)})
	return nil
}

func (r *reducer) rerandomizeVisuals(s *State) error {
	if s.Board.ID == "" {
		return fmt.Errorf("no board loaded: %w", ErrActionNotAllowed)
	}

	s.Board = board.ApplyRandomization(r.src, s.Board, nil, board.RandomizeVisuals)
	r.log(s, MsgVisualsRerandomized, LogInfo, nil)
	return nil
}
