package game

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Shiro291/studio-sub000/internal/board"
	"github.com/Shiro291/studio-sub000/internal/database/playstate/model"
	"github.com/Shiro291/studio-sub000/internal/logging"
)

const DefaultStepDelay = 300 * time.Millisecond

var ErrSessionClosed = fmt.Errorf("session closed")

type Sound uint8

const (
	SoundMove Sound = iota + 1
	SoundFinish
	SoundCorrect
	SoundIncorrect
	SoundReward
)

func (s Sound) String() string {
	switch s {
	case SoundMove:
		return "move"
	case SoundFinish:
		return "finish"
	case SoundCorrect:
		return "correct"
	case SoundIncorrect:
		return "incorrect"
	case SoundReward:
		return "reward"
	default:
		return "unknown"
	}
}

// Effects receives sound cues after a transition is committed. It is
// called with the session locked and must not block.
type Effects interface {
	PlaySound(Sound)
}

type EffectsFunc func(Sound)

func (f EffectsFunc) PlaySound(s Sound) { f(s) }

type nopEffects struct{}

func (nopEffects) PlaySound(Sound) {}

type Timer interface {
	Stop() bool
}

type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type clockScheduler struct{}

func (clockScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type Config struct {
	// StepDelay is the pause between animation steps, doubled in epilepsy
	// safe mode.
	StepDelay   time.Duration
	Source      board.Source
	Scheduler   Scheduler
	Effects     Effects
	Persistence *Persistence
	Now         func() time.Time
	// OnChange is called outside the lock after every committed transition.
	OnChange func(prev, next State)
}

// Session owns one game state. Actions are applied one at a time; each is
// fully resolved, persistence included, before the next one starts.
type Session struct {
	mtx    sync.Mutex
	ctx    context.Context
	config Config
	state  State
	closed bool
}

func NewSession(ctx context.Context, config Config) *Session {
	if config.StepDelay <= 0 {
		config.StepDelay = DefaultStepDelay
	}
	if config.Source == nil {
		config.Source = board.DefaultSource
	}
	if config.Scheduler == nil {
		config.Scheduler = clockScheduler{}
	}
	if config.Effects == nil {
		config.Effects = nopEffects{}
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &Session{ctx: ctx, config: config, state: NewState()}
}

// State returns a copy of the current state.
func (s *Session) State() State {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.state.clone()
}

func (s *Session) Dispatch(a Action) error {
	s.mtx.Lock()
	prev, next, err := s.apply(a)
	s.mtx.Unlock()
	if err != nil {
		return err
	}

	s.notify(prev, next)
	return nil
}

func (s *Session) apply(a Action) (State, State, error) {
	if s.closed {
		return State{}, State{}, ErrSessionClosed
	}

	r := newReducer(s.config.Source, s.config.Now)
	next, err := r.reduce(s.state, a)
	if err != nil {
		return State{}, State{}, err
	}

	prev := s.state
	s.state = next
	s.reconcileTimer(prev.PawnAnimation, next)

	for _, snd := range r.sounds {
		s.config.Effects.PlaySound(snd)
	}
	s.persist(next, r.clearStorage)

	return prev, next, nil
}

// reconcileTimer keeps at most one pending step timer, owned by the current
// animation record.
func (s *Session) reconcileTimer(prev *PawnAnimation, next State) {
	if prev != nil && prev != next.PawnAnimation {
		prev.stop()
	}

	anim := next.PawnAnimation
	if anim == nil || anim.timer != nil {
		return
	}

	delay := s.config.StepDelay
	if next.Board.Settings.EpilepsySafeMode {
		delay *= 2
	}
	anim.timer = s.config.Scheduler.AfterFunc(delay, func() { s.tick(anim) })
}

func (s *Session) tick(anim *PawnAnimation) {
	logger := logging.FromContext(s.ctx).Named("game.Session.tick")

	s.mtx.Lock()
	if s.closed || s.state.PawnAnimation != anim {
		s.mtx.Unlock()
		return
	}
	prev, next, err := s.apply(Action{Kind: ActionAnimationTick, animation: anim})
	s.mtx.Unlock()
	if err != nil {
		logger.Debugf("dropping animation step: %v", err)
		return
	}

	s.notify(prev, next)
}

func (s *Session) persist(st State, clear bool) {
	p := s.config.Persistence
	if p == nil || st.Board.ID == "" {
		return
	}

	logger := logging.FromContext(s.ctx).Named("game.Session.persist")
	if clear {
		if err := p.Clear(st.Board.ID); err != nil {
			logger.Warnf("clear play state: %v", err)
		}
	}
	if err := p.Save(st); err != nil {
		logger.Warnf("save play state: %v", err)
	}
}

func (s *Session) notify(prev, next State) {
	if s.config.OnChange != nil {
		s.config.OnChange(prev, next.clone())
	}
}

// fail records a load error on the state without leaving the current status.
func (s *Session) fail(err error) {
	s.mtx.Lock()
	prev := s.state
	next := prev.clone()
	next.IsLoading = false
	next.Error = err.Error()
	s.state = next
	s.mtx.Unlock()

	s.notify(prev, next)
}

// LoadBoard starts a game on cfg, resuming the saved play state for the
// same board when there is one.
func (s *Session) LoadBoard(cfg board.Config) error {
	var persisted *model.State
	if p := s.config.Persistence; p != nil {
		snap, ok, err := p.Restore(cfg.ID)
		switch {
		case err != nil:
			logging.FromContext(s.ctx).Named("game.Session.LoadBoard").Warnf("restore play state: %v", err)
		case ok:
			persisted = &snap
		}
	}

	return s.Dispatch(Action{Kind: ActionLoadBoard, Board: cfg, Persisted: persisted})
}

// LoadToken decodes a share token and loads the board. A bad token leaves
// the game as it was and sets State.Error.
func (s *Session) LoadToken(token string) error {
	cfg, err := board.Decode(token)
	if err != nil {
		s.fail(err)
		return fmt.Errorf("decode board token: %w", err)
	}
	return s.LoadBoard(cfg)
}

func (s *Session) LoadFile(r io.Reader) error {
	cfg, err := board.DecodeFile(r)
	if err != nil {
		s.fail(err)
		return fmt.Errorf("decode board file: %w", err)
	}
	return s.LoadBoard(cfg)
}

func (s *Session) RollDice(playerID string) error {
	return s.Dispatch(Action{Kind: ActionRollDice, PlayerID: playerID})
}

func (s *Session) AnswerQuiz(optionID string) error {
	return s.Dispatch(Action{Kind: ActionAnswerQuiz, OptionID: optionID})
}

func (s *Session) Acknowledge() error {
	return s.Dispatch(Action{Kind: ActionAcknowledge})
}

func (s *Session) ProceedToNextTurn() error {
	return s.Dispatch(Action{Kind: ActionProceed})
}

func (s *Session) Reset() error {
	return s.Dispatch(Action{Kind: ActionReset})
}

func (s *Session) UpdateSettings(settings board.Settings) error {
	return s.Dispatch(Action{Kind: ActionUpdateSettings, Settings: settings})
}

func (s *Session) RerandomizeVisuals() error {
	return s.Dispatch(Action{Kind: ActionRerandomizeVisuals})
}

// Close cancels any pending animation step. Further actions fail with
// ErrSessionClosed.
func (s *Session) Close() {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.closed = true
	s.state.PawnAnimation.stop()
}
