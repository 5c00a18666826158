package game

import (
	"fmt"

	"github.com/Shiro291/studio-sub000/internal/board"
	"github.com/Shiro291/studio-sub000/internal/database/playstate/model"
)

var (
	ErrActionNotAllowed = fmt.Errorf("action not allowed")
	ErrNotPlayersTurn   = fmt.Errorf("not this player's turn")
	ErrUnknownOption    = fmt.Errorf("unknown quiz option")
	ErrStaleAnimation   = fmt.Errorf("stale animation tick")
)

type ActionKind uint8

const (
	ActionLoadBoard ActionKind = iota + 1
	ActionRollDice
	ActionAnimationTick
	ActionAnswerQuiz
	ActionAcknowledge
	ActionProceed
	ActionReset
	ActionUpdateSettings
	ActionRerandomizeVisuals
)

var actionNames = map[ActionKind]string{
	ActionLoadBoard:          "load board",
	ActionRollDice:           "roll dice",
	ActionAnimationTick:      "animation tick",
	ActionAnswerQuiz:         "answer quiz",
	ActionAcknowledge:        "acknowledge interaction",
	ActionProceed:            "proceed to next turn",
	ActionReset:              "reset for play",
	ActionUpdateSettings:     "update settings",
	ActionRerandomizeVisuals: "re-randomize visuals",
}

func (k ActionKind) String() string {
	if name, ok := actionNames[k]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", uint8(k))
}

// Action is a request to the engine. Only the fields relevant to Kind are
// read.
type Action struct {
	Kind ActionKind

	// ActionLoadBoard
	Board     board.Config
	Persisted *model.State

	// ActionRollDice; empty means whoever holds the turn.
	PlayerID string

	// ActionAnswerQuiz
	OptionID string

	// ActionUpdateSettings
	Settings board.Settings

	animation *PawnAnimation
}

// transitions lists the actions accepted in each status. Anything else is
// rejected with ErrActionNotAllowed before the state is touched.
var transitions = map[Status]map[ActionKind]struct{}{
	StatusSetup: {
		ActionLoadBoard:      {},
		ActionReset:          {},
		ActionUpdateSettings: {},
	},
	StatusPlaying: {
		ActionLoadBoard:          {},
		ActionRollDice:           {},
		ActionReset:              {},
		ActionUpdateSettings:     {},
		ActionRerandomizeVisuals: {},
	},
	StatusAnimatingPawn: {
		ActionLoadBoard:     {},
		ActionAnimationTick: {},
		ActionReset:         {},
	},
	StatusInteractionPending: {
		ActionLoadBoard:          {},
		ActionAnswerQuiz:         {},
		ActionAcknowledge:        {},
		ActionProceed:            {},
		ActionReset:              {},
		ActionRerandomizeVisuals: {},
	},
	StatusFinished: {
		ActionLoadBoard:          {},
		ActionReset:              {},
		ActionRerandomizeVisuals: {},
	},
}

func allowed(status Status, kind ActionKind) error {
	if _, ok := transitions[status][kind]; !ok {
		return fmt.Errorf("%s in status %s: %w", kind, status, ErrActionNotAllowed)
	}
	return nil
}
