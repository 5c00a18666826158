package game

import (
	"time"

	"github.com/google/uuid"
)

const MaxLogEntries = 50

// Message keys. Entries carry the key and structured params; rendering and
// localization happen outside the engine.
const (
	MsgGameStarted         = "log.gameStarted"
	MsgGameReset           = "log.gameReset"
	MsgGameResumed         = "log.gameResumed"
	MsgPlayerCountMismatch = "log.playerCountMismatch"
	MsgSettingsUpdated     = "log.settingsUpdated"
	MsgVisualsRerandomized = "log.visualsRerandomized"
	MsgDiceRolled          = "log.diceRolled"
	MsgBlockedAtEnd        = "log.blockedAtEnd"
	MsgLandedOnTile        = "log.landedOnTile"
	MsgPlayerFinished      = "log.playerFinished"
	MsgFirstToFinishWinner = "log.firstToFinishWinner"
	MsgQuizCorrect         = "log.quizCorrect"
	MsgQuizIncorrect       = "log.quizIncorrect"
	MsgPunished            = "log.punished"
	MsgRewardCollected     = "log.rewardCollected"
	MsgInteractionAcked    = "log.interactionAcknowledged"
	MsgNextTurn            = "log.nextTurn"
	MsgWinnerHighestScore  = "log.winnerHighestScore"
	MsgWinnerCombinedScore = "log.winnerCombinedScore"
	MsgGameFinished        = "log.gameFinished"
)

type Params = map[string]interface{}

// AppendLog prepends an entry and keeps the MaxLogEntries most recent ones.
// The input slice is never modified.
func AppendLog(logs []LogEntry, key string, typ LogType, params Params) []LogEntry {
	return appendEntry(logs, newEntry(time.Now(), key, typ, params))
}

func newEntry(at time.Time, key string, typ LogType, params Params) LogEntry {
	return LogEntry{
		ID:            uuid.New().String(),
		MessageKey:    key,
		MessageParams: params,
		Timestamp:     at,
		Type:          typ,
	}
}

func appendEntry(logs []LogEntry, e LogEntry) []LogEntry {
	n := len(logs) + 1
	if n > MaxLogEntries {
		n = MaxLogEntries
	}

	out := make([]LogEntry, n)
	out[0] = e
	copy(out[1:], logs)
	return out
}

// NewEntries returns the entries next gained over prev, oldest first. When
// next holds a different board than prev, history restored from storage is
// left out and only the entries written by the load itself are returned.
func NewEntries(prev, next State) []LogEntry {
	var lastSeen string
	if len(prev.Logs) > 0 {
		lastSeen = prev.Logs[0].ID
	}
	loaded := prev.Board.ID != next.Board.ID

	var out []LogEntry
	for _, e := range next.Logs {
		if e.ID == lastSeen {
			break
		}
		out = append(out, e)
		if loaded && restoreMarker(e.MessageKey) {
			break
		}
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// restoreMarker reports whether key is the oldest entry a restore writes on
// top of the saved history.
func restoreMarker(key string) bool {
	return key == MsgGameResumed || key == MsgPlayerCountMismatch
}
