// Package resource holds the English texts shown by the bot and the
// terminal client.
package resource

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Shiro291/studio-sub000/internal/game"
	"github.com/Shiro291/studio-sub000/internal/strpool"
	"github.com/enescakir/emoji"
)

// logTemplates renders event log keys. Placeholders are {param} names.
var logTemplates = map[string]string{
	game.MsgGameStarted:         emoji.Rocket.String() + " Game started on {board} with {players} players",
	game.MsgGameReset:           emoji.Gear.String() + " {board} was reset",
	game.MsgGameResumed:         emoji.Bookmark.String() + " Resumed {board}",
	game.MsgPlayerCountMismatch: emoji.BrokenHeart.String() + " Saved game had {saved} players but the board wants {configured}, starting over",
	game.MsgSettingsUpdated:     emoji.Gear.String() + " Settings updated: {players} players, {tiles} tiles",
	game.MsgVisualsRerandomized: emoji.Unicorn.String() + " Tiles got a new look",
	game.MsgDiceRolled:          emoji.GameDie.String() + " {player} rolled {roll}",
	game.MsgBlockedAtEnd:        emoji.Stopwatch.String() + " {player} cannot move past the finish",
	game.MsgLandedOnTile:        "{player} landed on tile {position} ({tileType})",
	game.MsgPlayerFinished:      emoji.ChequeredFlag.String() + " {player} finished in place {finishOrder}",
	game.MsgFirstToFinishWinner: emoji.Trophy.String() + " {player} wins by finishing first",
	game.MsgQuizCorrect:         emoji.ThumbsUp.String() + " {player} answered correctly, +{points} (streak {streak})",
	game.MsgQuizIncorrect:       emoji.ThumbsDown.String() + " {player} answered {answer}, which is wrong",
	game.MsgPunished:            emoji.CrossMark.String() + " {player} moves back from {from} to {to}",
	game.MsgRewardCollected:     emoji.GemStone.String() + " {player} collected {points} points",
	game.MsgInteractionAcked:    "{player} read the {tileType} tile",
	game.MsgNextTurn:            emoji.VideoGame.String() + " {player}'s turn",
	game.MsgWinnerHighestScore:  emoji.Trophy.String() + " {player} wins with {score} points",
	game.MsgWinnerCombinedScore: emoji.Trophy.String() + " {player} wins with {combinedScore} (place {finishOrder}, {score} points)",
	game.MsgGameFinished:        emoji.PartyingFace.String() + " Game over, {winner} wins",
}

// FormatLog renders an entry. Unknown keys fall back to the key followed by
// its params.
func FormatLog(e game.LogEntry) string {
	tmpl, ok := logTemplates[e.MessageKey]
	if !ok {
		return fallback(e)
	}

	pairs := make([]string, 0, 2*len(e.MessageParams))
	for k, v := range e.MessageParams {
		pairs = append(pairs, "{"+k+"}", fmt.Sprint(v))
	}

	return strings.NewReplacer(pairs...).Replace(tmpl)
}

func fallback(e game.LogEntry) string {
	keys := make([]string, 0, len(e.MessageParams))
	for k := range e.MessageParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b := strpool.Get()
	defer strpool.Put(b)

	b.WriteString(e.MessageKey)
	for _, k := range keys {
		fmt.Fprintf(b, " %s=%v", k, e.MessageParams[k])
	}
	return b.String()
}
