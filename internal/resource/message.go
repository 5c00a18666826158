package resource

import "github.com/enescakir/emoji"

// bot commands
const (
	CmdStart   = "/start"
	CmdHelp    = "/help"
	CmdLoad    = "/load"
	CmdRoll    = "/roll"
	CmdNext    = "/next"
	CmdReset   = "/reset"
	CmdBoard   = "/board"
	CmdScores  = "/scores"
	CmdLog     = "/log"
	CmdStats   = "/stats"
	CmdPlayers = "/players"
	CmdVisuals = "/visuals"
)

// inline button payloads
const (
	DataAnswerPrefix = "answer:"
	DataAck          = "ack"
	DataNext         = "next"
)

var (
	TextGreetingMsg = emoji.GameDie.String() + " Hi, %s!\n\n" +
		"This bot runs a board game with quizzes for one device passed around the table.\n\n" +
		"*Commands:*\n" +
		CmdLoad + " <token> - load a shared board\n" +
		CmdRoll + " - roll the dice for the current player\n" +
		CmdNext + " - hand over to the next player\n" +
		CmdBoard + " - show the board\n" +
		CmdScores + " - show the scores\n" +
		CmdLog + " - show recent events\n" +
		CmdStats + " - show finished games of this chat\n" +
		CmdPlayers + " <n> - change the number of players before the first roll\n" +
		CmdVisuals + " - give the tiles a new look\n" +
		CmdReset + " - start the board over"

	TextNoBoardMsg         = emoji.Bookmark.String() + " Load a board first: " + CmdLoad + " <token>"
	TextBadTokenMsg        = emoji.BrokenHeart.String() + " That board could not be loaded: %s"
	TextBoardLoadedMsg     = emoji.Rocket.String() + " *%s* loaded: %d tiles, %d players"
	TextNotAllowedMsg      = emoji.WomanGesturingNo.String() + " Not now"
	TextAnimatingMsg       = emoji.Stopwatch.String() + " Wait for the pawn to stop"
	TextAnswerFirstMsg     = emoji.Joystick.String() + " Answer the question first"
	TextPlayersUsageMsg    = "Usage: " + CmdPlayers + " <1-10>"
	TextPlayersLockedMsg   = emoji.Gear.String() + " Players can only change before the first roll"
	TextUnknownCommandMsg  = "Unknown command, try " + CmdHelp
	TextInteractionDoneMsg = "Done"
	TextScoresHeader       = emoji.HundredPoints.String() + " *Scores*\n\n"
	TextBoardHeader        = emoji.VideoGame.String() + " *%s*\n\n"
	TextLogHeader          = emoji.Bookmark.String() + " *Recent events*\n\n"
	TextTurnMsg            = emoji.GameDie.String() + " *%s*, your turn: " + CmdRoll
	TextWinnerMsg          = emoji.Trophy.String() + " *%s* wins!"
	TextQuizMsg            = emoji.Joystick.String() + " *%s* (difficulty %d, %d points)"
	TextInfoMsg            = emoji.Loudspeaker.String() + " %s"
	TextRewardMsg          = emoji.Star.String() + " %s"
	TextEmptyTileMsg       = "Nothing here."
	TextFinishTileMsg      = emoji.ChequeredFlag.String() + " Finish!"
	TextAckButton          = "OK"
	TextNextButton         = emoji.Rocket.String() + " Next player"
	TextNoStatsMsg         = emoji.HundredPoints.String() + " No finished games yet"
	TextStatsMsg           = emoji.HundredPoints.String() + " *Games played:* %d\n*Last board:* %s\n*Average winning score:* %d\n*Best score:* %s, %d\n\n"
	TextWarnMsg            = emoji.BrokenHeart.String() + " Something went wrong, try again in a minute"
)

const (
	ProjectName  = "tilequest"
	BotFatherURL = "https://t.me/botfather"
)

// GreetingCLI is printed by the binaries on start: project name, version.
var GreetingCLI = emoji.GameDie.String() + " %s %s\n"
