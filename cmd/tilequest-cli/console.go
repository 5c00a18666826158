package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/Shiro291/studio-sub000/internal/board"
	resultDb "github.com/Shiro291/studio-sub000/internal/database/result/database"
	resultModel "github.com/Shiro291/studio-sub000/internal/database/result/model"
	"github.com/Shiro291/studio-sub000/internal/game"
	"github.com/Shiro291/studio-sub000/internal/resource"
)

const helpText = `commands:
  roll          roll the dice for the current player
  answer <n>    pick quiz option n
  ok            acknowledge an info or reward tile
  next          hand over to the next player
  board         show the board
  scores        show the scores
  log           show recent events
  stats         show finished games
  players <n>   change the number of players before the first roll
  visuals       give the tiles a new look
  reset         start the board over
  quit`

// console plays one session on a terminal. Output from animation steps
// arrives from timer goroutines, so writes are serialized.
type console struct {
	mtx     sync.Mutex
	out     io.Writer
	session *game.Session
	// optional
	results resultStore
}

type resultStore interface {
	Add(r resultModel.Result) error
	FetchSummary(chatID int64) (resultModel.Summary, error)
}

// localChat keys the results of terminal games.
const localChat = 0

func newConsole(ctx context.Context, out io.Writer, config game.Config) *console {
	c := &console{out: out}
	config.Effects = game.EffectsFunc(c.bell)
	config.OnChange = c.onChange
	c.session = game.NewSession(ctx, config)
	return c
}

func (c *console) printf(format string, args ...interface{}) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	_, _ = fmt.Fprintf(c.out, format, args...)
}

func (c *console) bell(s game.Sound) {
	if s == game.SoundFinish || s == game.SoundCorrect || s == game.SoundIncorrect {
		c.printf("\a")
	}
}

func (c *console) onChange(prev, next game.State) {
	for _, e := range game.NewEntries(prev, next) {
		c.printf("%s\n", resource.FormatLog(e))
	}
	if next.Error != "" && next.Error != prev.Error {
		c.printf("error: %s\n", next.Error)
	}
	if next.Status == game.StatusInteractionPending && prev.Status != game.StatusInteractionPending {
		c.printf("%s", prompt(next))
	}
	if next.Status == game.StatusFinished && prev.Status != game.StatusFinished && c.results != nil {
		if r, ok := resultDb.FromState(localChat, next); ok {
			if err := c.results.Add(r); err != nil {
				c.printf("error: save result: %v\n", err)
			}
		}
	}
}

func (c *console) run(ctx context.Context, in io.Reader) error {
	c.printf("%s\n", helpText)

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		if quit := c.exec(sc.Text()); quit {
			return nil
		}
	}
	return sc.Err()
}

// exec runs one command line and reports whether the user asked to quit.
func (c *console) exec(line string) bool {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return false
	}

	var err error
	switch fields[0] {
	case "quit", "exit":
		return true
	case "help":
		c.printf("%s\n", helpText)
	case "roll":
		err = c.session.RollDice("")
	case "answer":
		err = c.answer(fields[1:])
	case "ok":
		err = c.session.Acknowledge()
	case "next":
		err = c.session.ProceedToNextTurn()
	case "reset":
		err = c.session.Reset()
	case "visuals":
		err = c.session.RerandomizeVisuals()
	case "players":
		err = c.players(fields[1:])
	case "board":
		c.printf("%s", renderBoard(c.session.State()))
	case "scores":
		c.printf("%s", renderScores(c.session.State()))
	case "log":
		c.printf("%s", renderLog(c.session.State(), 10))
	case "stats":
		err = c.stats()
	default:
		c.printf("unknown command %q, try help\n", fields[0])
	}

	if err != nil {
		c.printf("%s\n", explain(err))
	}
	return false
}

var errUsage = fmt.Errorf("bad arguments")

func (c *console) stats() error {
	if c.results == nil {
		return errors.New("no result store")
	}

	s, err := c.results.FetchSummary(localChat)
	if err != nil {
		if errors.Is(err, resultDb.ErrNotFound) {
			c.printf("no finished games yet\n")
			return nil
		}
		return err
	}

	c.printf("games %d, last board %s, average winning score %d, best %s with %d\n",
		s.Games, s.LastBoard, s.AvgWinnerScore, s.BestPlayer, s.BestScore)
	return nil
}

func (c *console) answer(args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return errUsage
	}

	tile := c.session.State().ActiveTileForInteraction
	if tile == nil {
		return game.ErrActionNotAllowed
	}
	q, ok := tile.Quiz()
	if !ok {
		return game.ErrActionNotAllowed
	}
	if n < 1 || n > len(q.Options) {
		return game.ErrUnknownOption
	}
	return c.session.AnswerQuiz(q.Options[n-1].ID)
}

func (c *console) players(args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < board.MinPlayers || n > board.MaxPlayers {
		return errUsage
	}

	settings := c.session.State().Board.Settings
	settings.NumberOfPlayers = n
	return c.session.UpdateSettings(settings)
}

func explain(err error) string {
	switch {
	case errors.Is(err, errUsage):
		return "bad arguments, try help"
	case errors.Is(err, game.ErrUnknownOption):
		return "no such option"
	case errors.Is(err, game.ErrActionNotAllowed):
		return resource.TextNotAllowedMsg
	default:
		return "error: " + err.Error()
	}
}
