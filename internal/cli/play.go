package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"food-quiz-service/internal/app"
	"food-quiz-service/internal/config"
	"food-quiz-service/internal/domain"
	"food-quiz-service/internal/logging"
)

// NewPlayCmd plays a quiz in the terminal. Pictures are not shown, so this is
// mostly useful for trying out the engine and the catalog.
func NewPlayCmd(opts *options) *cobra.Command {
	var (
		rows  int
		seed  int64
		delay time.Duration
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			src, err := openCatalog(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer src.close()

			gameOpts := app.GameOptions{
				GuessRows:    opts.cfg.Quiz.GuessRows,
				AdvanceDelay: config.Duration(opts.cfg.Quiz.AdvanceDelay, time.Second),
				Seed:         opts.cfg.Quiz.Seed,
				Logger:       logging.FromContext(ctx),
			}
			if cmd.Flags().Changed("rows") {
				gameOpts.GuessRows = rows
			}
			if cmd.Flags().Changed("seed") {
				gameOpts.Seed = seed
			}
			if cmd.Flags().Changed("delay") {
				gameOpts.AdvanceDelay = delay
			}

			categories, err := src.catalog.Categories(ctx)
			if err != nil {
				return err
			}
			events := newTermEvents()
			game, err := app.NewGame("terminal", src.catalog, categories, events, gameOpts)
			if err != nil {
				return err
			}
			defer game.Stop()

			p := &player{game: game, events: events, in: bufio.NewScanner(cmd.InOrStdin()), out: cmd.OutOrStdout()}
			return p.run(ctx)
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 1, "rows of three choices (1-3)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 draws one)")
	cmd.Flags().DurationVar(&delay, "delay", time.Second, "pause before the next dish")
	return cmd
}

// termEvents hands rounds to the input loop.
type termEvents struct {
	app.NopEvents
	rounds chan domain.Round
}

func newTermEvents() *termEvents {
	return &termEvents{rounds: make(chan domain.Round, 1)}
}

func (e *termEvents) OnRoundReady(round domain.Round) {
	// keep only the newest round
	select {
	case <-e.rounds:
	default:
	}
	e.rounds <- round
}

type player struct {
	game   *app.Game
	events *termEvents
	in     *bufio.Scanner
	out    io.Writer
	round  domain.Round
}

const playHelp = `Type the number or name of the dish.
Commands: reset, rows <1-3>, off <category>, on <category>, state, quit`

func (p *player) run(ctx context.Context) error {
	fmt.Fprintln(p.out, playHelp)
	if err := p.game.Start(ctx); err != nil {
		return err
	}
	p.round = <-p.events.rounds
	p.render()

	for p.in.Scan() {
		line := strings.TrimSpace(p.in.Text())
		if line == "" {
			continue
		}
		quit, err := p.handle(ctx, line)
		if err != nil {
			fmt.Fprintf(p.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
	return p.in.Err()
}

func (p *player) handle(ctx context.Context, line string) (bool, error) {
	cmd, arg, _ := strings.Cut(line, " ")
	switch cmd {
	case "quit", "exit":
		return true, nil
	case "reset":
		return false, p.await(p.game.Reset(ctx))
	case "rows":
		rows, err := strconv.Atoi(arg)
		if err != nil {
			return false, fmt.Errorf("rows: %w", domain.ErrInvalidGuessRows)
		}
		return false, p.await(p.game.SetGuessRows(ctx, rows))
	case "on", "off":
		if err := p.game.SetCategoryEnabled(domain.Category(arg), cmd == "on"); err != nil {
			return false, err
		}
		return false, p.await(p.game.Reset(ctx))
	case "state":
		p.renderState()
		return false, nil
	}
	return false, p.guess(ctx, line)
}

func (p *player) guess(ctx context.Context, line string) error {
	guess := line
	if n, err := strconv.Atoi(line); err == nil {
		if n < 1 || n > len(p.round.Choices) {
			return fmt.Errorf("%w: %d", domain.ErrUnknownChoice, n)
		}
		guess = string(p.round.Choices[n-1])
	}
	outcome, err := p.game.SubmitGuess(ctx, guess)
	if err != nil {
		return err
	}
	switch outcome.Kind {
	case domain.OutcomeIncorrect:
		fmt.Fprintln(p.out, "Incorrect!")
	case domain.OutcomeAdvance:
		fmt.Fprintf(p.out, "%s!\n", outcome.Answer)
		p.round = <-p.events.rounds
		p.render()
	case domain.OutcomeQuizComplete:
		fmt.Fprintf(p.out, "%s!\n", outcome.Answer)
		fmt.Fprintln(p.out, outcome.Stats.String())
		fmt.Fprintln(p.out, "Type reset to play again or quit to leave.")
	}
	return nil
}

// await picks up the round a successful reset published.
func (p *player) await(err error) error {
	if err != nil {
		if errors.Is(err, domain.ErrEmptyPool) {
			return fmt.Errorf("%w: enable at least one category", err)
		}
		return err
	}
	p.round = <-p.events.rounds
	p.render()
	return nil
}

func (p *player) render() {
	fmt.Fprintf(p.out, "\n%s\n", app.GameState{Question: p.round.Question, Total: domain.QuestionsPerQuiz}.Label())
	n := 1
	for _, row := range p.round.Grid() {
		cells := make([]string, 0, len(row))
		for _, id := range row {
			cells = append(cells, fmt.Sprintf("%d) %s", n, id.DisplayName()))
			n++
		}
		fmt.Fprintln(p.out, strings.Join(cells, "   "))
	}
}

func (p *player) renderState() {
	state := p.game.State()
	fmt.Fprintf(p.out, "%s, %d guesses, %d correct, %d row(s)\n",
		state.Label(), state.Guesses, state.Correct, state.GuessRows)
	for _, c := range state.Categories {
		mark := " "
		if c.Enabled {
			mark = "x"
		}
		fmt.Fprintf(p.out, "[%s] %s\n", mark, c.DisplayName)
	}
}
