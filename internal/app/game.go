package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"food-quiz-service/internal/domain"
	"food-quiz-service/internal/quiz"
)

// EngineEvents receives state changes from a Game. Callbacks run outside the
// game lock and may call back into the Game.
type EngineEvents interface {
	OnRoundReady(round domain.Round)
	OnGuessOutcome(outcome domain.Outcome)
	OnQuizComplete(stats domain.Stats)
}

// Scheduler runs fn once after d. The returned cancel stops a pending run.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) (cancel func())
}

type timerScheduler struct{}

func (timerScheduler) Schedule(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

const defaultAdvanceDelay = time.Second

// GameOptions tunes a Game.
type GameOptions struct {
	GuessRows    int
	AdvanceDelay time.Duration
	// Seed fixes the random source when Rand is nil; zero draws a fresh seed.
	Seed      int64
	Rand      quiz.RandomSource
	Scheduler Scheduler
	Logger    zerolog.Logger
	Metrics   *Metrics
}

// Game drives one player's quiz. All methods are safe for concurrent use.
type Game struct {
	id       string
	catalog  quiz.Catalog
	selector *quiz.CategorySelector
	events   EngineEvents
	delay    time.Duration
	sched    Scheduler
	rng      quiz.RandomSource
	logger   zerolog.Logger
	metrics  *Metrics

	mu        sync.Mutex
	guessRows int
	active    quiz.Pool // pool the running session draws from
	session   *quiz.Session
	round     domain.Round
	disabled  map[domain.DishID]struct{}
	cancel    func()
	epoch     uint64 // bumped on every reset and advance; stale timers compare it
}

// NewGame validates categories and builds a stopped game; call Start.
func NewGame(id string, catalog quiz.Catalog, categories []domain.Category, events EngineEvents, opts GameOptions) (*Game, error) {
	for _, c := range categories {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	if opts.GuessRows == 0 {
		opts.GuessRows = 1
	}
	if err := domain.ValidateGuessRows(opts.GuessRows); err != nil {
		return nil, err
	}
	if opts.AdvanceDelay <= 0 {
		opts.AdvanceDelay = defaultAdvanceDelay
	}
	if opts.Scheduler == nil {
		opts.Scheduler = timerScheduler{}
	}
	rng := opts.Rand
	if rng == nil {
		seed := opts.Seed
		if seed == 0 {
			var err error
			if seed, err = quiz.NewSeed(); err != nil {
				return nil, err
			}
		}
		rng = quiz.NewRandomSource(seed)
	}
	if events == nil {
		events = NopEvents{}
	}

	return &Game{
		id:        id,
		catalog:   catalog,
		selector:  quiz.NewCategorySelector(categories),
		events:    events,
		delay:     opts.AdvanceDelay,
		sched:     opts.Scheduler,
		rng:       rng,
		logger:    opts.Logger.With().Str("game", id).Logger(),
		metrics:   opts.Metrics,
		guessRows: opts.GuessRows,
	}, nil
}

// ID returns the game identifier.
func (g *Game) ID() string { return g.id }

// Start begins the first quiz.
func (g *Game) Start(ctx context.Context) error {
	return g.Reset(ctx)
}

// Reset replaces the session with a fresh quiz over the enabled categories.
// On failure the running session is left untouched.
func (g *Game) Reset(ctx context.Context) error {
	g.mu.Lock()
	round, err := g.resetLocked(ctx, g.guessRows)
	g.mu.Unlock()
	if err != nil {
		return err
	}
	g.events.OnRoundReady(round)
	return nil
}

// SetGuessRows changes the number of answer rows and resets the quiz.
func (g *Game) SetGuessRows(ctx context.Context, rows int) error {
	if err := domain.ValidateGuessRows(rows); err != nil {
		return err
	}
	g.mu.Lock()
	round, err := g.resetLocked(ctx, rows)
	g.mu.Unlock()
	if err != nil {
		return err
	}
	g.events.OnRoundReady(round)
	return nil
}

// SetCategoryEnabled toggles a category. The change applies from the next Reset.
func (g *Game) SetCategoryEnabled(category domain.Category, enabled bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.selector.SetEnabled(category, enabled)
}

// SetCategoriesEnabled applies several toggles at once. Every category is
// checked first; an unknown one rejects the whole change.
func (g *Game) SetCategoriesEnabled(toggles map[domain.Category]bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for category := range toggles {
		if !g.selector.Has(category) {
			return fmt.Errorf("%w: %q", domain.ErrUnknownCategory, string(category))
		}
	}
	for category, enabled := range toggles {
		if err := g.selector.SetEnabled(category, enabled); err != nil {
			return err
		}
	}
	return nil
}

// SubmitGuess evaluates a guess, given as a DishID or display name, against
// the current round.
func (g *Game) SubmitGuess(_ context.Context, guess string) (domain.Outcome, error) {
	g.mu.Lock()
	outcome, err := g.submitLocked(guess)
	g.mu.Unlock()
	if err != nil {
		return domain.Outcome{}, err
	}

	g.metrics.observeGuess(outcome)
	g.events.OnGuessOutcome(outcome)
	if outcome.Kind == domain.OutcomeQuizComplete {
		g.logger.Info().Str("stats", outcome.Stats.String()).Msg("quiz complete")
		g.events.OnQuizComplete(outcome.Stats)
	}
	return outcome, nil
}

func (g *Game) submitLocked(guess string) (domain.Outcome, error) {
	if g.session == nil {
		return domain.Outcome{}, domain.ErrNoActiveSession
	}
	if g.session.Status() == quiz.StatusCompleted {
		return domain.Outcome{}, domain.ErrQuizComplete
	}
	if g.session.Answered() {
		return domain.Outcome{}, domain.ErrRoundAnswered
	}
	chosen, ok := g.round.Lookup(guess)
	if !ok {
		return domain.Outcome{}, fmt.Errorf("%w: %q", domain.ErrUnknownChoice, guess)
	}
	if _, off := g.disabled[chosen]; off {
		return domain.Outcome{}, fmt.Errorf("%w: %s", domain.ErrChoiceDisabled, chosen)
	}

	outcome, err := quiz.SubmitGuess(g.session, g.round, guess)
	if err != nil {
		return domain.Outcome{}, err
	}
	switch outcome.Kind {
	case domain.OutcomeIncorrect:
		g.disabled[chosen] = struct{}{}
	case domain.OutcomeAdvance:
		epoch := g.epoch
		g.cancel = g.sched.Schedule(g.delay, func() { g.advance(epoch) })
	}
	return outcome, nil
}

// Advance loads the next dish now instead of waiting for the delay.
func (g *Game) Advance(_ context.Context) error {
	g.mu.Lock()
	if g.session == nil {
		g.mu.Unlock()
		return domain.ErrNoActiveSession
	}
	if g.session.Status() == quiz.StatusCompleted {
		g.mu.Unlock()
		return domain.ErrQuizComplete
	}
	if !g.session.Answered() {
		g.mu.Unlock()
		return fmt.Errorf("advance: question %d not answered", g.session.Index()+1)
	}
	round, ok := g.advanceLocked()
	g.mu.Unlock()
	if ok {
		g.events.OnRoundReady(round)
	}
	return nil
}

func (g *Game) advance(epoch uint64) {
	g.mu.Lock()
	if epoch != g.epoch {
		g.mu.Unlock()
		return
	}
	round, ok := g.advanceLocked()
	g.mu.Unlock()
	if ok {
		g.events.OnRoundReady(round)
	}
}

func (g *Game) advanceLocked() (domain.Round, bool) {
	g.stopPendingLocked()
	if g.session == nil || !g.session.Advance() {
		return domain.Round{}, false
	}
	round, err := quiz.NextRound(g.session, g.active, g.guessRows, g.rng)
	if err != nil {
		// the active pool already produced a round at these rows
		g.logger.Error().Err(err).Msg("build next round")
		return domain.Round{}, false
	}
	g.round = round
	g.disabled = make(map[domain.DishID]struct{})
	return round, true
}

// Stop cancels a pending advance. The game can be restarted with Reset.
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopPendingLocked()
}

func (g *Game) stopPendingLocked() {
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	g.epoch++
}

func (g *Game) resetLocked(ctx context.Context, rows int) (domain.Round, error) {
	pool, err := g.poolLocked(ctx)
	if err != nil {
		return domain.Round{}, err
	}
	session, err := quiz.StartSession(pool, g.rng)
	if err != nil {
		return domain.Round{}, err
	}
	round, err := quiz.NextRound(session, pool, rows, g.rng)
	if err != nil {
		return domain.Round{}, err
	}

	g.stopPendingLocked()
	g.guessRows = rows
	g.active = pool
	g.session = session
	g.round = round
	g.disabled = make(map[domain.DishID]struct{})
	g.metrics.observeStart()
	g.logger.Debug().
		Int("pool", pool.Size()).
		Int("rows", rows).
		Msg("quiz reset")
	return round, nil
}

// poolLocked builds the pool from the current catalog on every reset, so
// categories that were unavailable or changed since the last quiz are
// picked up. Listings are cached by the catalog repositories.
func (g *Game) poolLocked(ctx context.Context) (quiz.Pool, error) {
	pool, err := quiz.BuildPool(ctx, g.catalog, g.selector.Enabled())
	for _, c := range pool.Unavailable {
		g.metrics.observeUnavailable(c)
		g.logger.Warn().Str("category", string(c)).Msg("catalog unavailable, category skipped")
	}
	if err != nil {
		return quiz.Pool{}, err
	}
	return pool, nil
}

// CategoryState is one entry of the category menu.
type CategoryState struct {
	Category    domain.Category `json:"category"`
	DisplayName string          `json:"displayName"`
	Enabled     bool            `json:"enabled"`
}

// GameState is a snapshot for rendering.
type GameState struct {
	Question   int             `json:"question"`
	Total      int             `json:"total"`
	Correct    int             `json:"correct"`
	Guesses    int             `json:"guesses"`
	GuessRows  int             `json:"guessRows"`
	Answered   bool            `json:"answered"`
	Completed  bool            `json:"completed"`
	Round      *domain.Round   `json:"round,omitempty"`
	Disabled   []domain.DishID `json:"disabled,omitempty"`
	Categories []CategoryState `json:"categories"`
}

// Label renders the question counter, e.g. "Question 3 of 10".
func (s GameState) Label() string {
	return fmt.Sprintf("Question %d of %d", s.Question, s.Total)
}

// State snapshots the game.
func (g *Game) State() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	state := GameState{Total: domain.QuestionsPerQuiz, GuessRows: g.guessRows}
	for _, c := range g.selector.Categories() {
		state.Categories = append(state.Categories, CategoryState{
			Category:    c,
			DisplayName: c.DisplayName(),
			Enabled:     g.selector.IsEnabled(c),
		})
	}
	if g.session == nil {
		return state
	}
	state.Question = g.session.Index() + 1
	state.Correct = g.session.Correct()
	state.Guesses = g.session.Guesses()
	state.Answered = g.session.Answered()
	state.Completed = g.session.Status() == quiz.StatusCompleted
	round := g.round
	round.Choices = append([]domain.DishID(nil), g.round.Choices...)
	state.Round = &round
	for _, c := range round.Choices {
		if _, off := g.disabled[c]; off {
			state.Disabled = append(state.Disabled, c)
		}
	}
	return state
}

// NopEvents ignores every event.
type NopEvents struct{}

func (NopEvents) OnRoundReady(domain.Round)     {}
func (NopEvents) OnGuessOutcome(domain.Outcome) {}
func (NopEvents) OnQuizComplete(domain.Stats)   {}
