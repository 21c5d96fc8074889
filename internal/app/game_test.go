package app

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-quiz-service/internal/domain"
)

type stubCatalog struct {
	dishes map[domain.Category][]domain.DishID
	errs   map[domain.Category]error
}

func (c *stubCatalog) Categories(_ context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, 0, len(c.dishes)+len(c.errs))
	for cat := range c.dishes {
		out = append(out, cat)
	}
	for cat := range c.errs {
		out = append(out, cat)
	}
	return out, nil
}

func (c *stubCatalog) ListDishes(_ context.Context, category domain.Category) ([]domain.DishID, error) {
	if err, ok := c.errs[category]; ok {
		return nil, err
	}
	return c.dishes[category], nil
}

func dishes(category string, n int) []domain.DishID {
	out := make([]domain.DishID, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.DishID(fmt.Sprintf("%s-%s_dish_%02d", category, category, i)))
	}
	return out
}

type task struct {
	fn       func()
	canceled bool
}

type manualScheduler struct {
	tasks []*task
}

func (s *manualScheduler) Schedule(_ time.Duration, fn func()) func() {
	t := &task{fn: fn}
	s.tasks = append(s.tasks, t)
	return func() { t.canceled = true }
}

// fire runs every pending task that was not canceled.
func (s *manualScheduler) fire() {
	tasks := s.tasks
	s.tasks = nil
	for _, t := range tasks {
		if !t.canceled {
			t.fn()
		}
	}
}

type recorder struct {
	rounds    []domain.Round
	outcomes  []domain.Outcome
	completes []domain.Stats
}

func (r *recorder) OnRoundReady(round domain.Round)       { r.rounds = append(r.rounds, round) }
func (r *recorder) OnGuessOutcome(outcome domain.Outcome) { r.outcomes = append(r.outcomes, outcome) }
func (r *recorder) OnQuizComplete(stats domain.Stats)     { r.completes = append(r.completes, stats) }

type fixture struct {
	game    *Game
	sched   *manualScheduler
	events  *recorder
	metrics *Metrics
}

func newFixture(t *testing.T, catalog *stubCatalog, rows int) fixture {
	t.Helper()
	categories, err := catalog.Categories(context.Background())
	require.NoError(t, err)

	f := fixture{
		sched:   &manualScheduler{},
		events:  &recorder{},
		metrics: NewMetrics(prometheus.NewRegistry()),
	}
	f.game, err = NewGame("player-1", catalog, categories, f.events, GameOptions{
		GuessRows: rows,
		Seed:      42,
		Scheduler: f.sched,
		Logger:    zerolog.Nop(),
		Metrics:   f.metrics,
	})
	require.NoError(t, err)
	return f
}

func twoCuisines() *stubCatalog {
	return &stubCatalog{dishes: map[domain.Category][]domain.DishID{
		"Italian": dishes("Italian", 8),
		"Indian":  dishes("Indian", 8),
	}}
}

func currentRound(t *testing.T, g *Game) domain.Round {
	t.Helper()
	state := g.State()
	require.NotNil(t, state.Round)
	return *state.Round
}

func wrongChoice(round domain.Round) domain.DishID {
	for _, c := range round.Choices {
		if c != round.Correct {
			return c
		}
	}
	return ""
}

func TestGameTenCorrectGuessesCompletes(t *testing.T) {
	f := newFixture(t, twoCuisines(), 1)
	ctx := context.Background()
	require.NoError(t, f.game.Start(ctx))

	seen := make(map[domain.DishID]struct{})
	for i := 0; i < domain.QuestionsPerQuiz; i++ {
		state := f.game.State()
		assert.Equal(t, fmt.Sprintf("Question %d of 10", i+1), state.Label())
		round := *state.Round
		seen[round.Correct] = struct{}{}

		outcome, err := f.game.SubmitGuess(ctx, round.Correct.DisplayName())
		require.NoError(t, err)
		if i < domain.QuestionsPerQuiz-1 {
			assert.Equal(t, domain.OutcomeAdvance, outcome.Kind)
			require.Len(t, f.sched.tasks, 1)
			f.sched.fire()
			continue
		}
		assert.Equal(t, domain.OutcomeQuizComplete, outcome.Kind)
		assert.Equal(t, 10, outcome.Stats.TotalGuesses)
		assert.InDelta(t, 100.0, outcome.Stats.Accuracy, 1e-9)
	}

	assert.Len(t, seen, domain.QuestionsPerQuiz)
	assert.Len(t, f.events.rounds, domain.QuestionsPerQuiz)
	require.Len(t, f.events.completes, 1)
	assert.Equal(t, "10 guesses, 100.00% correct", f.events.completes[0].String())
	assert.Empty(t, f.sched.tasks)
	assert.True(t, f.game.State().Completed)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.completed))
	assert.Equal(t, 9.0, testutil.ToFloat64(f.metrics.guesses.WithLabelValues(string(domain.OutcomeAdvance))))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.guesses.WithLabelValues(string(domain.OutcomeQuizComplete))))

	_, err := f.game.SubmitGuess(ctx, "anything")
	assert.ErrorIs(t, err, domain.ErrQuizComplete)
	assert.ErrorIs(t, f.game.Advance(ctx), domain.ErrQuizComplete)
}

func TestGameWrongGuessDisablesChoice(t *testing.T) {
	f := newFixture(t, twoCuisines(), 1)
	ctx := context.Background()
	require.NoError(t, f.game.Start(ctx))

	round := currentRound(t, f.game)
	wrong := wrongChoice(round)
	require.NotEmpty(t, wrong)

	outcome, err := f.game.SubmitGuess(ctx, string(wrong))
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeIncorrect, outcome.Kind)
	assert.Equal(t, wrong, outcome.DisabledChoice)
	assert.Empty(t, f.sched.tasks)
	assert.Equal(t, []domain.DishID{wrong}, f.game.State().Disabled)

	_, err = f.game.SubmitGuess(ctx, string(wrong))
	assert.ErrorIs(t, err, domain.ErrChoiceDisabled)

	outcome, err = f.game.SubmitGuess(ctx, string(round.Correct))
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeAdvance, outcome.Kind)
	assert.Equal(t, 2, outcome.Stats.TotalGuesses)
	assert.InDelta(t, 500.0, outcome.Stats.Accuracy, 1e-9)

	_, err = f.game.SubmitGuess(ctx, string(round.Correct))
	assert.ErrorIs(t, err, domain.ErrRoundAnswered)

	f.sched.fire()
	state := f.game.State()
	assert.Equal(t, 2, state.Question)
	assert.Empty(t, state.Disabled)
}

func TestGameRejectsUnknownChoice(t *testing.T) {
	f := newFixture(t, twoCuisines(), 1)
	ctx := context.Background()

	_, err := f.game.SubmitGuess(ctx, "lasagne")
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)

	require.NoError(t, f.game.Start(ctx))
	_, err = f.game.SubmitGuess(ctx, "not on the menu")
	assert.ErrorIs(t, err, domain.ErrUnknownChoice)
	assert.Zero(t, f.game.State().Guesses)
}

func TestGameResetCancelsPendingAdvance(t *testing.T) {
	f := newFixture(t, twoCuisines(), 1)
	ctx := context.Background()
	require.NoError(t, f.game.Start(ctx))

	round := currentRound(t, f.game)
	_, err := f.game.SubmitGuess(ctx, string(round.Correct))
	require.NoError(t, err)
	require.Len(t, f.sched.tasks, 1)
	stale := f.sched.tasks[0]

	require.NoError(t, f.game.Reset(ctx))
	assert.True(t, stale.canceled)
	fresh := currentRound(t, f.game)

	// a timer that already fired still must not advance the new quiz
	stale.fn()
	state := f.game.State()
	assert.Equal(t, 1, state.Question)
	assert.Equal(t, fresh.ID, state.Round.ID)
	assert.Zero(t, state.Guesses)
	assert.Len(t, f.events.rounds, 2)
}

func TestGameFailedResetKeepsSession(t *testing.T) {
	f := newFixture(t, twoCuisines(), 1)
	ctx := context.Background()
	require.NoError(t, f.game.Start(ctx))
	before := currentRound(t, f.game)

	require.NoError(t, f.game.SetCategoryEnabled("Italian", false))
	require.NoError(t, f.game.SetCategoryEnabled("Indian", false))
	assert.ErrorIs(t, f.game.Reset(ctx), domain.ErrEmptyPool)
	assert.Equal(t, before.ID, currentRound(t, f.game).ID)

	require.NoError(t, f.game.SetCategoryEnabled("Italian", true))
	assert.ErrorIs(t, f.game.Reset(ctx), domain.ErrInsufficientDishes)
	assert.Equal(t, before.ID, currentRound(t, f.game).ID)

	assert.ErrorIs(t, f.game.SetCategoryEnabled("Thai", true), domain.ErrUnknownCategory)
}

func TestGameCategoryChangeAppliesOnReset(t *testing.T) {
	catalog := twoCuisines()
	catalog.dishes["British"] = dishes("British", 12)
	f := newFixture(t, catalog, 1)
	ctx := context.Background()
	require.NoError(t, f.game.Start(ctx))

	require.NoError(t, f.game.SetCategoryEnabled("Italian", false))
	require.NoError(t, f.game.SetCategoryEnabled("Indian", false))
	require.NoError(t, f.game.Reset(ctx))

	for i := 0; i < domain.QuestionsPerQuiz; i++ {
		round := currentRound(t, f.game)
		for _, c := range round.Choices {
			assert.Equal(t, domain.Category("British"), c.Category())
		}
		_, err := f.game.SubmitGuess(ctx, string(round.Correct))
		require.NoError(t, err)
		f.sched.fire()
	}
}

func TestGameSkipsUnavailableCategory(t *testing.T) {
	catalog := &stubCatalog{
		dishes: map[domain.Category][]domain.DishID{"Italian": dishes("Italian", 10)},
		errs:   map[domain.Category]error{"Chinese": fmt.Errorf("%w: disk gone", domain.ErrCatalogUnavailable)},
	}
	f := newFixture(t, catalog, 1)
	require.NoError(t, f.game.Start(context.Background()))

	for _, c := range currentRound(t, f.game).Choices {
		assert.Equal(t, domain.Category("Italian"), c.Category())
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.unavailable.WithLabelValues("Chinese")))
}

func TestGameRequiresTenDishes(t *testing.T) {
	catalog := &stubCatalog{dishes: map[domain.Category][]domain.DishID{"Italian": dishes("Italian", 9)}}
	f := newFixture(t, catalog, 1)

	assert.ErrorIs(t, f.game.Start(context.Background()), domain.ErrInsufficientDishes)
	assert.Nil(t, f.game.State().Round)
}

func TestGameSetGuessRowsResets(t *testing.T) {
	f := newFixture(t, twoCuisines(), 1)
	ctx := context.Background()
	require.NoError(t, f.game.Start(ctx))

	round := currentRound(t, f.game)
	_, err := f.game.SubmitGuess(ctx, string(round.Correct))
	require.NoError(t, err)

	require.NoError(t, f.game.SetGuessRows(ctx, 3))
	state := f.game.State()
	assert.Equal(t, 3, state.GuessRows)
	assert.Equal(t, 1, state.Question)
	assert.Zero(t, state.Guesses)
	assert.Len(t, state.Round.Choices, 9)
	assert.Len(t, state.Round.Grid(), 3)

	assert.ErrorIs(t, f.game.SetGuessRows(ctx, 4), domain.ErrInvalidGuessRows)
	assert.Equal(t, 3, f.game.State().GuessRows)
}

func TestGameAdvanceSkipsDelay(t *testing.T) {
	f := newFixture(t, twoCuisines(), 2)
	ctx := context.Background()
	require.NoError(t, f.game.Start(ctx))

	assert.Error(t, f.game.Advance(ctx))

	round := currentRound(t, f.game)
	_, err := f.game.SubmitGuess(ctx, string(round.Correct))
	require.NoError(t, err)
	require.NoError(t, f.game.Advance(ctx))
	assert.Equal(t, 2, f.game.State().Question)

	f.sched.fire()
	assert.Equal(t, 2, f.game.State().Question)
}

func TestNewGameValidates(t *testing.T) {
	_, err := NewGame("p", &stubCatalog{}, []domain.Category{"Tex-Mex"}, nil, GameOptions{Logger: zerolog.Nop()})
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)

	_, err = NewGame("p", &stubCatalog{}, nil, nil, GameOptions{GuessRows: 5, Logger: zerolog.Nop()})
	assert.ErrorIs(t, err, domain.ErrInvalidGuessRows)
}

func TestGameResetPicksUpRecoveredCategory(t *testing.T) {
	catalog := &stubCatalog{
		dishes: map[domain.Category][]domain.DishID{
			"Italian": dishes("Italian", 10),
			"Chinese": dishes("Chinese", 10),
		},
		errs: map[domain.Category]error{"Chinese": fmt.Errorf("%w: disk gone", domain.ErrCatalogUnavailable)},
	}
	f := newFixture(t, catalog, 1)
	ctx := context.Background()
	require.NoError(t, f.game.Start(ctx))
	for _, c := range currentRound(t, f.game).Choices {
		assert.Equal(t, domain.Category("Italian"), c.Category())
	}

	// Chinese comes back while Italian goes away; the next quiz must see both changes.
	catalog.errs = map[domain.Category]error{"Italian": fmt.Errorf("%w: disk gone", domain.ErrCatalogUnavailable)}
	require.NoError(t, f.game.Reset(ctx))
	for _, c := range currentRound(t, f.game).Choices {
		assert.Equal(t, domain.Category("Chinese"), c.Category())
	}

	catalog.errs = nil
	catalog.dishes["Chinese"] = dishes("Chinese", 3)
	catalog.dishes["Italian"] = dishes("Italian", 3)
	assert.ErrorIs(t, f.game.Reset(ctx), domain.ErrInsufficientDishes)
}

func TestGameSetCategoriesEnabledIsAllOrNothing(t *testing.T) {
	f := newFixture(t, twoCuisines(), 1)

	err := f.game.SetCategoriesEnabled(map[domain.Category]bool{"Italian": false, "Thai": true})
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)
	for _, c := range f.game.State().Categories {
		assert.True(t, c.Enabled, c.Category)
	}

	require.NoError(t, f.game.SetCategoriesEnabled(map[domain.Category]bool{"Italian": false}))
	for _, c := range f.game.State().Categories {
		assert.Equal(t, c.Category != "Italian", c.Enabled, c.Category)
	}
}
