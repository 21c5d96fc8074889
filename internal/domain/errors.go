package domain

import "errors"

var (
	// ErrEmptyPool is returned when no enabled category contributes a dish.
	ErrEmptyPool = errors.New("dish pool is empty")
	// ErrInsufficientDishes is returned when the pool cannot fill a full quiz.
	ErrInsufficientDishes = errors.New("not enough dishes to start a quiz")
	// ErrInsufficientChoices is returned when the pool cannot fill every answer button.
	ErrInsufficientChoices = errors.New("not enough dishes to build the answer choices")
	// ErrUnknownCategory is returned when toggling a category the catalog never listed.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrCatalogUnavailable wraps listing failures from a catalog backend.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrInvalidDishID indicates a dish identifier is not "<category>-<name>".
	ErrInvalidDishID = errors.New("invalid dish id")
	// ErrInvalidCategory indicates an empty category or one containing the reserved "-".
	ErrInvalidCategory = errors.New("invalid category")
	// ErrInvalidGuessRows indicates a row count outside 1..3.
	ErrInvalidGuessRows = errors.New("guess rows must be 1, 2 or 3")
	// ErrDishNotInPool indicates the correct answer is missing from the pool.
	ErrDishNotInPool = errors.New("dish not in pool")

	// ErrQuizComplete is returned for guesses after the tenth correct answer.
	ErrQuizComplete = errors.New("quiz already complete")
	// ErrRoundAnswered is returned for guesses while the next dish is pending.
	ErrRoundAnswered = errors.New("round already answered")
	// ErrStaleRound is returned when a guess targets a round that is no longer current.
	ErrStaleRound = errors.New("round is no longer current")
	// ErrUnknownChoice is returned when a guess matches none of the displayed choices.
	ErrUnknownChoice = errors.New("guess is not one of the choices")
	// ErrChoiceDisabled is returned when a choice was already guessed wrong this round.
	ErrChoiceDisabled = errors.New("choice already disabled")
	// ErrNoActiveSession is returned before a quiz has been started.
	ErrNoActiveSession = errors.New("no active quiz session")
	// ErrGameNotFound is returned when a player has no hosted game.
	ErrGameNotFound = errors.New("game not found")
)
