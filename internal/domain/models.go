package domain

import "fmt"

// QuestionsPerQuiz is the fixed length of a quiz.
const QuestionsPerQuiz = 10

// ChoicesPerRow is the number of answer buttons in one row.
const ChoicesPerRow = 3

// ValidateGuessRows checks rows is one of 1, 2 or 3.
func ValidateGuessRows(rows int) error {
	if rows < 1 || rows > 3 {
		return fmt.Errorf("%w: got %d", ErrInvalidGuessRows, rows)
	}
	return nil
}

// GuessRowsFromChoices converts a choice count (3, 6 or 9) into rows.
func GuessRowsFromChoices(choices int) (int, error) {
	if choices%ChoicesPerRow != 0 {
		return 0, fmt.Errorf("%w: %d choices", ErrInvalidGuessRows, choices)
	}
	rows := choices / ChoicesPerRow
	if err := ValidateGuessRows(rows); err != nil {
		return 0, err
	}
	return rows, nil
}

// Position locates a button in the answer grid.
type Position struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Round is the choice set shown for one question.
type Round struct {
	ID       string   `json:"id"`
	Question int      `json:"question"` // 1-based
	Correct  DishID   `json:"-"`
	Choices  []DishID `json:"choices"`
	Rows     int      `json:"rows"`
	Position Position `json:"-"`
}

// Grid returns the choices arranged in rows of ChoicesPerRow.
func (r Round) Grid() [][]DishID {
	grid := make([][]DishID, 0, r.Rows)
	for row := 0; row < r.Rows; row++ {
		start := row * ChoicesPerRow
		end := start + ChoicesPerRow
		if end > len(r.Choices) {
			end = len(r.Choices)
		}
		grid = append(grid, r.Choices[start:end])
	}
	return grid
}

// Lookup resolves a guess given as a DishID or display name to a displayed choice.
func (r Round) Lookup(guess string) (DishID, bool) {
	for _, choice := range r.Choices {
		if string(choice) == guess {
			return choice, true
		}
	}
	for _, choice := range r.Choices {
		if choice.DisplayName() == guess {
			return choice, true
		}
	}
	return "", false
}

// OutcomeKind tells the caller what to do after a guess.
type OutcomeKind string

const (
	// OutcomeIncorrect keeps the round open; the guessed choice is disabled.
	OutcomeIncorrect OutcomeKind = "incorrect"
	// OutcomeAdvance means the next dish loads after the advance delay.
	OutcomeAdvance OutcomeKind = "advance"
	// OutcomeQuizComplete means the tenth dish was identified.
	OutcomeQuizComplete OutcomeKind = "complete"
)

// Outcome is the result of evaluating one guess.
type Outcome struct {
	Kind           OutcomeKind `json:"kind"`
	Guess          string      `json:"guess"`
	Answer         string      `json:"answer,omitempty"`
	DisabledChoice DishID      `json:"disabledChoice,omitempty"`
	Stats          Stats       `json:"stats"`
}

// Correct reports whether the guess identified the dish.
func (o Outcome) Correct() bool {
	return o.Kind == OutcomeAdvance || o.Kind == OutcomeQuizComplete
}

// Stats summarizes guesses made in a session.
type Stats struct {
	TotalGuesses   int     `json:"totalGuesses"`
	CorrectAnswers int     `json:"correctAnswers"`
	Accuracy       float64 `json:"accuracy"`
}

// NewStats computes accuracy as 1000 / totalGuesses, which equals a
// percentage only for a quiz finished without a wrong guess.
func NewStats(totalGuesses, correctAnswers int) Stats {
	stats := Stats{TotalGuesses: totalGuesses, CorrectAnswers: correctAnswers}
	if totalGuesses > 0 {
		stats.Accuracy = 1000 / float64(totalGuesses)
	}
	return stats
}

func (s Stats) String() string {
	return fmt.Sprintf("%d guesses, %.02f%% correct", s.TotalGuesses, s.Accuracy)
}
