package quiz

import (
	"fmt"

	"food-quiz-service/internal/domain"
)

// Status is the lifecycle state of a Session.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Session holds one ten-question run. It is replaced, not rewound, on reset.
type Session struct {
	sequence []domain.DishID
	index    int
	correct  int
	guesses  int
	answered bool
}

// StartSession draws QuestionsPerQuiz distinct dishes from pool by
// shuffling a copy and taking the head. The pool is left untouched.
func StartSession(pool Pool, rng RandomSource) (*Session, error) {
	if pool.Size() < domain.QuestionsPerQuiz {
		return nil, fmt.Errorf("%w: pool has %d, need %d",
			domain.ErrInsufficientDishes, pool.Size(), domain.QuestionsPerQuiz)
	}
	sequence := shuffled(pool.Dishes, rng)[:domain.QuestionsPerQuiz]
	return &Session{sequence: sequence}, nil
}

// Current is the dish shown for the current question.
func (s *Session) Current() domain.DishID {
	return s.sequence[s.index]
}

// Index is the 0-based current question.
func (s *Session) Index() int { return s.index }

// Correct is the number of dishes identified so far.
func (s *Session) Correct() int { return s.correct }

// Guesses is the number of guesses made, right or wrong.
func (s *Session) Guesses() int { return s.guesses }

// Answered reports whether the current question was identified and the
// session is waiting for Advance.
func (s *Session) Answered() bool { return s.answered }

// Sequence returns a copy of the question order.
func (s *Session) Sequence() []domain.DishID {
	return append([]domain.DishID(nil), s.sequence...)
}

// Status reports whether the quiz is still running.
func (s *Session) Status() Status {
	if s.correct >= domain.QuestionsPerQuiz {
		return StatusCompleted
	}
	return StatusInProgress
}

// Stats snapshots the counters.
func (s *Session) Stats() domain.Stats {
	return domain.NewStats(s.guesses, s.correct)
}

// Advance moves to the next question once the current one is answered.
// It reports false when there is nothing to advance to.
func (s *Session) Advance() bool {
	if !s.answered || s.Status() == StatusCompleted || s.index+1 >= len(s.sequence) {
		return false
	}
	s.index++
	s.answered = false
	return true
}

func (s *Session) recordGuess(correct bool) {
	s.guesses++
	if correct {
		s.correct++
		s.answered = true
	}
}
