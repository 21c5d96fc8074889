package quiz

import (
	"food-quiz-service/internal/domain"
)

// SubmitGuess scores guess against round and updates the session counters.
//
// guess may be a DishID or a display name; the comparison is an exact,
// case-sensitive match on display names. A wrong guess only counts toward
// the total and leaves the round open.
func SubmitGuess(s *Session, round domain.Round, guess string) (domain.Outcome, error) {
	switch {
	case s.Status() == StatusCompleted:
		return domain.Outcome{}, domain.ErrQuizComplete
	case s.Answered():
		return domain.Outcome{}, domain.ErrRoundAnswered
	case round.Correct != s.Current():
		return domain.Outcome{}, domain.ErrStaleRound
	}

	chosen, ok := round.Lookup(guess)
	name := guess
	if ok {
		name = chosen.DisplayName()
	}
	answer := round.Correct.DisplayName()

	if name != answer {
		s.recordGuess(false)
		return domain.Outcome{
			Kind:           domain.OutcomeIncorrect,
			Guess:          guess,
			DisabledChoice: chosen,
			Stats:          s.Stats(),
		}, nil
	}

	s.recordGuess(true)
	kind := domain.OutcomeAdvance
	if s.Status() == StatusCompleted {
		kind = domain.OutcomeQuizComplete
	}
	return domain.Outcome{
		Kind:   kind,
		Guess:  guess,
		Answer: answer,
		Stats:  s.Stats(),
	}, nil
}
