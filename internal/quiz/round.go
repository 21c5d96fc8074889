package quiz

import (
	"fmt"

	"github.com/google/uuid"

	"food-quiz-service/internal/domain"
)

// BuildRound lays out guessRows*3 choices for correct.
//
// The pool is shuffled with correct moved to the end and the first k dishes
// fill the grid row by row. A uniformly random slot is then overwritten
// with correct and its occupant dropped, so where the answer shows up does
// not depend on the shuffle. With a pool of exactly k dishes correct is
// already in the last slot; the dropped occupant moves there instead so no
// dish appears twice.
func BuildRound(pool Pool, correct domain.DishID, guessRows int, rng RandomSource) (domain.Round, error) {
	if err := domain.ValidateGuessRows(guessRows); err != nil {
		return domain.Round{}, err
	}
	k := guessRows * domain.ChoicesPerRow
	if pool.Size() < k {
		return domain.Round{}, fmt.Errorf("%w: pool has %d, need %d",
			domain.ErrInsufficientChoices, pool.Size(), k)
	}

	deck := shuffled(pool.Dishes, rng)
	at := indexOf(deck, correct)
	if at < 0 {
		return domain.Round{}, fmt.Errorf("%w: %s", domain.ErrDishNotInPool, correct)
	}
	copy(deck[at:], deck[at+1:])
	deck[len(deck)-1] = correct

	choices := append([]domain.DishID(nil), deck[:k]...)

	pos := domain.Position{Row: rng.Intn(guessRows), Column: rng.Intn(domain.ChoicesPerRow)}
	slot := pos.Row*domain.ChoicesPerRow + pos.Column
	if choices[slot] != correct {
		if dup := indexOf(choices, correct); dup >= 0 {
			choices[dup] = choices[slot]
		}
		choices[slot] = correct
	}

	return domain.Round{
		ID:       uuid.NewString(),
		Correct:  correct,
		Choices:  choices,
		Rows:     guessRows,
		Position: pos,
	}, nil
}

// NextRound builds the round for the session's current dish.
func NextRound(s *Session, pool Pool, guessRows int, rng RandomSource) (domain.Round, error) {
	round, err := BuildRound(pool, s.Current(), guessRows, rng)
	if err != nil {
		return domain.Round{}, err
	}
	round.Question = s.Index() + 1
	return round, nil
}

func indexOf(ids []domain.DishID, id domain.DishID) int {
	for i, d := range ids {
		if d == id {
			return i
		}
	}
	return -1
}
