package app

import "sorting-hat-service/internal/domain"

// QuizEngine walks the question list in order and accumulates the house tally.
// It is not safe for concurrent use; QuizController serializes access.
type QuizEngine struct {
	questions []domain.Question
	index     int
	tally     domain.Tally
}

// NewQuizEngine starts an attempt at the first question of bank.
func NewQuizEngine(bank domain.QuestionBank) (*QuizEngine, error) {
	if err := bank.Validate(); err != nil {
		return nil, err
	}
	return &QuizEngine{
		questions: bank.Questions,
		tally:     make(domain.Tally),
	}, nil
}

// CurrentQuestion returns the question awaiting an answer, false once complete.
func (e *QuizEngine) CurrentQuestion() (domain.Question, bool) {
	if e.IsComplete() {
		return domain.Question{}, false
	}
	return e.questions[e.index], true
}

// SubmitAnswer adds option's points and advances. It reports whether questions remain.
func (e *QuizEngine) SubmitAnswer(option domain.AnswerOption) (bool, error) {
	if e.IsComplete() {
		return false, domain.ErrQuizComplete
	}
	e.tally.Add(option.Points)
	e.index++
	return !e.IsComplete(), nil
}

// IsComplete reports whether every question has been answered.
func (e *QuizEngine) IsComplete() bool {
	return e.index >= len(e.questions)
}

// Index is the zero-based position of the current question.
func (e *QuizEngine) Index() int {
	return e.index
}

// Total is the number of questions in the attempt.
func (e *QuizEngine) Total() int {
	return len(e.questions)
}

// FinalTally returns a copy of the tally; false until the quiz is complete.
func (e *QuizEngine) FinalTally() (domain.Tally, bool) {
	if !e.IsComplete() {
		return nil, false
	}
	out := make(domain.Tally, len(e.tally))
	for h, s := range e.tally {
		out[h] = s
	}
	return out, true
}
