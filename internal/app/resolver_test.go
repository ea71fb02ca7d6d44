package app

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sorting-hat-service/internal/domain"
)

type countingPicker struct {
	pick  int
	calls int
}

func (p *countingPicker) Intn(n int) int {
	p.calls++
	return p.pick % n
}

func TestResolveAllZeroReturnsFirstHouse(t *testing.T) {
	picker := &countingPicker{pick: 3}
	resolver := NewResolver(picker)

	for i := 0; i < 50; i++ {
		require.Equal(t, domain.Gryffindor, resolver.Resolve(domain.Tally{}))
		require.Equal(t, domain.Gryffindor, resolver.Resolve(domain.Tally{domain.Slytherin: 0, domain.Ravenclaw: 0}))
	}
	assert.Zero(t, picker.calls, "all-zero tally must not consume randomness")
}

func TestResolveUniqueMaximumIsDeterministic(t *testing.T) {
	picker := &countingPicker{pick: 1}
	resolver := NewResolver(picker)

	tally := domain.Tally{domain.Gryffindor: 3, domain.Hufflepuff: 1}
	assert.Equal(t, domain.Gryffindor, resolver.Resolve(tally))
	assert.Equal(t, domain.Slytherin, resolver.Resolve(domain.Tally{domain.Slytherin: 1}))
	assert.Zero(t, picker.calls)
}

func TestResolveTwoQuestionScenario(t *testing.T) {
	engine, err := NewQuizEngine(twoQuestionBank())
	require.NoError(t, err)
	q, _ := engine.CurrentQuestion()
	_, _ = engine.SubmitAnswer(q.Options[0])
	q, _ = engine.CurrentQuestion()
	_, _ = engine.SubmitAnswer(q.Options[0])

	tally, ok := engine.FinalTally()
	require.True(t, ok)
	assert.Equal(t, domain.Gryffindor, NewResolver(rand.New(rand.NewSource(7))).Resolve(tally))
}

func TestResolveEmptyAnswerScenarioIgnoresSeed(t *testing.T) {
	bank := domain.QuestionBank{ID: "one", Questions: []domain.Question{
		{ID: 1, Prompt: "nothing", Options: []domain.AnswerOption{{Text: "shrug"}}},
	}}
	for seed := int64(0); seed < 20; seed++ {
		engine, err := NewQuizEngine(bank)
		require.NoError(t, err)
		q, _ := engine.CurrentQuestion()
		_, _ = engine.SubmitAnswer(q.Options[0])
		tally, _ := engine.FinalTally()
		require.Equal(t, domain.Gryffindor, NewResolver(rand.New(rand.NewSource(seed))).Resolve(tally))
	}
}

func TestResolvePositiveTieIsUniformAmongTied(t *testing.T) {
	resolver := NewResolver(rand.New(rand.NewSource(42)))
	tally := domain.Tally{domain.Hufflepuff: 3, domain.Slytherin: 3, domain.Ravenclaw: 1}

	const trials = 4000
	counts := make(map[domain.House]int)
	for i := 0; i < trials; i++ {
		counts[resolver.Resolve(tally)]++
	}
	require.Len(t, counts, 2, "only tied houses may win: %v", counts)
	assert.InDelta(t, trials/2, counts[domain.Hufflepuff], trials*0.05)
	assert.InDelta(t, trials/2, counts[domain.Slytherin], trials*0.05)
}

func TestResolveUniformRandomCoversAllHouses(t *testing.T) {
	resolver := NewResolver(rand.New(rand.NewSource(99)))

	const trials = 8000
	counts := make(map[domain.House]int)
	for i := 0; i < trials; i++ {
		counts[resolver.ResolveUniformRandom()]++
	}
	require.Len(t, counts, 4)
	for _, h := range domain.Houses() {
		assert.InDelta(t, trials/4, counts[h], trials*0.04, "house %s", h)
	}
}
