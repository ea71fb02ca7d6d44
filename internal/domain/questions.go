package domain

// DefaultBankID names the built-in sorting question bank.
const DefaultBankID = "sorting-hat"

var defaultBank = QuestionBank{
	ID: DefaultBankID,
	Questions: []Question{
		{
			ID:     1,
			Prompt: "Dawn or Dusk?",
			Options: []AnswerOption{
				{Text: "Dawn", Points: map[House]int{Gryffindor: 2, Ravenclaw: 1}},
				{Text: "Dusk", Points: map[House]int{Slytherin: 2, Hufflepuff: 1}},
			},
		},
		{
			ID:     2,
			Prompt: "Which path tempts you most?",
			Options: []AnswerOption{
				{Text: "The wide, sunny, grassy path", Points: map[House]int{Hufflepuff: 3}},
				{Text: "The narrow, dark, lantern-lit alley", Points: map[House]int{Slytherin: 3}},
				{Text: "The twisting, leaf-strewn path through woods", Points: map[House]int{Gryffindor: 2, Ravenclaw: 1}},
				{Text: "The cobbled street lined with ancient buildings", Points: map[House]int{Ravenclaw: 2, Gryffindor: 1}},
			},
		},
		{
			ID:     3,
			Prompt: "What are you most proud of?",
			Options: []AnswerOption{
				{Text: "My Courage", Points: map[House]int{Gryffindor: 3}},
				{Text: "My Ambition", Points: map[House]int{Slytherin: 3}},
				{Text: "My Intelligence", Points: map[House]int{Ravenclaw: 3}},
				{Text: "My Loyalty", Points: map[House]int{Hufflepuff: 3}},
			},
		},
	},
}

// DefaultQuestionBank returns a copy of the built-in question table.
func DefaultQuestionBank() QuestionBank {
	return defaultBank.Clone()
}
