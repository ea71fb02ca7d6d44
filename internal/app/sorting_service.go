package app

import (
	"context"
	"log"

	"sorting-hat-service/internal/domain"
)

// QuestionRepository loads the question bank (from cache/backing store).
type QuestionRepository interface {
	GetQuestionBank(ctx context.Context, bankID string) (domain.QuestionBank, error)
}

// ResultRepository keeps the latest sorting result per user.
type ResultRepository interface {
	Save(ctx context.Context, result domain.SortingResult) error
	Get(ctx context.Context, userID string) (domain.SortingResult, error)
}

// SortingService hands out quiz controllers bound to the configured question bank.
type SortingService struct {
	questions QuestionRepository
	bankID    string
	resolver  *Resolver
	assigner  Assigner
	results   ResultRepository
}

func NewSortingService(questions QuestionRepository, bankID string, resolver *Resolver, assigner Assigner, results ResultRepository) *SortingService {
	if bankID == "" {
		bankID = domain.DefaultBankID
	}
	return &SortingService{
		questions: questions,
		bankID:    bankID,
		resolver:  resolver,
		assigner:  assigner,
		results:   results,
	}
}

// StartQuiz begins a fresh attempt for user. Successful assignments are
// recorded before notify sees them.
func (s *SortingService) StartQuiz(ctx context.Context, user domain.User, notify Notifier, nav Navigator) (*QuizController, error) {
	bank, err := s.questions.GetQuestionBank(ctx, s.bankID)
	if err != nil {
		return nil, err
	}
	engine, err := NewQuizEngine(bank)
	if err != nil {
		return nil, err
	}
	return NewQuizController(user, engine, s.resolver, s.assigner, &recordingNotifier{results: s.results, next: notify}, nav), nil
}

// LastResult returns the most recent recorded result for userID.
func (s *SortingService) LastResult(ctx context.Context, userID string) (domain.SortingResult, error) {
	if s.results == nil {
		return domain.SortingResult{}, domain.ErrResultNotFound
	}
	return s.results.Get(ctx, userID)
}

type recordingNotifier struct {
	results ResultRepository
	next    Notifier
}

func (n *recordingNotifier) HouseAssigned(ctx context.Context, result domain.SortingResult, profile domain.Profile) {
	if n.results != nil {
		if err := n.results.Save(ctx, result); err != nil {
			log.Printf("record sorting result for %s: %v", result.UserID, err)
		}
	}
	if n.next != nil {
		n.next.HouseAssigned(ctx, result, profile)
	}
}
