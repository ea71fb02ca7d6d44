package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"sorting-hat-service/internal/domain"
	"sorting-hat-service/internal/infra/memory"
)

func TestQuestionRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	loader := &countingLoader{QuestionLoader: memory.NewStaticQuestionLoader()}
	repo := NewQuestionRepository(client, loader, time.Minute)

	bank, err := repo.GetQuestionBank(context.Background(), domain.DefaultBankID)
	if err != nil {
		t.Fatalf("get bank: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("sorting:bank:" + domain.DefaultBankID) {
		t.Fatalf("expected bank cached in redis")
	}

	// Second call should hit cache, loader not incremented.
	cached, err := repo.GetQuestionBank(context.Background(), domain.DefaultBankID)
	if err != nil {
		t.Fatalf("get cached bank: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if len(cached.Questions) != len(bank.Questions) {
		t.Fatalf("cached bank lost questions: %d != %d", len(cached.Questions), len(bank.Questions))
	}
	got := cached.Questions[0].Options[0].Points[domain.Gryffindor]
	if got != 2 {
		t.Fatalf("expected weights to survive the round trip, got %d", got)
	}

	mr.FastForward(2 * time.Minute)
	_, _ = repo.GetQuestionBank(context.Background(), domain.DefaultBankID)
	if loader.calls != 2 {
		t.Fatalf("expected reload after expiry, loader calls=%d", loader.calls)
	}
}

type countingLoader struct {
	memory.QuestionLoader
	calls int
}

func (l *countingLoader) LoadQuestionBank(ctx context.Context, bankID string) (domain.QuestionBank, error) {
	l.calls++
	return l.QuestionLoader.LoadQuestionBank(ctx, bankID)
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
