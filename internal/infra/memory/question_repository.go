package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"sorting-hat-service/internal/domain"
)

// QuestionLoader fetches a question bank from a backing store.
type QuestionLoader interface {
	LoadQuestionBank(ctx context.Context, bankID string) (domain.QuestionBank, error)
}

// QuestionRepository caches validated question banks with TTL to avoid repeated loads.
type QuestionRepository struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedBank
}

type cachedBank struct {
	bank      domain.QuestionBank
	expiresAt time.Time
}

func NewQuestionRepository(loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedBank),
	}
}

// GetQuestionBank returns the cached bank, loading it once per expiry. A
// non-positive ttl caches forever.
func (r *QuestionRepository) GetQuestionBank(ctx context.Context, bankID string) (domain.QuestionBank, error) {
	if bank, ok := r.cached(bankID); ok {
		return bank, nil
	}

	result, err, _ := r.sf.Do(bankID, func() (interface{}, error) {
		if bank, ok := r.cached(bankID); ok {
			return bank, nil
		}

		bank, err := r.loader.LoadQuestionBank(ctx, bankID)
		if err != nil {
			return domain.QuestionBank{}, err
		}
		if err := bank.Validate(); err != nil {
			return domain.QuestionBank{}, err
		}

		r.mu.Lock()
		r.cache[bankID] = cachedBank{
			bank:      bank,
			expiresAt: r.expiry(),
		}
		r.mu.Unlock()
		return bank, nil
	})
	if err != nil {
		return domain.QuestionBank{}, err
	}
	return result.(domain.QuestionBank), nil
}

func (r *QuestionRepository) cached(bankID string) (domain.QuestionBank, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[bankID]
	if !ok {
		return domain.QuestionBank{}, false
	}
	if !entry.expiresAt.IsZero() && !entry.expiresAt.After(r.clock()) {
		return domain.QuestionBank{}, false
	}
	return entry.bank, true
}

// expiry draws from r.rnd; the caller holds r.mu for writing.
func (r *QuestionRepository) expiry() time.Time {
	if r.ttl <= 0 {
		return time.Time{}
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.clock().Add(r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1)))
}

// StaticQuestionLoader serves banks from memory; the built-in bank is always available.
type StaticQuestionLoader struct {
	banks map[string]domain.QuestionBank
}

func NewStaticQuestionLoader(banks ...domain.QuestionBank) *StaticQuestionLoader {
	l := &StaticQuestionLoader{banks: make(map[string]domain.QuestionBank, len(banks)+1)}
	def := domain.DefaultQuestionBank()
	l.banks[def.ID] = def
	for _, b := range banks {
		l.banks[b.ID] = b.Clone()
	}
	return l
}

func (l *StaticQuestionLoader) LoadQuestionBank(_ context.Context, bankID string) (domain.QuestionBank, error) {
	if bank, ok := l.banks[bankID]; ok {
		return bank.Clone(), nil
	}
	return domain.QuestionBank{}, domain.ErrQuestionBankNotFound
}
