package cli

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"sorting-hat-service/internal/app"
	"sorting-hat-service/internal/config"
	"sorting-hat-service/internal/infra/memory"
	pgloader "sorting-hat-service/internal/infra/postgres"
	"sorting-hat-service/internal/infra/profile"
	redisinfra "sorting-hat-service/internal/infra/redis"
)

type credentialStore interface {
	profile.CredentialStore
	Put(ctx context.Context, sessionID, key, token string) error
	Delete(ctx context.Context, sessionID, key string) error
}

// runtime holds the wired collaborators shared by the server and one-shot commands.
type runtime struct {
	service     *app.SortingService
	credentials credentialStore
	tokenKey    string
	closers     []func()
}

func (r *runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

func newRuntime(ctx context.Context, cfg config.Config) (*runtime, error) {
	rt := &runtime{tokenKey: cfg.Profile.TokenKey}
	if rt.tokenKey == "" {
		rt.tokenKey = profile.DefaultTokenKey
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		rt.closers = append(rt.closers, func() { _ = redisClient.Close() })
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 24*time.Hour)

	var loader memory.QuestionLoader = memory.NewStaticQuestionLoader()
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.closers = append(rt.closers, pool.Close)
		loader = pgloader.NewQuestionLoader(pool)
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var questions app.QuestionRepository
	var results app.ResultRepository
	if redisClient != nil {
		questions = redisinfra.NewQuestionRepository(redisClient, loader, quizTTL)
		results = redisinfra.NewResultStore(redisClient, redisTTL)
		rt.credentials = redisinfra.NewCredentialStore(redisClient, redisTTL)
	} else {
		questions = memory.NewQuestionRepository(loader, quizTTL)
		results = memory.NewResultStore()
		rt.credentials = memory.NewCredentialStore()
	}

	client := profile.NewClient(rt.credentials, profile.Options{
		BaseURL:  cfg.Profile.BaseURL,
		Path:     cfg.Profile.Path,
		TokenKey: rt.tokenKey,
		Timeout:  config.TTLDuration(cfg.Profile.Timeout, 15*time.Second),
	})
	rt.service = app.NewSortingService(questions, cfg.Quiz.Bank, app.NewResolver(nil), client, results)
	return rt, nil
}
