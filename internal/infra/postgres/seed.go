package postgres

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"sorting-hat-service/internal/domain"
)

type questionBankRow struct {
	bun.BaseModel `bun:"table:sorting_question_banks"`

	ID        string              `bun:"id,pk"`
	Data      domain.QuestionBank `bun:"data,type:jsonb"`
	UpdatedAt time.Time           `bun:"updated_at,notnull"`
}

// SeedQuestionBank validates bank and upserts it.
func SeedQuestionBank(ctx context.Context, db bun.IDB, bank domain.QuestionBank) error {
	if err := bank.Validate(); err != nil {
		return err
	}
	row := &questionBankRow{ID: bank.ID, Data: bank, UpdatedAt: time.Now().UTC()}
	_, err := db.NewInsert().
		Model(row).
		On("CONFLICT (id) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}
