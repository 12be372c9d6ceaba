package migrations

import (
	"context"
	"fmt"

	"github.com/agorahq/agora/internal/database/types"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		badges := []*types.Badge{
			{Code: types.BadgeFirstTopic, Name: "First Topic", Description: "Published a first topic"},
			{Code: types.BadgeFirstAcceptedAnswer, Name: "First Accepted Answer", Description: "Had an answer accepted for the first time"},
			{Code: types.BadgeProlificAuthor, Name: "Prolific Author", Description: "Published 25 topics"},
			{Code: types.BadgeHelpfulTen, Name: "Helpful", Description: "Had 10 answers accepted"},
			{Code: types.BadgeUpvotedHundred, Name: "Well Received", Description: "Received 100 upvotes across all content"},
			{Code: types.BadgeVeteran, Name: "Veteran", Description: "Member for a full year"},
		}

		_, err := db.NewInsert().
			Model(&badges).
			On("CONFLICT (code) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to seed badges: %w", err)
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewDelete().
			Model((*types.Badge)(nil)).
			Where("code IN (?)", bun.In([]string{
				types.BadgeFirstTopic, types.BadgeFirstAcceptedAnswer,
				types.BadgeProlificAuthor, types.BadgeHelpfulTen,
				types.BadgeUpvotedHundred, types.BadgeVeteran,
			})).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to remove seeded badges: %w", err)
		}

		return nil
	})
}
