package testutil

import (
	"context"
	"database/sql"
	"time"

	"github.com/packmart-lab/backend/internal/entity"
	"github.com/packmart-lab/backend/internal/repository"
)

var (
	User1 = entity.User{
		Base:    entity.Base{ID: "user1"},
		Address: "0x1111111111111111111111111111111111111111",
		Name:    "user1",
	}

	User2 = entity.User{
		Base:    entity.Base{ID: "user2"},
		Address: "0x2222222222222222222222222222222222222222",
		Name:    "user2",
	}

	FreeTemplate = entity.PackTemplate{
		Base:       entity.Base{ID: "free-template"},
		Slug:       "free-drop",
		Title:      "Free Drop",
		Mechanism:  entity.FreeClaim,
		AutoMint:   false,
		ReleasedAt: time.Now().Add(-time.Hour),
	}

	RedeemTemplate = entity.PackTemplate{
		Base:       entity.Base{ID: "redeem-template"},
		Slug:       "redeem-drop",
		Title:      "Redeem Drop",
		Mechanism:  entity.RedeemClaim,
		AutoMint:   false,
		ReleasedAt: time.Now().Add(-time.Hour),
	}

	FreePack1 = entity.Pack{
		Base:       entity.Base{ID: "free-pack-1"},
		TemplateID: FreeTemplate.ID,
		State:      entity.PackAvailable,
	}

	FreePack2 = entity.Pack{
		Base:       entity.Base{ID: "free-pack-2"},
		TemplateID: FreeTemplate.ID,
		State:      entity.PackAvailable,
	}

	RedeemPack1 = entity.Pack{
		Base:       entity.Base{ID: "redeem-pack-1"},
		TemplateID: RedeemTemplate.ID,
		State:      entity.PackAvailable,
		RedeemCode: sql.NullString{String: "CODE1", Valid: true},
	}
)

// CreateFixtureDb inserts the fixture entities above into the database of
// ctx. Tests mutate their own copies, never the fixture values.
func CreateFixtureDb(ctx context.Context) {
	InsertUsers(ctx)
	InsertPackTemplates(ctx)
	InsertPacks(ctx)
}

func InsertUsers(ctx context.Context) {
	userRepo := repository.NewUserRepository()

	for _, user := range []entity.User{User1, User2} {
		user := user
		if err := userRepo.Create(ctx, &user); err != nil {
			panic(err)
		}
	}
}

func InsertPackTemplates(ctx context.Context) {
	templateRepo := repository.NewPackTemplateRepository(&MockRedisClient{})

	for _, template := range []entity.PackTemplate{FreeTemplate, RedeemTemplate} {
		template := template
		if err := templateRepo.Create(ctx, &template); err != nil {
			panic(err)
		}
	}
}

func InsertPacks(ctx context.Context) {
	packRepo := repository.NewPackRepository()

	for _, pack := range []entity.Pack{FreePack1, FreePack2, RedeemPack1} {
		pack := pack
		if err := packRepo.Create(ctx, &pack); err != nil {
			panic(err)
		}
	}
}
