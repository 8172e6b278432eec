package migration

import (
	"context"

	"github.com/packmart-lab/backend/internal/entity"
	"github.com/packmart-lab/backend/pkg/xcontext"
)

// When this migrator is called, no need to call other migrators.
func AutoMigrate(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&entity.User{},
		&entity.PackTemplate{},
		&entity.Pack{},
		&entity.MintingTicket{},
		&entity.TransferRecord{},
	)
}
