package repository_test

import (
	"testing"

	"github.com/packmart-lab/backend/internal/entity"
	"github.com/packmart-lab/backend/internal/repository"
	"github.com/packmart-lab/backend/pkg/testutil"

	"github.com/stretchr/testify/require"
)

func Test_packRepository_ConditionalUpdate(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	packRepo := repository.NewPackRepository()

	ok, err := packRepo.ConditionalUpdate(ctx, testutil.FreePack1.ID, entity.PackAvailable,
		map[string]any{"state": entity.PackClaimed, "owner_id": testutil.User1.ID})
	require.NoError(t, err)
	require.True(t, ok)

	// The expected state no longer holds, so the update must not apply.
	ok, err = packRepo.ConditionalUpdate(ctx, testutil.FreePack1.ID, entity.PackAvailable,
		map[string]any{"state": entity.PackClaimed, "owner_id": testutil.User2.ID})
	require.NoError(t, err)
	require.False(t, ok)

	pack, err := packRepo.GetByID(ctx, testutil.FreePack1.ID)
	require.NoError(t, err)
	require.Equal(t, entity.PackClaimed, pack.State)
	require.Equal(t, testutil.User1.ID, pack.OwnerID.String)
}

func Test_packRepository_ConditionalUpdateOwned(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	packRepo := repository.NewPackRepository()

	ok, err := packRepo.ConditionalUpdate(ctx, testutil.FreePack1.ID, entity.PackAvailable,
		map[string]any{"state": entity.PackMinted, "owner_id": testutil.User1.ID})
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = packRepo.ConditionalUpdateOwned(ctx, testutil.FreePack1.ID, entity.PackMinted,
		testutil.User2.ID, map[string]any{"state": entity.PackTransferred})
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = packRepo.ConditionalUpdateOwned(ctx, testutil.FreePack1.ID, entity.PackMinted,
		testutil.User1.ID, map[string]any{"state": entity.PackTransferred})
	require.NoError(t, err)
	require.True(t, ok)
}
