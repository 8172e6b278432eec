package packclaim

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/packmart-lab/backend/internal/entity"
	"github.com/packmart-lab/backend/internal/repository"
	"github.com/packmart-lab/backend/pkg/errorx"
	"github.com/packmart-lab/backend/pkg/testutil"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func Test_Arbiter_TryClaimFree(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	arbiter := NewArbiter(repository.NewPackRepository())

	pack, err := arbiter.TryClaimFree(ctx, testutil.FreeTemplate.ID, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, entity.PackClaimed, pack.State)
	require.Equal(t, testutil.User1.ID, pack.OwnerID.String)
	require.True(t, pack.ClaimedAt.Valid)

	_, err = arbiter.TryClaimFree(ctx, testutil.FreeTemplate.ID, testutil.User2.ID)
	require.NoError(t, err)

	// The fixture has two free packs; the third claim finds no stock.
	_, err = arbiter.TryClaimFree(ctx, testutil.FreeTemplate.ID, testutil.User2.ID)
	require.Equal(t, errorx.New(errorx.OutOfStock, "No pack available for this template"), err)
}

func Test_Arbiter_TryClaimFree_ExactlyOnce(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	packRepo := repository.NewPackRepository()
	arbiter := NewArbiter(packRepo)

	template := entity.PackTemplate{
		Base:      entity.Base{ID: "drop-template"},
		Slug:      "drop",
		Title:     "Drop",
		Mechanism: entity.FreeClaim,
	}
	require.NoError(t,
		repository.NewPackTemplateRepository(&testutil.MockRedisClient{}).Create(ctx, &template))

	const stock = 5
	const claimers = 20
	for i := 0; i < stock; i++ {
		pack := entity.Pack{
			Base:       entity.Base{ID: fmt.Sprintf("drop-pack-%d", i)},
			TemplateID: template.ID,
			State:      entity.PackAvailable,
		}
		require.NoError(t, packRepo.Create(ctx, &pack))
	}

	var claimed, outOfStock int32
	var g errgroup.Group
	for i := 0; i < claimers; i++ {
		g.Go(func() error {
			_, err := arbiter.TryClaimFree(ctx, template.ID, testutil.User1.ID)
			if err == nil {
				atomic.AddInt32(&claimed, 1)
				return nil
			}

			var errx errorx.Error
			if errors.As(err, &errx) && errx.Code == errorx.OutOfStock {
				atomic.AddInt32(&outOfStock, 1)
				return nil
			}

			return err
		})
	}

	require.NoError(t, g.Wait())
	require.EqualValues(t, stock, claimed)
	require.EqualValues(t, claimers-stock, outOfStock)

	remaining, err := packRepo.GetAvailableByTemplate(ctx, template.ID)
	require.NoError(t, err)
	require.Empty(t, remaining)
}

func Test_Arbiter_TryClaimRedeem(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	arbiter := NewArbiter(repository.NewPackRepository())

	_, err := arbiter.TryClaimRedeem(ctx, "WRONGCODE", testutil.User1.ID)
	require.Equal(t, errorx.New(errorx.InvalidCode, "Invalid redeem code"), err)

	pack, err := arbiter.TryClaimRedeem(ctx, testutil.RedeemPack1.RedeemCode.String, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, entity.PackClaimed, pack.State)
	require.Equal(t, testutil.User1.ID, pack.OwnerID.String)

	// The same code can never win a second pack.
	_, err = arbiter.TryClaimRedeem(ctx, testutil.RedeemPack1.RedeemCode.String, testutil.User2.ID)
	require.Equal(t, errorx.New(errorx.AlreadyClaimed, "This code was already redeemed"), err)
}

func Test_Arbiter_TryClaimRedeem_ConcurrentSingleUse(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	arbiter := NewArbiter(repository.NewPackRepository())

	const claimers = 10
	var claimed, alreadyClaimed int32
	var g errgroup.Group
	for i := 0; i < claimers; i++ {
		owner := testutil.User1.ID
		if i%2 == 0 {
			owner = testutil.User2.ID
		}

		g.Go(func() error {
			_, err := arbiter.TryClaimRedeem(ctx, testutil.RedeemPack1.RedeemCode.String, owner)
			if err == nil {
				atomic.AddInt32(&claimed, 1)
				return nil
			}

			var errx errorx.Error
			if errors.As(err, &errx) && errx.Code == errorx.AlreadyClaimed {
				atomic.AddInt32(&alreadyClaimed, 1)
				return nil
			}

			return err
		})
	}

	require.NoError(t, g.Wait())
	require.EqualValues(t, 1, claimed)
	require.EqualValues(t, claimers-1, alreadyClaimed)
}

func Test_Arbiter_TryClaimDirect(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	arbiter := NewArbiter(repository.NewPackRepository())

	pack, err := arbiter.TryClaimDirect(ctx, testutil.FreePack1.ID, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, entity.PackClaimed, pack.State)

	_, err = arbiter.TryClaimDirect(ctx, testutil.FreePack1.ID, testutil.User2.ID)
	require.Equal(t, errorx.New(errorx.NotAvailable, "This pack is not available"), err)

	_, err = arbiter.TryClaimDirect(ctx, "no-such-pack", testutil.User1.ID)
	require.Equal(t, errorx.New(errorx.NotAvailable, "Not found pack"), err)
}
