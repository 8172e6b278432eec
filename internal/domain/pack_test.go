package domain

import (
	"testing"

	"github.com/packmart-lab/backend/internal/client"
	"github.com/packmart-lab/backend/internal/domain/packclaim"
	"github.com/packmart-lab/backend/internal/entity"
	"github.com/packmart-lab/backend/internal/model"
	"github.com/packmart-lab/backend/internal/repository"
	"github.com/packmart-lab/backend/pkg/errorx"
	"github.com/packmart-lab/backend/pkg/testutil"
	"github.com/packmart-lab/backend/pkg/xcontext"

	"github.com/stretchr/testify/require"
)

func newTestPackDomain(caller client.MintingCaller) PackDomain {
	packRepo := repository.NewPackRepository()
	templateRepo := repository.NewPackTemplateRepository(&testutil.MockRedisClient{})
	ticketRepo := repository.NewMintingTicketRepository()
	transferRepo := repository.NewTransferRecordRepository()
	userRepo := repository.NewUserRepository()

	arbiter := packclaim.NewArbiter(packRepo)
	minter := packclaim.NewMinter(packRepo, ticketRepo, userRepo, caller)
	transferManager := packclaim.NewTransferManager(packRepo, ticketRepo, transferRepo)

	return NewPackDomain(
		packRepo, templateRepo, transferRepo, userRepo,
		arbiter, minter, transferManager)
}

func Test_packDomain_ClaimFree(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestPackDomain(&testutil.MockMintingCaller{})

	resp, err := domain.ClaimFree(ctx, &model.ClaimFreePackRequest{
		TemplateID: testutil.FreeTemplate.ID,
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.PackClaimed), resp.Pack.State)
	require.Equal(t, testutil.User1.ID, resp.Pack.OwnerID)
	require.Equal(t, testutil.FreeTemplate.Slug, resp.Pack.Slug)

	_, err = domain.ClaimFree(ctx, &model.ClaimFreePackRequest{
		TemplateID: "no-such-template",
	})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found pack template"), err)

	_, err = domain.ClaimFree(ctx, &model.ClaimFreePackRequest{
		TemplateID: testutil.RedeemTemplate.ID,
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "This template is not free to claim"), err)

	unknownCtx := xcontext.WithRequestUserID(ctx, "no-such-user")
	_, err = domain.ClaimFree(unknownCtx, &model.ClaimFreePackRequest{
		TemplateID: testutil.FreeTemplate.ID,
	})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found owner"), err)
}

func Test_packDomain_ClaimFree_Unreleased(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestPackDomain(&testutil.MockMintingCaller{})

	templateRepo := repository.NewPackTemplateRepository(&testutil.MockRedisClient{})
	template := entity.PackTemplate{
		Base:      entity.Base{ID: "future-template"},
		Slug:      "future-drop",
		Title:     "Future Drop",
		Mechanism: entity.FreeClaim,
	}
	require.NoError(t, templateRepo.Create(ctx, &template))

	_, err := domain.ClaimFree(ctx, &model.ClaimFreePackRequest{
		TemplateID: template.ID,
	})
	require.Equal(t, errorx.New(errorx.NotAvailable, "This template is not released yet"), err)
}

func Test_packDomain_ClaimFree_AutoMint(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	caller := &testutil.MockMintingCaller{}
	domain := newTestPackDomain(caller)

	tx := xcontext.DB(ctx).Model(&entity.PackTemplate{}).
		Where("id=?", testutil.FreeTemplate.ID).
		Update("auto_mint", true)
	require.NoError(t, tx.Error)

	resp, err := domain.ClaimFree(ctx, &model.ClaimFreePackRequest{
		TemplateID: testutil.FreeTemplate.ID,
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.PackMinting), resp.Pack.State)
	require.Equal(t, 1, caller.SubmitCount())

	status, err := domain.GetMintStatus(ctx, &model.GetMintStatusRequest{PackID: resp.Pack.ID})
	require.NoError(t, err)
	require.Equal(t, string(entity.MintSubmitted), status.Status)
}

func Test_packDomain_MintPack(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	caller := &testutil.MockMintingCaller{}
	domain := newTestPackDomain(caller)

	resp, err := domain.ClaimFree(ctx, &model.ClaimFreePackRequest{
		TemplateID: testutil.FreeTemplate.ID,
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.PackClaimed), resp.Pack.State)

	// Another authenticated user cannot mint someone else's pack.
	otherCtx := xcontext.WithRequestUserID(ctx, testutil.User2.ID)
	_, err = domain.MintPack(otherCtx, &model.MintPackRequest{PackID: resp.Pack.ID})
	require.Equal(t, errorx.New(errorx.OwnerMismatch, "This pack belongs to another owner"), err)
	require.Equal(t, 0, caller.SubmitCount())

	mintResp, err := domain.MintPack(ctx, &model.MintPackRequest{PackID: resp.Pack.ID})
	require.NoError(t, err)
	require.Equal(t, string(entity.MintSubmitted), mintResp.Status)
	require.Equal(t, 1, caller.SubmitCount())

	// Minting again returns the existing ticket without a second submission.
	mintResp, err = domain.MintPack(ctx, &model.MintPackRequest{PackID: resp.Pack.ID})
	require.NoError(t, err)
	require.Equal(t, string(entity.MintSubmitted), mintResp.Status)
	require.Equal(t, 1, caller.SubmitCount())
}

func Test_packDomain_RedeemFlow(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestPackDomain(&testutil.MockMintingCaller{})

	created, err := domain.CreateTemplate(ctx, &model.CreatePackTemplateRequest{
		Slug:      "holiday-drop",
		Title:     "Holiday Drop",
		Mechanism: "redeem",
	})
	require.NoError(t, err)

	generated, err := domain.GeneratePacks(ctx, &model.GeneratePacksRequest{
		TemplateID: created.ID,
		Amount:     3,
	})
	require.NoError(t, err)
	require.Len(t, generated.PackIDs, 3)
	require.Len(t, generated.RedeemCodes, 3)

	redeemable, err := domain.GetRedeemable(ctx, &model.GetRedeemablePackRequest{
		RedeemCode: generated.RedeemCodes[0],
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.PackAvailable), redeemable.Pack.State)

	// Redeem templates auto mint, so a successful claim begins minting.
	claimed, err := domain.ClaimByRedeemCode(ctx, &model.ClaimRedeemPackRequest{
		RedeemCode: generated.RedeemCodes[0],
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.PackMinting), claimed.Pack.State)
	require.Equal(t, testutil.User1.ID, claimed.Pack.OwnerID)

	otherCtx := xcontext.WithRequestUserID(ctx, testutil.User2.ID)
	_, err = domain.ClaimByRedeemCode(otherCtx, &model.ClaimRedeemPackRequest{
		RedeemCode: generated.RedeemCodes[0],
	})
	require.Equal(t, errorx.New(errorx.AlreadyClaimed, "This code was already redeemed"), err)
}

func Test_packDomain_GetBySlug(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestPackDomain(&testutil.MockMintingCaller{})

	resp, err := domain.GetBySlug(ctx, &model.GetPackBySlugRequest{Slug: testutil.FreeTemplate.Slug})
	require.NoError(t, err)
	require.EqualValues(t, 2, resp.Template.Total)
	require.EqualValues(t, 2, resp.Template.Available)

	_, err = domain.ClaimFree(ctx, &model.ClaimFreePackRequest{
		TemplateID: testutil.FreeTemplate.ID,
	})
	require.NoError(t, err)

	resp, err = domain.GetBySlug(ctx, &model.GetPackBySlugRequest{Slug: testutil.FreeTemplate.Slug})
	require.NoError(t, err)
	require.EqualValues(t, 2, resp.Template.Total)
	require.EqualValues(t, 1, resp.Template.Available)
}

func Test_packDomain_GetList(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newTestPackDomain(&testutil.MockMintingCaller{})

	// The default limit of the test configs is 1.
	resp, err := domain.GetList(ctx, &model.GetListPackTemplateRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Templates, 1)

	resp, err = domain.GetList(ctx, &model.GetListPackTemplateRequest{Limit: 50})
	require.NoError(t, err)
	require.Len(t, resp.Templates, 2)

	_, err = domain.GetList(ctx, &model.GetListPackTemplateRequest{Limit: 51})
	require.Equal(t, errorx.New(errorx.BadRequest, "Invalid limit"), err)
}

func Test_packDomain_GetByOwner(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestPackDomain(&testutil.MockMintingCaller{})

	_, err := domain.ClaimFree(ctx, &model.ClaimFreePackRequest{
		TemplateID: testutil.FreeTemplate.ID,
	})
	require.NoError(t, err)

	resp, err := domain.GetByOwner(ctx, &model.GetPacksByOwnerRequest{Limit: 50})
	require.NoError(t, err)
	require.Len(t, resp.Packs, 1)

	// Each user only ever sees their own packs.
	otherCtx := xcontext.WithRequestUserID(ctx, testutil.User2.ID)
	resp, err = domain.GetByOwner(otherCtx, &model.GetPacksByOwnerRequest{Limit: 50})
	require.NoError(t, err)
	require.Empty(t, resp.Packs)
}

func Test_packDomain_TransferAndRevoke(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	caller := &testutil.MockMintingCaller{}
	domain := newTestPackDomain(caller)

	claimed, err := domain.ClaimFree(ctx, &model.ClaimFreePackRequest{
		TemplateID: testutil.FreeTemplate.ID,
	})
	require.NoError(t, err)

	// Not minted yet.
	_, err = domain.Transfer(ctx, &model.TransferPackRequest{
		PackID:    claimed.Pack.ID,
		ToOwnerID: testutil.User2.ID,
	})
	require.Equal(t, errorx.New(errorx.InvalidState, "Only minted packs can be transferred"), err)

	tx := xcontext.DB(ctx).Model(&entity.Pack{}).
		Where("id=?", claimed.Pack.ID).
		Update("state", entity.PackMinted)
	require.NoError(t, tx.Error)

	// Only the pack's owner can send it away.
	otherCtx := xcontext.WithRequestUserID(ctx, testutil.User2.ID)
	_, err = domain.Transfer(otherCtx, &model.TransferPackRequest{
		PackID:    claimed.Pack.ID,
		ToOwnerID: testutil.User1.ID,
	})
	require.Equal(t, errorx.New(errorx.OwnerMismatch, "This pack belongs to another owner"), err)

	transferred, err := domain.Transfer(ctx, &model.TransferPackRequest{
		PackID:    claimed.Pack.ID,
		ToOwnerID: testutil.User2.ID,
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.TransferCompleted), transferred.Status)

	status, err := domain.GetTransferStatus(ctx, &model.GetTransferStatusRequest{
		PackID: claimed.Pack.ID,
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.TransferCompleted), status.Status)

	// A transferred pack is out of reach for revocation.
	_, err = domain.Revoke(ctx, &model.RevokePackRequest{PackID: claimed.Pack.ID})
	require.Equal(t, errorx.New(errorx.InvalidState, "This pack cannot be revoked"), err)
}

func Test_packDomain_GetUntransferred(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestPackDomain(&testutil.MockMintingCaller{})

	claimed, err := domain.ClaimFree(ctx, &model.ClaimFreePackRequest{
		TemplateID: testutil.FreeTemplate.ID,
	})
	require.NoError(t, err)

	// Only minted packs wait for a transfer.
	resp, err := domain.GetUntransferred(ctx, &model.GetUntransferredPacksRequest{})
	require.NoError(t, err)
	require.Empty(t, resp.Packs)

	tx := xcontext.DB(ctx).Model(&entity.Pack{}).
		Where("id=?", claimed.Pack.ID).
		Update("state", entity.PackMinted)
	require.NoError(t, tx.Error)

	resp, err = domain.GetUntransferred(ctx, &model.GetUntransferredPacksRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Packs, 1)
	require.Equal(t, claimed.Pack.ID, resp.Packs[0].ID)
}
