package domain

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/packmart-lab/backend/internal/domain/packclaim"
	"github.com/packmart-lab/backend/internal/entity"
	"github.com/packmart-lab/backend/internal/model"
	"github.com/packmart-lab/backend/internal/repository"
	"github.com/packmart-lab/backend/pkg/crypto"
	"github.com/packmart-lab/backend/pkg/enum"
	"github.com/packmart-lab/backend/pkg/errorx"
	"github.com/packmart-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type PackDomain interface {
	// Claim surface
	ClaimFree(context.Context, *model.ClaimFreePackRequest) (*model.ClaimFreePackResponse, error)
	ClaimByRedeemCode(context.Context, *model.ClaimRedeemPackRequest) (*model.ClaimRedeemPackResponse, error)
	ClaimDirect(context.Context, *model.ClaimPackRequest) (*model.ClaimPackResponse, error)

	// Lifecycle surface
	MintPack(context.Context, *model.MintPackRequest) (*model.MintPackResponse, error)
	GetMintStatus(context.Context, *model.GetMintStatusRequest) (*model.GetMintStatusResponse, error)
	Transfer(context.Context, *model.TransferPackRequest) (*model.TransferPackResponse, error)
	GetTransferStatus(context.Context, *model.GetTransferStatusRequest) (*model.GetTransferStatusResponse, error)
	Revoke(context.Context, *model.RevokePackRequest) (*model.RevokePackResponse, error)

	// Read surface
	Get(context.Context, *model.GetPackRequest) (*model.GetPackResponse, error)
	GetBySlug(context.Context, *model.GetPackBySlugRequest) (*model.GetPackBySlugResponse, error)
	GetList(context.Context, *model.GetListPackTemplateRequest) (*model.GetListPackTemplateResponse, error)
	GetByOwner(context.Context, *model.GetPacksByOwnerRequest) (*model.GetPacksByOwnerResponse, error)
	GetRedeemable(context.Context, *model.GetRedeemablePackRequest) (*model.GetRedeemablePackResponse, error)
	GetUntransferred(context.Context, *model.GetUntransferredPacksRequest) (*model.GetUntransferredPacksResponse, error)

	// Admin surface
	CreateTemplate(context.Context, *model.CreatePackTemplateRequest) (*model.CreatePackTemplateResponse, error)
	GeneratePacks(context.Context, *model.GeneratePacksRequest) (*model.GeneratePacksResponse, error)
}

type packDomain struct {
	packRepo     repository.PackRepository
	templateRepo repository.PackTemplateRepository
	userRepo     repository.UserRepository
	transferRepo repository.TransferRecordRepository

	arbiter  *packclaim.Arbiter
	minter   *packclaim.Minter
	transfer *packclaim.TransferManager
}

func NewPackDomain(
	packRepo repository.PackRepository,
	templateRepo repository.PackTemplateRepository,
	transferRepo repository.TransferRecordRepository,
	userRepo repository.UserRepository,
	arbiter *packclaim.Arbiter,
	minter *packclaim.Minter,
	transferManager *packclaim.TransferManager,
) *packDomain {
	return &packDomain{
		packRepo:     packRepo,
		templateRepo: templateRepo,
		userRepo:     userRepo,
		transferRepo: transferRepo,
		arbiter:      arbiter,
		minter:       minter,
		transfer:     transferManager,
	}
}

func (d *packDomain) ClaimFree(
	ctx context.Context, req *model.ClaimFreePackRequest,
) (*model.ClaimFreePackResponse, error) {
	if req.TemplateID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require template id")
	}

	template, err := d.templateRepo.GetByID(ctx, req.TemplateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found pack template")
		}

		xcontext.Logger(ctx).Errorf("Cannot get pack template: %v", err)
		return nil, errorx.Unknown
	}

	if template.Mechanism != entity.FreeClaim {
		return nil, errorx.New(errorx.BadRequest, "This template is not free to claim")
	}

	if !template.Published(time.Now()) {
		return nil, errorx.New(errorx.NotAvailable, "This template is not released yet")
	}

	requester := xcontext.RequestUserID(ctx)
	if err := d.verifyOwner(ctx, requester); err != nil {
		return nil, err
	}

	pack, err := d.arbiter.TryClaimFree(ctx, req.TemplateID, requester)
	if err != nil {
		var errx errorx.Error
		if errors.As(err, &errx) {
			return nil, errx
		}

		xcontext.Logger(ctx).Errorf("Cannot claim free pack: %v", err)
		return nil, errorx.Unknown
	}

	d.autoMint(ctx, template, pack)

	pack, err = d.packRepo.GetByID(ctx, pack.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reload claimed pack: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ClaimFreePackResponse{Pack: convertPack(pack)}, nil
}

func (d *packDomain) ClaimByRedeemCode(
	ctx context.Context, req *model.ClaimRedeemPackRequest,
) (*model.ClaimRedeemPackResponse, error) {
	if req.RedeemCode == "" {
		return nil, errorx.New(errorx.BadRequest, "Require redeem code")
	}

	requester := xcontext.RequestUserID(ctx)
	if err := d.verifyOwner(ctx, requester); err != nil {
		return nil, err
	}

	pack, err := d.arbiter.TryClaimRedeem(ctx, req.RedeemCode, requester)
	if err != nil {
		var errx errorx.Error
		if errors.As(err, &errx) {
			return nil, errx
		}

		xcontext.Logger(ctx).Errorf("Cannot claim redeem pack: %v", err)
		return nil, errorx.Unknown
	}

	d.autoMint(ctx, &pack.Template, pack)

	pack, err = d.packRepo.GetByID(ctx, pack.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reload claimed pack: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ClaimRedeemPackResponse{Pack: convertPack(pack)}, nil
}

func (d *packDomain) ClaimDirect(
	ctx context.Context, req *model.ClaimPackRequest,
) (*model.ClaimPackResponse, error) {
	if req.PackID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require pack id")
	}

	requester := xcontext.RequestUserID(ctx)
	if err := d.verifyOwner(ctx, requester); err != nil {
		return nil, err
	}

	pack, err := d.arbiter.TryClaimDirect(ctx, req.PackID, requester)
	if err != nil {
		var errx errorx.Error
		if errors.As(err, &errx) {
			return nil, errx
		}

		xcontext.Logger(ctx).Errorf("Cannot claim pack: %v", err)
		return nil, errorx.Unknown
	}

	d.autoMint(ctx, &pack.Template, pack)

	pack, err = d.packRepo.GetByID(ctx, pack.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reload claimed pack: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ClaimPackResponse{Pack: convertPack(pack)}, nil
}

// autoMint begins minting right after a claim when the template says so.
// The claim already succeeded; a failed submission only logs, the caller
// observes it through the mint status and may retry.
func (d *packDomain) autoMint(ctx context.Context, template *entity.PackTemplate, pack *entity.Pack) {
	if !template.AutoMint {
		return
	}

	if _, err := d.minter.BeginMinting(ctx, pack.ID); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot auto mint pack %s: %v", pack.ID, err)
	}
}

func (d *packDomain) MintPack(
	ctx context.Context, req *model.MintPackRequest,
) (*model.MintPackResponse, error) {
	if req.PackID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require pack id")
	}

	pack, err := d.packRepo.GetByID(ctx, req.PackID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found pack")
		}

		xcontext.Logger(ctx).Errorf("Cannot get pack: %v", err)
		return nil, errorx.Unknown
	}

	if !pack.OwnedBy(xcontext.RequestUserID(ctx)) {
		return nil, errorx.New(errorx.OwnerMismatch, "This pack belongs to another owner")
	}

	ticket, err := d.minter.BeginMinting(ctx, req.PackID)
	if err != nil {
		var errx errorx.Error
		if errors.As(err, &errx) {
			return nil, errx
		}

		xcontext.Logger(ctx).Errorf("Cannot begin minting pack: %v", err)
		return nil, errorx.Unknown
	}

	return &model.MintPackResponse{Status: string(ticket.Status)}, nil
}

func (d *packDomain) GetMintStatus(
	ctx context.Context, req *model.GetMintStatusRequest,
) (*model.GetMintStatusResponse, error) {
	if req.PackID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require pack id")
	}

	status, err := d.minter.Status(ctx, req.PackID)
	if err != nil {
		var errx errorx.Error
		if errors.As(err, &errx) {
			return nil, errx
		}

		xcontext.Logger(ctx).Errorf("Cannot get mint status: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetMintStatusResponse{Status: string(status)}, nil
}

func (d *packDomain) Transfer(
	ctx context.Context, req *model.TransferPackRequest,
) (*model.TransferPackResponse, error) {
	if req.PackID == "" || req.ToOwnerID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require pack id and to owner")
	}

	requester := xcontext.RequestUserID(ctx)
	if requester == req.ToOwnerID {
		return nil, errorx.New(errorx.BadRequest, "Cannot transfer a pack to its current owner")
	}

	if err := d.verifyOwner(ctx, req.ToOwnerID); err != nil {
		return nil, err
	}

	record, err := d.transfer.Transfer(ctx, req.PackID, requester, req.ToOwnerID)
	if err != nil {
		var errx errorx.Error
		if errors.As(err, &errx) {
			return nil, errx
		}

		xcontext.Logger(ctx).Errorf("Cannot transfer pack: %v", err)
		return nil, errorx.Unknown
	}

	return &model.TransferPackResponse{
		TransferID: record.ID,
		Status:     string(record.Status),
	}, nil
}

func (d *packDomain) GetTransferStatus(
	ctx context.Context, req *model.GetTransferStatusRequest,
) (*model.GetTransferStatusResponse, error) {
	if req.PackID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require pack id")
	}

	record, err := d.transferRepo.GetLatestByPackID(ctx, req.PackID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "No transfer for this pack")
		}

		xcontext.Logger(ctx).Errorf("Cannot get transfer record: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetTransferStatusResponse{Status: string(record.Status)}, nil
}

func (d *packDomain) Revoke(
	ctx context.Context, req *model.RevokePackRequest,
) (*model.RevokePackResponse, error) {
	if req.PackID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require pack id")
	}

	if err := d.transfer.Revoke(ctx, req.PackID); err != nil {
		var errx errorx.Error
		if errors.As(err, &errx) {
			return nil, errx
		}

		xcontext.Logger(ctx).Errorf("Cannot revoke pack: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RevokePackResponse{}, nil
}

func (d *packDomain) Get(
	ctx context.Context, req *model.GetPackRequest,
) (*model.GetPackResponse, error) {
	pack, err := d.packRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found pack")
		}

		xcontext.Logger(ctx).Errorf("Cannot get pack: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.GetPackResponse(convertPack(pack))
	return &resp, nil
}

func (d *packDomain) GetBySlug(
	ctx context.Context, req *model.GetPackBySlugRequest,
) (*model.GetPackBySlugResponse, error) {
	template, err := d.templateRepo.GetBySlug(ctx, req.Slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found pack template")
		}

		xcontext.Logger(ctx).Errorf("Cannot get pack template: %v", err)
		return nil, errorx.Unknown
	}

	if !template.Published(time.Now()) {
		return nil, errorx.New(errorx.NotFound, "Not found pack template")
	}

	total, available, err := d.packRepo.CountByTemplate(ctx, template.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count packs: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetPackBySlugResponse{
		Template: convertPackTemplate(template, total, available),
	}, nil
}

func (d *packDomain) GetList(
	ctx context.Context, req *model.GetListPackTemplateRequest,
) (*model.GetListPackTemplateResponse, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit < 0 || req.Limit > apiCfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Invalid limit")
	}

	templates, err := d.templateRepo.GetList(ctx, repository.GetListPackTemplateFilter{
		Q:             req.Q,
		Offset:        req.Offset,
		Limit:         req.Limit,
		PublishedOnly: true,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get pack template list: %v", err)
		return nil, errorx.Unknown
	}

	clientTemplates := []model.PackTemplate{}
	for i := range templates {
		total, available, err := d.packRepo.CountByTemplate(ctx, templates[i].ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot count packs: %v", err)
			return nil, errorx.Unknown
		}

		clientTemplates = append(clientTemplates, convertPackTemplate(&templates[i], total, available))
	}

	return &model.GetListPackTemplateResponse{Templates: clientTemplates}, nil
}

func (d *packDomain) GetByOwner(
	ctx context.Context, req *model.GetPacksByOwnerRequest,
) (*model.GetPacksByOwnerResponse, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit < 0 || req.Limit > apiCfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Invalid limit")
	}

	packs, err := d.packRepo.GetByOwner(ctx, xcontext.RequestUserID(ctx), req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get packs by owner: %v", err)
		return nil, errorx.Unknown
	}

	clientPacks := []model.Pack{}
	for i := range packs {
		clientPacks = append(clientPacks, convertPack(&packs[i]))
	}

	return &model.GetPacksByOwnerResponse{Packs: clientPacks}, nil
}

func (d *packDomain) GetRedeemable(
	ctx context.Context, req *model.GetRedeemablePackRequest,
) (*model.GetRedeemablePackResponse, error) {
	if req.RedeemCode == "" {
		return nil, errorx.New(errorx.BadRequest, "Require redeem code")
	}

	pack, err := d.packRepo.GetByRedeemCode(ctx, req.RedeemCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.InvalidCode, "Invalid redeem code")
		}

		xcontext.Logger(ctx).Errorf("Cannot get pack by redeem code: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetRedeemablePackResponse{Pack: convertPack(pack)}, nil
}

func (d *packDomain) GetUntransferred(
	ctx context.Context, req *model.GetUntransferredPacksRequest,
) (*model.GetUntransferredPacksResponse, error) {
	packs, err := d.packRepo.GetUntransferredByOwner(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get untransferred packs: %v", err)
		return nil, errorx.Unknown
	}

	clientPacks := []model.Pack{}
	for i := range packs {
		clientPacks = append(clientPacks, convertPack(&packs[i]))
	}

	return &model.GetUntransferredPacksResponse{Packs: clientPacks}, nil
}

func (d *packDomain) CreateTemplate(
	ctx context.Context, req *model.CreatePackTemplateRequest,
) (*model.CreatePackTemplateResponse, error) {
	if req.Slug == "" || req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Require slug and title")
	}

	mechanism, err := enum.ToEnum[entity.ClaimMechanism](req.Mechanism)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid claim mechanism %s", req.Mechanism)
	}

	releasedAt := time.Now()
	if req.ReleasedAt != "" {
		releasedAt, err = time.Parse(time.RFC3339, req.ReleasedAt)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid released_at")
		}
	}

	// Free and redeem claims mint immediately by default; auction and
	// direct claims wait for an explicit settlement step.
	autoMint := mechanism == entity.FreeClaim || mechanism == entity.RedeemClaim
	if req.AutoMint != nil {
		autoMint = *req.AutoMint
	}

	template := &entity.PackTemplate{
		Base:       entity.Base{ID: uuid.NewString()},
		Slug:       req.Slug,
		Title:      req.Title,
		ImageUrl:   req.ImageUrl,
		Mechanism:  mechanism,
		AutoMint:   autoMint,
		ReleasedAt: releasedAt,
		CreatedBy:  xcontext.RequestUserID(ctx),
	}

	if err := d.templateRepo.Create(ctx, template); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create pack template: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreatePackTemplateResponse{ID: template.ID}, nil
}

func (d *packDomain) GeneratePacks(
	ctx context.Context, req *model.GeneratePacksRequest,
) (*model.GeneratePacksResponse, error) {
	if req.Amount <= 0 {
		return nil, errorx.New(errorx.BadRequest, "The amount must be a positive number")
	}

	template, err := d.templateRepo.GetByID(ctx, req.TemplateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found pack template")
		}

		xcontext.Logger(ctx).Errorf("Cannot get pack template: %v", err)
		return nil, errorx.Unknown
	}

	codeLength := xcontext.Configs(ctx).Pack.RedeemCodeLength
	packs := make([]*entity.Pack, 0, req.Amount)
	packIDs := make([]string, 0, req.Amount)
	redeemCodes := []string{}

	for i := 0; i < req.Amount; i++ {
		pack := &entity.Pack{
			Base:       entity.Base{ID: uuid.NewString()},
			TemplateID: template.ID,
			State:      entity.PackAvailable,
		}

		if template.Mechanism == entity.RedeemClaim {
			code := crypto.GenerateRedeemCode(codeLength)
			pack.RedeemCode = sql.NullString{String: code, Valid: true}
			redeemCodes = append(redeemCodes, code)
		}

		packs = append(packs, pack)
		packIDs = append(packIDs, pack.ID)
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.packRepo.BulkInsert(ctx, packs); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate packs: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.GeneratePacksResponse{
		PackIDs:     packIDs,
		RedeemCodes: redeemCodes,
	}, nil
}

func (d *packDomain) verifyOwner(ctx context.Context, ownerID string) error {
	if _, err := d.userRepo.GetByID(ctx, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.NotFound, "Not found owner")
		}

		xcontext.Logger(ctx).Errorf("Cannot get owner: %v", err)
		return errorx.Unknown
	}

	return nil
}
