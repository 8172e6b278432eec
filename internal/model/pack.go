package model

type Pack struct {
	ID         string `json:"id,omitempty"`
	TemplateID string `json:"template_id,omitempty"`
	Slug       string `json:"slug,omitempty"`
	Title      string `json:"title,omitempty"`
	ImageUrl   string `json:"image_url,omitempty"`
	Mechanism  string `json:"mechanism,omitempty"`
	State      string `json:"state,omitempty"`
	OwnerID    string `json:"owner_id,omitempty"`
	ClaimedAt  string `json:"claimed_at,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
	UpdatedAt  string `json:"updated_at,omitempty"`
}

type PackTemplate struct {
	ID         string `json:"id,omitempty"`
	Slug       string `json:"slug,omitempty"`
	Title      string `json:"title,omitempty"`
	ImageUrl   string `json:"image_url,omitempty"`
	Mechanism  string `json:"mechanism,omitempty"`
	AutoMint   bool   `json:"auto_mint,omitempty"`
	ReleasedAt string `json:"released_at,omitempty"`
	Available  int64  `json:"available,omitempty"`
	Total      int64  `json:"total,omitempty"`
}

// Claim operations. The claiming owner is always the authenticated
// user, never a request field.

type ClaimFreePackRequest struct {
	TemplateID string `json:"template_id"`
}

type ClaimFreePackResponse struct {
	Pack Pack `json:"pack"`
}

type ClaimRedeemPackRequest struct {
	RedeemCode string `json:"redeem_code"`
}

type ClaimRedeemPackResponse struct {
	Pack Pack `json:"pack"`
}

type ClaimPackRequest struct {
	PackID string `json:"pack_id"`
}

type ClaimPackResponse struct {
	Pack Pack `json:"pack"`
}

// Minting

type MintPackRequest struct {
	PackID string `json:"pack_id"`
}

type MintPackResponse struct {
	Status string `json:"status"`
}

type GetMintStatusRequest struct {
	PackID string `json:"pack_id"`
}

type GetMintStatusResponse struct {
	Status string `json:"status"`
}

// Transfer and revocation

type TransferPackRequest struct {
	PackID    string `json:"pack_id"`
	ToOwnerID string `json:"to_owner_id"`
}

type TransferPackResponse struct {
	TransferID string `json:"transfer_id"`
	Status     string `json:"status"`
}

type GetTransferStatusRequest struct {
	PackID string `json:"pack_id"`
}

type GetTransferStatusResponse struct {
	Status string `json:"status"`
}

type RevokePackRequest struct {
	PackID string `json:"pack_id"`
}

type RevokePackResponse struct{}

// Read surface

type GetPackRequest struct {
	ID string `json:"id"`
}

type GetPackResponse Pack

type GetPackBySlugRequest struct {
	Slug string `json:"slug"`
}

type GetPackBySlugResponse struct {
	Template PackTemplate `json:"template"`
}

type GetListPackTemplateRequest struct {
	Q      string `json:"q"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

type GetListPackTemplateResponse struct {
	Templates []PackTemplate `json:"templates,omitempty"`
}

type GetPacksByOwnerRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetPacksByOwnerResponse struct {
	Packs []Pack `json:"packs,omitempty"`
}

type GetRedeemablePackRequest struct {
	RedeemCode string `json:"redeem_code"`
}

type GetRedeemablePackResponse struct {
	Pack Pack `json:"pack"`
}

type GetUntransferredPacksRequest struct{}

type GetUntransferredPacksResponse struct {
	Packs []Pack `json:"packs,omitempty"`
}

// Admin surface

type CreatePackTemplateRequest struct {
	Slug       string `json:"slug"`
	Title      string `json:"title"`
	ImageUrl   string `json:"image_url"`
	Mechanism  string `json:"mechanism"`
	AutoMint   *bool  `json:"auto_mint"`
	ReleasedAt string `json:"released_at"`
}

type CreatePackTemplateResponse struct {
	ID string `json:"id"`
}

type GeneratePacksRequest struct {
	TemplateID string `json:"template_id"`
	Amount     int    `json:"amount"`
}

type GeneratePacksResponse struct {
	PackIDs []string `json:"pack_ids"`

	// RedeemCodes is only filled for redeem-mechanism templates, in the
	// same order as PackIDs.
	RedeemCodes []string `json:"redeem_codes,omitempty"`
}
