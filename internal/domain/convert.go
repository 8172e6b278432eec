package domain

import (
	"time"

	"github.com/packmart-lab/backend/internal/entity"
	"github.com/packmart-lab/backend/internal/model"
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(time.RFC3339)
}

func convertPack(pack *entity.Pack) model.Pack {
	result := model.Pack{
		ID:         pack.ID,
		TemplateID: pack.TemplateID,
		Slug:       pack.Template.Slug,
		Title:      pack.Template.Title,
		ImageUrl:   pack.Template.ImageUrl,
		Mechanism:  string(pack.Template.Mechanism),
		State:      string(pack.State),
		CreatedAt:  formatTime(pack.CreatedAt),
		UpdatedAt:  formatTime(pack.UpdatedAt),
	}

	if pack.OwnerID.Valid {
		result.OwnerID = pack.OwnerID.String
	}

	if pack.ClaimedAt.Valid {
		result.ClaimedAt = formatTime(pack.ClaimedAt.Time)
	}

	return result
}

func convertPackTemplate(template *entity.PackTemplate, total, available int64) model.PackTemplate {
	return model.PackTemplate{
		ID:         template.ID,
		Slug:       template.Slug,
		Title:      template.Title,
		ImageUrl:   template.ImageUrl,
		Mechanism:  string(template.Mechanism),
		AutoMint:   template.AutoMint,
		ReleasedAt: formatTime(template.ReleasedAt),
		Total:      total,
		Available:  available,
	}
}

func convertUser(user *entity.User) model.User {
	return model.User{
		ID:      user.ID,
		Address: user.Address,
		Name:    user.Name,
	}
}
