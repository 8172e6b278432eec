package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/packmart-lab/backend/internal/entity"
	"github.com/packmart-lab/backend/pkg/xcontext"
	"github.com/packmart-lab/backend/pkg/xredis"
)

type GetListPackTemplateFilter struct {
	Q      string
	Offset int
	Limit  int

	// PublishedOnly restricts the result to templates already released.
	PublishedOnly bool
}

type PackTemplateRepository interface {
	Create(ctx context.Context, template *entity.PackTemplate) error
	GetByID(ctx context.Context, id string) (*entity.PackTemplate, error)
	GetBySlug(ctx context.Context, slug string) (*entity.PackTemplate, error)
	GetList(ctx context.Context, filter GetListPackTemplateFilter) ([]entity.PackTemplate, error)
}

type packTemplateRepository struct {
	redisClient xredis.Client
}

func NewPackTemplateRepository(redisClient xredis.Client) PackTemplateRepository {
	return &packTemplateRepository{redisClient: redisClient}
}

func (r *packTemplateRepository) cacheKeyByID(id string) string {
	return fmt.Sprintf("cache:pack_template:%s", id)
}

func (r *packTemplateRepository) cacheKeyBySlug(slug string) string {
	return fmt.Sprintf("cache:pack_template:slug:%s", slug)
}

func (r *packTemplateRepository) cache(ctx context.Context, templates ...entity.PackTemplate) {
	redisKV := map[string]any{}
	for _, record := range templates {
		redisKV[r.cacheKeyByID(record.ID)] = record
		redisKV[r.cacheKeyBySlug(record.Slug)] = record
	}

	if err := r.redisClient.MSet(ctx, redisKV); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot multiple set for pack template redis: %v", err)
	}
}

func (r *packTemplateRepository) fromCache(ctx context.Context, key string) *entity.PackTemplate {
	var record entity.PackTemplate
	if err := r.redisClient.GetObj(ctx, key, &record); err != nil {
		return nil
	}

	return &record
}

func (r *packTemplateRepository) invalidateCache(ctx context.Context, template *entity.PackTemplate) {
	keys := []string{r.cacheKeyByID(template.ID), r.cacheKeyBySlug(template.Slug)}
	if err := r.redisClient.Del(ctx, keys...); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot invalidate pack template cache: %v", err)
	}
}

func (r *packTemplateRepository) Create(ctx context.Context, template *entity.PackTemplate) error {
	if err := xcontext.DB(ctx).Create(template).Error; err != nil {
		return err
	}

	r.invalidateCache(ctx, template)
	return nil
}

func (r *packTemplateRepository) GetByID(ctx context.Context, id string) (*entity.PackTemplate, error) {
	if cached := r.fromCache(ctx, r.cacheKeyByID(id)); cached != nil {
		return cached, nil
	}

	var result entity.PackTemplate
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	r.cache(ctx, result)
	return &result, nil
}

func (r *packTemplateRepository) GetBySlug(ctx context.Context, slug string) (*entity.PackTemplate, error) {
	if cached := r.fromCache(ctx, r.cacheKeyBySlug(slug)); cached != nil {
		return cached, nil
	}

	var result entity.PackTemplate
	if err := xcontext.DB(ctx).Take(&result, "slug=?", slug).Error; err != nil {
		return nil, err
	}

	r.cache(ctx, result)
	return &result, nil
}

func (r *packTemplateRepository) GetList(
	ctx context.Context, filter GetListPackTemplateFilter,
) ([]entity.PackTemplate, error) {
	tx := xcontext.DB(ctx).Model(&entity.PackTemplate{})

	if filter.Q != "" {
		tx = tx.Where("title LIKE ? OR slug LIKE ?", "%"+filter.Q+"%", "%"+filter.Q+"%")
	}

	if filter.PublishedOnly {
		tx = tx.Where("released_at <= ?", time.Now())
	}

	var result []entity.PackTemplate
	err := tx.Order("released_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
