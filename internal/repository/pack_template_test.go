package repository_test

import (
	"testing"

	"github.com/packmart-lab/backend/internal/entity"
	"github.com/packmart-lab/backend/internal/repository"
	"github.com/packmart-lab/backend/pkg/testutil"
	"github.com/packmart-lab/backend/pkg/xcontext"

	"github.com/stretchr/testify/require"
)

func Test_packTemplateRepository_Cache(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	templateRepo := repository.NewPackTemplateRepository(&testutil.MockRedisClient{})

	first, err := templateRepo.GetByID(ctx, testutil.FreeTemplate.ID)
	require.NoError(t, err)
	require.Equal(t, testutil.FreeTemplate.Title, first.Title)

	// A direct database change is invisible until the cache expires or is
	// invalidated.
	tx := xcontext.DB(ctx).Model(&entity.PackTemplate{}).
		Where("id=?", testutil.FreeTemplate.ID).
		Update("title", "Renamed")
	require.NoError(t, tx.Error)

	cached, err := templateRepo.GetByID(ctx, testutil.FreeTemplate.ID)
	require.NoError(t, err)
	require.Equal(t, testutil.FreeTemplate.Title, cached.Title)

	bySlug, err := templateRepo.GetBySlug(ctx, testutil.FreeTemplate.Slug)
	require.NoError(t, err)
	require.Equal(t, testutil.FreeTemplate.Title, bySlug.Title)
}

func Test_packTemplateRepository_GetList(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	templateRepo := repository.NewPackTemplateRepository(&testutil.MockRedisClient{})

	templates, err := templateRepo.GetList(ctx, repository.GetListPackTemplateFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, templates, 2)

	templates, err = templateRepo.GetList(ctx, repository.GetListPackTemplateFilter{Q: "Free", Limit: 10})
	require.NoError(t, err)
	require.Len(t, templates, 1)
	require.Equal(t, testutil.FreeTemplate.ID, templates[0].ID)
}
