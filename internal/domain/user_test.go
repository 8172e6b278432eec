package domain

import (
	"testing"

	"github.com/packmart-lab/backend/internal/model"
	"github.com/packmart-lab/backend/internal/repository"
	"github.com/packmart-lab/backend/pkg/errorx"
	"github.com/packmart-lab/backend/pkg/testutil"

	"github.com/stretchr/testify/require"
)

func Test_userDomain_Create(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := NewUserDomain(repository.NewUserRepository())

	resp, err := domain.Create(ctx, &model.CreateUserRequest{
		Address: "0x3333333333333333333333333333333333333333",
		Name:    "user3",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)

	got, err := domain.Get(ctx, &model.GetUserRequest{ID: resp.ID})
	require.NoError(t, err)
	require.Equal(t, "user3", got.Name)

	_, err = domain.Create(ctx, &model.CreateUserRequest{
		Address: testutil.User1.Address,
	})
	require.Equal(t, errorx.New(errorx.AlreadyExists, "This address was already registered"), err)
}

func Test_userDomain_Get_RequestUser(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	domain := NewUserDomain(repository.NewUserRepository())

	got, err := domain.Get(ctx, &model.GetUserRequest{})
	require.NoError(t, err)
	require.Equal(t, testutil.User1.Name, got.Name)
}
