package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/packmart-lab/backend/internal/entity"
	"github.com/packmart-lab/backend/internal/model"
	"github.com/packmart-lab/backend/internal/repository"
	"github.com/packmart-lab/backend/pkg/errorx"
	"github.com/packmart-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type UserDomain interface {
	Create(context.Context, *model.CreateUserRequest) (*model.CreateUserResponse, error)
	Get(context.Context, *model.GetUserRequest) (*model.GetUserResponse, error)
}

type userDomain struct {
	userRepo repository.UserRepository
}

func NewUserDomain(userRepo repository.UserRepository) *userDomain {
	return &userDomain{userRepo: userRepo}
}

func (d *userDomain) Create(
	ctx context.Context, req *model.CreateUserRequest,
) (*model.CreateUserResponse, error) {
	if req.Address == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a wallet address")
	}

	if _, err := d.userRepo.GetByAddress(ctx, req.Address); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "This address was already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get user by address: %v", err)
		return nil, errorx.Unknown
	}

	user := &entity.User{
		Base:    entity.Base{ID: uuid.NewString()},
		Address: req.Address,
		Name:    req.Name,
	}

	if err := d.userRepo.Create(ctx, user); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateUserResponse{ID: user.ID}, nil
}

func (d *userDomain) Get(
	ctx context.Context, req *model.GetUserRequest,
) (*model.GetUserResponse, error) {
	id := req.ID
	if id == "" {
		id = xcontext.RequestUserID(ctx)
	}

	user, err := d.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.GetUserResponse(convertUser(user))
	return &resp, nil
}
