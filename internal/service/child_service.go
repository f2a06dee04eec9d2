package service

import (
	"context"
	"time"

	"joslyn-advocacy-be/internal/dto"
	"joslyn-advocacy-be/internal/entity"
	"joslyn-advocacy-be/internal/repository/specification"
	"joslyn-advocacy-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IChildService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateChildRequest) (*dto.CreateChildResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowChildResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]*dto.ShowChildResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateChildRequest) (*dto.UpdateChildResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type childService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewChildService(uowFactory unitofwork.RepositoryFactory) IChildService {
	return &childService{uowFactory: uowFactory}
}

func (c *childService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateChildRequest) (*dto.CreateChildResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	child := entity.Child{
		Id:        uuid.New(),
		UserId:    userId,
		Name:      req.Name,
		CreatedAt: time.Now(),
	}

	if err := uow.ChildRepository().Create(ctx, &child); err != nil {
		return nil, err
	}

	return &dto.CreateChildResponse{Id: child.Id}, nil
}

func (c *childService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowChildResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	child, err := uow.ChildRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ChildOwnedByUser{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if child == nil {
		return nil, nil // Not found
	}

	return &dto.ShowChildResponse{
		Id:        child.Id,
		Name:      child.Name,
		CreatedAt: child.CreatedAt,
		UpdatedAt: child.UpdatedAt,
	}, nil
}

func (c *childService) List(ctx context.Context, userId uuid.UUID) ([]*dto.ShowChildResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	children, err := uow.ChildRepository().FindAll(ctx,
		specification.ChildOwnedByUser{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ShowChildResponse, 0, len(children))
	for _, child := range children {
		res = append(res, &dto.ShowChildResponse{
			Id:        child.Id,
			Name:      child.Name,
			CreatedAt: child.CreatedAt,
			UpdatedAt: child.UpdatedAt,
		})
	}
	return res, nil
}

func (c *childService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateChildRequest) (*dto.UpdateChildResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	child, err := uow.ChildRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.ChildOwnedByUser{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if child == nil {
		return nil, nil
	}

	child.Name = req.Name
	now := time.Now()
	child.UpdatedAt = &now

	if err := uow.ChildRepository().Update(ctx, child); err != nil {
		return nil, err
	}

	return &dto.UpdateChildResponse{Id: child.Id}, nil
}

func (c *childService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	child, err := uow.ChildRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ChildOwnedByUser{UserID: userId},
	)
	if err != nil {
		return err
	}
	if child == nil {
		return nil
	}

	return uow.ChildRepository().Delete(ctx, id)
}
