package service

import (
	"context"
	"errors"

	"quizgen-be/internal/apperr"
	"quizgen-be/internal/dto"
	"quizgen-be/internal/entity"
	"quizgen-be/internal/repository/specification"
	"quizgen-be/internal/repository/unitofwork"
	"quizgen-be/internal/workflow"

	"gorm.io/gorm"
)

type IUserService interface {
	Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	Get(ctx context.Context, id uint) (*dto.UserResponse, error)
	GetMemory(ctx context.Context, id uint, query string, limit int) ([]*dto.MemoryTurnResponse, error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
	memory     *workflow.MemoryStore
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, memory *workflow.MemoryStore) IUserService {
	return &userService{
		uowFactory: uowFactory,
		memory:     memory,
	}
}

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().Count(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, apperr.Persistence("check email uniqueness: %v", err)
	}
	if existing > 0 {
		return nil, apperr.Conflict("email %s already registered", req.Email)
	}

	user := &entity.User{
		Name:  req.Name,
		Email: req.Email,
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		// The pre-check races with concurrent creates; the unique index is
		// the real guard.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("email %s already registered", req.Email)
		}
		return nil, apperr.Persistence("create user: %v", err)
	}

	return toUserResponse(user), nil
}

func (s *userService) Get(ctx context.Context, id uint) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperr.Persistence("load user %d: %v", id, err)
	}
	if user == nil {
		return nil, apperr.NotFound("user %d", id)
	}

	return toUserResponse(user), nil
}

// GetMemory lists a user's conversation memory chronologically, or ranks it
// by similarity when a query is supplied.
func (s *userService) GetMemory(ctx context.Context, id uint, query string, limit int) ([]*dto.MemoryTurnResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperr.Persistence("load user %d: %v", id, err)
	}
	if user == nil {
		return nil, apperr.NotFound("user %d", id)
	}

	var turns []workflow.Turn
	if query != "" {
		turns, err = s.memory.Search(ctx, id, query, limit)
	} else {
		turns, err = s.memory.List(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	result := make([]*dto.MemoryTurnResponse, len(turns))
	for i, turn := range turns {
		result[i] = &dto.MemoryTurnResponse{User: turn.User, Bot: turn.Bot}
	}
	return result, nil
}

func toUserResponse(user *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		Id:        user.Id,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
