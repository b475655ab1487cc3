package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"laundry-service-backend/internal/errs"
	"laundry-service-backend/internal/model"
)

func (s *gormStore) CreateUser(ctx context.Context, user *model.User) error {
	return translate("create user", s.db.WithContext(ctx).Create(user).Error)
}

func (s *gormStore) GetUser(ctx context.Context, id uint) (*model.User, error) {
	return s.findUser(ctx, "id = ?", id)
}

func (s *gormStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.findUser(ctx, "email = ?", email)
}

func (s *gormStore) GetUserByCode(ctx context.Context, code string) (*model.User, error) {
	return s.findUser(ctx, "customer_id = ?", code)
}

func (s *gormStore) UserCodeExists(ctx context.Context, code string) (bool, error) {
	found, err := s.exists(ctx, &model.User{}, "customer_id = ?", code)
	if err != nil {
		return false, translate("check user code", err)
	}
	return found, nil
}

func (s *gormStore) ListUsers(ctx context.Context, role model.Role) ([]model.User, error) {
	var users []model.User
	q := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if role != "" {
		q = q.Where("role = ?", role)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, translate("list users", err)
	}
	return users, nil
}

func (s *gormStore) CountUsers(ctx context.Context, role model.Role) (int64, error) {
	var count int64
	q := s.db.WithContext(ctx).Model(&model.User{})
	if role != "" {
		q = q.Where("role = ?", role)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, translate("count users", err)
	}
	return count, nil
}

func (s *gormStore) findUser(ctx context.Context, query string, arg any) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFoundErrorWithCause("User", arg, err)
	}
	if err != nil {
		return nil, translate("get user", err)
	}
	return &user, nil
}
