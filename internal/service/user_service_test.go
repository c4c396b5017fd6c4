package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "biblioteca/internal/errors"
	"biblioteca/internal/hash"
	"biblioteca/internal/model"
)

func TestUserService_DeleteUser(t *testing.T) {
	tests := []struct {
		name          string
		id            uint
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name: "regular user is deleted",
			id:   4,
			setupMock: func(m *MockUserRepository) {
				target := &model.User{ID: 4, Role: model.RoleUser}
				m.On("FindByID", mock.Anything, uint(4)).Return(target, nil)
				m.On("Delete", mock.Anything, target).Return(nil)
			},
			expectedError: nil,
		},
		{
			name: "admin target is protected",
			id:   1,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(1)).Return(&model.User{ID: 1, Role: model.RoleAdmin}, nil)
			},
			expectedError: apperrors.ErrAdminProtected,
		},
		{
			name: "unknown id",
			id:   99,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc := NewUserService(mockRepo, hash.NewBcrypt(), nil)
			err := svc.DeleteUser(context.Background(), tt.id)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_EnsureAdmin(t *testing.T) {
	t.Run("creates the admin when absent", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("ExistsByUsername", mock.Anything, "admin").Return(false, nil)

		var created *model.User
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Run(func(args mock.Arguments) {
			created = args.Get(1).(*model.User)
		}).Return(nil)

		svc := NewUserService(mockRepo, hash.NewBcrypt(), nil)
		err := svc.EnsureAdmin(context.Background(), "s3cret")

		assert.NoError(t, err)
		assert.Equal(t, "admin", created.Username)
		assert.Equal(t, "admin@admin.com", created.Email)
		assert.Equal(t, model.RoleAdmin, created.Role)
		assert.NotNil(t, created.NationalID)
		assert.NotEmpty(t, created.PasswordHash)
		assert.NotEqual(t, "s3cret", created.PasswordHash)
	})

	t.Run("is a no-op when the admin exists", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("ExistsByUsername", mock.Anything, "admin").Return(true, nil)

		svc := NewUserService(mockRepo, hash.NewBcrypt(), nil)
		err := svc.EnsureAdmin(context.Background(), "s3cret")

		assert.NoError(t, err)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("a lost bootstrap race is not an error", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("ExistsByUsername", mock.Anything, "admin").Return(false, nil)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)

		svc := NewUserService(mockRepo, hash.NewBcrypt(), nil)
		err := svc.EnsureAdmin(context.Background(), "s3cret")

		assert.NoError(t, err)
	})
}

func TestUserService_GetUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, uint(2)).Return(&model.User{ID: 2, Username: "ana"}, nil)
	mockRepo.On("FindByID", mock.Anything, uint(9)).Return(nil, gorm.ErrRecordNotFound)

	svc := NewUserService(mockRepo, hash.NewBcrypt(), nil)

	user, err := svc.GetUser(context.Background(), 2)
	assert.NoError(t, err)
	assert.Equal(t, "ana", user.Username)

	_, err = svc.GetUser(context.Background(), 9)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUserService_ListUsers(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("List", mock.Anything).Return([]model.User{{ID: 1}, {ID: 2}}, nil)

	svc := NewUserService(mockRepo, hash.NewBcrypt(), nil)

	users, err := svc.ListUsers(context.Background())
	assert.NoError(t, err)
	assert.Len(t, users, 2)
}
