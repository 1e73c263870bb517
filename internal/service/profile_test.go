package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urbaneye/crime_reporting_system/internal/models"
	"github.com/urbaneye/crime_reporting_system/internal/service/mocks"
	"go.uber.org/mock/gomock"
)

// newTestProfileService - вспомогательная функция для создания инстанса сервиса с моками.
func newTestProfileService(t *testing.T) (*profileService, *mocks.MockProfileRepository) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockProfileRepository(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	service := NewProfileService(repoMock, logger)
	return service.(*profileService), repoMock
}

func TestGetProfile_Success(t *testing.T) {
	service, repoMock := newTestProfileService(t)
	ctx := context.Background()
	userID := uuid.New()
	expected := &models.Profile{ID: userID, FullName: "Resident One", IsAdmin: false}

	repoMock.EXPECT().GetByID(ctx, userID).Return(expected, nil).Times(1)

	profile, err := service.GetProfile(ctx, userID)

	require.NoError(t, err)
	assert.Equal(t, expected, profile)
}

func TestGetProfile_MissingServedWithDefaults(t *testing.T) {
	service, repoMock := newTestProfileService(t)
	ctx := context.Background()
	userID := uuid.New()

	repoMock.EXPECT().
		GetByID(ctx, userID).
		Return(nil, fmt.Errorf("не найдено: %w", ErrNotFound)).Times(1)

	profile, err := service.GetProfile(ctx, userID)

	// Отсутствующий профиль не ошибка: отдаются значения по умолчанию
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, userID, profile.ID)
	assert.Empty(t, profile.FullName)
	assert.False(t, profile.IsAdmin)
}

func TestUpdateProfile_Success(t *testing.T) {
	service, repoMock := newTestProfileService(t)
	ctx := context.Background()
	userID := uuid.New()
	name := "Updated Name"
	upd := &models.ProfileUpdate{FullName: &name}
	expected := &models.Profile{ID: userID, FullName: name}

	repoMock.EXPECT().Update(ctx, userID, upd).Return(expected, nil).Times(1)

	profile, err := service.UpdateProfile(ctx, userID, upd)

	require.NoError(t, err)
	assert.Equal(t, expected, profile)
}

func TestToggleAdmin_InvertsCurrentValue(t *testing.T) {
	service, repoMock := newTestProfileService(t)
	ctx := context.Background()
	userID := uuid.New()

	repoMock.EXPECT().SetAdmin(ctx, userID, true).Return(nil).Times(1)

	err := service.ToggleAdmin(ctx, userID, false)

	require.NoError(t, err)
}

func TestToggleAdmin_TwiceReturnsToOriginal(t *testing.T) {
	service, repoMock := newTestProfileService(t)
	ctx := context.Background()
	userID := uuid.New()

	// Два переключения относительно наблюдаемого значения возвращают
	// исходное состояние
	gomock.InOrder(
		repoMock.EXPECT().SetAdmin(ctx, userID, true).Return(nil),
		repoMock.EXPECT().SetAdmin(ctx, userID, false).Return(nil),
	)

	require.NoError(t, service.ToggleAdmin(ctx, userID, false))
	require.NoError(t, service.ToggleAdmin(ctx, userID, true))
}

func TestToggleAdmin_UnknownUser(t *testing.T) {
	service, repoMock := newTestProfileService(t)
	ctx := context.Background()
	userID := uuid.New()

	repoMock.EXPECT().
		SetAdmin(ctx, userID, true).
		Return(fmt.Errorf("не найдено: %w", ErrNotFound)).Times(1)

	err := service.ToggleAdmin(ctx, userID, false)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIsAdmin_MissingProfileMeansNotAdmin(t *testing.T) {
	service, repoMock := newTestProfileService(t)
	ctx := context.Background()
	userID := uuid.New()

	repoMock.EXPECT().
		GetByID(ctx, userID).
		Return(nil, fmt.Errorf("не найдено: %w", ErrNotFound)).Times(1)

	isAdmin, err := service.IsAdmin(ctx, userID)

	require.NoError(t, err)
	assert.False(t, isAdmin)
}

func TestIsAdmin_True(t *testing.T) {
	service, repoMock := newTestProfileService(t)
	ctx := context.Background()
	userID := uuid.New()

	repoMock.EXPECT().
		GetByID(ctx, userID).
		Return(&models.Profile{ID: userID, IsAdmin: true}, nil).Times(1)

	isAdmin, err := service.IsAdmin(ctx, userID)

	require.NoError(t, err)
	assert.True(t, isAdmin)
}
