package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/solterra-dev/solterra/api/internal/logger"
	"github.com/solterra-dev/solterra/api/internal/models"
	"github.com/solterra-dev/solterra/api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockLotRepository is a mock implementation of LotRepository for testing
type MockLotRepository struct {
	mock.Mock
}

func (m *MockLotRepository) List(ctx context.Context) ([]models.Lot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	lots, ok := args.Get(0).([]models.Lot)
	if !ok {
		return nil, args.Error(1)
	}
	return lots, args.Error(1)
}

func (m *MockLotRepository) FindBySlug(ctx context.Context, slug string) (*models.Lot, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	lot, ok := args.Get(0).(*models.Lot)
	if !ok {
		return nil, args.Error(1)
	}
	return lot, args.Error(1)
}

func (m *MockLotRepository) FindByID(ctx context.Context, id int64) (*models.Lot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	lot, ok := args.Get(0).(*models.Lot)
	if !ok {
		return nil, args.Error(1)
	}
	return lot, args.Error(1)
}

func (m *MockLotRepository) Create(ctx context.Context, lot *models.Lot) error {
	args := m.Called(ctx, lot)
	return args.Error(0)
}

func (m *MockLotRepository) Update(ctx context.Context, lot *models.Lot) (bool, error) {
	args := m.Called(ctx, lot)
	return args.Bool(0), args.Error(1)
}

func (m *MockLotRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func validTestLot() *models.Lot {
	return &models.Lot{
		ID:         1,
		Slug:       "lote-1",
		Number:     "1",
		Status:     models.StatusAvailable,
		Price:      50000,
		Currency:   "USD",
		Dimensions: "20x30",
		Area:       600,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
}

func TestListLots_Success(t *testing.T) {
	// Arrange
	mockRepo := new(MockLotRepository)
	log := logger.New("test")
	service := NewLotService(mockRepo, log)

	ctx := context.Background()
	expected := []models.Lot{*validTestLot()}

	mockRepo.On("List", ctx).Return(expected, nil)

	// Act
	lots, err := service.ListLots(ctx)

	// Assert
	require.NoError(t, err)
	assert.Len(t, lots, 1)
	assert.Equal(t, "lote-1", lots[0].Slug)
	mockRepo.AssertExpectations(t)
}

func TestListLots_RepositoryError(t *testing.T) {
	// Arrange
	mockRepo := new(MockLotRepository)
	log := logger.New("test")
	service := NewLotService(mockRepo, log)

	ctx := context.Background()
	mockRepo.On("List", ctx).Return(nil, errors.New("connection lost"))

	// Act
	lots, err := service.ListLots(ctx)

	// Assert
	require.Error(t, err)
	assert.Nil(t, lots)
	mockRepo.AssertExpectations(t)
}

func TestGetLotBySlug_Success(t *testing.T) {
	// Arrange
	mockRepo := new(MockLotRepository)
	log := logger.New("test")
	service := NewLotService(mockRepo, log)

	ctx := context.Background()
	expected := validTestLot()

	mockRepo.On("FindBySlug", ctx, "lote-1").Return(expected, nil)

	// Act
	lot, err := service.GetLotBySlug(ctx, "lote-1")

	// Assert
	require.NoError(t, err)
	assert.NotNil(t, lot)
	assert.Equal(t, expected.Slug, lot.Slug)
	assert.Equal(t, expected.Status, lot.Status)
	mockRepo.AssertExpectations(t)
}

func TestGetLotBySlug_NotFound(t *testing.T) {
	// Arrange
	mockRepo := new(MockLotRepository)
	log := logger.New("test")
	service := NewLotService(mockRepo, log)

	ctx := context.Background()

	// Repository returns nil, nil when no lot found
	mockRepo.On("FindBySlug", ctx, "missing").Return(nil, nil)

	// Act
	lot, err := service.GetLotBySlug(ctx, "missing")

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLotNotFound)
	assert.Nil(t, lot)
	mockRepo.AssertExpectations(t)
}

func TestGetLotBySlug_EmptySlug(t *testing.T) {
	// Arrange
	mockRepo := new(MockLotRepository)
	log := logger.New("test")
	service := NewLotService(mockRepo, log)

	// Act
	lot, err := service.GetLotBySlug(context.Background(), "")

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidLot)
	assert.Nil(t, lot)
	mockRepo.AssertNotCalled(t, "FindBySlug")
}

func TestCreateLot_Success(t *testing.T) {
	// Arrange
	mockRepo := new(MockLotRepository)
	log := logger.New("test")
	service := NewLotService(mockRepo, log)

	ctx := context.Background()
	lot := validTestLot()
	lot.ID = 0
	lot.Status = "available"

	mockRepo.On("Create", ctx, lot).Return(nil)

	// Act
	err := service.CreateLot(ctx, lot)

	// Assert
	require.NoError(t, err)
	// Status is normalized before the record is stored.
	assert.Equal(t, models.StatusAvailable, lot.Status)
	mockRepo.AssertExpectations(t)
}

func TestCreateLot_UnknownStatusAccepted(t *testing.T) {
	// Arrange
	mockRepo := new(MockLotRepository)
	log := logger.New("test")
	service := NewLotService(mockRepo, log)

	ctx := context.Background()
	lot := validTestLot()
	lot.Status = "foreclosed"

	mockRepo.On("Create", ctx, lot).Return(nil)

	// Act
	err := service.CreateLot(ctx, lot)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.LotStatus("FORECLOSED"), lot.Status)
	mockRepo.AssertExpectations(t)
}

func TestCreateLot_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Lot)
	}{
		{"missing slug", func(l *models.Lot) { l.Slug = "" }},
		{"missing number", func(l *models.Lot) { l.Number = "" }},
		{"missing status", func(l *models.Lot) { l.Status = "" }},
		{"negative price", func(l *models.Lot) { l.Price = -1 }},
		{"negative area", func(l *models.Lot) { l.Area = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockLotRepository)
			service := NewLotService(mockRepo, logger.New("test"))

			lot := validTestLot()
			tt.mutate(lot)

			err := service.CreateLot(context.Background(), lot)

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidLot)
			mockRepo.AssertNotCalled(t, "Create")
		})
	}
}

func TestCreateLot_SlugConflict(t *testing.T) {
	// Arrange
	mockRepo := new(MockLotRepository)
	log := logger.New("test")
	service := NewLotService(mockRepo, log)

	ctx := context.Background()
	lot := validTestLot()

	mockRepo.On("Create", ctx, lot).Return(repository.ErrDuplicateSlug)

	// Act
	err := service.CreateLot(ctx, lot)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSlugConflict)
	mockRepo.AssertExpectations(t)
}

func TestUpdateLot_Success(t *testing.T) {
	// Arrange
	mockRepo := new(MockLotRepository)
	log := logger.New("test")
	service := NewLotService(mockRepo, log)

	ctx := context.Background()
	lot := validTestLot()
	lot.Status = "sold"

	mockRepo.On("Update", ctx, lot).Return(true, nil)

	// Act
	err := service.UpdateLot(ctx, lot)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.StatusSold, lot.Status)
	mockRepo.AssertExpectations(t)
}

func TestUpdateLot_NotFound(t *testing.T) {
	// Arrange
	mockRepo := new(MockLotRepository)
	log := logger.New("test")
	service := NewLotService(mockRepo, log)

	ctx := context.Background()
	lot := validTestLot()

	mockRepo.On("Update", ctx, lot).Return(false, nil)

	// Act
	err := service.UpdateLot(ctx, lot)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLotNotFound)
	mockRepo.AssertExpectations(t)
}

func TestUpdateLot_MissingID(t *testing.T) {
	// Arrange
	mockRepo := new(MockLotRepository)
	service := NewLotService(mockRepo, logger.New("test"))

	lot := validTestLot()
	lot.ID = 0

	// Act
	err := service.UpdateLot(context.Background(), lot)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidLot)
	mockRepo.AssertNotCalled(t, "Update")
}

func TestDeleteLot_Success(t *testing.T) {
	// Arrange
	mockRepo := new(MockLotRepository)
	log := logger.New("test")
	service := NewLotService(mockRepo, log)

	ctx := context.Background()
	mockRepo.On("Delete", ctx, int64(1)).Return(true, nil)

	// Act
	err := service.DeleteLot(ctx, 1)

	// Assert
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestDeleteLot_NotFound(t *testing.T) {
	// Arrange
	mockRepo := new(MockLotRepository)
	log := logger.New("test")
	service := NewLotService(mockRepo, log)

	ctx := context.Background()
	mockRepo.On("Delete", ctx, int64(42)).Return(false, nil)

	// Act
	err := service.DeleteLot(ctx, 42)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLotNotFound)
	mockRepo.AssertExpectations(t)
}

func TestDeleteLot_InvalidID(t *testing.T) {
	// Arrange
	mockRepo := new(MockLotRepository)
	service := NewLotService(mockRepo, logger.New("test"))

	// Act
	err := service.DeleteLot(context.Background(), 0)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidLot)
	mockRepo.AssertNotCalled(t, "Delete")
}
