package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/solterra-dev/solterra/api/internal/logger"
	"github.com/solterra-dev/solterra/api/internal/models"
	"github.com/solterra-dev/solterra/api/internal/repository"
)

// Service-level errors
var (
	ErrLotNotFound  = errors.New("lot not found")
	ErrInvalidLot   = errors.New("invalid lot")
	ErrSlugConflict = errors.New("slug already in use")
)

// LotService defines the interface for lot business logic operations.
type LotService interface {
	// ListLots returns the full inventory, ordered stably.
	ListLots(ctx context.Context) ([]models.Lot, error)

	// GetLotBySlug retrieves one lot by slug.
	// Returns ErrLotNotFound if no lot has that slug.
	GetLotBySlug(ctx context.Context, slug string) (*models.Lot, error)

	// CreateLot validates and inserts a new lot.
	// Returns ErrInvalidLot for bad input, ErrSlugConflict for duplicate slugs.
	CreateLot(ctx context.Context, lot *models.Lot) error

	// UpdateLot validates and rewrites an existing lot.
	// Returns ErrLotNotFound if the id does not exist.
	UpdateLot(ctx context.Context, lot *models.Lot) error

	// DeleteLot removes a lot by id.
	// Returns ErrLotNotFound if the id does not exist.
	DeleteLot(ctx context.Context, id int64) error
}

// lotService is the concrete implementation of LotService.
type lotService struct {
	repo repository.LotRepository
	log  *logger.Logger
}

// NewLotService creates a new instance of LotService.
func NewLotService(repo repository.LotRepository, log *logger.Logger) LotService {
	return &lotService{
		repo: repo,
		log:  log,
	}
}

// ListLots returns the full lot inventory.
func (s *lotService) ListLots(ctx context.Context) ([]models.Lot, error) {
	lots, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error("Failed to list lots", err, nil)
		return nil, fmt.Errorf("failed to list lots: %w", err)
	}

	s.log.Debug("Listed lots", map[string]interface{}{
		"count": len(lots),
	})

	return lots, nil
}

// GetLotBySlug retrieves the lot with the given slug.
func (s *lotService) GetLotBySlug(ctx context.Context, slug string) (*models.Lot, error) {
	if slug == "" {
		return nil, fmt.Errorf("%w: slug is required", ErrInvalidLot)
	}

	lot, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		s.log.Error("Failed to query lot by slug", err, map[string]interface{}{
			"slug": slug,
		})
		return nil, fmt.Errorf("failed to query lot: %w", err)
	}

	// Repository returns nil, nil when no lot found - transform to domain error
	if lot == nil {
		s.log.Debug("No lot found for slug", map[string]interface{}{
			"slug": slug,
		})
		return nil, ErrLotNotFound
	}

	return lot, nil
}

// CreateLot validates and inserts a new lot record.
func (s *lotService) CreateLot(ctx context.Context, lot *models.Lot) error {
	if err := validateLot(lot); err != nil {
		s.log.Warn("Rejected invalid lot", map[string]interface{}{
			"slug":   lot.Slug,
			"reason": err.Error(),
		})
		return err
	}

	lot.Status = lot.Status.Normalize()

	if err := s.repo.Create(ctx, lot); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return fmt.Errorf("%w: %s", ErrSlugConflict, lot.Slug)
		}
		s.log.Error("Failed to create lot", err, map[string]interface{}{
			"slug": lot.Slug,
		})
		return fmt.Errorf("failed to create lot: %w", err)
	}

	s.log.Info("Lot created", map[string]interface{}{
		"id":     lot.ID,
		"slug":   lot.Slug,
		"status": lot.Status,
	})

	return nil
}

// UpdateLot validates and rewrites an existing lot record.
func (s *lotService) UpdateLot(ctx context.Context, lot *models.Lot) error {
	if lot.ID <= 0 {
		return fmt.Errorf("%w: id is required", ErrInvalidLot)
	}
	if err := validateLot(lot); err != nil {
		s.log.Warn("Rejected invalid lot update", map[string]interface{}{
			"id":     lot.ID,
			"reason": err.Error(),
		})
		return err
	}

	lot.Status = lot.Status.Normalize()

	found, err := s.repo.Update(ctx, lot)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return fmt.Errorf("%w: %s", ErrSlugConflict, lot.Slug)
		}
		s.log.Error("Failed to update lot", err, map[string]interface{}{
			"id": lot.ID,
		})
		return fmt.Errorf("failed to update lot: %w", err)
	}
	if !found {
		return ErrLotNotFound
	}

	s.log.Info("Lot updated", map[string]interface{}{
		"id":     lot.ID,
		"slug":   lot.Slug,
		"status": lot.Status,
	})

	return nil
}

// DeleteLot removes a lot record.
func (s *lotService) DeleteLot(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: id is required", ErrInvalidLot)
	}

	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.log.Error("Failed to delete lot", err, map[string]interface{}{
			"id": id,
		})
		return fmt.Errorf("failed to delete lot: %w", err)
	}
	if !found {
		return ErrLotNotFound
	}

	s.log.Info("Lot deleted", map[string]interface{}{
		"id": id,
	})

	return nil
}

// validateLot checks field-level constraints shared by create and update.
// Unknown statuses are allowed on purpose: the map engine renders them
// with a conspicuous fallback style instead of refusing the record.
func validateLot(lot *models.Lot) error {
	if lot.Slug == "" {
		return fmt.Errorf("%w: slug is required", ErrInvalidLot)
	}
	if lot.Number == "" {
		return fmt.Errorf("%w: number is required", ErrInvalidLot)
	}
	if lot.Price < 0 {
		return fmt.Errorf("%w: price must be non-negative", ErrInvalidLot)
	}
	if lot.Area < 0 {
		return fmt.Errorf("%w: area must be non-negative", ErrInvalidLot)
	}
	if lot.Status == "" {
		return fmt.Errorf("%w: status is required", ErrInvalidLot)
	}
	return nil
}
