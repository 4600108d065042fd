package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/solterra-dev/solterra/api/internal/database"
	"github.com/solterra-dev/solterra/api/internal/models"
)

// ErrDuplicateSlug is returned when an insert or update collides with an
// existing lot slug. Slugs are the correlation key for the tour engine and
// must stay globally unique.
var ErrDuplicateSlug = errors.New("lot slug already exists")

// LotRepository defines the interface for lot data access operations.
type LotRepository interface {
	// List returns all lots ordered by id.
	// Returns an empty slice when the table is empty (not an error).
	List(ctx context.Context) ([]models.Lot, error)

	// FindBySlug finds a lot by its unique slug.
	// Returns nil, nil if no lot is found (not an error).
	FindBySlug(ctx context.Context, slug string) (*models.Lot, error)

	// FindByID finds a lot by its numeric id.
	// Returns nil, nil if no lot is found (not an error).
	FindByID(ctx context.Context, id int64) (*models.Lot, error)

	// Create inserts a new lot and fills in its generated id and timestamps.
	// Returns ErrDuplicateSlug when the slug is taken.
	Create(ctx context.Context, lot *models.Lot) error

	// Update rewrites an existing lot's mutable fields.
	// Returns nil, nil semantics via a boolean: found=false means no row
	// with that id exists. Returns ErrDuplicateSlug when a slug change
	// collides with another lot.
	Update(ctx context.Context, lot *models.Lot) (found bool, err error)

	// Delete removes a lot by id. found=false means no row existed.
	Delete(ctx context.Context, id int64) (found bool, err error)
}

// lotRepository is the concrete implementation of LotRepository.
type lotRepository struct {
	db *database.Database
}

// NewLotRepository creates a new instance of LotRepository.
func NewLotRepository(db *database.Database) LotRepository {
	return &lotRepository{
		db: db,
	}
}

const lotColumns = `
	id,
	slug,
	number,
	status,
	price,
	currency,
	dimensions,
	area,
	description,
	created_at,
	updated_at
`

// scanLot reads one lot row in lotColumns order.
func scanLot(row pgx.Row) (*models.Lot, error) {
	var lot models.Lot
	err := row.Scan(
		&lot.ID,
		&lot.Slug,
		&lot.Number,
		&lot.Status,
		&lot.Price,
		&lot.Currency,
		&lot.Dimensions,
		&lot.Area,
		&lot.Description,
		&lot.CreatedAt,
		&lot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lot, nil
}

// List returns every lot in the inventory ordered by id. The public API
// and the tour engine both consume this; ordering is kept stable so the
// inventory fingerprint only changes when the data does.
func (r *lotRepository) List(ctx context.Context) ([]models.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots ORDER BY id`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query lots: %w", err)
	}
	defer rows.Close()

	var lots []models.Lot
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lot row: %w", err)
		}
		lots = append(lots, *lot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lot rows: %w", err)
	}

	if lots == nil {
		lots = []models.Lot{}
	}

	return lots, nil
}

// FindBySlug queries the database for the lot with the given slug.
func (r *lotRepository) FindBySlug(ctx context.Context, slug string) (*models.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE slug = $1`

	lot, err := scanLot(r.db.Pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query lot by slug %q: %w", slug, err)
	}

	return lot, nil
}

// FindByID queries the database for the lot with the given id.
func (r *lotRepository) FindByID(ctx context.Context, id int64) (*models.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE id = $1`

	lot, err := scanLot(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query lot by id %d: %w", id, err)
	}

	return lot, nil
}

// Create inserts a new lot record.
func (r *lotRepository) Create(ctx context.Context, lot *models.Lot) error {
	query := `
		INSERT INTO lots (slug, number, status, price, currency, dimensions, area, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		lot.Slug,
		lot.Number,
		lot.Status,
		lot.Price,
		lot.Currency,
		lot.Dimensions,
		lot.Area,
		lot.Description,
	).Scan(&lot.ID, &lot.CreatedAt, &lot.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateSlug, lot.Slug)
		}
		return fmt.Errorf("failed to insert lot %q: %w", lot.Slug, err)
	}

	return nil
}

// Update rewrites the mutable fields of an existing lot.
func (r *lotRepository) Update(ctx context.Context, lot *models.Lot) (bool, error) {
	query := `
		UPDATE lots
		SET slug = $1,
			number = $2,
			status = $3,
			price = $4,
			currency = $5,
			dimensions = $6,
			area = $7,
			description = $8,
			updated_at = now()
		WHERE id = $9
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		lot.Slug,
		lot.Number,
		lot.Status,
		lot.Price,
		lot.Currency,
		lot.Dimensions,
		lot.Area,
		lot.Description,
		lot.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, fmt.Errorf("%w: %s", ErrDuplicateSlug, lot.Slug)
		}
		return false, fmt.Errorf("failed to update lot %d: %w", lot.ID, err)
	}

	return tag.RowsAffected() > 0, nil
}

// Delete removes a lot by id.
func (r *lotRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM lots WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete lot %d: %w", id, err)
	}

	return tag.RowsAffected() > 0, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
