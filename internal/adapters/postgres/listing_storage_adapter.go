package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"crm-parser-service/internal/core/domain"
)

// Имена колонок сохраняют исторические сокращения из схемы CRM
// (m, s, s_kh, blkn, p, d_kv) - таблица properties общая с остальной
// системой, менять ее отсюда нельзя.
const listingColumns = `external_id, source, cat, status, district, price, plan,
	floor, total_floors, area, m, s, s_kh, blkn, p, condition,
	phone, street, d_kv, year, description, photos, link`

// ListingStorageAdapter - адаптер хранилища объектов на pgx.
type ListingStorageAdapter struct {
	pool *pgxpool.Pool
}

// NewListingStorageAdapter - конструктор.
func NewListingStorageAdapter(pool *pgxpool.Pool) (*ListingStorageAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("ListingStorageAdapter: pool cannot be nil")
	}
	return &ListingStorageAdapter{pool: pool}, nil
}

// FindByExternalID возвращает (nil, nil), если записи нет.
func (a *ListingStorageAdapter) FindByExternalID(ctx context.Context, externalID string) (*domain.Listing, error) {
	query := `SELECT ` + listingColumns + `, created_at, updated_at
		FROM properties WHERE external_id = $1`

	row := a.pool.QueryRow(ctx, query, externalID)

	var listing domain.Listing
	var photos string
	err := row.Scan(
		&listing.ExternalID, &listing.Source, &listing.Category, &listing.Status,
		&listing.District, &listing.Price, &listing.Plan,
		&listing.Floor, &listing.TotalFloors, &listing.Area,
		&listing.WallMaterial, &listing.AreaTotal, &listing.AreaKitchen,
		&listing.Balcony, &listing.Parking, &listing.Condition,
		&listing.Phone, &listing.Street, &listing.HouseNumber, &listing.YearBuilt,
		&listing.Description, &photos, &listing.Link,
		&listing.CreatedAt, &listing.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ListingStorageAdapter: failed to query listing %s: %w", externalID, err)
	}

	listing.Photos = splitPhotos(photos)
	return &listing, nil
}

func (a *ListingStorageAdapter) Insert(ctx context.Context, listing domain.Listing) error {
	query := `INSERT INTO properties (` + listingColumns + `, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, NOW(), NOW())`

	_, err := a.pool.Exec(ctx, query,
		listing.ExternalID, listing.Source, listing.Category, listing.Status,
		listing.District, listing.Price, listing.Plan,
		listing.Floor, listing.TotalFloors, listing.Area,
		listing.WallMaterial, listing.AreaTotal, listing.AreaKitchen,
		listing.Balcony, listing.Parking, listing.Condition,
		listing.Phone, listing.Street, listing.HouseNumber, listing.YearBuilt,
		listing.Description, joinPhotos(listing.Photos), listing.Link,
	)
	if err != nil {
		return fmt.Errorf("ListingStorageAdapter: failed to insert listing %s: %w", listing.ExternalID, err)
	}
	return nil
}

// UpdateScrapedFields перезаписывает ровно шесть "свежих" полей.
// Список колонок здесь - контракт сверки, а не оптимизация.
func (a *ListingStorageAdapter) UpdateScrapedFields(ctx context.Context, externalID string, fields domain.ScrapedFields) error {
	query := `UPDATE properties
		SET phone = $2, price = $3, photos = $4, district = $5, cat = $6, status = $7,
			updated_at = NOW()
		WHERE external_id = $1`

	tag, err := a.pool.Exec(ctx, query,
		externalID, fields.Phone, fields.Price, joinPhotos(fields.Photos),
		fields.District, fields.Category, fields.Status,
	)
	if err != nil {
		return fmt.Errorf("ListingStorageAdapter: failed to update listing %s: %w", externalID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ListingStorageAdapter: listing %s not found for update", externalID)
	}
	return nil
}

func (a *ListingStorageAdapter) GetActiveBySource(ctx context.Context, source string, limit, offset int) ([]domain.Listing, error) {
	query := `SELECT external_id, source, status, link
		FROM properties
		WHERE source = $1 AND status = $2
		ORDER BY updated_at ASC
		LIMIT $3 OFFSET $4`

	rows, err := a.pool.Query(ctx, query, source, domain.StatusActive, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ListingStorageAdapter: failed to query active listings: %w", err)
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		var listing domain.Listing
		if err := rows.Scan(&listing.ExternalID, &listing.Source, &listing.Status, &listing.Link); err != nil {
			return nil, fmt.Errorf("ListingStorageAdapter: failed to scan active listing: %w", err)
		}
		listings = append(listings, listing)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ListingStorageAdapter: error during active rows iteration: %w", err)
	}

	return listings, nil
}

func (a *ListingStorageAdapter) MarkArchived(ctx context.Context, externalID string) error {
	query := `UPDATE properties SET status = $2, updated_at = NOW() WHERE external_id = $1`

	_, err := a.pool.Exec(ctx, query, externalID, domain.StatusArchived)
	if err != nil {
		return fmt.Errorf("ListingStorageAdapter: failed to archive listing %s: %w", externalID, err)
	}
	return nil
}

// Фото хранятся одной колонкой, ссылки через запятую - формат общий
// с остальной CRM.
func joinPhotos(photos []string) string {
	return strings.Join(photos, ",")
}

func splitPhotos(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, ",")
}
