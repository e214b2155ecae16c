package repository

import (
	"context"
	"fmt"
	"time"

	"travelbot/internal/catalog"
	"travelbot/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS travel_cities (
	name             TEXT PRIMARY KEY,
	domestic         BOOLEAN NOT NULL DEFAULT false,
	airport_code     TEXT,
	price_tier       INTEGER,
	hotel_base_price DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS travel_hotels (
	city         TEXT NOT NULL,
	position     INTEGER NOT NULL,
	name         TEXT NOT NULL,
	price_factor DOUBLE PRECISION NOT NULL DEFAULT 1,
	rating       DOUBLE PRECISION NOT NULL DEFAULT 0,
	features     JSONB,
	location     TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (city, position)
);

CREATE TABLE IF NOT EXISTS search_logs (
	id               BIGSERIAL PRIMARY KEY,
	conversation_id  TEXT NOT NULL,
	kind             TEXT NOT NULL,
	criteria         JSONB,
	source           TEXT NOT NULL,
	offer_count      INTEGER NOT NULL,
	response_time_ms INTEGER NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// PostgresRepository reads reference data overlays and writes the search log
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	return &PostgresRepository{db: db}, nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// EnsureSchema creates the reference and log tables when missing
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// LoadCities returns every city overlay record
func (r *PostgresRepository) LoadCities(ctx context.Context) ([]model.CityRecord, error) {
	query := `
		SELECT name, domestic, airport_code, price_tier, hotel_base_price
		FROM travel_cities
		ORDER BY name
	`
	var cities []model.CityRecord
	if err := r.db.SelectContext(ctx, &cities, query); err != nil {
		return nil, fmt.Errorf("failed to load cities: %w", err)
	}
	return cities, nil
}

// LoadHotels returns every hotel catalog record, ordered per city
func (r *PostgresRepository) LoadHotels(ctx context.Context) ([]model.HotelRecord, error) {
	query := `
		SELECT city, position, name, price_factor, rating, features, location
		FROM travel_hotels
		ORDER BY city, position
	`
	var hotels []model.HotelRecord
	if err := r.db.SelectContext(ctx, &hotels, query); err != nil {
		return nil, fmt.Errorf("failed to load hotels: %w", err)
	}
	return hotels, nil
}

// LogSearch logs one flight or hotel search
func (r *PostgresRepository) LogSearch(ctx context.Context, entry model.SearchLogEntry) error {
	logQuery := `
		INSERT INTO search_logs (conversation_id, kind, criteria, source, offer_count, response_time_ms, created_at)
		VALUES (:conversation_id, :kind, :criteria, :source, :offer_count, :response_time_ms, :created_at)
	`
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if _, err := r.db.NamedExecContext(ctx, logQuery, entry); err != nil {
		return fmt.Errorf("failed to log search: %w", err)
	}
	return nil
}

// OverlayCatalog applies the stored city and hotel records to c
func (r *PostgresRepository) OverlayCatalog(ctx context.Context, c *catalog.Catalog) (int, int, error) {
	cities, err := r.LoadCities(ctx)
	if err != nil {
		return 0, 0, err
	}
	hotels, err := r.LoadHotels(ctx)
	if err != nil {
		return 0, 0, err
	}

	c.ApplyCities(cities)
	c.ApplyHotels(hotels)
	return len(cities), len(hotels), nil
}
