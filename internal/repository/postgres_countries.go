package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/contacts/internal/core"
)

// pgUniqueViolation is the SQLSTATE for unique constraint violations.
const pgUniqueViolation = "23505"

// PostgresCountriesRepository stores countries in the countries table.
type PostgresCountriesRepository struct {
	db core.DBTX
}

// NewPostgresCountriesRepository creates a repository over db.
func NewPostgresCountriesRepository(db core.DBTX) *PostgresCountriesRepository {
	return &PostgresCountriesRepository{db: db}
}

const insertCountry = `INSERT INTO countries (country_id, country_name) VALUES ($1, $2)`

func (r *PostgresCountriesRepository) AddCountry(ctx context.Context, country core.Country) (core.Country, error) {
	_, err := r.db.Exec(ctx, insertCountry, country.CountryID, country.CountryName)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return core.Country{}, core.ErrDuplicateCountry
		}
		return core.Country{}, fmt.Errorf("insert country: %w", err)
	}
	return country, nil
}

const selectCountries = `SELECT country_id, country_name FROM countries`

func (r *PostgresCountriesRepository) GetAllCountries(ctx context.Context) ([]core.Country, error) {
	rows, err := r.db.Query(ctx, selectCountries+` ORDER BY lower(country_name)`)
	if err != nil {
		return nil, fmt.Errorf("query countries: %w", err)
	}
	defer rows.Close()

	var out []core.Country
	for rows.Next() {
		var c core.Country
		if err := rows.Scan(&c.CountryID, &c.CountryName); err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresCountriesRepository) GetCountryByCountryID(ctx context.Context, id uuid.UUID) (*core.Country, error) {
	return r.getOne(ctx, selectCountries+` WHERE country_id = $1`, id)
}

func (r *PostgresCountriesRepository) GetCountryByCountryName(ctx context.Context, name string) (*core.Country, error) {
	return r.getOne(ctx, selectCountries+` WHERE lower(country_name) = lower($1)`, name)
}

func (r *PostgresCountriesRepository) getOne(ctx context.Context, query string, arg any) (*core.Country, error) {
	var c core.Country
	err := r.db.QueryRow(ctx, query, arg).Scan(&c.CountryID, &c.CountryName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query country: %w", err)
	}
	return &c, nil
}
