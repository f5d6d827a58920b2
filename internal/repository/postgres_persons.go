package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/JonMunkholm/contacts/internal/core"
)

// PostgresPersonsRepository stores persons in the persons table and joins
// countries on read.
type PostgresPersonsRepository struct {
	db core.DBTX
}

// NewPostgresPersonsRepository creates a repository over db.
func NewPostgresPersonsRepository(db core.DBTX) *PostgresPersonsRepository {
	return &PostgresPersonsRepository{db: db}
}

// searchColumns translates core.SearchField into SQL expressions. The date
// format matches core.DateLayoutSearch.
var searchColumns = map[core.SearchField]string{
	core.SearchPersonName:  "p.person_name",
	core.SearchEmail:       "p.email",
	core.SearchDateOfBirth: "to_char(p.date_of_birth, 'DD FMMonth YYYY')",
	core.SearchGender:      "p.gender",
	core.SearchCountry:     "c.country_name",
	core.SearchAddress:     "p.address",
}

const selectPersons = `SELECT p.person_id, p.person_name, p.email, p.date_of_birth, p.gender,
	p.country_id, p.address, p.receive_news_letters, c.country_name
FROM persons p
LEFT JOIN countries c ON c.country_id = p.country_id`

const insertPerson = `INSERT INTO persons
	(person_id, person_name, email, date_of_birth, gender, country_id, address, receive_news_letters)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

func (r *PostgresPersonsRepository) AddPerson(ctx context.Context, p core.Person) (core.Person, error) {
	_, err := r.db.Exec(ctx, insertPerson,
		p.PersonID, p.PersonName, p.Email, p.DateOfBirth, p.Gender, p.CountryID, p.Address, p.ReceiveNewsLetters)
	if err != nil {
		return core.Person{}, fmt.Errorf("insert person: %w", err)
	}
	return p, nil
}

func (r *PostgresPersonsRepository) GetAllPersons(ctx context.Context) ([]core.Person, error) {
	return r.query(ctx, selectPersons+` ORDER BY p.created_at, p.person_id`)
}

func (r *PostgresPersonsRepository) GetPersonByPersonID(ctx context.Context, id uuid.UUID) (*core.Person, error) {
	p, err := scanPerson(r.db.QueryRow(ctx, selectPersons+` WHERE p.person_id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query person: %w", err)
	}
	return &p, nil
}

func (r *PostgresPersonsRepository) GetFilteredPersons(ctx context.Context, filter core.PersonFilter) ([]core.Person, error) {
	column, ok := searchColumns[filter.Field]
	if !ok || !filter.Active() {
		return r.GetAllPersons(ctx)
	}
	query := selectPersons + ` WHERE ` + column + ` ILIKE '%' || $1 || '%' ORDER BY p.created_at, p.person_id`
	return r.query(ctx, query, escapeLike(filter.Term))
}

func (r *PostgresPersonsRepository) DeletePersonByPersonID(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM persons WHERE person_id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete person: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

const updatePerson = `UPDATE persons SET
	person_name = $2, email = $3, date_of_birth = $4, gender = $5,
	country_id = $6, address = $7, receive_news_letters = $8
WHERE person_id = $1`

func (r *PostgresPersonsRepository) UpdatePerson(ctx context.Context, p core.Person) (core.Person, error) {
	tag, err := r.db.Exec(ctx, updatePerson,
		p.PersonID, p.PersonName, p.Email, p.DateOfBirth, p.Gender, p.CountryID, p.Address, p.ReceiveNewsLetters)
	if err != nil {
		return core.Person{}, fmt.Errorf("update person: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.Person{}, core.ErrInvalidPersonID
	}
	return p, nil
}

func (r *PostgresPersonsRepository) query(ctx context.Context, query string, args ...any) ([]core.Person, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query persons: %w", err)
	}
	defer rows.Close()

	var out []core.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPerson(row pgx.Row) (core.Person, error) {
	var (
		p           core.Person
		countryName *string
	)
	err := row.Scan(&p.PersonID, &p.PersonName, &p.Email, &p.DateOfBirth, &p.Gender,
		&p.CountryID, &p.Address, &p.ReceiveNewsLetters, &countryName)
	if err != nil {
		return core.Person{}, err
	}
	if p.CountryID != nil && countryName != nil {
		p.Country = &core.Country{CountryID: *p.CountryID, CountryName: *countryName}
	}
	return p, nil
}

// escapeLike makes LIKE wildcards in s match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
