package core

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx, so repositories
// run unchanged inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// GenderOptions enumerates the accepted gender values.
type GenderOptions string

const (
	GenderMale   GenderOptions = "Male"
	GenderFemale GenderOptions = "Female"
	GenderOther  GenderOptions = "Other"
)

// Genders lists the options in display order.
var Genders = []GenderOptions{GenderMale, GenderFemale, GenderOther}

// ParseGender matches s case-insensitively against the known options.
func ParseGender(s string) (GenderOptions, bool) {
	s = strings.TrimSpace(s)
	for _, g := range Genders {
		if strings.EqualFold(string(g), s) {
			return g, true
		}
	}
	return "", false
}

// SortOrder is the direction of a person list sort.
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// ParseSortOrder returns SortDesc for "desc" in any case and SortAsc otherwise.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), string(SortDesc)) {
		return SortDesc
	}
	return SortAsc
}

// Country is a stored country.
type Country struct {
	CountryID   uuid.UUID
	CountryName string
}

// Person is a stored contact. Country is populated by repository reads when
// CountryID references an existing country.
type Person struct {
	PersonID           uuid.UUID
	PersonName         string
	Email              string
	DateOfBirth        *time.Time
	Gender             string
	CountryID          *uuid.UUID
	Address            string
	ReceiveNewsLetters bool

	Country *Country
}

// Date layouts used for display and export.
const (
	DateLayoutISO     = "2006-01-02"
	DateLayoutDisplay = "02 Jan 2006"
	DateLayoutExcel   = "02-01-2006"
	DateLayoutSearch  = "02 January 2006"
)
