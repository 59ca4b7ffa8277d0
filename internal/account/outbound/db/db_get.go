package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/shandysiswandi/otpauth/internal/account/entity"
)

const accountColumns = `id, first_name, last_name, email, mobile, profile, role, status, addresses,
	otp_hash, otp_expires_at, created_at, updated_at`

const (
	queryAccountByEmail  = `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	queryAccountByMobile = `SELECT ` + accountColumns + ` FROM accounts WHERE mobile = $1`
	queryAccountByID     = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
)

func (s *DB) FindByEmail(ctx context.Context, email string) (_ *entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "FindByEmail")
	defer func() { s.endSpan(span, err) }()

	acc, err := scanAccount(s.conn.QueryRow(ctx, queryAccountByEmail, email))
	if err != nil {
		return nil, s.mapError(err)
	}

	return acc, nil
}

func (s *DB) FindByMobile(ctx context.Context, mobile string) (_ *entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "FindByMobile")
	defer func() { s.endSpan(span, err) }()

	acc, err := scanAccount(s.conn.QueryRow(ctx, queryAccountByMobile, mobile))
	if err != nil {
		return nil, s.mapError(err)
	}

	return acc, nil
}

func (s *DB) FindByID(ctx context.Context, id int64) (_ *entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "FindByID")
	defer func() { s.endSpan(span, err) }()

	acc, err := scanAccount(s.conn.QueryRow(ctx, queryAccountByID, id))
	if err != nil {
		return nil, s.mapError(err)
	}

	return acc, nil
}

func scanAccount(row pgx.Row) (*entity.Account, error) {
	var (
		acc       entity.Account
		role      string
		status    string
		profile   pgtype.Text
		addresses []byte
		otpHash   pgtype.Text
		otpExp    pgtype.Timestamptz
		createdAt time.Time
		updatedAt time.Time
	)

	if err := row.Scan(
		&acc.ID,
		&acc.FirstName,
		&acc.LastName,
		&acc.Email,
		&acc.Mobile,
		&profile,
		&role,
		&status,
		&addresses,
		&otpHash,
		&otpExp,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	if len(addresses) > 0 {
		if err := json.Unmarshal(addresses, &acc.Addresses); err != nil {
			return nil, fmt.Errorf("decode addresses of account %d: %w", acc.ID, err)
		}
	}

	acc.Profile = profile.String
	acc.Role = entity.Role(role)
	acc.Status = entity.Status(status)
	acc.CreatedAt = createdAt
	acc.UpdatedAt = updatedAt

	if otpHash.Valid && otpExp.Valid {
		acc.Challenge = &entity.OtpChallenge{Hash: otpHash.String, ExpiresAt: otpExp.Time}
	}

	return &acc, nil
}
