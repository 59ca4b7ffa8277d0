package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/shandysiswandi/otpauth/internal/account/entity"
)

const queryInsertAccount = `INSERT INTO accounts
	(id, first_name, last_name, email, mobile, profile, role, status, addresses, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

func (s *DB) Insert(ctx context.Context, acc entity.Account) (err error) {
	ctx, span := s.startSpan(ctx, "Insert")
	defer func() { s.endSpan(span, err) }()

	addresses := acc.Addresses
	if addresses == nil {
		addresses = []entity.Address{}
	}

	addrJSON, err := json.Marshal(addresses)
	if err != nil {
		return fmt.Errorf("encode addresses: %w", err)
	}

	_, err = s.conn.Exec(ctx, queryInsertAccount,
		acc.ID,
		acc.FirstName,
		acc.LastName,
		acc.Email,
		acc.Mobile,
		pgtype.Text{String: acc.Profile, Valid: acc.Profile != ""},
		acc.Role.String(),
		acc.Status.String(),
		addrJSON,
		acc.CreatedAt,
		acc.UpdatedAt,
	)
	err = s.mapError(err)
	return err
}
