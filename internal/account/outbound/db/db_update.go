package db

import (
	"context"
	"time"

	"github.com/shandysiswandi/otpauth/internal/account/entity"
	"github.com/shandysiswandi/otpauth/internal/pkg/goerror"
)

const (
	querySetChallenge = `UPDATE accounts
	SET otp_hash = $2, otp_expires_at = $3, updated_at = now()
	WHERE id = $1`

	queryConsumeChallenge = `UPDATE accounts
	SET otp_hash = NULL, otp_expires_at = NULL, updated_at = now()
	WHERE id = $1 AND otp_hash = $2 AND otp_expires_at > $3
	RETURNING ` + accountColumns

	queryClearChallenge = `UPDATE accounts
	SET otp_hash = NULL, otp_expires_at = NULL, updated_at = now()
	WHERE id = $1 AND otp_hash = $2`

	querySweepChallenges = `UPDATE accounts
	SET otp_hash = NULL, otp_expires_at = NULL, updated_at = now()
	WHERE otp_expires_at IS NOT NULL AND otp_expires_at <= $1`
)

// SetChallenge replaces any pending challenge of the account.
func (s *DB) SetChallenge(ctx context.Context, id int64, c entity.OtpChallenge) (err error) {
	ctx, span := s.startSpan(ctx, "SetChallenge")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, querySetChallenge, id, c.Hash, c.ExpiresAt)
	if err != nil {
		err = s.mapError(err)
		return err
	}
	if tag.RowsAffected() == 0 {
		err = goerror.ErrNotFound
		return err
	}

	return nil
}

// ConsumeChallenge clears the challenge only if it still has hash and is
// unexpired at now. goerror.ErrNotFound means nothing was consumed.
func (s *DB) ConsumeChallenge(ctx context.Context, id int64, hash string, now time.Time) (_ *entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "ConsumeChallenge")
	defer func() { s.endSpan(span, err) }()

	acc, err := scanAccount(s.conn.QueryRow(ctx, queryConsumeChallenge, id, hash, now))
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}

	return acc, nil
}

// ClearChallenge removes the challenge only while it still has hash, so a
// newer challenge is left alone.
func (s *DB) ClearChallenge(ctx context.Context, id int64, hash string) (err error) {
	ctx, span := s.startSpan(ctx, "ClearChallenge")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryClearChallenge, id, hash)
	err = s.mapError(err)
	return err
}

// SweepExpired clears every challenge that expired at or before now.
func (s *DB) SweepExpired(ctx context.Context, now time.Time) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "SweepExpired")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, querySweepChallenges, now)
	if err != nil {
		err = s.mapError(err)
		return 0, err
	}

	return tag.RowsAffected(), nil
}
