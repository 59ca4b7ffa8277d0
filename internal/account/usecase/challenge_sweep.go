package usecase

import (
	"context"
	"log/slog"
)

// SweepExpiredChallenges clears every challenge that is past its expiry.
func (s *Usecase) SweepExpiredChallenges(ctx context.Context) (int64, error) {
	ctx, span := s.startSpan(ctx, "SweepExpiredChallenges")
	defer span.End()

	n, err := s.repoDB.SweepExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}

	if n > 0 {
		slog.InfoContext(ctx, "swept expired otp challenges", "count", n)
	}

	return n, nil
}

// StartChallengeSweeper runs SweepExpiredChallenges every
// modules.account.sweep_interval_seconds until ctx is done. It reports false
// when the interval is not positive.
func (s *Usecase) StartChallengeSweeper(ctx context.Context) bool {
	interval := s.cfg.GetSecond("modules.account.sweep_interval_seconds")

	return s.goroutine.Every(ctx, "account.challenge_sweeper", interval, func(ctx context.Context) error {
		_, err := s.SweepExpiredChallenges(ctx)
		return err
	})
}
