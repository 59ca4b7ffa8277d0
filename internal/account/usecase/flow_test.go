package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/shandysiswandi/otpauth/internal/pkg/goerror"
)

func TestUsecase_OtpStateMachine(t *testing.T) {
	ctx := context.Background()
	mem := newMemDB()
	f := newFixture(t, withRepoDB(mem))
	f.notify.On("SendEmailOtp", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.storage.On("PresignGet", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("https://signed", nil)

	// Unregistered -> Registered
	reg, err := f.uc.Register(ctx, validRegisterInput())
	require.NoError(t, err)
	id := reg.Account.ID

	_, err = f.uc.VerifyOtpAndLogin(ctx, VerifyOtpInput{Email: "ada@example.com", Code: "482913"})
	assertBusiness(t, err, goerror.CodeUnauthorized, "Invalid or expired OTP")

	// Registered -> ChallengeIssued
	_, err = f.uc.RequestOtp(ctx, RequestOtpInput{Email: "ada@example.com"})
	require.NoError(t, err)

	// ChallengeIssued -> Authenticated -> Registered
	out, err := f.uc.VerifyOtpAndLogin(ctx, VerifyOtpInput{Email: "ada@example.com", Code: "482913"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)

	acc, err := mem.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, acc.Challenge)

	// single use
	_, err = f.uc.VerifyOtpAndLogin(ctx, VerifyOtpInput{Email: "ada@example.com", Code: "482913"})
	assertBusiness(t, err, goerror.CodeUnauthorized, "Invalid or expired OTP")

	// expiry
	_, err = f.uc.RequestOtp(ctx, RequestOtpInput{Email: "ada@example.com"})
	require.NoError(t, err)
	f.clock.Advance(5 * time.Minute)

	_, err = f.uc.VerifyOtpAndLogin(ctx, VerifyOtpInput{Email: "ada@example.com", Code: "482913"})
	assertBusiness(t, err, goerror.CodeUnauthorized, "Invalid or expired OTP")

	swept, err := f.uc.SweepExpiredChallenges(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), swept)
}

func TestUsecase_VerifyOtpAndLogin_Concurrent(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mem := newMemDB(*ada())
	f := newFixture(t, withRepoDB(mem))
	f.notify.On("SendEmailOtp", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	_, err := f.uc.RequestOtp(ctx, RequestOtpInput{Email: "ada@example.com"})
	require.NoError(t, err)

	wins := atomic.NewInt32(0)
	rejected := atomic.NewInt32(0)

	// Act
	var wg sync.WaitGroup
	for range 10 {
		wg.Go(func() {
			_, err := f.uc.VerifyOtpAndLogin(ctx, VerifyOtpInput{Email: "ada@example.com", Code: "482913"})
			if err == nil {
				wins.Inc()
				return
			}
			if goerror.CodeOf(err) == goerror.CodeUnauthorized {
				rejected.Inc()
			}
		})
	}
	wg.Wait()

	// Assert
	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, int32(9), rejected.Load())
}

func TestUsecase_StartChallengeSweeper(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	assert.True(t, f.uc.StartChallengeSweeper(ctx))

	cancel()
	assert.NoError(t, f.uc.goroutine.Wait())
}
