package inbound

import (
	"context"

	"github.com/shandysiswandi/otpauth/internal/account/usecase"
	"github.com/shandysiswandi/otpauth/internal/pkg/router"
)

type uc interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.RegisterOutput, error)
	RequestOtp(ctx context.Context, in usecase.RequestOtpInput) (*usecase.RequestOtpOutput, error)
	VerifyOtpAndLogin(ctx context.Context, in usecase.VerifyOtpInput) (*usecase.VerifyOtpOutput, error)
	Session(ctx context.Context) (*usecase.SessionOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/account/register", end.Register)
	r.POST("/api/v1/account/otp/request", end.RequestOtp)
	r.POST("/api/v1/account/otp/verify", end.VerifyOtp)

	r.GET("/api/v1/account/session", end.Session, r.Authenticated())
}
