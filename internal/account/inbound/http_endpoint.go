package inbound

import (
	"github.com/samber/lo"

	"github.com/shandysiswandi/otpauth/internal/account/usecase"
	"github.com/shandysiswandi/otpauth/internal/pkg/router"
)

// HTTPEndpoint exposes the OTP login flow over HTTP.
type HTTPEndpoint struct {
	uc uc
}

// Register creates an account.
// @Summary Register account
// @Description Creates an account with role Customer and status Active unless given. Send Idempotency-Key to make retries safe.
// @Tags Account
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Client generated request key"
// @Param request body RegisterRequest true "Register payload"
// @Success 200 {object} router.successResponse{data=RegisterResponse} "Registration successful"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 409 {object} router.errorResponse "Email already exists"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/account/register [post]
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Register(r.Context(), usecase.RegisterInput{
		IdempotencyKey: r.GetHeader("Idempotency-Key"),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Mobile:         req.Mobile.String(),
		Profile:        req.Profile,
		Role:           req.Role,
		Status:         req.Status,
		Addresses: lo.Map(req.Addresses, func(a AddressRequest, _ int) usecase.AddressInput {
			return usecase.AddressInput{Street: a.Street, City: a.City, State: a.State, PinCode: a.PinCode}
		}),
	})
	if err != nil {
		return nil, err
	}

	return RegisterResponse{
		Account: newAccountResponse(resp.Account),
		message: resp.Message,
	}, nil
}

// RequestOtp issues a one-time passcode to the account's email or mobile.
// @Summary Request OTP
// @Description Sends a one-time passcode to the email when it is valid, otherwise to the mobile number. A new request replaces any pending code.
// @Tags Account
// @Accept json
// @Produce json
// @Param request body RequestOtpRequest true "Identity payload"
// @Success 200 {object} router.successResponse{data=RequestOtpResponse} "OTP sent successfully"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 404 {object} router.errorResponse "User not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Failed to send OTP, please try again"
// @Router /api/v1/account/otp/request [post]
func (h *HTTPEndpoint) RequestOtp(r *router.Request) (any, error) {
	var req RequestOtpRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.RequestOtp(r.Context(), usecase.RequestOtpInput{
		Email:  req.Email,
		Mobile: req.Mobile.String(),
	})
	if err != nil {
		return nil, err
	}

	return RequestOtpResponse{
		ExpiresAt: resp.ExpiresAt,
		message:   resp.Message,
	}, nil
}

// VerifyOtp exchanges a valid passcode for a session token.
// @Summary Verify OTP and login
// @Description Consumes the pending passcode and returns a signed session token. A code works once.
// @Tags Account
// @Accept json
// @Produce json
// @Param request body VerifyOtpRequest true "Verification payload"
// @Success 200 {object} router.successResponse{data=VerifyOtpResponse} "Login successful"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid or expired OTP"
// @Failure 404 {object} router.errorResponse "User not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/account/otp/verify [post]
func (h *HTTPEndpoint) VerifyOtp(r *router.Request) (any, error) {
	var req VerifyOtpRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyOtpAndLogin(r.Context(), usecase.VerifyOtpInput{
		Email:  req.Email,
		Mobile: req.Mobile.String(),
		Code:   req.Otp,
	})
	if err != nil {
		return nil, err
	}

	return VerifyOtpResponse{
		Token:   resp.Token,
		Account: newAccountResponse(resp.Account),
	}, nil
}

// Session returns the account of the bearer token.
// @Summary Current session
// @Tags Account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} router.successResponse{data=SessionResponse} "Session is active"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 404 {object} router.errorResponse "User not found"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/account/session [get]
func (h *HTTPEndpoint) Session(r *router.Request) (any, error) {
	resp, err := h.uc.Session(r.Context())
	if err != nil {
		return nil, err
	}

	return SessionResponse{
		Account:   newAccountResponse(resp.Account),
		Role:      resp.Role.String(),
		ExpiresAt: lo.EmptyableToPtr(resp.ExpiresAt),
	}, nil
}
