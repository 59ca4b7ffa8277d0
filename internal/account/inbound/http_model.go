package inbound

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/shandysiswandi/otpauth/internal/account/entity"
)

type AddressRequest struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	PinCode string `json:"pin_code"`
}

// Mobile is a mobile number sent as a JSON number, a string or null. An empty
// string decodes to the zero value, which the usecase treats as absent. The
// format itself is checked by the usecase so the caller gets a field error.
type Mobile string

func (m *Mobile) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*m = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = Mobile(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*m = Mobile(n.String())

	return nil
}

func (m Mobile) String() string { return string(m) }

type RegisterRequest struct {
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	Email     string           `json:"email"`
	Mobile    Mobile           `json:"mobile" swaggertype:"string" example:"919876543210"`
	Profile   string           `json:"profile"`
	Role      string           `json:"role" enums:"Admin,Customer,Vendor"`
	Status    string           `json:"status" enums:"Active,Suspended"`
	Addresses []AddressRequest `json:"addresses"`
}

type RequestOtpRequest struct {
	Email  string `json:"email"`
	Mobile Mobile `json:"mobile" swaggertype:"string"`
}

type VerifyOtpRequest struct {
	Email  string `json:"email"`
	Mobile Mobile `json:"mobile" swaggertype:"string"`
	Otp    string `json:"otp" example:"482913"`
}

type AddressResponse struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	PinCode string `json:"pin_code"`
}

type AccountResponse struct {
	ID        int64             `json:"id,string"`
	FirstName string            `json:"first_name"`
	LastName  string            `json:"last_name"`
	Email     string            `json:"email"`
	Mobile    string            `json:"mobile"`
	Profile   *string           `json:"profile"`
	Role      string            `json:"role"`
	Status    string            `json:"status"`
	Addresses []AddressResponse `json:"addresses"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func newAccountResponse(a entity.PublicAccount) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		Mobile:    a.Mobile,
		Profile:   lo.EmptyableToPtr(a.Profile),
		Role:      a.Role.String(),
		Status:    a.Status.String(),
		Addresses: lo.Map(a.Addresses, func(addr entity.Address, _ int) AddressResponse {
			return AddressResponse{Street: addr.Street, City: addr.City, State: addr.State, PinCode: addr.PinCode}
		}),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

type RegisterResponse struct {
	Account AccountResponse `json:"account"`

	message string
}

func (r RegisterResponse) Message() string { return r.message }

type RequestOtpResponse struct {
	ExpiresAt time.Time `json:"expires_at"`

	message string
}

func (r RequestOtpResponse) Message() string { return r.message }

type VerifyOtpResponse struct {
	Token   string          `json:"token"`
	Account AccountResponse `json:"account"`
}

func (VerifyOtpResponse) Message() string { return "Login successful" }

type SessionResponse struct {
	Account   AccountResponse `json:"account"`
	Role      string          `json:"role"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
}

func (SessionResponse) Message() string { return "Session is active" }
