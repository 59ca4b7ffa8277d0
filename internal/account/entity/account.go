package entity

import "time"

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	PinCode string `json:"pin_code"`
}

// OtpChallenge is the pending one-time passcode of an account. Only the hash
// of the code is kept.
type OtpChallenge struct {
	Hash      string
	ExpiresAt time.Time
}

// Valid reports whether the challenge is still usable at now.
func (c *OtpChallenge) Valid(now time.Time) bool {
	return c != nil && c.Hash != "" && now.Before(c.ExpiresAt)
}

type Account struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Mobile    string
	Profile   string
	Role      Role
	Status    Status
	Addresses []Address
	Challenge *OtpChallenge
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Public returns the redacted view of a. profileURL replaces the stored
// profile reference.
func (a *Account) Public(profileURL string) PublicAccount {
	addrs := make([]Address, len(a.Addresses))
	copy(addrs, a.Addresses)

	return PublicAccount{
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		Mobile:    a.Mobile,
		Profile:   profileURL,
		Role:      a.Role,
		Status:    a.Status,
		Addresses: addrs,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// PublicAccount never carries challenge state.
type PublicAccount struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Mobile    string
	Profile   string
	Role      Role
	Status    Status
	Addresses []Address
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionClaims is what a session token asserts about its holder.
type SessionClaims struct {
	SubjectID int64
	Email     string
	Role      Role
}

// Channel is where a code is delivered.
type Channel int8

const (
	ChannelEmail Channel = iota + 1
	ChannelMobile
)

func (c Channel) String() string {
	switch c {
	case ChannelEmail:
		return "email"
	case ChannelMobile:
		return "mobile"
	default:
		return "unknown"
	}
}

// Identity is a resolved login identifier.
type Identity struct {
	Channel Channel
	Value   string
}
