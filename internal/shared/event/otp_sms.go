package event

import "time"

const OtpSmsDestination string = "account_otp_sms"

// OtpSmsMessage asks the SMS gateway to deliver a one-time passcode.
type OtpSmsMessage struct {
	Mobile    string    `json:"mobile"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}
