// Package jwt issues and verifies HS512 session tokens.
//
// A token carries the account ID as the subject plus the email and role, and
// always expires. Verified claims travel through request contexts via SetAuth
// and GetAuth.
package jwt
