// Package clock hides time.Now behind an interface so expiry checks can run
// against a fixed instant in tests.
package clock
