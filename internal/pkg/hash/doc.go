// Package hash turns short-lived secrets into one-way digests and checks
// plaintext candidates against them.
//
// Only the digest is persisted. Bcrypt is the default; Argon2id is available
// for deployments that prefer a memory-hard function.
package hash
