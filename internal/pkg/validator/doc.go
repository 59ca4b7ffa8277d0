// Package validator checks struct tags on usecase inputs and reports failures
// as a field-to-message map.
//
// Usecases depend on the Validator interface; V10Validator is the
// go-playground implementation with English messages and the custom "mobile"
// rule.
package validator
