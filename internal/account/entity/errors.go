package entity

import (
	"fmt"

	"github.com/shandysiswandi/otpauth/internal/pkg/goerror"
)

// Both wrap goerror.ErrConflict.
var (
	ErrEmailTaken  = fmt.Errorf("account: email taken: %w", goerror.ErrConflict)
	ErrMobileTaken = fmt.Errorf("account: mobile taken: %w", goerror.ErrConflict)
)
