package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/otpauth/internal/account"
)

func (a *App) initModules() {
	if !a.config.GetBool("modules.account.enabled") {
		slog.Warn("module account disabled, no routes registered")
		return
	}

	if err := account.New(a.ctx, account.Dependency{
		DBConn:      a.dbConn,
		Goroutine:   a.goroutine,
		Router:      a.router,
		Idempotency: a.idemp,
		Mail:        a.mail,
		Messaging:   a.messaging,
		Storage:     a.storage,
		Config:      a.config,
		Instrument:  a.ins,
		UID:         a.uid,
		Hash:        a.hash,
		Clock:       a.clock,
		OTP:         a.otp,
		Validator:   a.validator,
		JWT:         a.jwt,
	}); err != nil {
		slog.Error("failed to init module account", "error", err)
		os.Exit(1)
	}
}
