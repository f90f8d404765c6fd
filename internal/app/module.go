package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/gatekeep/internal/member"
)

func (a *App) initModules() {
	if a.store.Current().GetBool("modules.member.enabled") {
		if err := member.New(a.ctx, member.Dependency{
			Router:      a.router,
			Classifier:  a.classifier,
			Store:       a.store,
			Idempotency: a.idemp,
			Instrument:  a.ins,
			UID:         a.uid,
			Clock:       a.clock,
			DBConn:      a.dbConn,
		}); err != nil {
			slog.Error("failed to init module member", "error", err)
			os.Exit(1)
		}
	}
}
