// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/stratadesk/internal/app/engine"
	auditstore "github.com/dalemusser/stratadesk/internal/app/store/audit"
	desktopstore "github.com/dalemusser/stratadesk/internal/app/store/desktop"
	snapshotstore "github.com/dalemusser/stratadesk/internal/app/store/snapshot"
	"github.com/dalemusser/stratadesk/internal/app/system/tasks"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shared application state built in Startup and consumed by BuildHandler and
// Shutdown. WAFFLE runs these hooks sequentially, so no locking is needed.
var (
	desktopEngine *engine.Manager
	desktopStore  *desktopstore.Store
	auditLog      *auditstore.Store
	taskRunner    *tasks.Runner
)

// Startup runs once after DB connections and schema/index setup are
// complete, but before the HTTP handler is built and requests are served.
//
// It constructs the desktop engine over the Mongo-backed stores and starts
// the background task runner (trash sweep, audit prune).
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	desktopStore = desktopstore.New(deps.MongoDatabase)
	auditLog = auditstore.New(deps.MongoDatabase)
	cache := snapshotstore.New(deps.MongoDatabase)

	desktopEngine = engine.New(desktopStore, cache, engine.Config{
		QuotaLimit:     appCfg.QuotaLimitBytes,
		TrashRetention: appCfg.TrashRetention,
		SnapshotTTL:    appCfg.SnapshotTTL,
	}, logger)

	logger.Info("desktop engine initialized",
		zap.Int64("quota_limit_bytes", desktopEngine.QuotaLimit()),
		zap.Duration("trash_retention", desktopEngine.TrashRetention()),
	)

	taskRunner = tasks.New(logger)
	taskRunner.Register(tasks.TrashSweepJob(desktopEngine, desktopStore, deps.BlobStorage, auditLog, logger))
	taskRunner.Register(tasks.AuditPruneJob(auditLog, appCfg.AuditRetention, logger))
	taskRunner.Start()

	return nil
}
