// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/stratadesk/internal/app/engine"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
const EnvVarPrefix = "STRATADESK"

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, api_key, etc.
//   - Environment variables: STRATADESK_MONGO_URI, STRATADESK_API_KEY, etc.
//   - Command-line flags: --mongo_uri, --api_key, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "stratadesk", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// API key for the desktop API (Bearer token auth)
	{Name: "api_key", Default: "", Desc: "API key for desktop API access (empty rejects all API requests)"},
	{Name: "cors_allowed_origins", Default: "", Desc: "Comma-separated CORS origin allow-list for the desktop API (empty allows any origin)"},

	// Desktop engine settings
	{Name: "quota_limit_bytes", Default: 0, Desc: "Per-user storage quota in bytes (0 uses the 1 GiB default)"},
	{Name: "trash_retention", Default: "720h", Desc: "How long trashed items survive before the sweep destroys them"},
	{Name: "snapshot_ttl", Default: "5m", Desc: "Public projection cache TTL"},

	// Background jobs
	{Name: "audit_retention", Default: "2160h", Desc: "How long desktop audit events are kept (default: 90 days)"},

	// Blob storage configuration
	{Name: "storage_type", Default: "local", Desc: "Storage backend: 'local' or 's3'"},
	{Name: "storage_local_path", Default: "./blobs", Desc: "Local storage path for uploaded blobs"},
	{Name: "storage_local_url", Default: "/blobs", Desc: "URL prefix for serving local blobs"},

	// S3/CloudFront configuration
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "storage_s3_prefix", Default: "blobs/", Desc: "S3 key prefix"},
	{Name: "storage_cf_url", Default: "", Desc: "CloudFront distribution URL"},
	{Name: "storage_cf_keypair_id", Default: "", Desc: "CloudFront key pair ID"},
	{Name: "storage_cf_key_path", Default: "", Desc: "Path to CloudFront private key file"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, STRATADESK_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		APIKey:             appValues.String("api_key"),
		CORSAllowedOrigins: splitOrigins(appValues.String("cors_allowed_origins")),

		QuotaLimitBytes: int64(appValues.Int("quota_limit_bytes")),
		TrashRetention:  appValues.Duration("trash_retention", engine.DefaultTrashRetention),
		SnapshotTTL:     appValues.Duration("snapshot_ttl", engine.DefaultSnapshotTTL),

		AuditRetention: appValues.Duration("audit_retention", 90*24*time.Hour),

		StorageType:      appValues.String("storage_type"),
		StorageLocalPath: appValues.String("storage_local_path"),
		StorageLocalURL:  appValues.String("storage_local_url"),

		StorageS3Region:    appValues.String("storage_s3_region"),
		StorageS3Bucket:    appValues.String("storage_s3_bucket"),
		StorageS3Prefix:    appValues.String("storage_s3_prefix"),
		StorageCFURL:       appValues.String("storage_cf_url"),
		StorageCFKeyPairID: appValues.String("storage_cf_keypair_id"),
		StorageCFKeyPath:   appValues.String("storage_cf_key_path"),
	}

	return coreCfg, appCfg, nil
}

// splitOrigins parses a comma-separated origin list, dropping empty entries.
func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.QuotaLimitBytes < 0 {
		return fmt.Errorf("quota_limit_bytes must be non-negative, got %d", appCfg.QuotaLimitBytes)
	}
	if appCfg.TrashRetention <= 0 {
		return fmt.Errorf("trash_retention must be positive, got %s", appCfg.TrashRetention)
	}
	if appCfg.SnapshotTTL <= 0 {
		return fmt.Errorf("snapshot_ttl must be positive, got %s", appCfg.SnapshotTTL)
	}

	if appCfg.APIKey == "" {
		logger.Warn("api_key is not set; all desktop API requests will be rejected")
	}

	return nil
}
