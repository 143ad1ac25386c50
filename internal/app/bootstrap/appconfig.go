// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig handles
// framework-level settings (ports, TLS, logging, CORS, timeouts); AppConfig
// is everything specific to StrataDesk.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in pool (default: 100)
	MongoMinPoolSize uint64 // Minimum connections to keep warm (default: 10)

	// API key authentication. Every /api/desktop/* caller must present this
	// as a Bearer token. The caller is a trusted backend, not an end user.
	APIKey             string
	CORSAllowedOrigins []string

	// Desktop engine configuration
	QuotaLimitBytes int64         // Per-user storage quota (default: 1 GiB)
	TrashRetention  time.Duration // How long trashed items survive (default: 720h)
	SnapshotTTL     time.Duration // Public projection cache TTL (default: 5m)

	// Background job configuration
	AuditRetention time.Duration // How long desktop audit events are kept (default: 2160h / 90 days)

	// Blob storage configuration. Uploaded file bytes live here; the engine
	// only tracks their keys and sizes.
	StorageType      string // Storage backend: "local" or "s3"
	StorageLocalPath string // Local storage path (e.g., "./blobs")
	StorageLocalURL  string // URL prefix for serving local files (e.g., "/blobs")

	// S3/CloudFront configuration (only used if StorageType is "s3")
	StorageS3Region    string // AWS region
	StorageS3Bucket    string // S3 bucket name
	StorageS3Prefix    string // Key prefix (e.g., "blobs/")
	StorageCFURL       string // CloudFront distribution URL
	StorageCFKeyPairID string // CloudFront key pair ID
	StorageCFKeyPath   string // Path to CloudFront private key file
}
