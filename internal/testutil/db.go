// Package testutil provides the shared MongoDB harness for store tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/stratadesk/internal/app/system/indexes"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TestDBName prefixes every per-test database name.
const TestDBName = "stratadesk_test"

// URI returns the MongoDB connection string for tests. Override with
// STRATADESK_TEST_MONGO_URI when the local instance is not on the default
// port.
func URI() string {
	if uri := os.Getenv("STRATADESK_TEST_MONGO_URI"); uri != "" {
		return uri
	}
	return "mongodb://localhost:27017"
}

var (
	clientOnce sync.Once
	client     *mongo.Client
	clientErr  error
)

// getClient connects once and shares the client across all store tests in
// the binary. The pool is sized for parallel test execution.
func getClient() (*mongo.Client, error) {
	clientOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		opts := options.Client().
			ApplyURI(URI()).
			SetMaxPoolSize(200).
			SetMaxConnIdleTime(30 * time.Second).
			SetServerSelectionTimeout(10 * time.Second)

		client, clientErr = mongo.Connect(ctx, opts)
		if clientErr != nil {
			return
		}
		clientErr = client.Ping(ctx, nil)
	})
	return client, clientErr
}

// SetupTestDB returns a clean database named after the calling test, with
// the production indexes applied. The database is dropped again in t.Cleanup
// so parallel tests across packages never collide.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	cl, err := getClient()
	if err != nil {
		t.Fatalf("connect to test MongoDB: %v", err)
	}

	db := cl.Database(fmt.Sprintf("%s_%s", TestDBName, dbNameSuffix(t.Name())))

	ctx, cancel := TestContext()
	defer cancel()

	if err := db.Drop(ctx); err != nil {
		t.Fatalf("drop test database: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("create indexes: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Drop(ctx); err != nil {
			t.Logf("drop test database on cleanup: %v", err)
		}
	})

	return db
}

// dbNameSuffix maps a test name onto characters Mongo accepts in database
// names, truncated so prefix+suffix stays under the 63-character limit.
func dbNameSuffix(name string) string {
	s := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	const maxLen = 46
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}

// TestContext returns a context with a timeout suited to test database
// operations.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
