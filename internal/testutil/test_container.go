//go:build integration

package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"
)

var (
	sharedMongo     *MongoDBContainer
	sharedMongoErr  error
	sharedMongoOnce sync.Once

	sharedRedis     *RedisContainer
	sharedRedisErr  error
	sharedRedisOnce sync.Once

	sharedMu sync.RWMutex
)

// GetSharedMongoDB returns a MongoDB container shared by every test in the package.
func GetSharedMongoDB(ctx context.Context) (*MongoDBContainer, error) {
	sharedMongoOnce.Do(func() {
		c, err := SetupMongoDB(ctx)
		sharedMu.Lock()
		sharedMongo, sharedMongoErr = c, err
		sharedMu.Unlock()
	})

	sharedMu.RLock()
	defer sharedMu.RUnlock()
	return sharedMongo, sharedMongoErr
}

// GetSharedRedis returns a Redis container shared by every test in the package.
func GetSharedRedis(ctx context.Context) (*RedisContainer, error) {
	sharedRedisOnce.Do(func() {
		c, err := SetupRedis(ctx)
		sharedMu.Lock()
		sharedRedis, sharedRedisErr = c, err
		sharedMu.Unlock()
	})

	sharedMu.RLock()
	defer sharedMu.RUnlock()
	return sharedRedis, sharedRedisErr
}

// CleanupSharedContainers terminates whichever shared containers were started.
func CleanupSharedContainers(ctx context.Context) error {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	var errs []string
	if sharedMongo != nil {
		if err := sharedMongo.Cleanup(ctx); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if sharedRedis != nil {
		if err := sharedRedis.Cleanup(ctx); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("cleanup: %s", strings.Join(errs, "; "))
	}
	return nil
}

// SetupTestMainWithMongoDB starts a shared MongoDB container around m.Run.
//
//	func TestMain(m *testing.M) {
//		os.Exit(testutil.SetupTestMainWithMongoDB(context.Background(), m))
//	}
func SetupTestMainWithMongoDB(ctx context.Context, m *testing.M) int {
	if _, err := GetSharedMongoDB(ctx); err != nil {
		panic(err)
	}
	return runAndCleanup(ctx, m)
}

// SetupTestMainWithContainers starts shared MongoDB and Redis containers around m.Run.
func SetupTestMainWithContainers(ctx context.Context, m *testing.M) int {
	if _, err := GetSharedMongoDB(ctx); err != nil {
		panic(err)
	}
	if _, err := GetSharedRedis(ctx); err != nil {
		_ = CleanupSharedContainers(ctx)
		panic(err)
	}
	return runAndCleanup(ctx, m)
}

func runAndCleanup(ctx context.Context, m *testing.M) int {
	code := m.Run()
	if err := CleanupSharedContainers(ctx); err != nil {
		// Docker reaps the containers eventually
		_, _ = os.Stderr.WriteString("Warning: " + err.Error() + "\n")
	}
	return code
}

// GetSharedContainerURI returns the URI of the shared MongoDB container.
func GetSharedContainerURI() string {
	sharedMu.RLock()
	defer sharedMu.RUnlock()

	if sharedMongo == nil {
		panic("shared MongoDB container not initialized - call GetSharedMongoDB first")
	}
	return sharedMongo.URI
}

// GetSharedRedisAddr returns the host:port of the shared Redis container.
func GetSharedRedisAddr() string {
	sharedMu.RLock()
	defer sharedMu.RUnlock()

	if sharedRedis == nil {
		panic("shared Redis container not initialized - call GetSharedRedis first")
	}
	return sharedRedis.Addr
}

// SanitizeDBName turns a test name into a unique, valid MongoDB database name.
func SanitizeDBName(testName string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '.', ' ', '"', '$':
			return '_'
		}
		return r
	}, testName)

	if len(sanitized) > 50 {
		sanitized = sanitized[:50]
	}

	return fmt.Sprintf("%s_%d", sanitized, time.Now().UnixNano()%1000000)
}
