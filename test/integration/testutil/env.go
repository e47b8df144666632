package testutil

import (
	"fmt"
	"os"
	"testing"
	"time"

	"carrental/pkg/client"
)

const DefaultHealthCheckTimeout = 30 * time.Second

// TestEnv describes a running API. The admin account must match the
// server's ADMIN_EMAIL and ADMIN_PASSWORD bootstrap settings.
type TestEnv struct {
	MongoURI      string
	DatabaseName  string
	ServerURL     string
	AdminEmail    string
	AdminPassword string
}

func NewTestEnv() *TestEnv {
	port := getEnv("TEST_SERVER_PORT", "8080")
	return &TestEnv{
		MongoURI:      getEnv("TEST_MONGO_URI", DefaultMongoURI),
		DatabaseName:  getEnv("TEST_DB_NAME", DefaultDatabaseName),
		ServerURL:     getEnv("TEST_SERVER_URL", fmt.Sprintf("http://localhost:%s", port)),
		AdminEmail:    getEnv("TEST_ADMIN_EMAIL", "admin@rental.io"),
		AdminPassword: getEnv("TEST_ADMIN_PASSWORD", "admin-secret"),
	}
}

// Setup waits for the server and returns an anonymous client plus one
// logged in as the bootstrap admin.
func (e *TestEnv) Setup(t *testing.T) (anon *client.RentalClient, admin *client.RentalClient) {
	t.Helper()

	anon = client.NewRentalClient(e.ServerURL)
	if err := anon.HTTP().WaitForHealthy(DefaultHealthCheckTimeout); err != nil {
		t.Skipf("API not reachable at %s: %v", e.ServerURL, err)
	}

	admin, _, err := anon.LoginAs(e.AdminEmail, e.AdminPassword)
	if err != nil {
		t.Fatalf("admin login failed: %v", err)
	}
	return anon, admin
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
