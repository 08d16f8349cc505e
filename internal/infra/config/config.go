// internal/infra/config/config.go
package config

import "os"

// Config holds the process-wide environment configuration.
type Config struct {
	Port string

	FirestoreProjectID       string
	FirestoreCredentialsFile string

	// Firebase Auth project (shopper ID tokens)
	FirebaseProjectID string

	// RequireAuth makes a failed Firebase Auth init fatal instead of
	// leaving cart routes on the X-Shopper-Id dev path. On by default;
	// set REQUIRE_AUTH=false for local development only.
	RequireAuth bool

	// product gallery bucket
	GCSBucket     string
	GCSSignedURLs bool

	// CATALOG_BACKEND selects the repository implementation:
	//   "firestore" (default) or "postgres"
	CatalogBackend string

	// Postgres, used when CatalogBackend == "postgres". Either a Secret
	// Manager secret holding the full DSN, or discrete parts.
	PGDSNSecret string
	PGHost      string
	PGPort      string
	PGUser      string
	PGPassword  string
	PGDatabase  string
}

// Load reads environment variables and returns the Config.
func Load() *Config {
	defaultProject := getenvDefault("GCP_PROJECT_ID", "storefront-development")

	return &Config{
		Port: getenvDefault("PORT", "8080"),

		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),

		FirebaseProjectID: getenvDefault("FIREBASE_PROJECT_ID", defaultProject),
		RequireAuth:       getenvDefault("REQUIRE_AUTH", "true") != "false",

		GCSBucket:     os.Getenv("GCS_BUCKET"),
		GCSSignedURLs: os.Getenv("GCS_SIGNED_URLS") == "true",

		CatalogBackend: getenvDefault("CATALOG_BACKEND", "firestore"),

		PGDSNSecret: os.Getenv("PG_DSN_SECRET"),
		PGHost:      getenvDefault("PG_HOST", "localhost"),
		PGPort:      getenvDefault("PG_PORT", "5432"),
		PGUser:      getenvDefault("PG_USER", "postgres"),
		PGPassword:  os.Getenv("PG_PASSWORD"),
		PGDatabase:  getenvDefault("PG_DATABASE", "storefront"),
	}
}

func (c *Config) GetFirestoreProjectID() string {
	return c.FirestoreProjectID
}

func (c *Config) GetFirebaseProjectID() string {
	return c.FirebaseProjectID
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
