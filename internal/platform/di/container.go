// internal/platform/di/container.go
package di

import (
	"context"
	"fmt"
	"log"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"

	query "storefront/internal/application/query/storefront"
	usecase "storefront/internal/application/usecase"

	"storefront/internal/adapters/in/http/middleware"
	outfs "storefront/internal/adapters/out/firestore"
	gcso "storefront/internal/adapters/out/gcs"

	cartdom "storefront/internal/domain/cart"
	"storefront/internal/domain/pricing"
	proddom "storefront/internal/domain/product"

	"storefront/internal/infra/config"
	"storefront/internal/infra/database"
	firestoreinfra "storefront/internal/infra/firestore"
)

// Container wires repositories, queries and usecases.
// Pure DI: build deps only, no routing branching.
type Container struct {
	Cfg *config.Config

	FS  *firestoreinfra.ClientWrapper
	DB  *database.DB
	GCS *storage.Client

	FirebaseAuth *middleware.FirebaseAuthClient

	ProductRepo proddom.Repository
	CartRepo    cartdom.Repository

	ProductQ *query.ProductDetailQuery
	CartQ    *query.CartQuery
	CartUC   *usecase.CartUsecase
}

// NewContainer builds the full dependency graph. Firestore is the default
// catalog backend; CATALOG_BACKEND=postgres switches both repositories to the
// SQL implementations.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		cfg = config.Load()
	}
	cont := &Container{Cfg: cfg}

	// 1) backing stores
	switch strings.ToLower(strings.TrimSpace(cfg.CatalogBackend)) {
	case "", "firestore":
		fs, err := firestoreinfra.NewClient(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("di: firestore init failed: %w", err)
		}
		cont.FS = fs
		cont.ProductRepo = outfs.NewProductRepositoryFS(fs.Client)
		cont.CartRepo = outfs.NewCartRepositoryFS(fs.Client)
		log.Printf("[di] catalog backend: firestore")

	case "postgres":
		dsn, err := resolveDSN(ctx, cfg)
		if err != nil {
			return nil, err
		}
		db, err := database.NewConnection(dsn)
		if err != nil {
			return nil, fmt.Errorf("di: postgres init failed: %w", err)
		}
		cont.DB = db
		cont.ProductRepo = outfs.NewProductRepositoryPG(db.Client)
		cont.CartRepo = outfs.NewCartRepositoryPG(db.Client)
		log.Printf("[di] catalog backend: postgres")

	default:
		return nil, fmt.Errorf("di: unknown CATALOG_BACKEND %q", cfg.CatalogBackend)
	}

	// 2) Firebase Auth. With RequireAuth (the default) a failed init is
	// fatal; only REQUIRE_AUTH=false leaves cart routes on the
	// X-Shopper-Id dev path.
	fbApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID})
	if err == nil {
		var authClient *middleware.FirebaseAuthClient
		authClient, err = fbApp.Auth(ctx)
		if err == nil {
			cont.FirebaseAuth = authClient
			log.Printf("[di] Firebase Auth initialized")
		}
	}
	if err != nil {
		if cfg.RequireAuth {
			_ = cont.Close()
			return nil, fmt.Errorf("di: firebase auth init failed (REQUIRE_AUTH): %w", err)
		}
		log.Printf("[di] WARN: firebase auth init failed: %v (REQUIRE_AUTH=false, cart routes accept X-Shopper-Id)", err)
	}

	// 3) gallery image resolver (optional)
	var productOpts []query.ProductDetailQueryOption
	if strings.TrimSpace(cfg.GCSBucket) != "" {
		gcsClient, err := storage.NewClient(ctx)
		if err != nil {
			log.Printf("[di] WARN: gcs init failed: %v (gallery refs served raw)", err)
		} else {
			cont.GCS = gcsClient
			resolver := gcso.NewGalleryResolverGCS(gcsClient, cfg.GCSBucket)
			resolver.Signed = cfg.GCSSignedURLs
			productOpts = append(productOpts, query.WithImageResolver(resolver))
			log.Printf("[di] GCS gallery resolver initialized (bucket=%s signed=%t)", cfg.GCSBucket, cfg.GCSSignedURLs)
		}
	}

	// 4) application layer
	fmtr := pricing.DefaultFormatter
	cont.ProductQ = query.NewProductDetailQuery(cont.ProductRepo, append(productOpts, query.WithFormatter(fmtr))...)
	cont.CartQ = query.NewCartQuery(cont.CartRepo, cont.ProductRepo, fmtr)
	cont.CartUC = usecase.NewCartUsecase(cont.CartRepo, cont.ProductRepo, fmtr)

	return cont, nil
}

// resolveDSN prefers the Secret Manager secret; discrete PG_* vars are the
// local-dev fallback.
func resolveDSN(ctx context.Context, cfg *config.Config) (string, error) {
	if sid := strings.TrimSpace(cfg.PGDSNSecret); sid != "" {
		sm, err := secretmanager.NewClient(ctx)
		if err != nil {
			return "", fmt.Errorf("di: secretmanager init failed: %w", err)
		}
		defer func() { _ = sm.Close() }()

		provider := &dsnSecretProviderSM{
			sm:        sm,
			projectID: cfg.FirestoreProjectID,
			secretID:  sid,
			version:   "latest",
		}
		dsn, err := provider.DSN(ctx)
		if err != nil {
			return "", err
		}
		log.Printf("[di] postgres DSN loaded from Secret Manager (secret=%s)", sid)
		return dsn, nil
	}

	return database.BuildDSN(cfg.PGHost, cfg.PGPort, cfg.PGUser, cfg.PGPassword, cfg.PGDatabase), nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var first error
	if c.GCS != nil {
		if err := c.GCS.Close(); err != nil && first == nil {
			first = err
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil && first == nil {
			first = err
		}
	}
	if c.FS != nil {
		if err := c.FS.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
