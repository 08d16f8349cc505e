// internal/adapters/out/gcs/gallery_resolver_gcs.go
package gcs

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iamcredentials/v1"
)

// GalleryResolverGCS turns stored gallery object references into servable
// URLs.
//
// Layout (single bucket):
// - bucket: <project>-storefront-assets
// - objectPath: products/{productId}/<fileName>
//
// Resolution modes:
//   - Public bucket (IAM "allUsers: Storage Object Viewer"): plain
//     storage.googleapis.com URLs, no signing round-trip.
//   - Private bucket: V4 signed GET URLs via IAMCredentials SignBlob
//     (no JSON private key required; set GCS_SIGNER_EMAIL).
type GalleryResolverGCS struct {
	Client *storage.Client
	Bucket string

	// Signed switches to signed GET URLs. Leave false for public buckets.
	Signed bool

	// SignedTTL bounds the lifetime of signed URLs (default 10 min, max 1h).
	SignedTTL time.Duration

	// Optional: if empty, uses https://storage.googleapis.com
	PublicBaseURL string
}

func NewGalleryResolverGCS(client *storage.Client, bucket string) *GalleryResolverGCS {
	return &GalleryResolverGCS{
		Client:        client,
		Bucket:        strings.TrimSpace(bucket),
		PublicBaseURL: "https://storage.googleapis.com",
	}
}

// ResolveURL maps one object reference to a URL. References that already look
// like absolute URLs pass through untouched, so catalogs may mix external
// image hosts with bucket objects.
func (r *GalleryResolverGCS) ResolveURL(ctx context.Context, object string) (string, error) {
	if r == nil {
		return "", errors.New("gallery_resolver_gcs: resolver is nil")
	}
	obj := strings.TrimSpace(object)
	if obj == "" {
		return "", errors.New("gallery_resolver_gcs: object is empty")
	}
	if strings.HasPrefix(obj, "http://") || strings.HasPrefix(obj, "https://") {
		return obj, nil
	}
	b := strings.TrimSpace(r.Bucket)
	if b == "" {
		return "", errors.New("gallery_resolver_gcs: bucket is empty")
	}

	if r.Signed {
		return r.signedGetURL(ctx, b, obj)
	}
	return r.publicURL(b, obj), nil
}

// publicURL works when the bucket is publicly readable (uniform access via IAM).
func (r *GalleryResolverGCS) publicURL(bucket, objectPath string) string {
	base := strings.TrimSpace(r.PublicBaseURL)
	if base == "" {
		base = "https://storage.googleapis.com"
	}
	// Encode path but keep "/" separators.
	parts := strings.Split(objectPath, "/")
	for i := range parts {
		parts[i] = url.PathEscape(parts[i])
	}
	encoded := strings.Join(parts, "/")
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(base, "/"), bucket, encoded)
}

// signedGetURL issues a V4 signed URL for reading a private object.
//
// Required IAM:
//   - The runtime identity must be allowed to call iamcredentials.signBlob for
//     the signer SA (typically the same SA in Cloud Run).
func (r *GalleryResolverGCS) signedGetURL(ctx context.Context, bucket, objectPath string) (string, error) {
	ttl := r.SignedTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if ttl > time.Hour {
		ttl = time.Hour
	}

	accessID := strings.TrimSpace(firstNonEmptyEnv(
		"GCS_SIGNER_EMAIL",
		"GOOGLE_SERVICE_ACCOUNT_EMAIL",
		"SERVICE_ACCOUNT_EMAIL",
	))
	if accessID == "" {
		return "", errors.New("gallery_resolver_gcs: signer email not configured (set GCS_SIGNER_EMAIL)")
	}

	svc, err := iamcredentials.NewService(ctx)
	if err != nil {
		return "", fmt.Errorf("gallery_resolver_gcs: iamcredentials init failed: %w", err)
	}

	signBytes := func(bts []byte) ([]byte, error) {
		name := fmt.Sprintf("projects/-/serviceAccounts/%s", accessID)
		req := &iamcredentials.SignBlobRequest{
			Payload: base64.StdEncoding.EncodeToString(bts),
		}
		resp, err := svc.Projects.ServiceAccounts.SignBlob(name, req).Do()
		if err != nil {
			return nil, err
		}
		return base64.StdEncoding.DecodeString(resp.SignedBlob)
	}

	return storage.SignedURL(bucket, objectPath, &storage.SignedURLOptions{
		Scheme:         storage.SigningSchemeV4,
		Method:         "GET",
		GoogleAccessID: accessID,
		SignBytes:      signBytes,
		Expires:        time.Now().UTC().Add(ttl),
	})
}

func firstNonEmptyEnv(keys ...string) string {
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}
