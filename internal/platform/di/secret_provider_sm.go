// internal/platform/di/secret_provider_sm.go
package di

import (
	"context"
	"errors"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

var errSecretProviderNotConfigured = errors.New("di: dsnSecretProviderSM not configured")

// dsnSecretProviderSM reads the Postgres DSN from Secret Manager. Used only
// when CATALOG_BACKEND=postgres and PG_DSN_SECRET names a secret.
type dsnSecretProviderSM struct {
	sm        *secretmanager.Client
	projectID string
	secretID  string
	version   string
}

func (p *dsnSecretProviderSM) DSN(ctx context.Context) (string, error) {
	if p == nil || p.sm == nil {
		return "", errSecretProviderNotConfigured
	}
	prj := strings.TrimSpace(p.projectID)
	if prj == "" {
		return "", errors.New("dsnSecretProviderSM: projectID is empty")
	}
	sid := strings.TrimSpace(p.secretID)
	if sid == "" {
		return "", errors.New("dsnSecretProviderSM: secretID is empty")
	}
	ver := strings.TrimSpace(p.version)
	if ver == "" {
		ver = "latest"
	}

	name := "projects/" + prj + "/secrets/" + sid + "/versions/" + ver
	resp, err := p.sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", errors.New("dsnSecretProviderSM: AccessSecretVersion failed (" + name + "): " + err.Error())
	}
	if resp == nil || resp.Payload == nil {
		return "", errors.New("dsnSecretProviderSM: empty payload (" + name + ")")
	}
	return strings.TrimSpace(string(resp.Payload.Data)), nil
}
