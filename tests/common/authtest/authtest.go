//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"studiobook/internal/pkg/config"
	"studiobook/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TokenFor signs an access token the way the identity service would.
// This service only validates tokens, so tests mint their own with the
// shared secret instead of driving a login endpoint.
func TokenFor(t *testing.T, cfg config.Config, userID uuid.UUID, role string) string {
	t.Helper()

	token, err := jwt.NewService(cfg.JWT.Secret).IssueForTest(userID, role, time.Hour)
	require.NoError(t, err, "failed to sign test token")
	return token
}
