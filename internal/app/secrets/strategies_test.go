package secrets

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repolens/ingest/internal/config"
	"github.com/repolens/ingest/pkg/logger"
)

func testValidationConfig(endpoint string) config.ValidationConfig {
	return config.ValidationConfig{
		GitHubEndpoint:   endpoint,
		GitHubTimeout:    2 * time.Second,
		GitHubRatePerSec: 100,
		GitHubBurst:      10,
	}
}

// makeJWT builds an unsigned three-segment token for ParseUnverified.
func makeJWT(t *testing.T, claims map[string]any) string {
	t.Helper()

	encode := func(v any) string {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		return base64.RawURLEncoding.EncodeToString(data)
	}

	header := map[string]string{"alg": "none", "typ": "JWT"}
	return encode(header) + "." + encode(claims) + "."
}

func TestGitHubStrategy(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		active     *bool
	}{
		{"accepted token is active", http.StatusOK, boolPtr(true)},
		{"rejected token is inactive", http.StatusUnauthorized, boolPtr(false)},
		{"rate limited is unknown", http.StatusForbidden, nil},
		{"server error is unknown", http.StatusBadGateway, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotAuth string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			v := NewValidator(testValidationConfig(server.URL), logger.NewNop())
			verdict := v.Validate(context.Background(), "github-pat", "ghp_testtoken")

			assert.Equal(t, "token ghp_testtoken", gotAuth)
			if tt.active == nil {
				assert.Nil(t, verdict.Active)
			} else {
				require.NotNil(t, verdict.Active)
				assert.Equal(t, *tt.active, *verdict.Active)
			}
			assert.NotEmpty(t, verdict.Message)
		})
	}
}

func TestGitHubStrategyNetworkErrorIsUnknown(t *testing.T) {
	v := NewValidator(testValidationConfig("http://127.0.0.1:1"), logger.NewNop())
	verdict := v.Validate(context.Background(), "github", "ghp_whatever")
	assert.Nil(t, verdict.Active)
	assert.Contains(t, verdict.Message, "Network error")
}

func TestJWTStrategy(t *testing.T) {
	s := jwtStrategy{}
	ctx := context.Background()

	t.Run("expired token is inactive", func(t *testing.T) {
		token := makeJWT(t, map[string]any{"exp": time.Now().Add(-time.Hour).Unix()})
		verdict := s.Validate(ctx, token)
		require.NotNil(t, verdict.Active)
		assert.False(t, *verdict.Active)
		assert.Contains(t, verdict.Message, "expired")
	})

	t.Run("unexpired token is unknown", func(t *testing.T) {
		token := makeJWT(t, map[string]any{"exp": time.Now().Add(time.Hour).Unix()})
		verdict := s.Validate(ctx, token)
		assert.Nil(t, verdict.Active)
		assert.Contains(t, verdict.Message, "not expired")
	})

	t.Run("missing exp claim is unknown", func(t *testing.T) {
		token := makeJWT(t, map[string]any{"sub": "user"})
		verdict := s.Validate(ctx, token)
		assert.Nil(t, verdict.Active)
		assert.Contains(t, verdict.Message, "no exp claim")
	})

	t.Run("wrong segment count is inactive", func(t *testing.T) {
		verdict := s.Validate(ctx, "only.two")
		require.NotNil(t, verdict.Active)
		assert.False(t, *verdict.Active)
		assert.Equal(t, "Invalid JWT structure", verdict.Message)
	})

	t.Run("garbage segments are inactive", func(t *testing.T) {
		verdict := s.Validate(ctx, "not!base64.not!base64.sig")
		require.NotNil(t, verdict.Active)
		assert.False(t, *verdict.Active)
	})
}

func TestAWSStrategy(t *testing.T) {
	s := awsStrategy{}
	ctx := context.Background()

	t.Run("well formed access key is unknown", func(t *testing.T) {
		for _, prefix := range []string{"AKIA", "ABIA", "ACCA", "ASIA"} {
			verdict := s.Validate(ctx, prefix+"IOSFODNN7EXAMPLE")
			assert.Nil(t, verdict.Active, "prefix %s", prefix)
			assert.Contains(t, verdict.Message, "cannot verify without secret key")
		}
	})

	t.Run("wrong length is inactive", func(t *testing.T) {
		verdict := s.Validate(ctx, "AKIASHORT")
		require.NotNil(t, verdict.Active)
		assert.False(t, *verdict.Active)
	})

	t.Run("wrong prefix is inactive", func(t *testing.T) {
		verdict := s.Validate(ctx, "ZZZZIOSFODNN7EXAMPLE")
		require.NotNil(t, verdict.Active)
		assert.False(t, *verdict.Active)
	})
}

func TestBoxStrategy(t *testing.T) {
	s := boxStrategy{}
	ctx := context.Background()

	t.Run("32 char token is unknown", func(t *testing.T) {
		verdict := s.Validate(ctx, strings.Repeat("a1", 16))
		assert.Nil(t, verdict.Active)
	})

	t.Run("longer token is unknown developer token", func(t *testing.T) {
		verdict := s.Validate(ctx, strings.Repeat("b2", 20))
		assert.Nil(t, verdict.Active)
		assert.Contains(t, verdict.Message, "developer token")
	})

	t.Run("short or non alphanumeric is inactive", func(t *testing.T) {
		for _, secret := range []string{"short", strings.Repeat("a", 32) + "!"} {
			verdict := s.Validate(ctx, secret)
			require.NotNil(t, verdict.Active, "secret %q", secret)
			assert.False(t, *verdict.Active)
		}
	})
}

func TestSlackWebhookStrategy(t *testing.T) {
	s := slackWebhookStrategy{}
	ctx := context.Background()

	t.Run("valid webhook url is unknown", func(t *testing.T) {
		verdict := s.Validate(ctx, "https://hooks.slack.com/services/T0123ABCD/B0456EFGH/abcDEF123ghiJKL456")
		assert.Nil(t, verdict.Active)
		assert.Contains(t, verdict.Message, "not sending a test message")
	})

	t.Run("anything else is inactive", func(t *testing.T) {
		for _, secret := range []string{
			"https://hooks.slack.com/services/X123/B456/token",
			"https://example.com/webhook",
			"xoxb-1234-abcd",
		} {
			verdict := s.Validate(ctx, secret)
			require.NotNil(t, verdict.Active, "secret %q", secret)
			assert.False(t, *verdict.Active)
		}
	})
}

func TestAzureStrategy(t *testing.T) {
	s := azureStrategy{}
	ctx := context.Background()

	t.Run("storage key shape", func(t *testing.T) {
		key := strings.Repeat("Ab1+", 20) + "=="
		verdict := s.Validate(ctx, key)
		assert.Nil(t, verdict.Active)
		assert.Contains(t, verdict.Message, "storage account key")
	})

	t.Run("client secret shape", func(t *testing.T) {
		verdict := s.Validate(ctx, "Q~abcDEF123-ghiJKL456_mnoPQR789.stu")
		assert.Nil(t, verdict.Active)
		assert.Contains(t, verdict.Message, "client secret")
	})

	t.Run("sas token shape", func(t *testing.T) {
		verdict := s.Validate(ctx, "?sv=2022-11-02&ss=b&sig=abc%3D")
		assert.Nil(t, verdict.Active)
		assert.Contains(t, verdict.Message, "SAS token")
	})

	t.Run("never definitive", func(t *testing.T) {
		verdict := s.Validate(ctx, "???")
		assert.Nil(t, verdict.Active)
		assert.Contains(t, verdict.Message, "unclear")
	})
}

func TestValidatorUnknownDetector(t *testing.T) {
	v := NewValidator(testValidationConfig("http://127.0.0.1:1"), logger.NewNop())
	verdict := v.Validate(context.Background(), "generic-api-key", "whatever")
	assert.Nil(t, verdict.Active)
	assert.Contains(t, verdict.Message, `No automatic validation available for detector "generic-api-key"`)
}

func boolPtr(b bool) *bool { return &b }
