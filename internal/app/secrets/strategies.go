package secrets

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/time/rate"
)

// timeNow is a seam for tests.
var timeNow = time.Now

// githubStrategy checks a token against the authenticated-user endpoint.
// 200 means the token is live, 401 means revoked; anything else (including
// network failures) is indeterminate and never fails ingestion.
type githubStrategy struct {
	client   *http.Client
	endpoint string
	limiter  *rate.Limiter
}

func (s *githubStrategy) Validate(ctx context.Context, secret string) Verdict {
	if err := s.limiter.Wait(ctx); err != nil {
		return UnknownVerdict(fmt.Sprintf("Validation canceled before GitHub lookup: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return UnknownVerdict(fmt.Sprintf("Failed to build GitHub request: %v", err))
	}
	req.Header.Set("Authorization", "token "+secret)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := s.client.Do(req)
	if err != nil {
		return UnknownVerdict(fmt.Sprintf("Network error during GitHub validation: %v", err))
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return ActiveVerdict("Token accepted by the GitHub API")
	case http.StatusUnauthorized:
		return InactiveVerdict("Token rejected by the GitHub API (401)")
	default:
		return UnknownVerdict(fmt.Sprintf("Unexpected status %d from the GitHub API", resp.StatusCode))
	}
}

// jwtStrategy decodes the token without verifying its signature and checks
// the exp claim against the current time.
type jwtStrategy struct{}

func (jwtStrategy) Validate(_ context.Context, secret string) Verdict {
	if len(strings.Split(secret, ".")) != 3 {
		return InactiveVerdict("Invalid JWT structure")
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(secret, claims); err != nil {
		return InactiveVerdict("Invalid JWT structure")
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return UnknownVerdict("JWT has no exp claim, cannot determine validity")
	}

	if exp.Before(timeNow()) {
		return InactiveVerdict(fmt.Sprintf("JWT expired at %s", exp.UTC().Format("2006-01-02 15:04:05 UTC")))
	}
	return UnknownVerdict("JWT not expired, signature not verified")
}

// awsKeyPrefixes are the recognized AWS access key type prefixes.
var awsKeyPrefixes = []string{"AKIA", "ABIA", "ACCA", "ASIA"}

// awsAccessKeyLen is the fixed length of an AWS access key ID.
const awsAccessKeyLen = 20

// awsStrategy is format-only: it never calls AWS, since a failed STS probe
// can raise security alerts on the key owner's account.
type awsStrategy struct{}

func (awsStrategy) Validate(_ context.Context, secret string) Verdict {
	if len(secret) != awsAccessKeyLen {
		return InactiveVerdict("Invalid AWS access key format")
	}
	for _, prefix := range awsKeyPrefixes {
		if strings.HasPrefix(secret, prefix) {
			return UnknownVerdict("Access key format is valid, cannot verify without secret key")
		}
	}
	return InactiveVerdict("Invalid AWS access key format")
}

var alphanumericRe = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// boxStrategy recognizes Box token shapes; both shapes remain indeterminate
// without a paired credential.
type boxStrategy struct{}

func (boxStrategy) Validate(_ context.Context, secret string) Verdict {
	if !alphanumericRe.MatchString(secret) {
		return InactiveVerdict("Invalid Box token format")
	}
	switch {
	case len(secret) == 32:
		return UnknownVerdict("Box token format is valid, cannot validate without paired credential")
	case len(secret) > 32:
		return UnknownVerdict("Possible Box developer token, cannot validate automatically")
	default:
		return InactiveVerdict("Invalid Box token format")
	}
}

var slackWebhookRe = regexp.MustCompile(`^https://hooks\.slack\.com/services/T[A-Z0-9]+/B[A-Z0-9]+/[A-Za-z0-9]+$`)

// slackWebhookStrategy checks the webhook URL shape. It never posts a test
// message to the channel.
type slackWebhookStrategy struct{}

func (slackWebhookStrategy) Validate(_ context.Context, secret string) Verdict {
	if slackWebhookRe.MatchString(secret) {
		return UnknownVerdict("Webhook URL format is valid, not sending a test message")
	}
	return InactiveVerdict("Invalid Slack webhook URL format")
}

var base64LikeRe = regexp.MustCompile(`^[A-Za-z0-9+/=]+$`)
var tokenLikeRe = regexp.MustCompile(`^[A-Za-z0-9~._-]+$`)

// azureStrategy is heuristic only and never produces a definitive verdict:
// Azure credentials cannot be checked without their paired identifiers.
type azureStrategy struct{}

func (azureStrategy) Validate(_ context.Context, secret string) Verdict {
	switch {
	case len(secret) >= 80 && strings.HasSuffix(secret, "==") && base64LikeRe.MatchString(secret):
		return UnknownVerdict("Possible Azure storage account key, cannot validate without account name")
	case len(secret) >= 30 && len(secret) <= 50 && tokenLikeRe.MatchString(secret):
		return UnknownVerdict("Possible Azure client secret, cannot validate without tenant and client ID")
	case strings.Contains(secret, "sig=") || strings.Contains(secret, "sv="):
		return UnknownVerdict("Possible Azure SAS token, cannot validate without resource URL")
	default:
		return UnknownVerdict("Azure credential type unclear, manual review recommended")
	}
}
