package secrets

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/repolens/ingest/internal/config"
	"github.com/repolens/ingest/pkg/logger"
)

// Verdict is the tri-state outcome of a validation attempt. A nil Active
// means indeterminate, not a failure.
type Verdict struct {
	Active  *bool
	Message string
}

// Tri-state constructors.

func ActiveVerdict(message string) Verdict {
	t := true
	return Verdict{Active: &t, Message: message}
}

func InactiveVerdict(message string) Verdict {
	f := false
	return Verdict{Active: &f, Message: message}
}

func UnknownVerdict(message string) Verdict {
	return Verdict{Message: message}
}

// Strategy validates one secret kind.
type Strategy interface {
	Validate(ctx context.Context, secret string) Verdict
}

// Validator dispatches a secret to the strategy for its kind.
type Validator struct {
	strategies map[Kind]Strategy
	log        *logger.Logger
}

// NewValidator builds a validator with all built-in strategies. The GitHub
// strategy performs live network lookups bounded by cfg.GitHubTimeout and a
// shared rate limiter; all other strategies are offline.
func NewValidator(cfg config.ValidationConfig, log *logger.Logger) *Validator {
	github := &githubStrategy{
		client:   &http.Client{Timeout: cfg.GitHubTimeout},
		endpoint: cfg.GitHubEndpoint,
		limiter:  rate.NewLimiter(rate.Limit(cfg.GitHubRatePerSec), cfg.GitHubBurst),
	}

	return &Validator{
		strategies: map[Kind]Strategy{
			KindGitHub:       github,
			KindJWT:          jwtStrategy{},
			KindAWS:          awsStrategy{},
			KindBox:          boxStrategy{},
			KindSlackWebhook: slackWebhookStrategy{},
			KindAzure:        azureStrategy{},
		},
		log: log.With("component", "secret_validator"),
	}
}

// Validate classifies the detector name and runs the matching strategy.
// Detectors with no strategy yield an unknown verdict.
func (v *Validator) Validate(ctx context.Context, detectorName, secret string) Verdict {
	kind := Classify(detectorName)

	strategy, ok := v.strategies[kind]
	if !ok {
		return UnknownVerdict(fmt.Sprintf("No automatic validation available for detector %q", detectorName))
	}

	start := time.Now()
	verdict := strategy.Validate(ctx, secret)
	v.log.Debug("secret validated",
		"detector", detectorName,
		"kind", string(kind),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return verdict
}
