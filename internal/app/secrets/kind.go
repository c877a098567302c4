// Package secrets classifies detected secrets and validates whether they are
// still active.
package secrets

import "strings"

// Kind is the secret family a detector name resolves to. Classification
// happens once per finding; validation strategies are then looked up by
// kind.
type Kind string

const (
	KindGitHub       Kind = "github"
	KindJWT          Kind = "jwt"
	KindAWS          Kind = "aws"
	KindBox          Kind = "box"
	KindSlackWebhook Kind = "slack_webhook"
	KindAzure        Kind = "azure"
	KindUnknown      Kind = "unknown"
)

// Classify resolves a detector name to a secret kind. Matching is
// case-insensitive substring matching in a fixed precedence order: github,
// jwt, aws, box, slack webhook, azure.
func Classify(detectorName string) Kind {
	name := strings.ToLower(detectorName)

	switch {
	case strings.Contains(name, "github"):
		return KindGitHub
	case strings.Contains(name, "jwt"):
		return KindJWT
	case strings.Contains(name, "aws"):
		return KindAWS
	case strings.Contains(name, "box"):
		return KindBox
	case strings.Contains(name, "slack") && strings.Contains(name, "webhook"):
		return KindSlackWebhook
	case strings.Contains(name, "azure"):
		return KindAzure
	default:
		return KindUnknown
	}
}
