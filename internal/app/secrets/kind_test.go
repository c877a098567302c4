package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		detector string
		expected Kind
	}{
		{"GitHub", KindGitHub},
		{"github-pat", KindGitHub},
		{"GitHubApp", KindGitHub},
		{"JWT", KindJWT},
		{"jwt-token", KindJWT},
		{"AWS", KindAWS},
		{"aws-access-key", KindAWS},
		{"Box", KindBox},
		{"SlackWebhook", KindSlackWebhook},
		{"slack-incoming-webhook", KindSlackWebhook},
		{"AzureStorage", KindAzure},
		{"azure-client-secret", KindAzure},
		{"generic-api-key", KindUnknown},
		{"", KindUnknown},
		// Slack without webhook has no validation path.
		{"slack-bot-token", KindUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Classify(tt.detector), "detector=%q", tt.detector)
	}
}

// Precedence: the first matching family in the fixed order wins, even when
// several substrings are present.
func TestClassifyPrecedence(t *testing.T) {
	assert.Equal(t, KindGitHub, Classify("github-jwt"))
	assert.Equal(t, KindJWT, Classify("jwt-aws"))
	assert.Equal(t, KindAWS, Classify("aws-box"))
	assert.Equal(t, KindBox, Classify("box-slack-webhook"))
	assert.Equal(t, KindSlackWebhook, Classify("slack-webhook-azure"))
}
