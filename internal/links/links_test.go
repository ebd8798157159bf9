package links

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := map[string]struct {
		urls         []string
		allowed      []string
		want         []string
		wantRejected []string
	}{
		"absolute allowed": {
			urls: []string{"https://aws.github.io/bedrock-agentcore-starter-toolkit/docs/quickstart.md"},
			want: []string{"https://aws.github.io/bedrock-agentcore-starter-toolkit/docs/quickstart.md"},
		},
		"relative rewritten to base origin": {
			urls: []string{"/docs/page.md"},
			want: []string{"https://aws.github.io/bedrock-agentcore-starter-toolkit/docs/page.md"},
		},
		"relative without leading slash": {
			urls: []string{"docs/page.md"},
			want: []string{"https://aws.github.io/bedrock-agentcore-starter-toolkit/docs/page.md"},
		},
		"disallowed host rejected": {
			urls:         []string{"https://example.com/docs"},
			wantRejected: []string{"https://example.com/docs"},
		},
		"batch fails as a whole": {
			urls: []string{
				"https://docs.aws.amazon.com/bedrock-agentcore/latest/userguide/what-is.html",
				"https://evil.example.com/a",
				"https://evil.example.com/b",
			},
			wantRejected: []string{"https://evil.example.com/a", "https://evil.example.com/b"},
		},
		"custom allow list": {
			urls:    []string{"https://internal.example.com/docs/x"},
			allowed: []string{"https://internal.example.com/"},
			want:    []string{"https://internal.example.com/docs/x"},
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := Validate(test.urls, test.allowed)
			if len(test.wantRejected) > 0 {
				require.Error(t, err)
				var verr *ValidationError
				require.True(t, errors.As(err, &verr))
				// Exactly the rejected subset, never a valid URL.
				assert.Equal(t, test.wantRejected, verr.Rejected)
				assert.NotEmpty(t, verr.Allowed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestValidateOne(t *testing.T) {
	got, err := ValidateOne("/docs/page.md", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://aws.github.io/bedrock-agentcore-starter-toolkit/docs/page.md", got)

	_, err = ValidateOne("https://example.com/", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "https://example.com/")
	assert.Contains(t, err.Error(), "allowed prefixes")
}
