package speech

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tickercast/internal/common"
)

func TestSynthesizer_Configured(t *testing.T) {
	tests := []struct {
		name   string
		config common.SpeechConfig
		want   bool
	}{
		{
			name: "all credentials present",
			config: common.SpeechConfig{
				AccessKeyID: "AKIA", SecretAccessKey: "secret", Region: "ap-south-1",
			},
			want: true,
		},
		{"missing access key", common.SpeechConfig{SecretAccessKey: "secret", Region: "ap-south-1"}, false},
		{"missing secret", common.SpeechConfig{AccessKeyID: "AKIA", Region: "ap-south-1"}, false},
		{"missing region", common.SpeechConfig{AccessKeyID: "AKIA", SecretAccessKey: "secret"}, false},
		{"nothing set", common.SpeechConfig{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSynthesizer(&tt.config, t.TempDir(), arbor.NewLogger())
			assert.Equal(t, tt.want, s.Configured())
		})
	}
}

// Incomplete credentials short-circuit before any client construction or
// network I/O; ErrNotConfigured is the expected not-a-failure state.
func TestSynthesizer_NotConfigured(t *testing.T) {
	s := NewSynthesizer(&common.SpeechConfig{Voice: "Matthew"}, t.TempDir(), arbor.NewLogger())

	path, err := s.Synthesize(context.Background(), "Markets opened steady.", "premarket.mp3")

	require.ErrorIs(t, err, ErrNotConfigured)
	assert.Empty(t, path)
	assert.Nil(t, s.client, "no Polly client should be built without credentials")
}
