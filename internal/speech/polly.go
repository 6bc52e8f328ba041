// Package speech synthesizes narration audio with Amazon Polly.
package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	pollytypes "github.com/aws/aws-sdk-go-v2/service/polly/types"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tickercast/internal/common"
	"github.com/ternarybob/tickercast/internal/interfaces"
)

// ErrNotConfigured is returned when any of the three Polly credential
// values (access key, secret, region) is missing. This is an expected
// state, not a failure: the pipeline substitutes silent placeholder audio.
var ErrNotConfigured = errors.New("speech synthesis not configured")

// Synthesizer converts narration text into MP3 files under the output
// directory.
type Synthesizer struct {
	config    *common.SpeechConfig
	outputDir string
	logger    arbor.ILogger
	client    *polly.Client // lazily initialized on first use
}

// Compile-time assertion
var _ interfaces.SpeechService = (*Synthesizer)(nil)

// NewSynthesizer creates a synthesizer. No credential validation happens
// here; a missing credential only surfaces as ErrNotConfigured at
// synthesis time.
func NewSynthesizer(config *common.SpeechConfig, outputDir string, logger arbor.ILogger) *Synthesizer {
	return &Synthesizer{
		config:    config,
		outputDir: outputDir,
		logger:    logger,
	}
}

// Configured reports whether all three credential values are present.
func (s *Synthesizer) Configured() bool {
	return s.config.AccessKeyID != "" && s.config.SecretAccessKey != "" && s.config.Region != ""
}

// Synthesize converts text to speech and writes the MP3 to the output
// directory, returning the written path. Returns ErrNotConfigured without
// any network I/O when credentials are incomplete.
func (s *Synthesizer) Synthesize(ctx context.Context, text, filename string) (string, error) {
	if !s.Configured() {
		return "", ErrNotConfigured
	}

	client, err := s.pollyClient(ctx)
	if err != nil {
		return "", err
	}

	resp, err := client.SynthesizeSpeech(ctx, &polly.SynthesizeSpeechInput{
		Text:         aws.String(text),
		OutputFormat: pollytypes.OutputFormatMp3,
		VoiceId:      pollytypes.VoiceId(s.config.Voice),
	})
	if err != nil {
		return "", fmt.Errorf("speech synthesis failed: %w", err)
	}
	defer resp.AudioStream.Close()

	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(s.outputDir, filename)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create audio file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, resp.AudioStream)
	if err != nil {
		return "", fmt.Errorf("failed to write audio stream: %w", err)
	}

	s.logger.Info().
		Str("path", path).
		Int64("bytes", written).
		Str("voice", s.config.Voice).
		Msg("Speech synthesized")

	return path, nil
}

func (s *Synthesizer) pollyClient(ctx context.Context) (*polly.Client, error) {
	if s.client != nil {
		return s.client, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(s.config.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.config.AccessKeyID, s.config.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	s.client = polly.NewFromConfig(cfg)
	return s.client, nil
}
