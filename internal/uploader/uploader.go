package uploader

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ternarybob/arbor"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/ternarybob/tickercast/internal/common"
	"github.com/ternarybob/tickercast/internal/interfaces"
	"github.com/ternarybob/tickercast/internal/models"
)

// Uploader publishes rendered clips to YouTube. Each Upload call is a
// single attempt; there is no retry, and any failure surfaces to the
// caller with the artifact still on disk for a manual re-run.
type Uploader struct {
	config *common.UploadConfig
	logger arbor.ILogger

	// tokenSource overrides the OAuth flow when set (tests).
	tokenSource oauth2.TokenSource
}

var _ interfaces.UploadService = (*Uploader)(nil)

// Option configures the uploader
type Option func(*Uploader)

// WithTokenSource bypasses the client-secrets / cached-token flow and
// authenticates with the given source directly.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(u *Uploader) {
		u.tokenSource = ts
	}
}

// NewUploader creates a YouTube uploader.
func NewUploader(config *common.UploadConfig, logger arbor.ILogger, opts ...Option) *Uploader {
	u := &Uploader{
		config: config,
		logger: logger,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Upload publishes the video at path with the given metadata and returns
// the platform video ID. A rejected cached credential is reported as
// *TokenError.
func (u *Uploader) Upload(ctx context.Context, path string, meta models.VideoMeta) (*models.UploadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open video file: %w", err)
	}
	defer f.Close()

	svc, err := u.service(ctx)
	if err != nil {
		return nil, err
	}

	video := buildVideo(meta)

	u.logger.Info().Str("path", path).Str("title", meta.Title).Msg("Uploading video")

	resp, err := svc.Videos.Insert([]string{"snippet", "status"}, video).Media(f).Context(ctx).Do()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, &TokenError{TokenFile: u.config.TokenFile, Err: err}
		}
		return nil, fmt.Errorf("upload failed: %w", err)
	}

	u.logger.Info().Str("video_id", resp.Id).Msg("Upload complete")
	return &models.UploadResult{VideoID: resp.Id}, nil
}

// buildVideo maps metadata onto the API resource. The not-made-for-kids
// declaration is a false boolean, so it has to be force-sent or the API
// would treat it as undeclared.
func buildVideo(meta models.VideoMeta) *youtube.Video {
	return &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       meta.Title,
			Description: meta.Description,
			Tags:        meta.Tags,
			CategoryId:  meta.CategoryID,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           meta.Privacy,
			SelfDeclaredMadeForKids: false,
			ForceSendFields:         []string{"SelfDeclaredMadeForKids"},
		},
	}
}

// service builds the authenticated API client. The cached token is used
// when it parses; otherwise the interactive consent flow runs and the new
// token overwrites the cache.
func (u *Uploader) service(ctx context.Context) (*youtube.Service, error) {
	if u.tokenSource != nil {
		return youtube.NewService(ctx, option.WithTokenSource(u.tokenSource))
	}

	secrets, err := os.ReadFile(u.config.ClientSecretsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read client secrets: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(secrets, youtube.YoutubeUploadScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse client secrets: %w", err)
	}

	token, err := loadToken(u.config.TokenFile)
	if err != nil {
		u.logger.Info().Str("token_file", u.config.TokenFile).Msg("No usable cached token, starting consent flow")
		token, err = tokenFromWeb(ctx, oauthConfig)
		if err != nil {
			return nil, fmt.Errorf("authorization failed: %w", err)
		}
		if err := saveToken(u.config.TokenFile, token); err != nil {
			u.logger.Warn().Err(err).Msg("Failed to cache token")
		}
	}

	client := oauthConfig.Client(ctx, token)
	return youtube.NewService(ctx, option.WithHTTPClient(client))
}
