package interfaces

import (
	"context"

	"github.com/ternarybob/tickercast/internal/models"
)

// UploadService publishes a rendered clip to the video platform.
//
// Upload is a single attempt with no retry or backoff. Authentication uses
// a cached token when present; a missing or rejected token triggers the
// interactive consent flow (or fails in headless runs). Token refresh
// rejection surfaces as *uploader.TokenError so the operator knows to
// delete the cached token file and re-authenticate.
type UploadService interface {
	Upload(ctx context.Context, path string, meta models.VideoMeta) (*models.UploadResult, error)
}
