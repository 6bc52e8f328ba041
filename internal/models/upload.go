package models

// VideoMeta is the platform-facing metadata for an uploaded clip.
type VideoMeta struct {
	Title       string
	Description string
	Tags        []string
	CategoryID  string
	Privacy     string
}

// UploadResult is returned on a successful publish.
type UploadResult struct {
	VideoID string
}
