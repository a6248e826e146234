package odf

// Config holds configuration for the ingestion feature.
type Config struct {
	// NotifyURL is the webhook receiving "data changed" signals after
	// each committed message. Empty disables notification.
	NotifyURL string `mapstructure:"notify_url" default:""`
}
