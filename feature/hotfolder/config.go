package hotfolder

// Config holds configuration for the hotfolder watcher.
type Config struct {
	// Dir is the watched directory where feed files arrive.
	Dir string `mapstructure:"dir" default:"hotfolder"`
	// ProcessedDir receives files the backend accepted.
	ProcessedDir string `mapstructure:"processed_dir" default:"processed"`
	// ErrorDir receives files the backend rejected.
	ErrorDir string `mapstructure:"error_dir" default:"error"`
	// IngestURL is the ingestion endpoint files are posted to.
	IngestURL string `mapstructure:"ingest_url" default:"http://127.0.0.1:8080/ingest-odf"`
	// TimeoutSeconds is the per-request timeout for the post.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
}
