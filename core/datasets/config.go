package datasets

// Config holds configuration for the upstream dataset query API.
type Config struct {
	// BaseURL is the root URL of the dataset query service.
	BaseURL string `mapstructure:"base_url" default:"https://datasets-server.huggingface.co"`
	// AuthToken is an optional bearer token for gated datasets.
	AuthToken string `mapstructure:"auth_token" default:""`
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
