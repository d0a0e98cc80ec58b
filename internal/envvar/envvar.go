package envvar

const (
	// HfserveEnv is the environment variable used to determine the environment
	HfserveEnv = "HFSERVE_ENV"

	// HfserveCacheDir is the environment variable used to override the model cache directory
	HfserveCacheDir = "HFSERVE_CACHE_DIR"

	// HfToken is the Hugging Face access token used for hub metadata and downloads
	HfToken = "HF_TOKEN"
)
