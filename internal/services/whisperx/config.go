package whisperx

// Config captures runtime settings for WhisperX transcription.
type Config struct {
	// Model is the Whisper model to use (e.g., "small").
	Model string
	// CUDAEnabled enables GPU acceleration.
	CUDAEnabled bool
	// CacheDir overrides the Hugging Face model cache location.
	CacheDir string
}

// WhisperX invocation constants.
const (
	DefaultModel   = "small"
	CUDAIndexURL   = "https://download.pytorch.org/whl/cu128"
	PypiIndexURL   = "https://pypi.org/simple"
	OutputFormat   = "json"
	CPUDevice      = "cpu"
	CUDADevice     = "cuda"
	CPUComputeType = "float32"
)

// UVXCommand launches WhisperX without a persistent install.
const UVXCommand = "uvx"
