package config

// ServerConfig contains the HTTP server configuration.
type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0"`
}

// FeedConfig describes the upstream bus-information API and the static
// asset host serving derived route polylines.
type FeedConfig struct {
	BaseURL        string `yaml:"baseURL" validate:"omitempty,url"`
	StaticURL      string `yaml:"staticURL" validate:"omitempty,url"`
	ServiceKey     string `yaml:"serviceKey"`
	CityCode       string `yaml:"cityCode"`
	PollIntervalMS int    `yaml:"pollIntervalMS" validate:"gte=0"`
	TimeoutMS      int    `yaml:"timeoutMS" validate:"gte=0"`
}

// AnimationConfig carries the empirically tuned motion thresholds.
type AnimationConfig struct {
	DurationMS            int     `yaml:"durationMS" validate:"gte=0"`
	JitterThresholdMeters float64 `yaml:"jitterThresholdMeters" validate:"gte=0"`
	SnapSearchRadius      int     `yaml:"snapSearchRadius" validate:"gte=0"`
	BackwardEpsilon       float64 `yaml:"backwardEpsilon" validate:"gte=0"`
	FrameIntervalMS       int     `yaml:"frameIntervalMS" validate:"gte=0"`
}

// DirectionConfig configures direction resolution.
type DirectionConfig struct {
	// UpwardNodeIDs always resolve to the upward direction regardless of
	// candidate data (terminal loops where the sequence data lies).
	UpwardNodeIDs []string `yaml:"upwardNodeIDs"`
}

// CacheConfig bounds the in-memory fetch caches.
type CacheConfig struct {
	MaxEntries int `yaml:"maxEntries" validate:"gte=0"`
}

// AppConfig is the root configuration structure.
type AppConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Feed      FeedConfig      `yaml:"feed"`
	Animation AnimationConfig `yaml:"animation"`
	Direction DirectionConfig `yaml:"direction"`
	Cache     CacheConfig     `yaml:"cache"`
}
