package config

// ServiceConfig is the top-level YAML structure.
type ServiceConfig struct {
	Version string     `yaml:"version"`
	Server  ServerConf `yaml:"server"`
	Engine  EngineConf `yaml:"engine"`
	Cases   CasesConf  `yaml:"cases"`
}

// ServerConf configures the HTTP listener.
type ServerConf struct {
	Addr           string `yaml:"addr"`
	ReadTimeoutMs  int    `yaml:"read_timeout_ms"`
	WriteTimeoutMs int    `yaml:"write_timeout_ms"`
}

// EngineConf holds tunable fetch settings.
type EngineConf struct {
	FetchWorkers   int `yaml:"fetch_workers"`
	QueueDepth     int `yaml:"queue_depth"`
	FetchTimeoutMs int `yaml:"fetch_timeout_ms"` // 0 = no per-attempt timeout
	FetchRetries   int `yaml:"fetch_retries"`    // extra attempts after the first
	RetryBackoffMs int `yaml:"retry_backoff_ms"`
}

// CasesConf points at the YAML case file served by the casefile store.
type CasesConf struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}
