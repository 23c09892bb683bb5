package config

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = FormatText
)

// Rewrite defaults. Zero workers means one per CPU.
const (
	DefaultRules       = ".splice-rules.yaml"
	DefaultDryRun      = false
	DefaultWorkers     = 0
	DefaultDiffContext = 3
)

// DefaultExclude lists directory names never descended into.
var DefaultExclude = []string{".git", "node_modules", "vendor", "testdata"}

// Telemetry defaults.
const (
	DefaultSampleRatio  = 1.0
	DefaultOTLPInsecure = false
)
