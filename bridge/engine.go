package bridge

// Config holds engine-level tuning knobs, applied to the private wazero
// runtime built for each Instance.
type Config struct {
	// MemoryLimitPages caps memory per instance in 64KB pages. 0 means
	// wazero's default (65536 pages = 4GB).
	MemoryLimitPages uint32
}

// Engine holds configuration shared by every Instance created through
// FromBytes/FromURL. It owns no wazero runtime itself — each Instance gets
// a private one, so Engine carries no state that needs closing.
type Engine struct {
	cfg Config
}

// NewEngine creates an Engine with default configuration.
func NewEngine() *Engine {
	return &Engine{}
}

// NewEngineWithConfig creates an Engine tuned by cfg.
func NewEngineWithConfig(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}
