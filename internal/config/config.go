package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Harshitk-cp/credence/internal/service"
	"github.com/joho/godotenv"
)

// Load reads the .env file specified by CREDENCE_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("CREDENCE_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

func AnthropicAPIKey() string {
	return os.Getenv("ANTHROPIC_API_KEY")
}

// LLMProvider returns the configured LLM provider.
// Defaults to "openai" if not set.
// Valid values: openai, anthropic, mock
func LLMProvider() string {
	p := os.Getenv("LLM_PROVIDER")
	if p == "" {
		return "openai"
	}
	return p
}

// LLMAPIKey returns the API key for the configured LLM provider.
func LLMAPIKey() string {
	switch LLMProvider() {
	case "anthropic":
		return AnthropicAPIKey()
	case "mock":
		return ""
	default:
		return OpenAIAPIKey()
	}
}

// PlausibilityProvider selects the plausibility collaborator.
// Defaults to "rules". Valid values: rules, llm, none
func PlausibilityProvider() string {
	p := strings.ToLower(os.Getenv("PLAUSIBILITY_PROVIDER"))
	if p == "" {
		return "rules"
	}
	return p
}

// PlausibilityRulesPath is a YAML rule file; empty uses the built-in rules.
func PlausibilityRulesPath() string {
	return os.Getenv("PLAUSIBILITY_RULES_PATH")
}

func PlausibilityCacheTTL() time.Duration {
	return envDuration("PLAUSIBILITY_CACHE_TTL", 30*time.Minute)
}

// AnalysisTTL is how long finished analyses stay queryable.
func AnalysisTTL() time.Duration {
	return envDuration("ANALYSIS_TTL", time.Hour)
}

// APIKeys returns the accepted bearer tokens. Empty disables authentication.
func APIKeys() []string {
	var keys []string
	for _, k := range strings.Split(os.Getenv("API_KEYS"), ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

// PipelineSettings reads every pipeline tunable, falling back to the built-in
// defaults for unset or malformed values.
func PipelineSettings() service.Settings {
	d := service.DefaultSettings()
	return service.Settings{
		SupportWeight:       envFloat("SUPPORT_WEIGHT", d.SupportWeight),
		ContradictionWeight: envFloat("CONTRADICTION_WEIGHT", d.ContradictionWeight),
		ReliabilityDamping:  envFloat("RELIABILITY_DAMPING", d.ReliabilityDamping),
		BiasPenalty:         envFloat("BIAS_PENALTY", d.BiasPenalty),
		CircularPenalty:     envFloat("CIRCULAR_PENALTY", d.CircularPenalty),
		PlausibilityWeight:  envFloat("PLAUSIBILITY_WEIGHT", d.PlausibilityWeight),
		MaxPasses:           envInt("PROPAGATION_MAX_PASSES", d.MaxPasses),
		Epsilon:             envFloat("PROPAGATION_EPSILON", d.Epsilon),

		ReliableScore:     envFloat("RELIABLE_SCORE", d.ReliableScore),
		UnreliableScore:   envFloat("UNRELIABLE_SCORE", d.UnreliableScore),
		SourceReliability: envFloat("DEFAULT_RELIABILITY", d.SourceReliability),

		SubjectThreshold:           envInt("BIAS_SUBJECT_THRESHOLD", d.SubjectThreshold),
		DiversityConfidence:        envFloat("BIAS_CONFIDENCE_THRESHOLD", d.DiversityConfidence),
		DiversityThreshold:         envInt("BIAS_DIVERSITY_THRESHOLD", d.DiversityThreshold),
		BalanceConfidenceThreshold: envFloat("BALANCE_CONFIDENCE_THRESHOLD", d.BalanceConfidenceThreshold),

		SkipMirrorEdges: envBool("CYCLE_SKIP_MIRROR_EDGES", d.SkipMirrorEdges),
		LinkWorkers:     envInt("LINK_WORKERS", d.LinkWorkers),
		AssessWorkers:   envInt("ASSESS_WORKERS", d.AssessWorkers),
	}
}

func envFloat(key string, def float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || v < 0 {
		return def
	}
	return v
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func envBool(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func envDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
