package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/domain"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/ports/driven"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/ports/driving"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyBaseURL         = "api.base_url"
	keyTimeoutSeconds  = "api.timeout_seconds"
	keyPrivacy         = "query.privacy"
	keyZeroChunkPolicy = "ingest.zero_chunk_policy"
	keyWatchIntervalMS = "watch.min_interval_ms"
)

// Environment variables consulted during resolution.
const (
	EnvAPIBase       = "COPILOT_API_BASE"
	EnvLegacyAPIBase = "NEXT_PUBLIC_API_BASE"
	EnvPrivacy       = "COPILOT_PRIVACY"
)

// setting describes one user-settable value.
type setting struct {
	key   string
	parse func(string) (any, error)
}

var settingsByName = map[string]setting{
	"api-base":          {key: keyBaseURL, parse: parseString},
	"timeout":           {key: keyTimeoutSeconds, parse: parseNonNegative},
	"privacy":           {key: keyPrivacy, parse: parsePrivacy},
	"zero-chunk-policy": {key: keyZeroChunkPolicy, parse: parseZeroChunkPolicy},
	"watch-interval":    {key: keyWatchIntervalMS, parse: parseNonNegative},
}

// SettingsService resolves client settings.
type SettingsService struct {
	configStore driven.ConfigStore
	env         driven.Environment
	validator   driven.SettingsValidator
}

// NewSettingsService creates a new settings service.
// env and validator may be nil.
func NewSettingsService(
	configStore driven.ConfigStore,
	env driven.Environment,
	validator driven.SettingsValidator,
) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		env:         env,
		validator:   validator,
	}
}

// Resolve computes the effective settings.
func (s *SettingsService) Resolve(overrides driving.SettingOverrides) (domain.ClientSettings, error) {
	settings := domain.DefaultClientSettings()

	// Config file
	if v := s.configStore.GetString(keyBaseURL); v != "" {
		settings.BaseURL = v
	}
	if v := s.configStore.GetInt(keyTimeoutSeconds); v > 0 {
		settings.Timeout = time.Duration(v) * time.Second
	}
	if v := s.configStore.GetString(keyPrivacy); v != "" {
		settings.Privacy = domain.PrivacyMode(normalise(v))
	}
	if v := s.configStore.GetString(keyZeroChunkPolicy); v != "" {
		settings.ZeroChunkPolicy = domain.ZeroChunkPolicy(normalise(v))
	}
	if _, ok := s.configStore.Get(keyWatchIntervalMS); ok {
		settings.WatchInterval = time.Duration(s.configStore.GetInt(keyWatchIntervalMS)) * time.Millisecond
	}

	// Environment
	if v := s.lookup(EnvLegacyAPIBase); v != "" {
		settings.BaseURL = v
	}
	if v := s.lookup(EnvAPIBase); v != "" {
		settings.BaseURL = v
	}
	if v := s.lookup(EnvPrivacy); v != "" {
		settings.Privacy = domain.PrivacyMode(normalise(v))
	}

	// Flags
	if overrides.BaseURL != "" {
		settings.BaseURL = overrides.BaseURL
	}
	if overrides.Privacy != "" {
		settings.Privacy = domain.PrivacyMode(normalise(overrides.Privacy))
	}
	if overrides.ZeroChunkPolicy != "" {
		settings.ZeroChunkPolicy = domain.ZeroChunkPolicy(normalise(overrides.ZeroChunkPolicy))
	}

	settings.BaseURL = strings.TrimRight(strings.TrimSpace(settings.BaseURL), "/")

	if s.validator != nil {
		if err := s.validator.Validate(settings); err != nil {
			return settings, err
		}
	}

	logger.Debug("Resolved settings: base=%s privacy=%s zero-chunk=%s timeout=%s",
		settings.BaseURL, settings.Privacy, settings.ZeroChunkPolicy, settings.Timeout)

	return settings, nil
}

// Persisted returns the values stored in the config file, keyed by setting name.
func (s *SettingsService) Persisted() map[string]any {
	values := make(map[string]any)
	for name, st := range settingsByName {
		if v, ok := s.configStore.Get(st.key); ok {
			values[name] = v
		}
	}
	return values
}

// Set validates and persists one setting.
func (s *SettingsService) Set(name, value string) error {
	st, ok := settingsByName[name]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidSetting, name)
	}

	parsed, err := st.parse(value)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	if name == "api-base" && s.validator != nil {
		candidate := domain.DefaultClientSettings()
		candidate.BaseURL = parsed.(string)
		if err := s.validator.Validate(candidate); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	if err := s.configStore.Set(st.key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}

// Unset removes a persisted setting.
func (s *SettingsService) Unset(name string) error {
	st, ok := settingsByName[name]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidSetting, name)
	}
	if err := s.configStore.Unset(st.key); err != nil {
		return fmt.Errorf("unset %s: %w", name, err)
	}
	return nil
}

// Names lists the settable setting names in sorted order.
func (s *SettingsService) Names() []string {
	names := make([]string, 0, len(settingsByName))
	for name := range settingsByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ConfigPath returns the config file location.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

func (s *SettingsService) lookup(key string) string {
	if s.env == nil {
		return ""
	}
	v, ok := s.env.Lookup(key)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}

func normalise(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func parseString(v string) (any, error) {
	v = strings.TrimRight(strings.TrimSpace(v), "/")
	if v == "" {
		return nil, fmt.Errorf("%w: value must not be empty", domain.ErrInvalidSetting)
	}
	return v, nil
}

func parseNonNegative(v string) (any, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: %q is not a non-negative integer", domain.ErrInvalidSetting, v)
	}
	return n, nil
}

func parsePrivacy(v string) (any, error) {
	mode, ok := domain.ParsePrivacyMode(v)
	if !ok {
		return nil, fmt.Errorf("%w: privacy must be strict or standard", domain.ErrInvalidSetting)
	}
	return string(mode), nil
}

func parseZeroChunkPolicy(v string) (any, error) {
	policy, ok := domain.ParseZeroChunkPolicy(v)
	if !ok {
		return nil, fmt.Errorf("%w: zero-chunk-policy must be keep or clear", domain.ErrInvalidSetting)
	}
	return string(policy), nil
}
