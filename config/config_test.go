package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewConfig 测试默认配置有效
func TestNewConfig(t *testing.T) {
	cfg := NewConfig()
	require.NotNil(t, cfg)
	assert.NoError(t, cfg.Validate())

	assert.Equal(t, 0.5, cfg.Scoring.Geometric.Alpha)
	assert.Equal(t, 0.3, cfg.Scoring.Geometric.Beta)
	assert.Equal(t, 0.15, cfg.Scoring.Geometric.Gamma)
	assert.Equal(t, 0.05, cfg.Scoring.Geometric.Delta)
	assert.Equal(t, time.Second, cfg.Scoring.Role.LatencyScale.Duration())
}

// TestConfig_ValidateTags 测试结构体标签校验
func TestConfig_ValidateTags(t *testing.T) {
	cfg := NewConfig()
	cfg.Routing.MaxHops = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "Routing.MaxHops", ve.Field)
}

// TestConfig_ValidateCrossField 测试跨字段校验
func TestConfig_ValidateCrossField(t *testing.T) {
	t.Run("GeometricWeights", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Scoring.Geometric.Beta = 0
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("GammaZeroAllowed", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Scoring.Geometric.Gamma = 0
		assert.NoError(t, cfg.Validate())
	})

	t.Run("ProbeTimeout", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Health.ProbeTimeout = Duration(time.Minute)
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("StoragePath", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Storage.Enabled = true
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		cfg.Storage.InMemory = true
		assert.NoError(t, cfg.Validate())
	})

	t.Run("ScoringMode", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Scoring.Mode = "random"
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})
}

// TestFromJSON 测试 JSON 加载保留默认值
func TestFromJSON(t *testing.T) {
	cfg, err := FromJSON([]byte(`{"routing":{"max_hops":10,"forward_timeout":"3s"},"scoring":{"mode":"geometric"}}`))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Routing.MaxHops)
	assert.Equal(t, 3*time.Second, cfg.Routing.ForwardTimeout.Duration())
	assert.Equal(t, "geometric", cfg.Scoring.Mode)
	assert.Equal(t, 30, cfg.Routing.MaxFaceSteps)
	assert.NoError(t, cfg.Validate())
}

// TestFromYAML 测试 YAML 加载
func TestFromYAML(t *testing.T) {
	data := []byte(`
health:
  interval: 10s
  probe_timeout: 1s
  failure_threshold: 2
trust:
  failure_penalty: 0.4
`)
	cfg, err := FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.Health.Interval.Duration())
	assert.Equal(t, 2, cfg.Health.FailureThreshold)
	assert.Equal(t, 0.4, cfg.Trust.FailurePenalty)
	assert.Equal(t, 0.05, cfg.Trust.SuccessGain)
}

// TestLoadFile 测试按扩展名加载并回写
func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	src := NewConfig()
	src.Vector.Dimension = 8
	data, err := src.ToYAML()
	require.NoError(t, err)
	path := filepath.Join(dir, "vecroute.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, src, cfg)

	data, err = src.ToJSON()
	require.NoError(t, err)
	path = filepath.Join(dir, "vecroute.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	cfg, err = LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, src, cfg)

	_, err = LoadFile(filepath.Join(dir, "vecroute.toml"))
	assert.Error(t, err)
}

// TestApplyPreset 测试预设
func TestApplyPreset(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, ApplyPreset(cfg, "production"))
	assert.Equal(t, "http", cfg.Transport.Kind)
	assert.True(t, cfg.Health.CheckMetrics)
	assert.NoError(t, cfg.Validate())

	sim := NewSimulationConfig()
	assert.Equal(t, 10, sim.Routing.MaxHops)
	assert.NoError(t, sim.Validate())

	assert.Error(t, ApplyPreset(cfg, "mobile"))
	assert.Error(t, ApplyPreset(nil, "production"))
}
