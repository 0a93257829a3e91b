package config

import "time"

// TransportConfig 节点传输配置
type TransportConfig struct {
	// Kind 传输实现：sim（内存模拟）或 http
	// 默认值: sim
	Kind string `json:"kind" yaml:"kind" validate:"oneof=sim http"`

	// RequestTimeout HTTP 请求超时
	// 默认值: 5s
	RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout" validate:"gt=0"`

	// MaxIdleConnsPerHost 每个节点的空闲连接数
	// 默认值: 4
	MaxIdleConnsPerHost int `json:"max_idle_conns_per_host" yaml:"max_idle_conns_per_host" validate:"gte=0"`

	// Breaker 每节点熔断器
	Breaker BreakerConfig `json:"breaker" yaml:"breaker"`
}

// BreakerConfig 熔断器配置
type BreakerConfig struct {
	// Enabled 是否启用
	// 默认值: true
	Enabled bool `json:"enabled" yaml:"enabled"`

	// MaxRequests 半开状态允许的请求数
	// 默认值: 1
	MaxRequests uint32 `json:"max_requests" yaml:"max_requests" validate:"gt=0"`

	// Interval 闭合状态下清零计数的周期
	// 默认值: 30s
	Interval Duration `json:"interval" yaml:"interval" validate:"gte=0"`

	// OpenTimeout 打开后多久进入半开
	// 默认值: 10s
	OpenTimeout Duration `json:"open_timeout" yaml:"open_timeout" validate:"gt=0"`

	// ConsecutiveFailures 连续失败多少次打开
	// 默认值: 5
	ConsecutiveFailures uint32 `json:"consecutive_failures" yaml:"consecutive_failures" validate:"gt=0"`
}

// DefaultTransportConfig 返回默认传输配置
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		Kind:                "sim",
		RequestTimeout:      Duration(5 * time.Second),
		MaxIdleConnsPerHost: 4,
		Breaker: BreakerConfig{
			Enabled:             true,
			MaxRequests:         1,
			Interval:            Duration(30 * time.Second),
			OpenTimeout:         Duration(10 * time.Second),
			ConsecutiveFailures: 5,
		},
	}
}
