package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
	Trace    TraceConfig    `mapstructure:"trace"`
	Feed     FeedConfig     `mapstructure:"feed"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	Mode            string        `mapstructure:"mode"` // debug / release
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RateLimitRPS    float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst  int           `mapstructure:"rate_limit_burst"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres / sqlite
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// RedisConfig 缓存配置
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	CountTTL time.Duration `mapstructure:"count_ttl"` // 反应计数缓存 TTL
}

// JWTConfig 签发配置
type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expire time.Duration `mapstructure:"expire"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// SentryConfig 错误上报配置（DSN 为空则关闭）
type SentryConfig struct {
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// TraceConfig OTLP 上报配置（Endpoint 为空则关闭）
type TraceConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
	Insecure    bool   `mapstructure:"insecure"`
}

// FeedConfig Feed 排序参数：两种模式统一走这里，不允许散落的常量
type FeedConfig struct {
	// 反应类型权重
	LikeWeight     float64 `mapstructure:"like_weight"`
	BoostWeight    float64 `mapstructure:"boost_weight"`
	BookmarkWeight float64 `mapstructure:"bookmark_weight"`

	// 总分加权 α/β/γ
	ReactionScoreWeight float64 `mapstructure:"reaction_score_weight"`
	TimeDecayWeight     float64 `mapstructure:"time_decay_weight"`
	SymbolMatchWeight   float64 `mapstructure:"symbol_match_weight"`

	// 窗口参数
	RecentReactionWindow time.Duration `mapstructure:"recent_reaction_window"`
	MaxCandidateAge      time.Duration `mapstructure:"max_candidate_age"`

	// 兴趣画像参数
	InterestLookback     time.Duration `mapstructure:"interest_lookback"`
	InterestMaxPosts     int           `mapstructure:"interest_max_posts"`
	InterestMaxReactions int           `mapstructure:"interest_max_reactions"`
	InterestMaxSymbols   int           `mapstructure:"interest_max_symbols"`
	OwnPostSymbolWeight  int           `mapstructure:"own_post_symbol_weight"`
	ReactedSymbolWeight  int           `mapstructure:"reacted_symbol_weight"`

	// 分页参数
	DefaultPageSize int `mapstructure:"default_page_size"`
	MinPageSize     int `mapstructure:"min_page_size"`
	MaxPageSize     int `mapstructure:"max_page_size"`

	// for_you 候选池 = min(OverfetchFactor*limit, MaxCandidateRows)
	OverfetchFactor  int `mapstructure:"overfetch_factor"`
	MaxCandidateRows int `mapstructure:"max_candidate_rows"`
}

// Load 读取配置：默认值 + config.yaml（可选）+ STOCKFEED_ 环境变量覆盖
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvPrefix("STOCKFEED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// 无配置文件时全部走默认值/环境变量
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.rate_limit_rps", 20.0)
	v.SetDefault("server.rate_limit_burst", 40)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "host=localhost user=postgres password=postgres dbname=stockfeed port=5432 sslmode=disable")
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", "1h")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.count_ttl", "30s")

	v.SetDefault("jwt.secret", "dev-secret-change-me")
	v.SetDefault("jwt.expire", "24h")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)

	v.SetDefault("sentry.sample_rate", 1.0)
	v.SetDefault("trace.service_name", "stockfeed")
	v.SetDefault("trace.insecure", true)

	v.SetDefault("feed.like_weight", 1.0)
	v.SetDefault("feed.boost_weight", 3.0)
	v.SetDefault("feed.bookmark_weight", 2.0)
	v.SetDefault("feed.reaction_score_weight", 0.4)
	v.SetDefault("feed.time_decay_weight", 0.3)
	v.SetDefault("feed.symbol_match_weight", 0.3)
	v.SetDefault("feed.recent_reaction_window", "2h")
	v.SetDefault("feed.max_candidate_age", "24h")
	v.SetDefault("feed.interest_lookback", "168h")
	v.SetDefault("feed.interest_max_posts", 20)
	v.SetDefault("feed.interest_max_reactions", 50)
	v.SetDefault("feed.interest_max_symbols", 10)
	v.SetDefault("feed.own_post_symbol_weight", 3)
	v.SetDefault("feed.reacted_symbol_weight", 1)
	v.SetDefault("feed.default_page_size", 20)
	v.SetDefault("feed.min_page_size", 1)
	v.SetDefault("feed.max_page_size", 50)
	v.SetDefault("feed.overfetch_factor", 3)
	v.SetDefault("feed.max_candidate_rows", 100)
}
