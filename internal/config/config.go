package config

import (
	"fmt"
	"os"
	"time"

	"skillkart_backend/internal/progression"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server         ServerConfig
	Database       DatabaseConfig
	JWT            JWTConfig
	Storage        StorageConfig
	Tracing        TracingConfig `mapstructure:"tracing"`
	Redis          RedisConfig
	CORS           CORSConfig           `mapstructure:"cors"`
	RateLimit      RateLimitConfig      `mapstructure:"rate_limit"`
	Gamification   GamificationConfig   `mapstructure:"gamification"`
	Recommendation RecommendationConfig `mapstructure:"recommendation"`
	Seed           SeedConfig           `mapstructure:"seed"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	MigrateOnly bool `mapstructure:"-"` // 仅迁移模式（迁移后退出）
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Driver    string // mysql | postgres | sqlite
	DSN       string `mapstructure:"dsn"` // 设置后忽略下面的连接参数
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
	SSLMode   string `mapstructure:"sslmode"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	LocalURL      string `mapstructure:"local_url"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	MinioUseSSL   bool   `mapstructure:"minio_use_ssl"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
	ServiceName       string `mapstructure:"service_name"`
}

type RedisConfig struct {
	Enabled    bool
	Host       string
	Port       int
	Password   string
	DB         int
	CatalogTTL int `mapstructure:"catalog_ttl_seconds"`
}

// LevelConfig 等级表中的一级，required_xp 为累计门槛
type LevelConfig struct {
	Level      int    `mapstructure:"level"`
	RequiredXP int    `mapstructure:"required_xp"`
	Title      string `mapstructure:"title"`
}

type RewardConfig struct {
	ResourceCompleted int `mapstructure:"resource_completed"`
	RoadmapCreated    int `mapstructure:"roadmap_created"`
	WeekBase          int `mapstructure:"week_base"`
	WeekStep          int `mapstructure:"week_step"`
}

type GamificationConfig struct {
	Timezone         string        `mapstructure:"timezone"`
	DailyGoalMinutes int           `mapstructure:"daily_goal_minutes"`
	Levels           []LevelConfig `mapstructure:"levels"`
	Rewards          RewardConfig  `mapstructure:"rewards"`
}

type RecommendationConfig struct {
	Limit               int  `mapstructure:"limit"`
	BootstrapEnrollment bool `mapstructure:"bootstrap_enrollment"`
}

type SeedConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Tiers 转换为等级表，未配置时使用默认等级
func (g GamificationConfig) Tiers() []progression.LevelTier {
	if len(g.Levels) == 0 {
		return progression.DefaultLevelTiers
	}
	tiers := make([]progression.LevelTier, 0, len(g.Levels))
	for _, l := range g.Levels {
		tiers = append(tiers, progression.LevelTier{Level: l.Level, RequiredXP: l.RequiredXP, Title: l.Title})
	}
	return tiers
}

// Location 连续学习天数按该时区的自然日计算
func (g GamificationConfig) Location() (*time.Location, error) {
	if g.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(g.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q: %v", progression.ErrConfiguration, g.Timezone, err)
	}
	return loc, nil
}

// WeekReward 第 n 周的默认经验奖励
func (r RewardConfig) WeekReward(n int) int {
	return r.WeekBase + r.WeekStep*n
}

// DefaultGamification 配置文件缺省时的游戏化参数
func DefaultGamification() GamificationConfig {
	return GamificationConfig{
		Timezone:         "UTC",
		DailyGoalMinutes: progression.DefaultDailyGoalMinutes,
		Rewards: RewardConfig{
			ResourceCompleted: 25,
			RoadmapCreated:    50,
			WeekBase:          50,
			WeekStep:          50,
		},
	}
}

func setDefaults(v *viper.Viper) {
	g := DefaultGamification()
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parsetime", true)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("jwt.expire_hours", 72)
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "uploads")
	v.SetDefault("storage.local_url", "/uploads")
	v.SetDefault("tracing.service_name", "skillkart-backend")
	v.SetDefault("redis.catalog_ttl_seconds", 300)
	v.SetDefault("rate_limit.max_requests", 300)
	v.SetDefault("rate_limit.window_minutes", 1)
	v.SetDefault("gamification.timezone", g.Timezone)
	v.SetDefault("gamification.daily_goal_minutes", g.DailyGoalMinutes)
	v.SetDefault("gamification.rewards.resource_completed", g.Rewards.ResourceCompleted)
	v.SetDefault("gamification.rewards.roadmap_created", g.Rewards.RoadmapCreated)
	v.SetDefault("gamification.rewards.week_base", g.Rewards.WeekBase)
	v.SetDefault("gamification.rewards.week_step", g.Rewards.WeekStep)
	v.SetDefault("recommendation.limit", progression.DefaultRecommendationLimit)
	v.SetDefault("recommendation.bootstrap_enrollment", true)
	v.SetDefault("seed.enabled", true)
	v.SetDefault("seed.path", "configs/seed.yaml")
}

func LoadConfig(path string) (*Config, error) {
	// .env 只补充未设置的环境变量
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("SKILLKART")
	v.AutomaticEnv()
	setDefaults(v)

	// Database
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.dsn", "DATABASE_DSN")
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	v.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	v.BindEnv("redis.enabled", "REDIS_ENABLED")
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.mode", "SERVER_MODE")

	// Storage
	v.BindEnv("storage.type", "STORAGE_TYPE")
	v.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	v.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	v.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	v.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	// Gamification
	v.BindEnv("gamification.timezone", "STREAK_TIMEZONE")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}

// Validate 检查启动所需的关键配置
func (c *Config) Validate() error {
	// 生产环境校验 JWT Secret 强度
	if c.Server.Mode == "release" && len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(c.JWT.Secret))
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("%w: jwt.secret is required", progression.ErrConfiguration)
	}
	if _, err := progression.NewLevelLadder(c.Gamification.Tiers()); err != nil {
		return err
	}
	if _, err := c.Gamification.Location(); err != nil {
		return err
	}
	if c.Gamification.Rewards.ResourceCompleted <= 0 || c.Gamification.Rewards.RoadmapCreated <= 0 {
		return fmt.Errorf("%w: xp rewards must be positive", progression.ErrConfiguration)
	}
	if c.Gamification.Rewards.WeekReward(1) <= 0 {
		return fmt.Errorf("%w: week reward must be positive", progression.ErrConfiguration)
	}
	return nil
}
