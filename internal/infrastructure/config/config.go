package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置结构
// 设计说明：使用Viper管理配置，支持YAML文件、环境变量覆盖
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	MQ       MQConfig       `mapstructure:"mq"`
	Breaker  BreakerConfig  `mapstructure:"breaker"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"` // debug | release | test
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// 存储驱动
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
	DriverMemory = "memory" // 进程内存储,重启即丢失(本地调试)
)

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // mysql | sqlite | memory
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	Charset         string        `mapstructure:"charset"`
	ParseTime       bool          `mapstructure:"parse_time"`
	Loc             string        `mapstructure:"loc"`
	Path            string        `mapstructure:"path"` // sqlite文件路径或DSN
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN 生成连接字符串
// MySQL格式：user:password@tcp(host:port)/dbname?charset=utf8mb4&parseTime=True&loc=Local
// 注意：loc参数需要URL编码（Asia/Shanghai → Asia%2FShanghai）
// SQLite直接使用Path,默认开启外键约束
func (d DatabaseConfig) DSN() string {
	if d.Driver == DriverSQLite {
		if strings.Contains(d.Path, "?") {
			return d.Path
		}
		return d.Path + "?_foreign_keys=1"
	}
	loc := url.QueryEscape(d.Loc)
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.Charset, d.ParseTime, loc)
}

type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr 返回Redis地址
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret            string        `mapstructure:"secret"`
	Issuer            string        `mapstructure:"issuer"`
	AccessTokenExpire time.Duration `mapstructure:"access_token_expire"`
}

type LogConfig struct {
	Level        string `mapstructure:"level"`  // debug | info | warn | error
	Format       string `mapstructure:"format"` // console | json
	Output       string `mapstructure:"output"` // stdout | stderr | /path/to/file
	EnableCaller bool   `mapstructure:"enable_caller"`
}

// TracingConfig OpenTelemetry链路追踪
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	Endpoint    string  `mapstructure:"endpoint"`     // OTLP gRPC地址,如localhost:4317
	SampleRatio float64 `mapstructure:"sample_ratio"` // 0-1
}

// MQConfig 变更事件发布(RabbitMQ)
type MQConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	URL      string   `mapstructure:"url"`
	Exchange string   `mapstructure:"exchange"`
	Queue    string   `mapstructure:"queue"`        // 事件日志消费者使用的队列
	Bindings []string `mapstructure:"routing_keys"` // 消费者绑定的routing key
}

// BreakerConfig 存储层熔断器
type BreakerConfig struct {
	MaxRequests         uint32        `mapstructure:"max_requests"`         // 半开状态允许的请求数
	Interval            time.Duration `mapstructure:"interval"`             // 关闭状态下计数清零周期
	Timeout             time.Duration `mapstructure:"timeout"`              // 打开状态持续时间
	ConsecutiveFailures uint32        `mapstructure:"consecutive_failures"` // 连续失败多少次后打开
}

// CORSConfig 跨域配置
type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowOrigins     []string `mapstructure:"allow_origins"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers"`
	ExposeHeaders    []string `mapstructure:"expose_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"` // 秒
}

// Load 加载配置文件
// 支持：
// 1. 默认加载config/config.yaml
// 2. 通过环境变量BOOKFUND_ENV指定环境（如config.prod.yaml）
// 3. 环境变量覆盖（如BOOKFUND_DATABASE_PASSWORD）
func Load() (*Config, error) {
	name := "config"
	if env := os.Getenv("BOOKFUND_ENV"); env != "" {
		name = "config." + env
	}
	return load(func(v *viper.Viper) {
		v.SetConfigName(name)
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	})
}

// LoadFile 加载指定路径的配置文件
func LoadFile(path string) (*Config, error) {
	return load(func(v *viper.Viper) {
		v.SetConfigFile(path)
	})
}

func load(locate func(v *viper.Viper)) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	locate(v)

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	// 环境变量绑定（BOOKFUND_DATABASE_PASSWORD → database.password）
	v.SetEnvPrefix("BOOKFUND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 解析到结构体
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// 配置验证
	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.driver", DriverMySQL)
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parse_time", true)
	v.SetDefault("database.loc", "Local")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("jwt.issuer", "bookfund")
	v.SetDefault("jwt.access_token_expire", 2*time.Hour)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("tracing.service_name", "bookfund-api")
	v.SetDefault("tracing.endpoint", "localhost:4317")
	v.SetDefault("tracing.sample_ratio", 1.0)
	v.SetDefault("mq.exchange", "bookfund.events")
	v.SetDefault("mq.queue", "bookfund.eventlog")
	v.SetDefault("mq.routing_keys", []string{"bookfund.#"})
	v.SetDefault("breaker.max_requests", 1)
	v.SetDefault("breaker.interval", time.Minute)
	v.SetDefault("breaker.timeout", 30*time.Second)
	v.SetDefault("breaker.consecutive_failures", 5)
	v.SetDefault("cors.allow_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allow_headers", []string{"Authorization", "Content-Type", "X-Request-ID"})
	v.SetDefault("cors.expose_headers", []string{"X-Request-ID"})
	v.SetDefault("cors.max_age", 600)
}

// validate 配置校验
func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("无效的服务端口: %d", cfg.Server.Port)
	}

	switch cfg.Database.Driver {
	case DriverMySQL, DriverMemory:
	case DriverSQLite:
		if cfg.Database.Path == "" {
			return fmt.Errorf("sqlite驱动必须配置database.path")
		}
	default:
		return fmt.Errorf("不支持的数据库驱动: %q", cfg.Database.Driver)
	}

	if cfg.JWT.Secret == "" {
		return fmt.Errorf("必须配置JWT密钥")
	}
	if cfg.JWT.Secret == "your-secret-key-change-in-production" && cfg.Server.Mode == "release" {
		return fmt.Errorf("生产环境必须修改JWT密钥")
	}

	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		return fmt.Errorf("无效的采样率: %v", cfg.Tracing.SampleRatio)
	}

	if cfg.MQ.Enabled && cfg.MQ.URL == "" {
		return fmt.Errorf("启用MQ时必须配置mq.url")
	}

	if cfg.Breaker.ConsecutiveFailures == 0 {
		return fmt.Errorf("breaker.consecutive_failures必须大于0")
	}

	return nil
}
