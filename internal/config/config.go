package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	LateCheckInReject = "reject" // 班次结束后签到直接拒绝
	LateCheckInAccept = "accept" // 班次结束后签到仍按迟到处理
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN                string `env:"DSN,required"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	JWT struct {
		Secret string `env:"SECRET,required"`
	} `envPrefix:"JWT_"`
	Seed struct {
		Employers     int `env:"EMPLOYERS" envDefault:"3"`
		WorkersPerJob int `env:"WORKERS_PER_JOB" envDefault:"4"`
	} `envPrefix:"SEED_"`
	Email struct {
		UserDomain string `env:"USER_DOMAIN" envDefault:"example.com"`
		SMTP       struct {
			Username    string `env:"USERNAME"`
			Password    string `env:"PASSWORD"`
			Host        string `env:"HOST"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required"`
		Queue          string `env:"QUEUE" envDefault:"email_queue"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host                string `env:"HOST" envDefault:"localhost"`
		Port                int    `env:"PORT" envDefault:"6379"`
		Password            string `env:"PASSWORD"`
		ConnectTimeout      int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		OperationExpiration int    `env:"OPERATION_EXPIRATION" envDefault:"10"`
		WorkedMinutesTTL    int    `env:"WORKED_MINUTES_TTL" envDefault:"60"` // 工时统计缓存，秒
	} `envPrefix:"REDIS_"`
	Sweeper struct {
		Enabled        bool `env:"ENABLED" envDefault:"true"`
		Interval       int  `env:"INTERVAL" envDefault:"3600"`
		LockExpiration int  `env:"LOCK_EXPIRATION" envDefault:"300"`
	} `envPrefix:"SWEEPER_"`
	Attendance struct {
		Timezone          string `env:"TIMEZONE" envDefault:"Local"`
		LateCheckInPolicy string `env:"LATE_CHECK_IN_POLICY" envDefault:"reject"`
		OverrideTodayOnly bool   `env:"OVERRIDE_TODAY_ONLY" envDefault:"true"`
	} `envPrefix:"ATTENDANCE_"`
}

func LoadConfig() (*Config, error) {
	// 本地开发时允许使用 .env 文件，文件不存在时忽略
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	switch cfg.Attendance.LateCheckInPolicy {
	case LateCheckInReject, LateCheckInAccept:
	default:
		return nil, fmt.Errorf("无效的迟到签到策略: %q", cfg.Attendance.LateCheckInPolicy)
	}

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Location 返回部署所在的时区，所有班次时间都按这个时区解释
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Attendance.Timezone)
	if err != nil {
		return nil, fmt.Errorf("无效的时区 %q: %w", c.Attendance.Timezone, err)
	}
	return loc, nil
}
