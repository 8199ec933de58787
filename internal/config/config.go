package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

type Config struct {
	Poller     Poller     `yaml:"poller"`
	HTTPServer HTTPServer `yaml:"http"`
	Log        Log        `yaml:"log"`
}

type Poller struct {
	DataDir    string `yaml:"data_dir" env:"ERATECACHE_DATA_DIR" env-default:"./data"`
	MarkerFile string `yaml:"marker_file" env:"ERATECACHE_MARKER_FILE" env-default:"buildID.json"`
	// Schedule is either a number of seconds or a robfig/cron spec such as
	// "@every 30s" or "*/5 * * * *".
	Schedule   string `yaml:"schedule" env:"ERATECACHE_SCHEDULE" env-default:"@every 10s"`
	RunOnStart bool   `yaml:"run_on_start" env:"ERATECACHE_RUN_ON_START" env-default:"true"`
}

type HTTPServer struct {
	Port        string        `yaml:"port" env:"HTTP_PORT" env-default:"8000"`
	Timeout     time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	JSON  bool   `yaml:"json" env:"LOG_JSON" env-default:"false"`
}

// Load reads configuration from the environment, after loading an optional
// .env file. When path is set the YAML file is read first and environment
// variables override it.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	_ = godotenv.Load(".env")

	cfg := &Config{}
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, cfg)
	} else {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	if _, err := ParseSchedule(cfg.Poller.Schedule); err != nil {
		return nil, errors.Wrap(err, op)
	}
	return cfg, nil
}

// ParseSchedule accepts either integer seconds or a cron expression
// (including descriptors such as "@every 1m").
func ParseSchedule(setting string) (cron.Schedule, error) {
	setting = strings.TrimSpace(setting)
	if v, err := strconv.Atoi(setting); err == nil {
		if v <= 0 {
			return nil, errors.Errorf("schedule interval must be positive, got %d", v)
		}
		return cron.Every(time.Duration(v) * time.Second), nil
	}
	sched, err := cron.ParseStandard(setting)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid schedule %q", setting)
	}
	return sched, nil
}
