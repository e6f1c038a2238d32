// config реализует конфигурацию engagement-service: загрузка из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Бэкенды хранения токенов дедупликации просмотров.
const (
	DedupMongo = "mongo"
	DedupRedis = "redis"
)

// Config — корневая конфигурация сервиса.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig    `yaml:"http"`
	DB       DBConfig      `yaml:"db"`
	Redis    RedisConfig   `yaml:"redis"`
	Views    ViewsConfig   `yaml:"views"`
	Cookie   CookieConfig  `yaml:"cookie"`
	CORS     CORSConfig    `yaml:"cors"`
	Posts    PostsConfig   `yaml:"posts"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// TimeoutConfig — сервисные таймауты (общий дедлайн обработки запроса).
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"5s"`
}

// HTTPConfig — публичный REST-сервер (API, health, metrics).
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8000"`
	// BasePath — префикс API (например, "/api"); пустой — роуты на корне.
	BasePath string `yaml:"base_path" env:"HTTP_BASE_PATH"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// DBConfig — настройки подключения к MongoDB.
// Name используется, если в URI не указана база.
type DBConfig struct {
	URL  string `yaml:"url"  env:"MONGODB_URI" env-required:"true"`
	Name string `yaml:"name" env:"MONGODB_DB"  env-default:"Blog"`
}

// RedisConfig — опциональный Redis для токенов дедупликации.
type RedisConfig struct {
	URL string `yaml:"url" env:"REDIS_URL"`
}

// ViewsConfig — окно дедупликации просмотров и бэкенд хранения токенов.
type ViewsConfig struct {
	// Window — сколько живёт токен (slug, viewer); повторный просмотр в окне не считается.
	Window time.Duration `yaml:"window" env:"VIEWS_WINDOW" env-default:"1h"`
	// Dedup — "mongo" (коллекция views с TTL-индексом) или "redis" (SET NX EX).
	Dedup string `yaml:"dedup" env:"VIEWS_DEDUP" env-default:"mongo"`
}

// CookieConfig — cookie с идентификатором читателя.
type CookieConfig struct {
	Name   string        `yaml:"name"    env:"VIEWER_COOKIE"         env-default:"viewerId"`
	MaxAge time.Duration `yaml:"max_age" env:"VIEWER_COOKIE_MAX_AGE" env-default:"8760h"`
	Secure bool          `yaml:"secure"  env:"VIEWER_COOKIE_SECURE"  env-default:"false"`
}

// CORSConfig — разрешённые источники для браузерных запросов фронтенда.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
}

// PostsConfig — каталог markdown-постов для /posts.json.
// Пустой Dir — индекс всегда пуст.
type PostsConfig struct {
	Dir            string `yaml:"dir"              env:"POSTS_DIR"`
	WordsPerMinute int    `yaml:"words_per_minute" env:"POSTS_WPM" env-default:"200"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)

	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
// После чтения файла накладываем ENV-переменные поверх значений из YAML.
func Load(path string) (*Config, error) {
	var cfg Config

	// чтение файла + overlay ENV.
	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}

		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	// 1) Явный путь.
	if path != "" {
		c, err := tryRead(path)
		if err != nil {
			return nil, err
		}

		if err := c.validate(); err != nil {
			return nil, err
		}

		return c, nil
	}

	// 2) CONFIG_PATH.
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		c, err := tryRead(envPath)
		if err != nil {
			return nil, err
		}

		if err := c.validate(); err != nil {
			return nil, err
		}

		return c, nil
	}

	// 3) ./local.yaml.
	if _, err := os.Stat("local.yaml"); err == nil {
		c, err := tryRead("local.yaml")
		if err != nil {
			return nil, err
		}

		if err := c.validate(); err != nil {
			return nil, err
		}

		return c, nil
	}

	// 4) Только ENV.
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate — базовая валидация значений.
func (c *Config) validate() error {
	if c.DB.URL == "" {
		return fmt.Errorf("db.url is required")
	}

	if c.HTTP.BasePath != "" && (!strings.HasPrefix(c.HTTP.BasePath, "/") || c.HTTP.BasePath == "/") {
		return fmt.Errorf("http.base_path must start with / and not be /")
	}

	if c.Views.Window < time.Second {
		return fmt.Errorf("views.window must be at least 1s")
	}

	switch c.Views.Dedup {
	case DedupMongo:
	case DedupRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("redis.url is required when views.dedup is %q", DedupRedis)
		}
	default:
		return fmt.Errorf("views.dedup must be %q or %q", DedupMongo, DedupRedis)
	}

	if c.Cookie.Name == "" {
		return fmt.Errorf("cookie.name is required")
	}

	if c.Cookie.MaxAge <= 0 {
		return fmt.Errorf("cookie.max_age must be > 0")
	}

	if c.Posts.WordsPerMinute <= 0 {
		return fmt.Errorf("posts.words_per_minute must be > 0")
	}

	return nil
}
