package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env          string             `yaml:"env" env:"APP_ENV" env-default:"local"`
	HTTP         HTTPConfig         `yaml:"http"`
	Postgres     PostgresConfig     `yaml:"postgres"`
	Redis        RedisConf          `yaml:"redis"`
	Auth         AuthConfig         `yaml:"auth"`
	ImageStorage ImageStorageConfig `yaml:"image_storage"`
	Mail         MailConfig         `yaml:"mail"`
	Cache        CacheConfig        `yaml:"cache"`
	Web          WebConfig          `yaml:"web"`
}

type HTTPConfig struct {
	Host         string        `yaml:"host" env:"HTTP_HOST"`
	Port         string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"30s"`
	CORSOrigins  []string      `yaml:"cors_origins" env:"HTTP_CORS_ORIGINS" env-separator:","`
}

type PostgresConfig struct {
	DSN         string `yaml:"dsn" env:"POSTGRES_DSN" env-required:"true"`
	MaxConns    int32  `yaml:"max_conns" env-default:"10"`
	AutoMigrate bool   `yaml:"auto_migrate" env:"POSTGRES_AUTO_MIGRATE"`
}

type RedisConf struct {
	RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"REDIS_DB"`
}

type AuthConfig struct {
	JWTSecret       string        `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl" env-default:"15m"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" env-default:"168h"`
	ResetTokenTTL   time.Duration `yaml:"reset_token_ttl" env-default:"1h"`
	ResetURL        string        `yaml:"reset_url" env:"AUTH_RESET_URL" env-default:"http://localhost:3000/reset-password"`

	// Роль для изменения товаров и чтения заказов; "*" - любой аутентифицированный пользователь.
	ProductsWriteRole string `yaml:"products_write_role" env:"AUTH_PRODUCTS_WRITE_ROLE" env-default:"Admin"`
	OrdersReadRole    string `yaml:"orders_read_role" env:"AUTH_ORDERS_READ_ROLE" env-default:"Admin"`
}

type ImageStorageConfig struct {
	// Driver: s3, local или none.
	Driver       string        `yaml:"driver" env:"IMAGE_STORAGE_DRIVER" env-default:"none"`
	SignedURLTTL time.Duration `yaml:"signed_url_ttl" env-default:"60m"`
	S3           S3Config      `yaml:"s3"`
	Local        LocalConfig   `yaml:"local"`
}

type S3Config struct {
	Endpoint  string `yaml:"endpoint" env:"S3_ENDPOINT"`
	Region    string `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
	AccessKey string `yaml:"access_key" env:"S3_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"S3_SECRET_KEY"`
	Bucket    string `yaml:"bucket" env:"S3_BUCKET"`
}

type LocalConfig struct {
	BaseDir string `yaml:"base_dir" env-default:"./uploads"`
	BaseURL string `yaml:"base_url" env-default:"http://localhost:8080/uploads"`
}

type MailConfig struct {
	Disabled bool   `yaml:"disabled" env:"MAIL_DISABLED"`
	Host     string `yaml:"host" env:"MAIL_HOST"`
	Port     int    `yaml:"port" env:"MAIL_PORT" env-default:"587"`
	Username string `yaml:"username" env:"MAIL_USERNAME"`
	Password string `yaml:"password" env:"MAIL_PASSWORD"`
	From     string `yaml:"from" env:"MAIL_FROM" env-default:"shop@localhost"`
}

type CacheConfig struct {
	SettingsTTL time.Duration `yaml:"settings_ttl" env-default:"5m"`
}

type WebConfig struct {
	Port       string `yaml:"port" env:"WEB_PORT" env-default:"3000"`
	APIBaseURL string `yaml:"api_base_url" env:"WEB_API_BASE_URL" env-default:"http://localhost:8080"`
	StaticDir  string `yaml:"static_dir" env:"WEB_STATIC_DIR" env-default:"./web/dist"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	cfg, err := LoadPath(configPath)
	if err != nil {
		panic(err)
	}

	return cfg
}

func LoadPath(configPath string) (*Config, error) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, &PathError{Path: configPath}
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

type PathError struct {
	Path string
}

func (e *PathError) Error() string {
	return "config file does not exist: " + e.Path
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
