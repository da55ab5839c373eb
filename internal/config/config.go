// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек клиента и dev-сервера
type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"local"`
	Client     `yaml:"client"`
	HTTPServer `yaml:"http_server"`
	JWTToken   `yaml:"jwttoken"`
}

// Client структура для настройки клиентской части приложения
type Client struct {
	BaseURL     string        `yaml:"base_url" env:"API_BASE_URL"`
	CDNBaseURL  string        `yaml:"cdn_base_url" env:"CDN_BASE_URL"`
	StoragePath string        `yaml:"storage_path" env-default:"kids-hotline.db"`
	Timeout     time.Duration `yaml:"timeout" env-default:"10s"`
}

// HTTPServer структура для настройки dev-сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:"localhost:8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// JWTToken структура для работы с jwt-токеном dev-сервера
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"720h"`
}

// MustLoad загружает конфиг по пути из CONFIG_PATH, при ошибке завершает процесс
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
