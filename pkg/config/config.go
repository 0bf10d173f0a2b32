package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App    AppConfig
	Log    LogConfig
	API    APIConfig
	JWT    JWTConfig
	HTTP   HTTPConfig
	Report ReportConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// LogConfig nivel del logger estructurado.
type LogConfig struct {
	Level string // trace, debug, info, warn, error
}

// APIConfig servidor GraphQL de logística. El host real lo fija el QR escaneado;
// DefaultHost solo aplica mientras la sesión no tiene host.
type APIConfig struct {
	DefaultHost string
	Scheme      string
	GraphQLPath string
	WSPath      string
	Token       string
	Timeout     time.Duration
}

// JWTConfig configuración de JWT para los tokens de sesión del bridge.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ReportConfig opciones de los documentos PDF.
type ReportConfig struct {
	Locale string // BCP 47, p. ej. es-CO
}

// devJWTSecret solo se usa en development cuando JWT_SECRET no está definido.
const devJWTSecret = "development-only-secret"

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, API_DEFAULT_HOST, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return FromViper(v)
}

// FromViper construye la configuración desde una instancia de Viper ya cargada.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "inventario-eventos"),
		},
		Log: LogConfig{
			Level: getString(v, "LOG_LEVEL", "info"),
		},
		API: APIConfig{
			DefaultHost: getString(v, "API_DEFAULT_HOST", ""),
			Scheme:      getString(v, "API_SCHEME", "https"),
			GraphQLPath: getString(v, "API_GRAPHQL_PATH", "/graphql"),
			WSPath:      getString(v, "API_WS_PATH", "/graphql"),
			Token:       getString(v, "API_TOKEN", ""),
			Timeout:     time.Duration(getInt(v, "API_TIMEOUT_SECONDS", 20)) * time.Second,
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 720),
			Issuer:     getString(v, "JWT_ISSUER", "inventario-eventos"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "127.0.0.1"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Report: ReportConfig{
			Locale: getString(v, "REPORT_LOCALE", "es-CO"),
		},
	}

	if cfg.JWT.Secret == "" {
		if cfg.App.Env != "development" {
			return nil, errors.New("config: JWT_SECRET es obligatorio fuera de development")
		}
		cfg.JWT.Secret = devJWTSecret
	}
	if cfg.API.Scheme != "http" && cfg.API.Scheme != "https" {
		return nil, fmt.Errorf("config: API_SCHEME inválido %q (http|https)", cfg.API.Scheme)
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
