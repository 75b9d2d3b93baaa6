package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string
	SiteID   string
	LogLevel string

	DBDriver string // sqlite|postgres|memory
	DBDSN    string

	EnableLocalAuth bool
	EnableGuestAuth bool
	AuthHMACSecret  string

	AdminUser     string
	AdminPassHash string // bcrypt; empty skips seeding

	CORSOriginsOnline  []string
	CORSOriginsOffline []string
}

// CORSOrigins returns the allow-list for the active mode.
func (c Config) CORSOrigins() []string {
	if c.Mode == ModeOnline {
		return c.CORSOriginsOnline
	}
	return c.CORSOriginsOffline
}

// FromEnv reads configuration from the process environment.
func FromEnv() Config {
	v := viper.New()
	v.AutomaticEnv()
	return Load(v)
}

// Load reads configuration from v, filling defaults for anything unset.
func Load(v *viper.Viper) Config {
	v.SetDefault("MODE", string(ModeOffline))
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("SITE_ID", "local")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("ENABLE_LOCAL_AUTH", true)
	v.SetDefault("ENABLE_GUEST_AUTH", true)
	v.SetDefault("AUTH_HMAC_SECRET", "supersecret-dev-key")
	v.SetDefault("ADMIN_USER", "admin")
	v.SetDefault("ADMIN_PASS_HASH", "")
	v.SetDefault("CORS_ORIGINS_ONLINE", "https://meritcalc.example.com")
	v.SetDefault("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:5173")

	mode := Mode(strings.ToLower(v.GetString("MODE")))
	if mode != ModeOnline {
		mode = ModeOffline
	}
	return Config{
		Mode:               mode,
		HTTPAddr:           v.GetString("HTTP_ADDR"),
		SiteID:             v.GetString("SITE_ID"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		DBDriver:           v.GetString("DB_DRIVER"),
		DBDSN:              v.GetString("DB_DSN"),
		EnableLocalAuth:    v.GetBool("ENABLE_LOCAL_AUTH"),
		EnableGuestAuth:    v.GetBool("ENABLE_GUEST_AUTH"),
		AuthHMACSecret:     v.GetString("AUTH_HMAC_SECRET"),
		AdminUser:          v.GetString("ADMIN_USER"),
		AdminPassHash:      v.GetString("ADMIN_PASS_HASH"),
		CORSOriginsOnline:  csv(v.GetString("CORS_ORIGINS_ONLINE")),
		CORSOriginsOffline: csv(v.GetString("CORS_ORIGINS_OFFLINE")),
	}
}

func csv(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
