package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
	_ "time/tzdata"
)

const defaultTimezone = "America/Lima"

var (
	appLoc     *time.Location
	appLocOnce sync.Once
)

// AppLocation is the timezone reconciliation dates and range presets are computed in.
func AppLocation() *time.Location {
	appLocOnce.Do(func() {
		name := strings.TrimSpace(os.Getenv("APP_TIMEZONE"))
		if name == "" {
			name = defaultTimezone
		}
		loc, err := time.LoadLocation(name)
		if err != nil {
			log.Printf("invalid APP_TIMEZONE %q: %v; falling back to UTC", name, err)
			loc = time.UTC
		}
		appLoc = loc
	})
	return appLoc
}

func DashboardPageSize() int {
	n := intFromEnv("DASHBOARD_PAGE_SIZE", 10)
	if n <= 0 {
		return 10
	}
	return n
}

func SessionTTL() time.Duration {
	return time.Duration(intFromEnv("DASHBOARD_SESSION_TTL_MINUTES", 30)) * time.Minute
}

func ExportDir() string {
	if v := strings.TrimSpace(os.Getenv("EXPORT_DIR")); v != "" {
		return v
	}
	return "exports"
}

func ReportCacheEnabled() bool {
	return boolFromEnv("ENABLE_REPORT_CACHE", false)
}

func ReportCacheTTL() time.Duration {
	return time.Duration(intFromEnv("REPORT_CACHE_TTL_SECONDS", 300)) * time.Second
}

func ReportSlowThreshold() time.Duration {
	return time.Duration(intFromEnv("REPORT_SLOW_MS", 500)) * time.Millisecond
}

func AutoMigrate() bool {
	return boolFromEnv("AUTO_MIGRATE", false)
}

func intFromEnv(key string, def int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return n
}

func boolFromEnv(key string, def bool) bool {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return def
	}
	return b
}
