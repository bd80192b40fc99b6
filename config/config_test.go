package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerPort != "5000" {
		t.Errorf("ServerPort = %q", cfg.ServerPort)
	}
	if cfg.DB.Dialect != "postgres" || cfg.DB.Port != 5432 {
		t.Errorf("DB = %+v", cfg.DB)
	}
	if cfg.CategoryCacheTTL != 5*time.Minute {
		t.Errorf("CategoryCacheTTL = %v", cfg.CategoryCacheTTL)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DB_DIALECT", "MySQL")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DB.Dialect != "mysql" || cfg.DB.Port != 3306 || cfg.DB.Host != "db.internal" {
		t.Errorf("DB = %+v", cfg.DB)
	}
	if cfg.RedisDB != 3 {
		t.Errorf("RedisDB = %d", cfg.RedisDB)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("# local overrides\nDB_NAME=from_file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv never overrides variables that are already set
	t.Setenv("DB_NAME", "")
	os.Unsetenv("DB_NAME")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DB.DBName != "from_file" {
		t.Errorf("DBName = %q", cfg.DB.DBName)
	}
}

func TestLoadRejectsUnknownDialect(t *testing.T) {
	t.Setenv("DB_DIALECT", "oracle")
	if _, err := Load(""); err == nil {
		t.Fatal("expected an error")
	}
}

func TestDSN(t *testing.T) {
	pg := DBConfig{Dialect: "postgres", Host: "h", Port: 5432, User: "u", Password: "p", DBName: "trivia", SSLMode: "disable"}
	if got, want := pg.DSN(), "host='h' port=5432 user='u' dbname='trivia' password='p' sslmode='disable'"; got != want {
		t.Errorf("postgres DSN = %q, want %q", got, want)
	}

	// an empty password must not swallow the next keyword
	pg.Password = ""
	if got, want := pg.DSN(), "host='h' port=5432 user='u' dbname='trivia' password='' sslmode='disable'"; got != want {
		t.Errorf("postgres DSN = %q, want %q", got, want)
	}

	pg.Password = `it's a \secret`
	if got := pg.DSN(); !strings.Contains(got, `password='it\'s a \\secret'`) {
		t.Errorf("postgres DSN = %q", got)
	}

	if got := (DBConfig{Dialect: "sqlite3", DBName: "/tmp/trivia.db"}).DSN(); got != "/tmp/trivia.db" {
		t.Errorf("sqlite3 DSN = %q", got)
	}

	my := DBConfig{Dialect: "mysql", Host: "h", Port: 3306, User: "u", Password: "p", DBName: "trivia"}
	got := my.DSN()
	if !strings.HasPrefix(got, "u:p@tcp(h:3306)/trivia?") || !strings.Contains(got, "parseTime=true") {
		t.Errorf("mysql DSN = %q", got)
	}

	if (DBConfig{Dialect: "memory"}).DSN() != "" {
		t.Error("memory dialect should have no DSN")
	}
}
