package config

import (
	"os"
	"testing"
	"time"
)

var envVarsToTest = []string{
	"SERVER_HOST", "SERVER_PORT", "DATABASE_HOST", "DATABASE_PORT",
	"DATABASE_USER", "DATABASE_PASSWORD", "DATABASE_DBNAME", "DATABASE_SSLMODE",
	"NATS_URL", "VERIFIER_URL", "VERIFIER_TIMEOUT",
	"AUTH_JWT_SECRET", "AUTH_TOKEN_TTL", "AUTH_ADMIN_IDS",
	"CORS_ALLOWED_ORIGINS", "LOG_LEVEL", "LOG_JSON",
}

// snapshotEnv clears the config environment and returns a restore func.
func snapshotEnv(t *testing.T) func() {
	t.Helper()
	original := make(map[string]string)
	for _, envVar := range envVarsToTest {
		original[envVar] = os.Getenv(envVar)
		os.Unsetenv(envVar)
	}
	return func() {
		for envVar, value := range original {
			if value == "" {
				os.Unsetenv(envVar)
			} else {
				os.Setenv(envVar, value)
			}
		}
	}
}

func TestLoad(t *testing.T) {
	restore := snapshotEnv(t)
	defer restore()

	tests := []struct {
		name    string
		envVars map[string]string
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name:    "default_values",
			envVars: map[string]string{},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 8080 {
					t.Errorf("unexpected server config: %+v", cfg.Server)
				}
				if cfg.Database.DBName != "kyc" || cfg.Database.Port != 5432 {
					t.Errorf("unexpected database config: %+v", cfg.Database)
				}
				if cfg.NATS.URL != "nats://localhost:4222" {
					t.Errorf("unexpected NATS URL: %s", cfg.NATS.URL)
				}
				if cfg.Verifier.URL != "http://localhost:5001" {
					t.Errorf("unexpected verifier URL: %s", cfg.Verifier.URL)
				}
				if cfg.Verifier.Timeout != 30*time.Second {
					t.Errorf("unexpected verifier timeout: %s", cfg.Verifier.Timeout)
				}
				if cfg.Auth.TokenTTL != 24*time.Hour {
					t.Errorf("unexpected token TTL: %s", cfg.Auth.TokenTTL)
				}
				if len(cfg.Auth.AdminIDs) != 2 {
					t.Errorf("unexpected admin ID allow-list: %v", cfg.Auth.AdminIDs)
				}
				if cfg.Log.Level != "info" || cfg.Log.JSON {
					t.Errorf("unexpected log config: %+v", cfg.Log)
				}
			},
		},
		{
			name: "custom_server_config",
			envVars: map[string]string{
				"SERVER_HOST": "127.0.0.1",
				"SERVER_PORT": "9090",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Server.Host != "127.0.0.1" {
					t.Errorf("expected server host '127.0.0.1', but got '%s'", cfg.Server.Host)
				}
				if cfg.Server.Port != 9090 {
					t.Errorf("expected server port 9090, but got %d", cfg.Server.Port)
				}
			},
		},
		{
			name: "custom_database_config",
			envVars: map[string]string{
				"DATABASE_HOST":     "db.example.com",
				"DATABASE_PORT":     "5433",
				"DATABASE_USER":     "testuser",
				"DATABASE_PASSWORD": "testpass",
				"DATABASE_DBNAME":   "testdb",
				"DATABASE_SSLMODE":  "require",
			},
			check: func(t *testing.T, cfg *Config) {
				want := DatabaseConfig{
					Host: "db.example.com", Port: 5433, User: "testuser",
					Password: "testpass", DBName: "testdb", SSLMode: "require",
				}
				if cfg.Database != want {
					t.Errorf("expected database config %+v, but got %+v", want, cfg.Database)
				}
			},
		},
		{
			name: "custom_verifier_config",
			envVars: map[string]string{
				"VERIFIER_URL":     "http://verifier.internal:5001",
				"VERIFIER_TIMEOUT": "5s",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Verifier.URL != "http://verifier.internal:5001" {
					t.Errorf("unexpected verifier URL: %s", cfg.Verifier.URL)
				}
				if cfg.Verifier.Timeout != 5*time.Second {
					t.Errorf("expected verifier timeout 5s, but got %s", cfg.Verifier.Timeout)
				}
			},
		},
		{
			name: "custom_auth_config",
			envVars: map[string]string{
				"AUTH_JWT_SECRET": "super-secret",
				"AUTH_TOKEN_TTL":  "1h",
				"AUTH_ADMIN_IDS":  "Ad#1111,Ad#2222,Ad#3333",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Auth.JWTSecret != "super-secret" {
					t.Errorf("unexpected JWT secret: %s", cfg.Auth.JWTSecret)
				}
				if cfg.Auth.TokenTTL != time.Hour {
					t.Errorf("expected token TTL 1h, but got %s", cfg.Auth.TokenTTL)
				}
				if len(cfg.Auth.AdminIDs) != 3 || cfg.Auth.AdminIDs[2] != "Ad#3333" {
					t.Errorf("unexpected admin ID allow-list: %v", cfg.Auth.AdminIDs)
				}
			},
		},
		{
			name: "custom_log_config",
			envVars: map[string]string{
				"LOG_LEVEL": "debug",
				"LOG_JSON":  "true",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Log.Level != "debug" {
					t.Errorf("expected log level 'debug', but got '%s'", cfg.Log.Level)
				}
				if !cfg.Log.JSON {
					t.Error("expected log JSON true, but got false")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, envVar := range envVarsToTest {
				os.Unsetenv(envVar)
			}
			for key, value := range tt.envVars {
				os.Setenv(key, value)
			}

			cfg, err := Load()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg == nil {
				t.Fatal("expected config, but got nil")
			}
			tt.check(t, cfg)
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	tests := []struct {
		name        string
		config      *Config
		expectedDSN string
	}{
		{
			name: "default_config",
			config: &Config{
				Database: DatabaseConfig{
					Host:     "localhost",
					Port:     5432,
					User:     "postgres",
					Password: "postgres",
					DBName:   "kyc",
					SSLMode:  "disable",
				},
			},
			expectedDSN: "host=localhost port=5432 user=postgres password=postgres dbname=kyc sslmode=disable",
		},
		{
			name: "custom_config",
			config: &Config{
				Database: DatabaseConfig{
					Host:     "db.example.com",
					Port:     5433,
					User:     "testuser",
					Password: "testpass",
					DBName:   "testdb",
					SSLMode:  "require",
				},
			},
			expectedDSN: "host=db.example.com port=5433 user=testuser password=testpass dbname=testdb sslmode=require",
		},
		{
			name: "empty_password",
			config: &Config{
				Database: DatabaseConfig{
					Host:     "localhost",
					Port:     5432,
					User:     "postgres",
					Password: "",
					DBName:   "kyc",
					SSLMode:  "disable",
				},
			},
			expectedDSN: "host=localhost port=5432 user=postgres password= dbname=kyc sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn := tt.config.DatabaseDSN()
			if dsn != tt.expectedDSN {
				t.Errorf("expected DSN '%s', but got '%s'", tt.expectedDSN, dsn)
			}
		})
	}
}

func TestInvalidPortConfiguration(t *testing.T) {
	restore := snapshotEnv(t)
	defer restore()

	tests := []struct {
		name    string
		envVars map[string]string
	}{
		{
			name:    "invalid_server_port",
			envVars: map[string]string{"SERVER_PORT": "invalid"},
		},
		{
			name:    "invalid_database_port",
			envVars: map[string]string{"DATABASE_PORT": "not_a_number"},
		},
		{
			name:    "invalid_verifier_timeout",
			envVars: map[string]string{"VERIFIER_TIMEOUT": "soon"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, envVar := range envVarsToTest {
				os.Unsetenv(envVar)
			}
			for key, value := range tt.envVars {
				os.Setenv(key, value)
			}

			if _, err := Load(); err == nil {
				t.Error("expected error for invalid configuration, but got nil")
			}
		})
	}
}
