package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/ssc")
	t.Setenv("SECRET", "s3cr3t")
	t.Setenv("MAILGUN_API", "key")
	t.Setenv("DOMAINMAILGUN", "mg.example.com")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, defaultFrontEnd, cfg.FrontEnd)
	assert.Equal(t, []string{defaultFrontEnd}, cfg.AllowedOrigins)
	assert.Equal(t, defaultAssetsDir, cfg.AssetsDir)
	assert.Equal(t, MailMailgun, cfg.MailProvider)
	assert.Equal(t, defaultMailgunURL, cfg.MailgunURL)
	assert.Equal(t, defaultVerifyFrom, cfg.VerifyFrom)
	assert.Equal(t, defaultNewsletterFrom, cfg.NewsletterFrom)
	assert.Equal(t, StorageLocal, cfg.Storage)
	assert.Equal(t, SessionsRedis, cfg.SessionStore)
	assert.Equal(t, defaultLogLevel, cfg.DebugLevel)
	assert.Equal(t, 15*time.Minute, cfg.VerificationTTL)
}

func TestLoadEnvFileAndFlags(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("PORT=4000\nALLOWED_ORIGINS=https://a.example,https://b.example\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("ALLOWED_ORIGINS")
	})

	cfg, err := Load(envFile, []string{"--frontend=https://club.example/", "--verificationttl=1m"})
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, "https://club.example", cfg.FrontEnd)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, time.Minute, cfg.VerificationTTL)
}

func TestLoadMissingEnvFileIsIgnored(t *testing.T) {
	setRequired(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"), nil)
	assert.NoError(t, err)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"no database", map[string]string{"DATABASE_URL": ""}, nil},
		{"no secret", map[string]string{"SECRET": ""}, nil},
		{"mailgun without key", map[string]string{"MAILGUN_API": ""}, nil},
		{"resend without key", nil, []string{"--mailprovider=resend"}},
		{"smtp without url", nil, []string{"--mailprovider=smtp"}},
		{"reputation without key", nil, []string{"--emailreputation"}},
		{"s3 without bucket", nil, []string{"--storage=s3"}},
		{"unknown provider", nil, []string{"--mailprovider=pigeon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("", tt.args)
			assert.Error(t, err)
		})
	}
}
