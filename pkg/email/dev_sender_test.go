package email_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/newsdesk/pkg/email"
)

func TestDevSender_WritesFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sender := email.NewDevSender(dir)

	err := sender.SendEmail(context.Background(), email.SendEmailParams{
		SendTo:   "user@example.com",
		Subject:  "Password Reset",
		BodyHTML: "<p>reset link</p>",
		Tag:      "password-reset",
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var htmlPath, jsonPath string
	for _, e := range entries {
		switch filepath.Ext(e.Name()) {
		case ".html":
			htmlPath = filepath.Join(dir, e.Name())
		case ".json":
			jsonPath = filepath.Join(dir, e.Name())
		}
	}
	require.NotEmpty(t, htmlPath)
	require.NotEmpty(t, jsonPath)

	body, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Equal(t, "<p>reset link</p>", string(body))

	meta, err := os.ReadFile(jsonPath)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(meta, &decoded))
	assert.Equal(t, "user@example.com", decoded["send_to"])
	assert.Equal(t, "Password Reset", decoded["subject"])
	assert.Equal(t, "password-reset", decoded["tag"])

	assert.True(t, strings.Contains(filepath.Base(htmlPath), "password-reset"))
}

func TestDevSender_RejectsInvalidParams(t *testing.T) {
	t.Parallel()

	sender := email.NewDevSender(t.TempDir())

	tests := []struct {
		name   string
		params email.SendEmailParams
	}{
		{"missing recipient", email.SendEmailParams{Subject: "s", BodyHTML: "b"}},
		{"malformed recipient", email.SendEmailParams{SendTo: "not-an-email", Subject: "s", BodyHTML: "b"}},
		{"missing subject", email.SendEmailParams{SendTo: "a@b.co", BodyHTML: "b"}},
		{"missing body", email.SendEmailParams{SendTo: "a@b.co", Subject: "s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := sender.SendEmail(context.Background(), tt.params)
			assert.ErrorIs(t, err, email.ErrInvalidParams)
		})
	}
}

func TestNewPostmarkClient_ConfigValidation(t *testing.T) {
	t.Parallel()

	valid := email.Config{
		PostmarkServerToken:  "server-token",
		PostmarkAccountToken: "account-token",
		SenderEmail:          "no-reply@example.com",
		SupportEmail:         "support@example.com",
	}

	t.Run("accepts valid config", func(t *testing.T) {
		t.Parallel()
		_, err := email.NewPostmarkClient(valid)
		require.NoError(t, err)
	})

	t.Run("rejects missing tokens", func(t *testing.T) {
		t.Parallel()
		cfg := valid
		cfg.PostmarkServerToken = ""
		_, err := email.NewPostmarkClient(cfg)
		assert.ErrorIs(t, err, email.ErrInvalidConfig)
	})

	t.Run("rejects malformed sender", func(t *testing.T) {
		t.Parallel()
		cfg := valid
		cfg.SenderEmail = "nope"
		_, err := email.NewPostmarkClient(cfg)
		assert.ErrorIs(t, err, email.ErrInvalidConfig)
	})
}
