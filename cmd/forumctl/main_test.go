package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"studentForum/internal/shared/auth"
)

func runApp(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	err := app.Run(context.Background(), append([]string{"forumctl", "--env-file", filepath.Join(t.TempDir(), "none.env")}, args...))
	require.NoError(t, err)
	return strings.TrimSpace(out.String())
}

func TestTokenCommand(t *testing.T) {
	req := require.New(t)
	t.Setenv("JWT_SECRET", "cli-secret")

	token := runApp(t, "token", "--user", "mailer", "--role", "service", "--role", "admin", "--ttl", "5m")

	claims, err := auth.NewJWTManager("cli-secret", time.Hour).Validate(token)
	req.NoError(err)
	req.Equal("mailer", claims.Subject)
	req.True(claims.HasRole(auth.RoleService))
	req.True(claims.HasRole(auth.RoleAdmin))
}

func TestSeedCommand(t *testing.T) {
	req := require.New(t)
	t.Setenv("JWT_SECRET", "cli-secret")
	t.Setenv("STORE_DRIVER", "badger")
	t.Setenv("BADGER_PATH", filepath.Join(t.TempDir(), "db"))

	seed := filepath.Join(t.TempDir(), "listings.yaml")
	req.NoError(os.WriteFile(seed, []byte("opportunities:\n  - title: Lab internship\nscholarships:\n  - title: Merit award\n"), 0o600))

	req.Equal("imported 2 of 2 listings", runApp(t, "seed", "--file", seed))
	req.Equal("imported 0 of 2 listings", runApp(t, "seed", "--file", seed))
}

func TestListingsCommand(t *testing.T) {
	req := require.New(t)
	t.Setenv("JWT_SECRET", "cli-secret")
	t.Setenv("STORE_DRIVER", "badger")
	t.Setenv("BADGER_PATH", filepath.Join(t.TempDir(), "db"))

	seed := filepath.Join(t.TempDir(), "listings.yaml")
	req.NoError(os.WriteFile(seed, []byte("scholarships:\n  - title: Merit award\n    organization: Alumni fund\n    category: merit\n  - title: Travel grant\n    category: travel\n"), 0o600))
	runApp(t, "seed", "--file", seed)

	out := runApp(t, "listings", "--kind", "scholarships", "--category", "merit")
	req.Contains(out, "Merit award")
	req.Contains(out, "Alumni fund")
	req.NotContains(out, "Travel grant")
	req.Contains(strings.ToUpper(out), "POSTED BY")
}
