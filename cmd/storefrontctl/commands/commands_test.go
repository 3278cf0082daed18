package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "storefrontctl dev\n", out.String())
}

func TestResolveDSN(t *testing.T) {
	t.Cleanup(func() {
		dbURL = ""
		configPath = ""
	})

	dbURL = "postgres://u:p@localhost/db"
	configPath = ""

	dsn, err := resolveDSN()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@localhost/db", dsn)

	dbURL = ""
	_, err = resolveDSN()
	assert.Error(t, err)

	configPath = "/does/not/exist.yaml"
	_, err = resolveDSN()
	assert.Error(t, err)
}

func TestCreateAdmin_ValidatesInputBeforeConnecting(t *testing.T) {
	t.Cleanup(func() {
		adminUsername, adminEmail, adminPassword, dbURL = "", "", "", ""
	})

	adminUsername = "ad"
	adminEmail = "not-an-email"
	adminPassword = "short"
	dbURL = "postgres://nowhere:1/none"

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	err := runCreateAdmin(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid admin data")
}
