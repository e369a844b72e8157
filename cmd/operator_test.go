package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"maintenance_dashboard/internal/repository"
	"maintenance_dashboard/internal/repository/db"
	"maintenance_dashboard/internal/service"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "operator-test-signing-key"

func operatorConfig(t *testing.T) (*viper.Viper, string) {
	t.Helper()
	t.Chdir(t.TempDir())
	v := viper.New()
	require.NoError(t, loadConfig(v, ""))
	path := filepath.Join(t.TempDir(), "ops.db")
	v.Set("db.path", path)
	v.Set("auth.signing_key", testKey)
	return v, path
}

func TestRunOperatorAdd_PasswordFromStdin(t *testing.T) {
	v, path := operatorConfig(t)
	var out bytes.Buffer

	err := runOperatorAdd(context.Background(), v, " jefe ", "", strings.NewReader("turno-noche\n"), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), `operator "jefe" created`)

	sqlDB, err := db.InitDB(path)
	require.NoError(t, err)
	defer func() { _ = sqlDB.Close() }()
	auth := service.NewAuthService(repository.NewRepository(sqlDB).Operators, testKey, 0)
	token, err := auth.GenerateToken(context.Background(), "jefe", "turno-noche")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestRunOperatorAdd_EmptyPassword(t *testing.T) {
	v, _ := operatorConfig(t)
	err := runOperatorAdd(context.Background(), v, "jefe", "", strings.NewReader(""), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRunOperatorAdd_Duplicate(t *testing.T) {
	v, _ := operatorConfig(t)
	require.NoError(t, runOperatorAdd(context.Background(), v, "jefe", "a", nil, &bytes.Buffer{}))
	assert.Error(t, runOperatorAdd(context.Background(), v, "jefe", "b", nil, &bytes.Buffer{}))
}
