package db

import (
	"context"
	"errors"
	"testing"

	"github.com/rmarquez/ventapos-backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	client, err := New(context.Background(), config.DBConfig{
		Driver: config.DriverSQLite,
		DSN:    "file::memory:?cache=shared",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewRequiresDSN(t *testing.T) {
	_, err := New(context.Background(), config.DBConfig{Driver: config.DriverSQLite}, nil)
	require.Error(t, err)
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(context.Background(), config.DBConfig{Driver: "mssql", DSN: "x"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported db driver")
}

func TestPing(t *testing.T) {
	client := newTestClient(t)
	require.NoError(t, client.Ping(context.Background()))
}

func TestWithTxCommitsOnSuccess(t *testing.T) {
	client := newTestClient(t)
	require.NoError(t, client.DB().Exec("CREATE TABLE tx_probe (id INTEGER PRIMARY KEY, v TEXT)").Error)

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		return tx.Exec("INSERT INTO tx_probe (v) VALUES ('a')").Error
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, client.DB().Raw("SELECT COUNT(*) FROM tx_probe").Scan(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	client := newTestClient(t)
	require.NoError(t, client.DB().Exec("CREATE TABLE tx_probe2 (id INTEGER PRIMARY KEY, v TEXT)").Error)

	boom := errors.New("boom")
	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Exec("INSERT INTO tx_probe2 (v) VALUES ('a')").Error; err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, client.DB().Raw("SELECT COUNT(*) FROM tx_probe2").Scan(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil, ""))
	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: products.id"), ""))
	assert.True(t, IsUniqueViolation(errors.New("constraint sale_details_pkey"), "sale_details_pkey"))
	assert.False(t, IsUniqueViolation(errors.New("syntax error"), ""))
}
