package destinations

import (
	"path/filepath"
	"strings"
	"testing"

	"certifire/internal/database"
	"certifire/internal/destinations/types"
	"certifire/internal/encryption"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T, secretKey []byte) *gorm.DB {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "certifire.db"), secretKey)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = database.CloseDB(db)
		_ = encryption.SetKey(nil)
	})

	return db
}

func sampleDestination() *types.Destination {
	dest := &types.Destination{
		Host:     "web1.example.com",
		Password: "hunter2",
		Domains:  "example.com,www.example.com",
	}
	dest.ApplyDefaults(types.StockDefaults)

	return dest
}

func TestRepository_CreateGet(t *testing.T) {
	repo := NewRepository(openTestDB(t, nil))

	dest := sampleDestination()
	require.NoError(t, repo.Create(dest))
	require.NotZero(t, dest.ID)

	got, err := repo.Get(dest.ID)
	require.NoError(t, err)

	assert.Equal(t, "web1.example.com", got.Host)
	assert.Equal(t, uint(22), got.Port)
	assert.Equal(t, "root", got.User)
	assert.Equal(t, "hunter2", got.Password)
	assert.Equal(t, "/var/www/html", got.ChallengeDestinationPath)
	assert.Equal(t, "/etc/nginx/certs", got.CertificateDestinationPath)
	assert.Equal(t, types.ExportFormatBundled, got.ExportFormat)
	assert.Equal(t, "example.com,www.example.com", got.Domains)
}

func TestRepository_GetMissing(t *testing.T) {
	repo := NewRepository(openTestDB(t, nil))

	_, err := repo.Get(42)
	assert.ErrorIs(t, err, ErrDestinationNotFound)
}

func TestRepository_GetAllAndDelete(t *testing.T) {
	repo := NewRepository(openTestDB(t, nil))

	first, second := sampleDestination(), sampleDestination()
	second.Host = "web2.example.com"
	require.NoError(t, repo.Create(first))
	require.NoError(t, repo.Create(second))

	all, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "web1.example.com", all[0].Host)

	require.NoError(t, repo.Delete(first.ID))
	assert.ErrorIs(t, repo.Delete(first.ID), ErrDestinationNotFound)

	all, err = repo.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, second.ID, all[0].ID)
}

func TestRepository_SecretsEncryptedAtRest(t *testing.T) {
	key, err := encryption.GenerateKey()
	require.NoError(t, err)

	db := openTestDB(t, key)
	repo := NewRepository(db)

	dest := sampleDestination()
	dest.Passphrase = "key passphrase"
	require.NoError(t, repo.Create(dest))

	var stored struct {
		Password   string
		Passphrase string
	}
	require.NoError(t, db.Raw("SELECT password, passphrase FROM destinations WHERE id = ?", dest.ID).Scan(&stored).Error)

	assert.True(t, strings.HasPrefix(stored.Password, "enc:"))
	assert.NotContains(t, stored.Password, "hunter2")
	assert.True(t, encryption.IsEncrypted(stored.Passphrase))

	got, err := repo.Get(dest.ID)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", got.Password)
	assert.Equal(t, "key passphrase", got.Passphrase)
}
