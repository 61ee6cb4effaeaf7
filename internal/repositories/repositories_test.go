package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"beamscan/internal/config"
	"beamscan/internal/domain/scan"
	"beamscan/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return db
}

func TestScanRecordRepository_ListByDevice(t *testing.T) {
	repo := NewScanRecordRepository(setupDB(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		rec := models.NewScanRecord(models.ScanSourceResolve, scan.ModePayment,
			scan.PaymentResult(scan.PaymentIntent{Address: fmt.Sprintf("addr%d", i)}), "payload", "")
		rec.DeviceID = "phone-1"
		require.NoError(t, repo.Create(ctx, rec))
	}
	other := models.NewScanRecord(models.ScanSourceSession, scan.ModeIdentity, scan.Result{}, "", "PERMISSION_DENIED")
	other.DeviceID = "phone-2"
	require.NoError(t, repo.Create(ctx, other))

	records, total, err := repo.ListByDevice(ctx, "phone-1", 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, records, 2)
	assert.Equal(t, "addr2", records[0].Address)
	assert.Equal(t, models.Fingerprint("payload"), records[0].PayloadHash)

	records, total, err = repo.ListByDevice(ctx, "", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Equal(t, "PERMISSION_DENIED", records[0].FailureCode)
}

func TestAddressRepository_List(t *testing.T) {
	repo := NewAddressRepository(setupDB(t))
	ctx := context.Background()
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	now := created.Add(36 * time.Hour)

	entries := []*models.Address{
		{WalletID: "own-forever", Own: true},
		{WalletID: "own-day", Own: true, Duration: 24 * time.Hour},
		{WalletID: "own-week", Own: true, Duration: 7 * 24 * time.Hour},
		{WalletID: "friend", Label: "Bob"},
	}
	for _, a := range entries {
		a.CreatedAt = created
		require.NoError(t, repo.Create(ctx, a))
	}

	ids := func(state models.AddressState) []string {
		addrs, err := repo.List(ctx, state, now)
		require.NoError(t, err)
		var out []string
		for _, a := range addrs {
			assert.True(t, a.Matches(state, now))
			out = append(out, a.WalletID)
		}
		return out
	}

	assert.ElementsMatch(t, []string{"own-forever", "own-week"}, ids(models.AddressActive))
	assert.Equal(t, []string{"own-day"}, ids(models.AddressExpired))
	assert.Equal(t, []string{"friend"}, ids(models.AddressContacts))
}

func TestDialectorFor(t *testing.T) {
	_, err := dialectorFor(config.AppConfig{DBDriver: "mysql"})
	assert.Error(t, err)

	d, err := dialectorFor(config.AppConfig{DBDriver: "sqlite", DBPath: ":memory:"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	d, err = dialectorFor(config.AppConfig{DBDriver: "postgres"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())
}

func TestNewRepositories_NilDB(t *testing.T) {
	assert.Panics(t, func() { NewScanRecordRepository(nil) })
	assert.Panics(t, func() { NewAddressRepository(nil) })
}
