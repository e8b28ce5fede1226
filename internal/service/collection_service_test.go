package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/contract-archive/internal/config"
	"github.com/nurpe/contract-archive/internal/db/dbtest"
	"github.com/nurpe/contract-archive/internal/model"
	"github.com/nurpe/contract-archive/internal/repository"
)

var fixedNow = time.Date(2026, 3, 15, 9, 30, 0, 0, time.Local)

func newCollections(t *testing.T, rejectNonArray bool) *CollectionService {
	t.Helper()
	cfg := &config.Config{Store: config.StoreConfig{RejectNonArray: rejectNonArray}}
	svc := NewCollectionService(repository.NewCollectionRepository(dbtest.New(t)), cfg, zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }
	svc.jitter = func(int64) int64 { return 0 }
	return svc
}

func listJSON(t *testing.T, svc *CollectionService, table string) string {
	t.Helper()
	docs, err := svc.List(context.Background(), table)
	require.NoError(t, err)
	out, err := json.Marshal(docs)
	require.NoError(t, err)
	return string(out)
}

const arabicContract = `{"id":1700000000123,"title":"عقد بيع سيارة","type":"عقد بيع","party1":{"name":"أحمد علي","type":"فرد","idNumber":"P123","idType":"جواز سفر","nationalId":"","phone":""},"creationDate":"2024-01-10","startDate":"2024-01-10","value":15000,"status":"نهائي","editorName":"محرر","keywords":[],"notes":"","isArchived":false}`

func TestCollectionService_SaveAndListRoundTrip(t *testing.T) {
	svc := newCollections(t, false)
	ctx := context.Background()

	result, err := svc.Save(ctx, "contracts", []byte("["+arabicContract+"]"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, []int64{1700000000123}, result.IDs)

	assert.JSONEq(t, "["+arabicContract+"]", listJSON(t, svc, "contracts"))

	one, err := svc.Get(ctx, "contracts", 1700000000123)
	require.NoError(t, err)
	assert.JSONEq(t, arabicContract, string(one))

	contract, err := svc.Contract(ctx, 1700000000123)
	require.NoError(t, err)
	assert.Equal(t, "عقد بيع سيارة", contract.Title)
	assert.Equal(t, model.ContractStatusFinal, contract.Status)
}

func TestCollectionService_SaveReplacesWholeCollection(t *testing.T) {
	svc := newCollections(t, false)
	ctx := context.Background()

	_, err := svc.Save(ctx, "users", []byte(`[{"id":1,"name":"a"},{"id":2,"name":"b"}]`))
	require.NoError(t, err)
	_, err = svc.Save(ctx, "users", []byte(`[{"id":2,"name":"b2"}]`))
	require.NoError(t, err)

	assert.JSONEq(t, `[{"id":2,"name":"b2"}]`, listJSON(t, svc, "users"))
}

func TestCollectionService_SaveNonArrayBody(t *testing.T) {
	ctx := context.Background()

	t.Run("lenient empties the collection", func(t *testing.T) {
		svc := newCollections(t, false)
		_, err := svc.Save(ctx, "contracts", []byte(`[{"id":1}]`))
		require.NoError(t, err)

		result, err := svc.Save(ctx, "contracts", []byte(`{"id":1}`))
		require.NoError(t, err)
		assert.Equal(t, 0, result.Count)
		assert.JSONEq(t, `[]`, listJSON(t, svc, "contracts"))
	})

	t.Run("strict rejects", func(t *testing.T) {
		svc := newCollections(t, true)
		_, err := svc.Save(ctx, "contracts", []byte(`[{"id":1}]`))
		require.NoError(t, err)

		_, err = svc.Save(ctx, "contracts", []byte(`{"id":1}`))
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.JSONEq(t, `[{"id":1}]`, listJSON(t, svc, "contracts"))
	})
}

func TestCollectionService_SaveRejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `[{"id":1`},
		{"non-object item", `[1, 2]`},
		{"duplicate ids", `[{"id":5},{"id":5}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newCollections(t, false)
			ctx := context.Background()
			_, err := svc.Save(ctx, "contracts", []byte(`[{"id":9}]`))
			require.NoError(t, err)

			_, err = svc.Save(ctx, "contracts", []byte(tt.body))
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.JSONEq(t, `[{"id":9}]`, listJSON(t, svc, "contracts"))
		})
	}
}

func TestCollectionService_FallbackIDs(t *testing.T) {
	svc := newCollections(t, false)
	ctx := context.Background()

	result, err := svc.Save(ctx, "contract_types", []byte(`[{"name":"بيع"},{"id":"x","name":"إيجار"},{"id":1.5,"name":"هبة"}]`))
	require.NoError(t, err)

	base := fixedNow.UnixMilli()
	assert.Equal(t, []int64{base, base + 1, base + 2}, result.IDs)

	types, err := svc.ContractTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, 3)
	assert.Equal(t, base, types[0].ID)
	assert.Equal(t, "بيع", types[0].Name)
}

func TestCollectionService_InvalidTable(t *testing.T) {
	svc := newCollections(t, false)
	ctx := context.Background()

	_, err := svc.List(ctx, "secrets")
	assert.ErrorIs(t, err, ErrInvalidTable)
	_, err = svc.Save(ctx, "pg_user", []byte(`[]`))
	assert.ErrorIs(t, err, ErrInvalidTable)
}

func TestCollectionService_GetMissing(t *testing.T) {
	svc := newCollections(t, false)

	_, err := svc.Get(context.Background(), "contracts", 42)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Contract(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCollectionService_BackupRestore(t *testing.T) {
	svc := newCollections(t, false)
	ctx := context.Background()

	_, err := svc.Save(ctx, "contracts", []byte(`[{"id":1,"title":"a"}]`))
	require.NoError(t, err)
	_, err = svc.Save(ctx, "audit_log", []byte(`[{"id":3,"action":"x"}]`))
	require.NoError(t, err)

	backup, err := svc.Backup(ctx)
	require.NoError(t, err)
	assert.Len(t, backup, len(model.Tables))
	assert.Len(t, backup["contracts"], 1)
	assert.Empty(t, backup["users"])

	restored, err := svc.Restore(ctx, []byte(`{"users":[{"id":7,"name":"u"}],"contracts":"skip me","unknown":[{"id":1}]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"users"}, restored)

	assert.JSONEq(t, `[{"id":7,"name":"u"}]`, listJSON(t, svc, "users"))
	assert.JSONEq(t, `[{"id":1,"title":"a"}]`, listJSON(t, svc, "contracts"))
	assert.JSONEq(t, `[{"id":3,"action":"x"}]`, listJSON(t, svc, "audit_log"))
}

func TestCollectionService_RestoreRejectsNonObject(t *testing.T) {
	svc := newCollections(t, false)

	_, err := svc.Restore(context.Background(), []byte(`[{"id":1}]`))
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Restore(context.Background(), []byte(`{"users":[{"id":1},{"id":1}]}`))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCollectionService_AppendAudit(t *testing.T) {
	svc := newCollections(t, false)
	ctx := context.Background()

	require.NoError(t, svc.AppendAudit(ctx, "ناجي", "تسجيل الدخول"))
	require.NoError(t, svc.AppendAudit(ctx, "", "نسخ احتياطي"))

	docs, err := svc.List(ctx, "audit_log")
	require.NoError(t, err)
	require.Len(t, docs, 2)

	var first, second model.AuditLogEntry
	require.NoError(t, json.Unmarshal(docs[0], &first))
	require.NoError(t, json.Unmarshal(docs[1], &second))

	assert.Equal(t, fixedNow.UnixMilli(), first.ID)
	assert.Equal(t, fixedNow.UnixMilli()+1, second.ID)
	assert.Equal(t, "2026/03/15 09:30:00", first.Timestamp)
	assert.Equal(t, "ناجي", first.User)
	assert.Equal(t, anonymousActor, second.User)
}

func TestCollectionService_SettingsUsesLatestRow(t *testing.T) {
	svc := newCollections(t, false)
	ctx := context.Background()

	settings, err := svc.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultOfficeTitle, settings.Title())

	_, err = svc.Save(ctx, "system_settings", []byte(`[{"id":1,"officeTitle":"قديم"},{"id":2,"officeTitle":"مكتب النور","showLicenseNumber":false}]`))
	require.NoError(t, err)

	settings, err = svc.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "مكتب النور", settings.Title())
	assert.False(t, settings.LicenseVisible())
}
