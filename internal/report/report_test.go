package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/contract-archive/internal/model"
)

func fixtureContracts() []model.Contract {
	return []model.Contract{
		{ID: 1, Title: "عقد بيع", Type: "بيع", CreationDate: "2026-10-02", EndDate: "2026-10-25", Status: model.ContractStatusFinal, Value: 1000},
		{ID: 2, Title: "عقد إيجار", Type: "إيجار", CreationDate: "2026-10-10", EndDate: "2026-10-25", Status: model.ContractStatusDraft, Value: 500},
		{ID: 3, Title: "عقد بيع 2", Type: "بيع", CreationDate: "2026-09-01", EndDate: "2027-01-01", Status: model.ContractStatusFinal, Value: 1500},
		{ID: 4, Title: "عقد قديم", Type: "هبة", CreationDate: "2025-01-15", EndDate: "2026-10-18", Status: model.ContractStatusFinal},
	}
}

func TestDashboard(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.Local)

	stats := Dashboard(fixtureContracts(), now)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.ThisMonth)
	// only the final contract ending 2026-10-25; id 4 ended yesterday, id 3 is outside the window
	assert.Equal(t, 1, stats.ExpiringSoon)
	require.Len(t, stats.ByType, 3)
	assert.Equal(t, model.NamedCount{Name: "بيع", Count: 2, Percent: 50}, stats.ByType[0])
	assert.Equal(t, "إيجار", stats.ByType[1].Name)
	assert.Len(t, stats.Recent, 4)
}

func TestDashboardEmpty(t *testing.T) {
	stats := Dashboard(nil, time.Now())
	assert.Zero(t, stats.Total)
	assert.NotNil(t, stats.Recent)
	assert.Empty(t, stats.ByType)
}

func TestDashboardRecentLimit(t *testing.T) {
	contracts := make([]model.Contract, 10)
	for i := range contracts {
		contracts[i].ID = int64(i + 1)
	}
	stats := Dashboard(contracts, time.Now())
	require.Len(t, stats.Recent, RecentLimit)
	ids := make([]int64, 0, len(stats.Recent))
	for _, c := range stats.Recent {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []int64{10, 9, 8, 7, 6, 5}, ids)
	assert.Equal(t, int64(1), contracts[0].ID, "input order is left alone")
}

func TestExpiringSoonBoundaries(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local)
	final := func(end string) model.Contract {
		return model.Contract{Status: model.ContractStatusFinal, EndDate: end}
	}

	assert.False(t, ExpiringSoon(final("2026-01-01"), now), "end equal to now is not in the future")
	assert.True(t, ExpiringSoon(final("2026-01-31"), now), "exactly thirty days ahead is included")
	assert.False(t, ExpiringSoon(final("2026-02-01"), now))
	assert.False(t, ExpiringSoon(final(""), now))
	assert.False(t, ExpiringSoon(model.Contract{Status: model.ContractStatusDraft, EndDate: "2026-01-10"}, now))
}

func TestSummary(t *testing.T) {
	types := []model.ContractTypeDefinition{{Name: "هبة"}, {Name: "بيع"}, {Name: "رهن"}}
	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	summary := Summary(fixtureContracts(), types, now)

	assert.Equal(t, now, summary.GeneratedAt)
	assert.Equal(t, 4, summary.Total)
	assert.InDelta(t, 3000, summary.TotalValue, 0.001)
	assert.InDelta(t, 750, summary.AverageValue, 0.001)

	require.Len(t, summary.ByType, 3)
	assert.Equal(t, model.NamedCount{Name: "بيع", Count: 2, Percent: 50}, summary.ByType[0])
	assert.Equal(t, model.NamedCount{Name: "هبة", Count: 1, Percent: 25}, summary.ByType[1])
	assert.Equal(t, model.NamedCount{Name: "رهن", Count: 0, Percent: 0}, summary.ByType[2])

	require.Len(t, summary.ByStatus, 4)
	assert.Equal(t, string(model.ContractStatusDraft), summary.ByStatus[0].Name)
	assert.Equal(t, 1, summary.ByStatus[0].Count)
	assert.Equal(t, 3, summary.ByStatus[1].Count)
	assert.Equal(t, 75, summary.ByStatus[1].Percent)

	require.Len(t, summary.ByMonth, 3)
	assert.Equal(t, "2025-01", summary.ByMonth[0].Name)
	assert.Equal(t, model.NamedCount{Name: "2026-10", Count: 2, Percent: 50}, summary.ByMonth[2])
}

func TestSummaryEmptyAverage(t *testing.T) {
	summary := Summary(nil, nil, time.Now())
	assert.Zero(t, summary.AverageValue)
	assert.Len(t, summary.ByStatus, 4)
	assert.Empty(t, summary.ByMonth)
}

func TestParseDate(t *testing.T) {
	for _, raw := range []string{"2026-03-04", "2026-03-04T10:11:12Z", "2026-03-04T10:11"} {
		got, ok := ParseDate(raw)
		require.True(t, ok, raw)
		assert.Equal(t, time.March, got.Month())
	}
	_, ok := ParseDate("04/03/2026")
	assert.False(t, ok)
}
