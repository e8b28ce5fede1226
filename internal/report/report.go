// Package report derives the dashboard and report views from a contract list.
// Every function is pure and recomputed on each request.
package report

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/nurpe/contract-archive/internal/model"
)

const (
	ExpiryWindow = 30 * 24 * time.Hour
	RecentLimit  = 6
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDate accepts the date shapes the client writes.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func Dashboard(contracts []model.Contract, now time.Time) model.DashboardStats {
	stats := model.DashboardStats{
		Total:  len(contracts),
		ByType: countBy(contracts, func(c model.Contract) string { return c.Type }),
		Recent: []model.Contract{},
	}

	for _, c := range contracts {
		if created, ok := ParseDate(c.CreationDate); ok {
			if created.Year() == now.Year() && created.Month() == now.Month() {
				stats.ThisMonth++
			}
		}
		if ExpiringSoon(c, now) {
			stats.ExpiringSoon++
		}
	}

	stats.Recent = append(stats.Recent, Recent(contracts, RecentLimit)...)
	return stats
}

// Recent returns up to limit contracts, newest first. Ids are creation
// timestamps, so a higher id is a newer contract.
func Recent(contracts []model.Contract, limit int) []model.Contract {
	sorted := append([]model.Contract(nil), contracts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ID > sorted[j].ID
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// ExpiringSoon reports a final contract whose end date falls within the next
// thirty days.
func ExpiringSoon(c model.Contract, now time.Time) bool {
	if c.Status != model.ContractStatusFinal {
		return false
	}
	end, ok := ParseDate(c.EndDate)
	if !ok {
		return false
	}
	return end.After(now) && !end.After(now.Add(ExpiryWindow))
}

func Summary(contracts []model.Contract, types []model.ContractTypeDefinition, now time.Time) model.ReportSummary {
	summary := model.ReportSummary{
		GeneratedAt: now,
		Total:       len(contracts),
		ByType:      make([]model.NamedCount, 0, len(types)),
		ByStatus:    make([]model.NamedCount, 0, len(model.ContractStatuses)),
		ByMonth:     ByMonth(contracts),
	}

	for _, c := range contracts {
		summary.TotalValue += c.Value.Float64()
	}
	divisor := len(contracts)
	if divisor == 0 {
		divisor = 1
	}
	summary.AverageValue = summary.TotalValue / float64(divisor)

	for _, def := range types {
		count := 0
		for _, c := range contracts {
			if c.Type == def.Name {
				count++
			}
		}
		summary.ByType = append(summary.ByType, model.NamedCount{
			Name:    def.Name,
			Count:   count,
			Percent: percent(count, len(contracts)),
		})
	}
	sort.SliceStable(summary.ByType, func(i, j int) bool {
		return summary.ByType[i].Count > summary.ByType[j].Count
	})

	for _, status := range model.ContractStatuses {
		count := 0
		for _, c := range contracts {
			if c.Status == status {
				count++
			}
		}
		summary.ByStatus = append(summary.ByStatus, model.NamedCount{
			Name:    string(status),
			Count:   count,
			Percent: percent(count, len(contracts)),
		})
	}
	return summary
}

// ByMonth counts contracts per creation month (YYYY-MM), oldest first.
// Contracts without a parseable creation date are left out.
func ByMonth(contracts []model.Contract) []model.NamedCount {
	counts := map[string]int{}
	for _, c := range contracts {
		created, ok := ParseDate(c.CreationDate)
		if !ok {
			continue
		}
		counts[created.Format("2006-01")]++
	}

	months := make([]string, 0, len(counts))
	for month := range counts {
		months = append(months, month)
	}
	sort.Strings(months)

	result := make([]model.NamedCount, 0, len(months))
	for _, month := range months {
		result = append(result, model.NamedCount{
			Name:    month,
			Count:   counts[month],
			Percent: percent(counts[month], len(contracts)),
		})
	}
	return result
}

func countBy(contracts []model.Contract, key func(model.Contract) string) []model.NamedCount {
	index := map[string]int{}
	result := []model.NamedCount{}
	for _, c := range contracts {
		k := key(c)
		if pos, ok := index[k]; ok {
			result[pos].Count++
			continue
		}
		index[k] = len(result)
		result = append(result, model.NamedCount{Name: k, Count: 1})
	}
	for i := range result {
		result[i].Percent = percent(result[i].Count, len(contracts))
	}
	return result
}

func percent(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}
