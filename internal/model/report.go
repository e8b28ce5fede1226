package model

import "time"

type NamedCount struct {
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"`
}

type DashboardStats struct {
	Total        int          `json:"total"`
	ThisMonth    int          `json:"thisMonth"`
	ExpiringSoon int          `json:"expiringSoon"`
	ByType       []NamedCount `json:"byType"`
	Recent       []Contract   `json:"recent"`
}

type ReportSummary struct {
	GeneratedAt  time.Time    `json:"generatedAt"`
	Total        int          `json:"total"`
	TotalValue   float64      `json:"totalValue"`
	AverageValue float64      `json:"averageValue"`
	ByType       []NamedCount `json:"byType"`
	ByStatus     []NamedCount `json:"byStatus"`
	ByMonth      []NamedCount `json:"byMonth"`
}

// ContractReport is the input of the workbook export.
type ContractReport struct {
	OfficeTitle string
	Summary     ReportSummary
	Contracts   []Contract
}
