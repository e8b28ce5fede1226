package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nurpe/contract-archive/internal/model"
	"github.com/nurpe/contract-archive/internal/report"
)

type ExcelGenerator interface {
	Generate(rep model.ContractReport) ([]byte, error)
}

type FileResult struct {
	FileName string
	Content  []byte
}

type ReportService struct {
	collections *CollectionService
	excel       ExcelGenerator
	now         func() time.Time
}

func NewReportService(collections *CollectionService, excel ExcelGenerator) *ReportService {
	return &ReportService{
		collections: collections,
		excel:       excel,
		now:         time.Now,
	}
}

func (s *ReportService) Dashboard(ctx context.Context) (model.DashboardStats, error) {
	contracts, err := s.collections.Contracts(ctx)
	if err != nil {
		return model.DashboardStats{}, err
	}
	return report.Dashboard(contracts, s.now()), nil
}

func (s *ReportService) Summary(ctx context.Context) (model.ReportSummary, error) {
	contracts, err := s.collections.Contracts(ctx)
	if err != nil {
		return model.ReportSummary{}, err
	}
	types, err := s.collections.ContractTypes(ctx)
	if err != nil {
		return model.ReportSummary{}, err
	}
	return report.Summary(contracts, types, s.now()), nil
}

func (s *ReportService) Search(ctx context.Context, criteria report.Criteria) ([]model.Contract, error) {
	contracts, err := s.collections.Contracts(ctx)
	if err != nil {
		return nil, err
	}
	return report.Filter(contracts, criteria), nil
}

// Export builds the report workbook over every stored contract.
func (s *ReportService) Export(ctx context.Context) (*FileResult, error) {
	contracts, err := s.collections.Contracts(ctx)
	if err != nil {
		return nil, err
	}
	types, err := s.collections.ContractTypes(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.collections.Settings(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	rep := model.ContractReport{
		OfficeTitle: settings.Title(),
		Summary:     report.Summary(contracts, types, now),
		Contracts:   contracts,
	}
	content, err := s.excel.Generate(rep)
	if err != nil {
		return nil, err
	}
	return &FileResult{
		FileName: buildReportFileName(settings.License(), now),
		Content:  content,
	}, nil
}

func buildReportFileName(license string, at time.Time) string {
	office := sanitizeFileName(license)
	if office == "" {
		office = "office"
	}
	return fmt.Sprintf("contracts-report-%s-%s.xlsx", office, at.Format("20060102"))
}

func buildContractFileName(id int64) string {
	return fmt.Sprintf("contract-%d.pdf", id)
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
