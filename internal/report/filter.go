package report

import (
	"strconv"
	"strings"

	"github.com/nurpe/contract-archive/internal/model"
)

// Criteria mirrors the contract list filters. Zero values match everything
// except archived contracts, which need ShowArchived.
type Criteria struct {
	Search       string
	Type         string
	Status       model.ContractStatus
	ShowArchived bool
	PartyName    string
	IDNumber     string
	DateFrom     string
	DateTo       string
}

func Filter(contracts []model.Contract, c Criteria) []model.Contract {
	result := make([]model.Contract, 0, len(contracts))
	for _, contract := range contracts {
		if c.Matches(contract) {
			result = append(result, contract)
		}
	}
	return result
}

func (c Criteria) Matches(contract model.Contract) bool {
	if c.Search != "" {
		term := strings.ToLower(c.Search)
		if !strings.Contains(strings.ToLower(contract.Title), term) &&
			!strings.Contains(strconv.FormatInt(contract.ID, 10), c.Search) {
			return false
		}
	}
	if c.Type != "" && contract.Type != c.Type {
		return false
	}
	if c.Status != "" && contract.Status != c.Status {
		return false
	}
	if !c.ShowArchived && contract.IsArchived {
		return false
	}
	if c.PartyName != "" {
		name := strings.ToLower(c.PartyName)
		matched := strings.Contains(strings.ToLower(contract.Party1.Name), name)
		if !matched && contract.Party2 != nil {
			matched = strings.Contains(strings.ToLower(contract.Party2.Name), name)
		}
		if !matched {
			return false
		}
	}
	if c.IDNumber != "" {
		matched := strings.Contains(contract.Party1.IDNumber, c.IDNumber)
		if !matched && contract.Party2 != nil {
			matched = strings.Contains(contract.Party2.IDNumber, c.IDNumber)
		}
		if !matched {
			return false
		}
	}
	// ISO dates compare lexically
	if c.DateFrom != "" && contract.CreationDate < c.DateFrom {
		return false
	}
	if c.DateTo != "" && contract.CreationDate > c.DateTo {
		return false
	}
	return true
}
