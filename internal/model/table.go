package model

import "fmt"

// Table names one persisted collection of JSON documents.
type Table string

const (
	TableContracts      Table = "contracts"
	TableUsers          Table = "users"
	TableAuditLog       Table = "audit_log"
	TableContractTypes  Table = "contract_types"
	TableSystemSettings Table = "system_settings"
)

// Tables is the allow-list of collections in backup order.
var Tables = []Table{
	TableContracts,
	TableUsers,
	TableAuditLog,
	TableContractTypes,
	TableSystemSettings,
}

func ParseTable(raw string) (Table, error) {
	for _, t := range Tables {
		if string(t) == raw {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid table %q", raw)
}

func (t Table) String() string {
	return string(t)
}
