package model

import "time"

// ContractDocument carries everything printed on a contract sheet.
type ContractDocument struct {
	Contract        Contract
	Settings        SystemSettings
	VerificationURL string
	GeneratedAt     time.Time
}
