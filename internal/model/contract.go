package model

type ContractStatus string

const (
	ContractStatusDraft    ContractStatus = "مسودة"
	ContractStatusFinal    ContractStatus = "نهائي"
	ContractStatusExpired  ContractStatus = "منتهي"
	ContractStatusCanceled ContractStatus = "ملغي"
)

// ContractStatuses lists every status in display order.
var ContractStatuses = []ContractStatus{
	ContractStatusDraft,
	ContractStatusFinal,
	ContractStatusExpired,
	ContractStatusCanceled,
}

// ContractFile is an attachment embedded in the document as base64.
type ContractFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
	Type    string `json:"type"`
}

type Contract struct {
	ID           int64          `json:"id"`
	Title        string         `json:"title"`
	Type         string         `json:"type"`
	Party1       Party          `json:"party1"`
	Party2       *Party         `json:"party2,omitempty"`
	CreationDate string         `json:"creationDate"`
	StartDate    string         `json:"startDate"`
	EndDate      string         `json:"endDate,omitempty"`
	Value        Amount         `json:"value"`
	Status       ContractStatus `json:"status"`
	EditorName   string         `json:"editorName"`
	Keywords     []string       `json:"keywords"`
	Notes        string         `json:"notes"`
	File         *ContractFile  `json:"file,omitempty"`
	IsArchived   bool           `json:"isArchived"`
}
