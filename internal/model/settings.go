package model

import "strings"

const (
	DefaultLicenseNumber         = "LIC-9821-LY"
	DefaultOfficeTitle           = "محرر عقود"
	DefaultResponsibleEditorName = "فتحي عبد الجواد"
)

type ContractTypeDefinition struct {
	ID   int64         `json:"id,omitempty"`
	Name string        `json:"name"`
	File *ContractFile `json:"file,omitempty"`
}

// SystemSettings is stored as a one-row collection.
type SystemSettings struct {
	ID                    int64  `json:"id,omitempty"`
	LicenseNumber         string `json:"licenseNumber,omitempty"`
	ShowLicenseNumber     *bool  `json:"showLicenseNumber,omitempty"`
	ResponsibleEditorName string `json:"responsibleEditorName,omitempty"`
	OfficeTitle           string `json:"officeTitle,omitempty"`
}

// LicenseVisible is true unless the flag is explicitly false.
func (s SystemSettings) LicenseVisible() bool {
	return s.ShowLicenseNumber == nil || *s.ShowLicenseNumber
}

func (s SystemSettings) License() string {
	return fallback(s.LicenseNumber, DefaultLicenseNumber)
}

func (s SystemSettings) Title() string {
	return fallback(s.OfficeTitle, DefaultOfficeTitle)
}

func (s SystemSettings) ResponsibleEditor() string {
	return fallback(s.ResponsibleEditorName, DefaultResponsibleEditorName)
}

func fallback(value, def string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return def
}
