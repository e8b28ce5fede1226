package model

type PartyType string

const (
	PartyTypeIndividual PartyType = "فرد"
	PartyTypeCompany    PartyType = "شركة"
)

type IDType string

const (
	IDTypePassport IDType = "جواز سفر"
	IDTypeIDCard   IDType = "بطاقة هوية"
	IDTypeLicense  IDType = "رخصة"
)

type Party struct {
	Name       string    `json:"name"`
	Type       PartyType `json:"type"`
	IDNumber   string    `json:"idNumber"`
	IDType     IDType    `json:"idType"`
	NationalID string    `json:"nationalId,omitempty"`
	Phone      string    `json:"phone,omitempty"`
}
