// Package verify renders the public verification pages of a contract and
// builds the links that point at them.
package verify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/nurpe/contract-archive/internal/model"
	"github.com/nurpe/contract-archive/internal/report"
)

// Placeholder stands in for any missing field on the printed certificate.
const Placeholder = "▍▍▍▍▍▍▍▍▍▍"

// NotFoundMarker appears on the page served for unknown contracts.
const NotFoundMarker = "الإيصال غير موجود"

//go:embed templates/*.html
var templateFS embed.FS

type PartyView struct {
	Name       string
	IDType     string
	IDNumber   string
	NationalID string
	Phone      string
}

type Page struct {
	ID                int64
	OfficeTitle       string
	ShowLicense       bool
	LicenseNumber     string
	ResponsibleEditor string
	Title             string
	Type              string
	CreationDate      string
	Status            string
	Party1            PartyView
	Party2            PartyView
}

type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse verification templates: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

// Certificate renders the page for an existing contract.
func (r *Renderer) Certificate(contract model.Contract, settings model.SystemSettings) ([]byte, error) {
	page := brandedPage(contract.ID, settings)
	page.ResponsibleEditor = settings.ResponsibleEditor()
	page.Title = orPlaceholder(contract.Title)
	page.Type = orPlaceholder(contract.Type)
	page.Status = orPlaceholder(string(contract.Status))
	page.CreationDate = Placeholder
	if created, ok := report.ParseDate(contract.CreationDate); ok {
		page.CreationDate = created.Format("02/01/2006")
	}
	page.Party1 = partyView(&contract.Party1)
	page.Party2 = partyView(contract.Party2)
	return r.execute("certificate.html", page)
}

// NotFound renders the branded page for an unknown contract id.
func (r *Renderer) NotFound(id int64, settings model.SystemSettings) ([]byte, error) {
	return r.execute("not_found.html", brandedPage(id, settings))
}

func (r *Renderer) execute(name string, page Page) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, page); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func brandedPage(id int64, settings model.SystemSettings) Page {
	return Page{
		ID:            id,
		OfficeTitle:   settings.Title(),
		ShowLicense:   settings.LicenseVisible(),
		LicenseNumber: settings.License(),
	}
}

func partyView(p *model.Party) PartyView {
	if p == nil {
		p = &model.Party{}
	}
	return PartyView{
		Name:       orPlaceholder(p.Name),
		IDType:     orPlaceholder(string(p.IDType)),
		IDNumber:   orPlaceholder(p.IDNumber),
		NationalID: orPlaceholder(p.NationalID),
		Phone:      orPlaceholder(p.Phone),
	}
}

func orPlaceholder(value string) string {
	if strings.TrimSpace(value) == "" {
		return Placeholder
	}
	return value
}

// VerificationURL is the public certificate address for a contract.
func VerificationURL(baseURL string, id int64) string {
	return fmt.Sprintf("%s/api/verify/%d", strings.TrimRight(baseURL, "/"), id)
}

// QRImageURL points the third-party QR service at the verification URL.
func QRImageURL(serviceURL, size, verificationURL string) string {
	q := url.Values{}
	q.Set("size", size)
	q.Set("data", verificationURL)
	return serviceURL + "?" + q.Encode()
}
