package verify

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/contract-archive/internal/model"
)

func TestRendererCertificate(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	hidden := false
	html, err := r.Certificate(model.Contract{
		ID:           1700000000123,
		Title:        "عقد بيع",
		Type:         "بيع",
		CreationDate: "2026-03-04",
		Status:       model.ContractStatusFinal,
		Party1:       model.Party{Name: "أحمد", IDType: model.IDTypePassport, IDNumber: "P-77"},
	}, model.SystemSettings{OfficeTitle: "مكتب التوثيق", ShowLicenseNumber: &hidden})
	require.NoError(t, err)

	page := string(html)
	assert.Contains(t, page, "عقد بيع")
	assert.Contains(t, page, "REF: #1700000000123")
	assert.Contains(t, page, "مكتب التوثيق")
	assert.Contains(t, page, "04/03/2026")
	assert.Contains(t, page, "P-77")
	assert.Contains(t, page, model.DefaultResponsibleEditorName)
	assert.Contains(t, page, Placeholder, "missing second party uses the placeholder")
	assert.Contains(t, page, "تحذير")
	assert.NotContains(t, page, "رقم الترخيص")
	assert.NotContains(t, page, NotFoundMarker)
}

func TestRendererCertificateEscapesContent(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	html, err := r.Certificate(model.Contract{ID: 1, Title: "<script>alert(1)</script>"}, model.SystemSettings{})
	require.NoError(t, err)

	assert.NotContains(t, string(html), "<script>alert(1)</script>")
	assert.Contains(t, string(html), "&lt;script&gt;")
}

func TestRendererNotFound(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	html, err := r.NotFound(99, model.SystemSettings{})
	require.NoError(t, err)

	page := string(html)
	assert.Contains(t, page, NotFoundMarker)
	assert.Contains(t, page, "REF: #99")
	assert.Contains(t, page, model.DefaultOfficeTitle)
	assert.Contains(t, page, model.DefaultLicenseNumber)
}

func TestQRImageURL(t *testing.T) {
	verifyURL := VerificationURL("https://archive.example.ly/", 42)
	assert.Equal(t, "https://archive.example.ly/api/verify/42", verifyURL)

	raw := QRImageURL("https://api.qrserver.com/v1/create-qr-code/", "120x120", verifyURL)
	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "api.qrserver.com", parsed.Host)
	assert.Equal(t, "120x120", parsed.Query().Get("size"))
	assert.Equal(t, verifyURL, parsed.Query().Get("data"))
}
