package pdf

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/boombuler/barcode/qr"
	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/barcode"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nurpe/contract-archive/internal/model"
	"github.com/nurpe/contract-archive/internal/report"
)

const (
	coreFont = "Helvetica"
	utf8Font = "Archive"
	qrSizeMM = 30.0
)

type Generator struct {
	fontName string
	fontData []byte
	printer  *message.Printer
}

// NewGenerator loads the UTF-8 font used for Arabic text. Without a font path
// the core Helvetica font is used and non-Latin glyphs are dropped.
func NewGenerator(fontPath string) (*Generator, error) {
	g := &Generator{
		fontName: coreFont,
		printer:  message.NewPrinter(language.English),
	}
	if fontPath == "" {
		return g, nil
	}
	data, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("read pdf font: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("font data is empty")
	}
	g.fontName = utf8Font
	g.fontData = data
	return g, nil
}

func (g *Generator) Generate(doc model.ContractDocument) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)

	tr := func(s string) string { return s }
	if g.fontData != nil {
		pdf.AddUTF8FontFromBytes(g.fontName, "", g.fontData)
		pdf.AddUTF8FontFromBytes(g.fontName, "B", g.fontData)
	} else {
		tr = pdf.UnicodeTranslatorFromDescriptor("")
	}
	pdf.AddPage()

	c := doc.Contract
	s := doc.Settings

	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, tr(s.Title()), "", 1, "C", false, 0, "")
	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 8, tr(s.ResponsibleEditor()), "", 1, "C", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	if s.LicenseVisible() {
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("رقم الترخيص: %s", s.License())), "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("REF: #%d    %s", c.ID, formatDate(doc.GeneratedAt))), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, tr(safeValue(c.Title)), "", 1, "R", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	lines := []string{
		fmt.Sprintf("نوع العقد: %s", safeValue(c.Type)),
		fmt.Sprintf("الحالة: %s", safeValue(string(c.Status))),
		fmt.Sprintf("تاريخ التحرير: %s", formatRawDate(c.CreationDate)),
		fmt.Sprintf("تاريخ البداية: %s", formatRawDate(c.StartDate)),
		fmt.Sprintf("تاريخ الانتهاء: %s", formatRawDate(c.EndDate)),
		fmt.Sprintf("القيمة: %s د.ل", g.formatAmount(c.Value.Float64())),
		fmt.Sprintf("المحرر: %s", safeValue(c.EditorName)),
	}
	for _, line := range lines {
		pdf.MultiCell(0, 6, tr(line), "", "R", false)
	}
	pdf.Ln(3)

	addPartyBlock(pdf, g.fontName, tr, "الطرف الأول", &c.Party1)
	pdf.Ln(2)
	addPartyBlock(pdf, g.fontName, tr, "الطرف الثاني", c.Party2)
	pdf.Ln(3)

	if strings.TrimSpace(c.Notes) != "" {
		pdf.SetFont(g.fontName, "B", 11)
		pdf.CellFormat(0, 7, tr("ملاحظات"), "", 1, "R", false, 0, "")
		pdf.SetFont(g.fontName, "", 10)
		pdf.MultiCell(0, 5, tr(c.Notes), "", "R", false)
		pdf.Ln(2)
	}

	pdf.SetTextColor(200, 0, 0)
	pdf.SetFont(g.fontName, "B", 11)
	pdf.MultiCell(0, 6, tr("تحذير: أي شطب أو تعديل باليد يلغي هذه الوثيقة"), "", "C", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	signatureBlock(pdf, g.fontName, tr, "الطرف الأول", c.Party1.Name)
	if c.Party2 != nil {
		signatureBlock(pdf, g.fontName, tr, "الطرف الثاني", c.Party2.Name)
	}

	if doc.VerificationURL != "" {
		key := barcode.RegisterQR(pdf, doc.VerificationURL, qr.M, qr.Auto)
		y := pdf.GetY() + 6
		barcode.Barcode(pdf, key, 15, y, qrSizeMM, qrSizeMM, false)
		pdf.SetXY(15, y+qrSizeMM+1)
		pdf.SetFont(g.fontName, "", 8)
		pdf.CellFormat(qrSizeMM, 4, doc.VerificationURL, "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addPartyBlock(pdf *gofpdf.Fpdf, fontName string, tr func(string) string, title string, party *model.Party) {
	if party == nil {
		party = &model.Party{}
	}
	pdf.SetFont(fontName, "B", 11)
	pdf.CellFormat(0, 6, tr(title), "", 1, "R", false, 0, "")
	pdf.SetFont(fontName, "", 10)
	lines := []string{
		fmt.Sprintf("الاسم: %s", safeValue(party.Name)),
		fmt.Sprintf("الصفة: %s", safeValue(string(party.Type))),
		fmt.Sprintf("نوع الهوية: %s", safeValue(string(party.IDType))),
		fmt.Sprintf("رقم الهوية: %s", safeValue(party.IDNumber)),
		fmt.Sprintf("الرقم الوطني: %s", safeValue(party.NationalID)),
		fmt.Sprintf("رقم الهاتف: %s", safeValue(party.Phone)),
	}
	for _, line := range lines {
		pdf.MultiCell(0, 5, tr(line), "", "R", false)
	}
}

func signatureBlock(pdf *gofpdf.Fpdf, fontName string, tr func(string) string, label, name string) {
	pdf.SetFont(fontName, "", 11)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("%s: ______________________ /%s/", label, safeValue(name))), "", 1, "R", false, 0, "")
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "—"
	}
	return value
}

func (g *Generator) formatAmount(value float64) string {
	return g.printer.Sprintf("%.2f", value)
}

func formatRawDate(raw string) string {
	parsed, ok := report.ParseDate(raw)
	if !ok {
		return safeValue(raw)
	}
	return formatDate(parsed)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("02/01/2006")
}
