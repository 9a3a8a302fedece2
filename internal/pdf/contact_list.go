package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"contactbook/internal/models"
)

// Generator renders a user's contact list as a PDF.
type Generator interface {
	ContactList(w io.Writer, owner string, contacts []*models.Contact) error
}

type ListGenerator struct {
	fontName string
}

func NewListGenerator() *ListGenerator {
	return &ListGenerator{fontName: "Helvetica"}
}

func (g *ListGenerator) ContactList(w io.Writer, owner string, contacts []*models.Contact) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Contacts", false)
	pdf.SetAuthor(owner, false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// ===== header
	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "Contacts", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	sub := fmt.Sprintf("%s, exported %s", owner, time.Now().Format("02.01.2006"))
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	// ===== table
	g.headerRow(pdf)
	pdf.SetFont(g.fontName, "", 10)
	for _, c := range contacts {
		g.row(pdf,
			c.FirstName+" "+c.LastName,
			c.Email,
			c.PhoneNumber,
			c.Birthday.Format("02.01.2006"),
		)
	}
	if len(contacts) == 0 {
		pdf.CellFormat(0, 7, "No contacts yet.", "", 1, "L", false, 0, "")
	}

	// ===== page numbers
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 9)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("Page %d/{nb}", pdf.PageNo()),
			"", 0, "C", false, 0, "",
		)
	})

	return pdf.Output(w)
}

// ===== helpers =====

func (g *ListGenerator) headerRow(pdf *gofpdf.Fpdf) {
	pdf.SetFont(g.fontName, "B", 10)
	pdf.CellFormat(55, 7, "Name", "B", 0, "L", false, 0, "")
	pdf.CellFormat(60, 7, "Email", "B", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Phone", "B", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, "Birthday", "B", 1, "L", false, 0, "")
}

func (g *ListGenerator) row(pdf *gofpdf.Fpdf, name, email, phone, birthday string) {
	pdf.CellFormat(55, 7, name, "", 0, "L", false, 0, "")
	pdf.CellFormat(60, 7, email, "", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, phone, "", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, birthday, "", 1, "L", false, 0, "")
}

func (g *ListGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}
