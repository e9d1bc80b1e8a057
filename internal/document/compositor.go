// Package document composes printable credential documents. One batch
// becomes one multi-page PDF, one credential per page, each page
// carrying the event branding and the credential's QR code.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

// A6 in millimetres.
const (
	pageWidth  = 105.0
	pageHeight = 148.0
	marginX    = 8.0
	contentW   = pageWidth - 2*marginX
)

// TicketData is one credential to render.
type TicketData struct {
	ID         string
	Kind       string
	BuyerName  string
	BuyerPhone string
	QRPNG      []byte
}

// EventData is the event context shared by every page.
type EventData struct {
	Title string
	Date  time.Time
	Venue string
}

// Branding carries organizer identity and sponsor logos. All image
// URLs are optional and fetched best effort.
type Branding struct {
	Organizer   string
	LogoURL     string
	SponsorURLs []string
}

// Compositor renders credential batches to PDF.
type Compositor struct {
	fetcher *AssetFetcher
}

// NewCompositor creates a compositor using the given asset fetcher.
func NewCompositor(fetcher *AssetFetcher) *Compositor {
	if fetcher == nil {
		fetcher = NewAssetFetcher(0)
	}
	return &Compositor{fetcher: fetcher}
}

type asset struct {
	name string
	info *fpdf.ImageInfoType
}

// Compose renders one page per credential and returns the PDF bytes.
// Missing logos degrade to text; a broken QR image is fatal because
// the document would be unusable at the door.
func (c *Compositor) Compose(event EventData, branding Branding, tickets []TicketData) ([]byte, error) {
	if len(tickets) == 0 {
		return nil, errors.New("compose document: no credentials")
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: pageWidth, Ht: pageHeight},
	})
	pdf.SetTitle(event.Title, true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(marginX, marginX, marginX)
	// Pin metadata dates so the same batch always renders byte-identical.
	pdf.SetCreationDate(event.Date.UTC())
	pdf.SetModificationDate(event.Date.UTC())
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	logo := c.registerRemote(pdf, "brand-logo", branding.LogoURL)
	var sponsors []*asset
	for i, url := range branding.SponsorURLs {
		if s := c.registerRemote(pdf, fmt.Sprintf("sponsor-%d", i), url); s != nil {
			sponsors = append(sponsors, s)
		}
	}

	for i, ticket := range tickets {
		if len(ticket.QRPNG) == 0 {
			return nil, fmt.Errorf("compose document: credential %s has no qr image", ticket.ID)
		}
		qrName := fmt.Sprintf("qr-%d", i)
		pdf.RegisterImageOptionsReader(qrName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(ticket.QRPNG))
		if pdf.Err() {
			return nil, fmt.Errorf("compose document: embed qr for %s: %w", ticket.ID, pdf.Error())
		}
		c.renderPage(pdf, tr, event, branding, ticket, qrName, logo, sponsors)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("compose document: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *Compositor) renderPage(pdf *fpdf.Fpdf, tr func(string) string, event EventData, branding Branding, ticket TicketData, qrName string, logo *asset, sponsors []*asset) {
	pdf.AddPage()
	y := 8.0

	if logo != nil {
		w, h := scaleToFit(logo.info, 55, 14)
		pdf.ImageOptions(logo.name, (pageWidth-w)/2, y, w, h, false, fpdf.ImageOptions{}, 0, "")
		y += h + 3
	} else if branding.Organizer != "" {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetXY(marginX, y)
		pdf.CellFormat(contentW, 6, tr(branding.Organizer), "", 0, "C", false, 0, "")
		y += 9
	}

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginX, y)
	pdf.MultiCell(contentW, 6, tr(event.Title), "", "C", false)
	y = pdf.GetY() + 1

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(marginX, y)
	pdf.CellFormat(contentW, 5, tr(event.Date.Format("Monday, 2 January 2006 15:04")), "", 0, "C", false, 0, "")
	y += 5
	if event.Venue != "" {
		pdf.SetXY(marginX, y)
		pdf.CellFormat(contentW, 5, tr(event.Venue), "", 0, "C", false, 0, "")
		y += 5
	}
	y += 2

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(marginX, y)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("%s  #%s", strings.ToUpper(ticket.Kind), ShortID(ticket.ID)), "", 0, "C", false, 0, "")
	y += 7

	if ticket.BuyerName != "" {
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetXY(marginX, y)
		line := "Issued to: " + ticket.BuyerName
		if ticket.BuyerPhone != "" {
			line += "  " + ticket.BuyerPhone
		}
		pdf.CellFormat(contentW, 5, tr(line), "", 0, "C", false, 0, "")
		y += 6
	}

	const qrSize = 48.0
	pdf.ImageOptions(qrName, (pageWidth-qrSize)/2, y, qrSize, qrSize, false, fpdf.ImageOptions{}, 0, "")
	y += qrSize + 2

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(marginX, y)
	pdf.CellFormat(contentW, 4, ticket.ID, "", 0, "C", false, 0, "")

	if len(sponsors) > 0 {
		c.renderSponsorRow(pdf, sponsors)
	}
}

// renderSponsorRow lays the sponsor logos in a centered row along the
// bottom edge.
func (c *Compositor) renderSponsorRow(pdf *fpdf.Fpdf, sponsors []*asset) {
	const rowH = 8.0
	rowY := pageHeight - rowH - 6
	const gap = 4.0

	widths := make([]float64, len(sponsors))
	total := gap * float64(len(sponsors)-1)
	for i, s := range sponsors {
		w, _ := scaleToFit(s.info, 24, rowH)
		widths[i] = w
		total += w
	}
	x := (pageWidth - total) / 2
	if x < marginX {
		x = marginX
	}
	for i, s := range sponsors {
		_, h := scaleToFit(s.info, widths[i], rowH)
		pdf.ImageOptions(s.name, x, rowY+(rowH-h)/2, widths[i], h, false, fpdf.ImageOptions{}, 0, "")
		x += widths[i] + gap
	}
}

// registerRemote fetches and registers a remote image. Any failure,
// including a corrupt image, is swallowed and leaves the PDF usable.
func (c *Compositor) registerRemote(pdf *fpdf.Fpdf, name, url string) *asset {
	data, imageType, ok := c.fetcher.Fetch(url)
	if !ok {
		return nil
	}
	info := pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(data))
	if pdf.Err() {
		pdf.ClearError()
		return nil
	}
	return &asset{name: name, info: info}
}

// scaleToFit scales image dimensions into a bounding box, keeping aspect.
func scaleToFit(info *fpdf.ImageInfoType, maxW, maxH float64) (w, h float64) {
	iw, ih := info.Width(), info.Height()
	if iw <= 0 || ih <= 0 {
		return maxW, maxH
	}
	scale := maxW / iw
	if s := maxH / ih; s < scale {
		scale = s
	}
	return iw * scale, ih * scale
}

// ShortID is the operator-facing truncation of a credential id.
func ShortID(id string) string {
	if len(id) <= 8 {
		return strings.ToUpper(id)
	}
	return strings.ToUpper(id[:8])
}
