// Package pdftest writes small, valid PDF documents for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// Font is a font resource available on every generated page.
type Font struct {
	Resource string
	BaseFont string
}

var (
	Helvetica = Font{Resource: "F1", BaseFont: "Helvetica"}
	Times     = Font{Resource: "F2", BaseFont: "Times-Roman"}
	Courier   = Font{Resource: "F3", BaseFont: "Courier"}
)

var fonts = []Font{Helvetica, Times, Courier}

// Write writes a PDF with one page per content stream into a temp dir and returns its path.
func Write(tb testing.TB, pages ...string) string {
	tb.Helper()

	var objects []string
	// 1: catalog, 2: pages, 3..: fonts, then page + content pairs.
	objects = append(objects, "<< /Type /Catalog /Pages 2 0 R >>")
	objects = append(objects, "") // pages placeholder

	fontRefs := ""
	for i, f := range fonts {
		objects = append(objects, fmt.Sprintf(
			"<< /Type /Font /Subtype /Type1 /BaseFont /%s /Encoding /WinAnsiEncoding >>", f.BaseFont,
		))
		fontRefs += fmt.Sprintf("/%s %d 0 R ", f.Resource, i+3)
	}

	kids := ""
	for _, content := range pages {
		pageNum := len(objects) + 1
		contentNum := pageNum + 1
		objects = append(objects, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << %s>> >> /Contents %d 0 R >>",
			fontRefs, contentNum,
		))
		objects = append(objects, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
		kids += fmt.Sprintf("%d 0 R ", pageNum)
	}
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, len(pages))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	path := filepath.Join(tb.TempDir(), "resume.pdf")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		tb.Fatalf("writing test pdf: %v", err)
	}
	return path
}

// Line renders a single positioned line of text as a content stream fragment.
func Line(f Font, size, x, y int, text string) string {
	return fmt.Sprintf("BT /%s %d Tf %d %d Td (%s) Tj ET\n", f.Resource, size, x, y, text)
}

// Block renders lines in one text object, moving down by leading with Td.
func Block(f Font, size, x, y, leading int, lines ...string) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "BT /%s %d Tf %d %d Td", f.Resource, size, x, y)
	for i, line := range lines {
		if i > 0 {
			fmt.Fprintf(&b, " 0 %d Td", -leading)
		}
		fmt.Fprintf(&b, " (%s) Tj", line)
	}
	b.WriteString(" ET\n")
	return b.String()
}
