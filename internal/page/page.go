// Package page provides access to the pre-rendered page images of a
// reviewed document. Rasterization itself happens outside this program;
// the viewer displays page images found next to the document file.
package page

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/tiff"
)

// pageExtensions are tried in order when looking for a rendered page.
var pageExtensions = []string{".png", ".jpg", ".jpeg", ".tif", ".tiff"}

// Page is one rendered page of the document.
type Page struct {
	Index int
	Image image.Image
}

// Size returns the pixel dimensions of the page image.
func (p *Page) Size() (w, h int) {
	b := p.Image.Bounds()
	return b.Dx(), b.Dy()
}

// Document is a reviewed document with its rendered pages.
type Document struct {
	Path  string
	Pages []*Page
}

// Page returns the page with the given index, or nil.
func (d *Document) Page(index int) *Page {
	if index < 0 || index >= len(d.Pages) {
		return nil
	}
	return d.Pages[index]
}

// LoadDocument loads the rendered pages for the document at path. Pages
// are expected as "<stem>-page-NNN.<ext>" image files beside the
// document, numbered from zero without gaps.
func LoadDocument(path string) (*Document, error) {
	stem := strings.TrimSuffix(path, filepath.Ext(path))

	doc := &Document{Path: path}
	for index := 0; ; index++ {
		img, err := loadPageImage(stem, index)
		if err != nil {
			return nil, err
		}
		if img == nil {
			break
		}
		doc.Pages = append(doc.Pages, &Page{Index: index, Image: img})
	}

	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("no rendered pages found for %s", path)
	}
	return doc, nil
}

// loadPageImage loads one rendered page, trying each known extension.
// Returns (nil, nil) when no file for the index exists.
func loadPageImage(stem string, index int) (image.Image, error) {
	for _, ext := range pageExtensions {
		path := fmt.Sprintf("%s-page-%03d%s", stem, index, ext)
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}

		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
		return img, nil
	}
	return nil, nil
}
