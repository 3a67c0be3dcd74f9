package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strconv"

	"hiddengems-bot/lib/render/icons"
	"hiddengems-bot/lib/scrapers/hiddengems"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	rowsPerPage = 20
	lineHeight  = 36
	pagePadding = 5
	fontSize    = 18

	markerIconSize   = 24
	languageIconSize = 32
)

var (
	backgroundColor = color.RGBA{R: 25, G: 25, B: 25, A: 255}
	headerColor     = color.RGBA{R: 255, G: 200, B: 0, A: 255}
	textColor       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

type column struct {
	title string
	width int
}

type ImageRenderer struct {
	face  font.Face
	icons *icons.Registry
}

func NewImageRenderer(registry *icons.Registry) (*ImageRenderer, error) {
	ft, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	return &ImageRenderer{face: face, icons: registry}, nil
}

// Render rasterizes records into fixed-size pages of rowsPerPage rows
// each, one PNG block per page. Output is deterministic for identical
// input.
func (r *ImageRenderer) Render(records []hiddengems.Record, topX int) ([]OutputBlock, error) {
	records = Limit(records, topX)
	cols := buildColumns(metricKeys(records))

	if len(records) == 0 {
		page, err := r.renderPage(nil, 0, cols)
		if err != nil {
			return nil, err
		}
		return []OutputBlock{{Kind: KindImage, Bytes: page}}, nil
	}

	var blocks []OutputBlock
	for start := 0; start < len(records); start += rowsPerPage {
		end := start + rowsPerPage
		if end > len(records) {
			end = len(records)
		}
		page, err := r.renderPage(records[start:end], start, cols)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, OutputBlock{Kind: KindImage, Bytes: page})
	}
	return blocks, nil
}

func buildColumns(keys []string) []column {
	cols := []column{
		{"#", 60},
		{"Rang", 60},
		{"🙂", 40},
		{"Bot", 200},
	}
	for i, key := range keys {
		width := 90
		if i == 0 {
			width = 100
		}
		cols = append(cols, column{key, width})
	}
	cols = append(cols,
		column{"Autor / Team", 200},
		column{"Ort", 150},
		column{"Lang", 60},
	)
	return cols
}

func (r *ImageRenderer) renderPage(rows []hiddengems.Record, startIdx int, cols []column) ([]byte, error) {
	colX := make([]int, len(cols))
	x := pagePadding
	for i, c := range cols {
		colX[i] = x
		x += c.width
	}
	width := x
	height := pagePadding*2 + (len(rows)+1)*lineHeight

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	ascent := r.face.Metrics().Ascent.Ceil()
	markerCol := 2
	languageCol := len(cols) - 1

	for i, c := range cols {
		if i == markerCol {
			// the marker header is an emoji the font cannot draw
			continue
		}
		r.drawText(img, colX[i], pagePadding+ascent, c.title, headerColor)
	}

	y := pagePadding + lineHeight
	keys := make([]string, 0, len(cols)-7)
	for _, c := range cols[4 : len(cols)-3] {
		keys = append(keys, c.title)
	}

	for rowIdx, rec := range rows {
		for i, c := range cols {
			switch i {
			case markerCol:
				icon := r.icons.Marker(rec.Marker, markerIconSize)
				pasteIcon(img, icon, colX[i], y)
			case languageCol:
				icon := r.icons.Language(rec.Language, languageIconSize)
				pasteIcon(img, icon, colX[i], y-8)
			default:
				value := r.cellValue(rec, i, startIdx+rowIdx+1, keys)
				fitted := r.fitText(value, c.width-pagePadding)
				r.drawText(img, colX[i], y+ascent, fitted, textColor)
			}
		}
		y += lineHeight
	}

	var buf bytes.Buffer
	err := png.Encode(&buf, img)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *ImageRenderer) cellValue(rec hiddengems.Record, col, displayIdx int, keys []string) string {
	switch col {
	case 0:
		return strconv.Itoa(displayIdx)
	case 1:
		return rec.Rank
	case 3:
		return rec.Name
	}
	metricIdx := col - 4
	if metricIdx < len(keys) {
		return rec.Metric(keys[metricIdx])
	}
	switch col - 4 - len(keys) {
	case 0:
		return rec.Owner
	case 1:
		return rec.Location
	}
	return ""
}

func (r *ImageRenderer) drawText(dst *image.RGBA, x, baseline int, text string, c color.Color) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: r.face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(text)
}

// truncate text with an ellipsis until it fits the column, measured in
// rendered pixels rather than runes
func (r *ImageRenderer) fitText(text string, maxWidth int) string {
	d := font.Drawer{Face: r.face}
	if d.MeasureString(text).Ceil() <= maxWidth {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		if d.MeasureString(string(runes)+"...").Ceil() <= maxWidth {
			return string(runes) + "..."
		}
	}
	return ""
}

func pasteIcon(dst *image.RGBA, icon image.Image, x, y int) {
	bounds := icon.Bounds()
	target := image.Rect(x, y, x+bounds.Dx(), y+bounds.Dy())
	draw.Draw(dst, target, icon, bounds.Min, draw.Over)
}
