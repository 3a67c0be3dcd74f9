package render

import (
	"bytes"
	"image/png"
	"testing"

	"hiddengems-bot/lib/render/icons"

	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T) *ImageRenderer {
	// nonexistent asset dirs force the transparent fallback everywhere
	registry := icons.NewRegistry(t.TempDir()+"/languages", t.TempDir()+"/twemoji")
	renderer, err := NewImageRenderer(registry)
	require.NoError(t, err)
	return renderer
}

func TestRenderImagePagination(t *testing.T) {
	renderer := newTestRenderer(t)

	blocks, err := renderer.Render(makeRecords(45), 0)
	require.NoError(t, err)
	require.Len(t, blocks, 3)

	for i, block := range blocks {
		require.Equal(t, KindImage, block.Kind)
		img, err := png.Decode(bytes.NewReader(block.Bytes))
		require.NoError(t, err)

		rows := rowsPerPage
		if i == 2 {
			rows = 5
		}
		require.Equal(t, pagePadding*2+(rows+1)*lineHeight, img.Bounds().Dy())
	}
}

func TestRenderImageWidth(t *testing.T) {
	renderer := newTestRenderer(t)

	blocks, err := renderer.Render(makeRecords(1), 0)
	require.NoError(t, err)
	require.Len(t, blocks, 1)

	img, err := png.Decode(bytes.NewReader(blocks[0].Bytes))
	require.NoError(t, err)

	// 4 metric columns on top of the seven fixed ones
	expect := pagePadding + 60 + 60 + 40 + 200 + 100 + 90*3 + 200 + 150 + 60
	require.Equal(t, expect, img.Bounds().Dx())
}

func TestRenderImageTopX(t *testing.T) {
	renderer := newTestRenderer(t)

	blocks, err := renderer.Render(makeRecords(45), 7)
	require.NoError(t, err)
	require.Len(t, blocks, 1)

	img, err := png.Decode(bytes.NewReader(blocks[0].Bytes))
	require.NoError(t, err)
	require.Equal(t, pagePadding*2+8*lineHeight, img.Bounds().Dy())
}

func TestRenderImageDeterministic(t *testing.T) {
	renderer := newTestRenderer(t)

	records := makeRecords(3)
	records[1].Language = "klingon"
	records[2].Name = "a very long bot name that cannot possibly fit its column"

	a, err := renderer.Render(records, 0)
	require.NoError(t, err)
	b, err := renderer.Render(records, 0)
	require.NoError(t, err)

	require.Equal(t, len(a), len(b))
	for i := range a {
		require.Equal(t, a[i].Bytes, b[i].Bytes)
	}
}

func TestRenderImageEmpty(t *testing.T) {
	renderer := newTestRenderer(t)

	blocks, err := renderer.Render(nil, 0)
	require.NoError(t, err)
	require.Len(t, blocks, 1)

	img, err := png.Decode(bytes.NewReader(blocks[0].Bytes))
	require.NoError(t, err)
	// header row only
	require.Equal(t, pagePadding*2+lineHeight, img.Bounds().Dy())
}

func TestFitText(t *testing.T) {
	renderer := newTestRenderer(t)

	require.Equal(t, "abc", renderer.fitText("abc", 200))

	fitted := renderer.fitText("an extremely long value that overflows", 60)
	require.NotEqual(t, "", fitted)
	require.Contains(t, fitted, "...")

	d := renderer.fitText("anything", 1)
	require.Equal(t, "", d)
}
