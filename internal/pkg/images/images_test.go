package images

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	keys  []string
	types []string
	sizes []int
	fail  bool
}

func (m *memStore) Put(_ context.Context, key string, data []byte, contentType string) (string, error) {
	if m.fail {
		return "", errors.New("bucket unavailable")
	}
	m.keys = append(m.keys, key)
	m.types = append(m.types, contentType)
	m.sizes = append(m.sizes, len(data))
	return "http://cdn.local/imgs/" + key, nil
}

const pngMagic = "\x89PNG\r\n\x1a\n"

// pngDataURL encodes a PNG signature followed by n filler bytes.
func pngDataURL(n int) string {
	return dataURL("image/png", pngMagic+strings.Repeat("x", n))
}

func dataURL(contentType, body string) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString([]byte(body))
}

func TestProcess_KeepsURLsAndInlineDataWithoutStore(t *testing.T) {
	p := NewProcessor(nil, 1024, nil)
	in := []string{"https://img.example.com/a.jpg", pngDataURL(10)}

	out, err := p.Process(context.Background(), "owner-1", in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestProcess_UploadsDataURLs(t *testing.T) {
	store := &memStore{}
	p := NewProcessor(store, 1024, nil)

	out, err := p.Process(context.Background(), "owner-1", []string{pngDataURL(10), "http://img.example.com/b.png"})
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Len(t, store.keys, 1)
	assert.True(t, strings.HasPrefix(store.keys[0], "listings/owner-1/"))
	assert.True(t, strings.HasSuffix(store.keys[0], ".png"))
	assert.Equal(t, "image/png", store.types[0])
	assert.Equal(t, len(pngMagic)+10, store.sizes[0])
	assert.Equal(t, "http://cdn.local/imgs/"+store.keys[0], out[0])
	assert.Equal(t, "http://img.example.com/b.png", out[1])
}

func TestProcess_UploadFailureKeepsInline(t *testing.T) {
	p := NewProcessor(&memStore{fail: true}, 1024, nil)
	img := pngDataURL(4)

	out, err := p.Process(context.Background(), "owner-1", []string{img})
	require.NoError(t, err)
	assert.Equal(t, []string{img}, out)
}

func TestProcess_Rejects(t *testing.T) {
	p := NewProcessor(nil, 8, nil)
	cases := map[string]string{
		"too large":     pngDataURL(9),
		"not base64":    "data:image/png;base64,!!!",
		"plain text":    dataURL("text/plain", "hi"),
		"not encoded":   "data:image/png,raw",
		"relative path": "/uploads/a.png",
		"ftp":           "ftp://files.example.com/a.png",
		"empty payload": "data:image/png;base64,",
	}
	for name, img := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := p.Process(context.Background(), "owner-1", []string{img})
			assert.ErrorIs(t, err, ErrInvalidImage)
		})
	}
}

func TestProcess_ContentMustMatchDeclaredType(t *testing.T) {
	store := &memStore{}
	p := NewProcessor(store, 1024, nil)

	cases := map[string]string{
		"html labelled png": dataURL("image/png", "<html><script>alert(1)</script></html>"),
		"png labelled jpeg": dataURL("image/jpeg", pngMagic+"xxxx"),
		"text labelled gif": dataURL("image/gif", "just some text"),
	}
	for name, img := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := p.Process(context.Background(), "owner-1", []string{img})
			assert.ErrorIs(t, err, ErrInvalidImage)
		})
	}
	assert.Empty(t, store.keys)

	ok := []string{
		dataURL("image/jpeg", "\xff\xd8\xff\xe0rest-of-jpeg"),
		dataURL("image/gif", "GIF89a-rest-of-gif"),
		pngDataURL(3),
	}
	out, err := p.Process(context.Background(), "owner-1", ok)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.True(t, strings.HasSuffix(store.keys[0], ".jpg"))
	assert.True(t, strings.HasSuffix(store.keys[1], ".gif"))
}

func TestListingImageKey(t *testing.T) {
	a, b := ListingImageKey("owner-1", "png"), ListingImageKey("owner-1", "png")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "listings/owner-1/"))
	assert.True(t, strings.HasSuffix(a, ".png"))
}

func TestDecodeDataURL(t *testing.T) {
	ct, data, err := DecodeDataURL("data:IMAGE/JPEG;base64," + base64.StdEncoding.EncodeToString([]byte("abc")))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", ct)
	assert.Equal(t, []byte("abc"), data)
}
