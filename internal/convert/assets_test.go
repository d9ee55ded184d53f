package convert

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirSink_SequentialNames(t *testing.T) {
	sink, err := NewDirSink(t.TempDir())
	require.NoError(t, err)

	n1, err := sink.SaveImage("image/png", []byte("a"))
	require.NoError(t, err)
	n2, err := sink.SaveImage("image/jpeg", []byte("b"))
	require.NoError(t, err)
	n3, err := sink.SaveSVG("<svg></svg>")
	require.NoError(t, err)

	assert.Equal(t, "img001.png", n1)
	assert.Equal(t, "img002.jpg", n2)
	assert.Equal(t, "svg001.svg", n3)
}

func TestDirSink_UnknownTypeFallback(t *testing.T) {
	sink, err := NewDirSink(t.TempDir())
	require.NoError(t, err)

	name, err := sink.SaveImage("application/x-thing", []byte("?"))
	require.NoError(t, err)
	assert.Equal(t, "img001.bin", name)
}

func TestDirSink_WritesFiles(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewDirSink(dir)
	require.NoError(t, err)

	name, err := sink.SaveImage("image/webp", []byte("webpdata"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "webpdata", string(data))
}

func TestDirSink_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "assets")
	_, err := NewDirSink(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNormalizeSVG_RestoresAttributeCase(t *testing.T) {
	in := `<svg viewbox="0 0 24 24" preserveaspectratio="xMidYMid"><marker markerwidth="4" markerheight="4" refx="1" refy="1"/></svg>`
	out := NormalizeSVG(in)

	assert.Contains(t, out, `viewBox="0 0 24 24"`)
	assert.Contains(t, out, `preserveAspectRatio="xMidYMid"`)
	assert.Contains(t, out, `markerWidth="4"`)
	assert.Contains(t, out, `markerHeight="4"`)
	assert.Contains(t, out, `refX="1"`)
	assert.Contains(t, out, `refY="1"`)
}

func TestNormalizeSVG_PrependsXMLDeclaration(t *testing.T) {
	out := NormalizeSVG("<svg></svg>")
	assert.True(t, strings.HasPrefix(out, "<?xml version=\"1.0\""))
}

func TestNormalizeSVG_KeepsExistingDeclaration(t *testing.T) {
	in := `<?xml version="1.0" encoding="UTF-8"?><svg></svg>`
	out := NormalizeSVG(in)
	assert.Equal(t, 1, strings.Count(out, "<?xml"))
}
