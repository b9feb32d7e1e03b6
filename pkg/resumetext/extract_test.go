package resumetext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripWordXML(t *testing.T) {
	raw := `<w:document><w:body><w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Go &amp; Postgres</w:t></w:r><w:tab/><w:r><w:t>Nairobi</w:t></w:r></w:p></w:body></w:document>`

	got := normalizeSpace(stripWordXML(raw))
	assert.Equal(t, "Jane Doe\nGo & Postgres\nNairobi", got)
}

func TestExtractUnsupported(t *testing.T) {
	_, err := New().Extract(".doc", []byte{0xD0, 0xCF, 0x11, 0xE0})
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestExtractMalformed(t *testing.T) {
	e := New()

	_, err := e.Extract(".pdf", []byte("%PDF-1.4 truncated"))
	require.Error(t, err)

	_, err = e.Extract(".docx", []byte("PK\x03\x04 not really a zip"))
	require.Error(t, err)
}
