package converter_test

import (
	"testing"

	"workspace-service/internal/converter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownFilename(t *testing.T) {
	assert.Equal(t, "resume.md", converter.MarkdownFilename("resume.pdf"))
	assert.Equal(t, "notes.md", converter.MarkdownFilename("notes.md"))
	assert.Equal(t, "plan.md", converter.MarkdownFilename("plan"))
	assert.Equal(t, "report.md", converter.MarkdownFilename("dir/report.docx"))
}

func TestToMarkdown_TextPassThrough(t *testing.T) {
	content := "# Plan\n\n- item one\n"
	got, err := converter.ToMarkdown("plan.md", []byte(content))
	require.NoError(t, err)
	assert.Equal(t, content, got)

	got, err = converter.ToMarkdown("notes.txt", []byte("plain text"))
	require.NoError(t, err)
	assert.Equal(t, "plain text", got)
}

func TestToMarkdown_InvalidUTF8(t *testing.T) {
	_, err := converter.ToMarkdown("bad.txt", []byte{0xff, 0xfe, 0x00})
	assert.Error(t, err)
}

func TestToMarkdown_UnsupportedType(t *testing.T) {
	_, err := converter.ToMarkdown("image.png", []byte("data"))
	assert.Error(t, err)
}

func TestToMarkdown_BinarySalvage(t *testing.T) {
	// бинарный мусор вокруг текстового фрагмента
	data := append([]byte{0x01, 0x02, 0x03}, []byte("Meaningful sentence inside binary")...)
	data = append(data, 0x00, 0x05)

	got, err := converter.ToMarkdown("doc.pdf", data)
	require.NoError(t, err)
	assert.Contains(t, got, "Meaningful sentence inside binary")
}

func TestToMarkdown_NoTextInBinary(t *testing.T) {
	_, err := converter.ToMarkdown("doc.pdf", []byte{0x00, 0x01, 0x02, 0x03})
	assert.Error(t, err)
}
