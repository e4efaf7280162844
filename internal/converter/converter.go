package converter

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Загруженные документы приводятся к markdown и дальше живут только как текст.
// Для .pdf/.docx полноценный разбор делает внешний конвертер; здесь
// вытаскиваются печатаемые текстовые фрагменты, чтобы загрузка не падала.

const minRunLength = 4

func MarkdownFilename(filename string) string {
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filepath.Base(filename), ext)
	return stem + ".md"
}

func ToMarkdown(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".md", ".markdown", ".txt":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("file %q is not valid UTF-8 text", filename)
		}
		return string(data), nil
	case ".pdf", ".docx", ".doc":
		text := salvageText(data)
		if strings.TrimSpace(text) == "" {
			return "", fmt.Errorf("no extractable text in %q", filename)
		}
		return text, nil
	default:
		return "", fmt.Errorf("unsupported file type %q", ext)
	}
}

// salvageText собирает непрерывные последовательности печатаемых символов.
func salvageText(data []byte) string {
	var out strings.Builder
	var run []rune

	flush := func() {
		if len(run) >= minRunLength {
			out.WriteString(string(run))
			out.WriteByte('\n')
		}
		run = run[:0]
	}

	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		i += size
		if r == utf8.RuneError && size == 1 {
			flush()
			continue
		}
		if r == '\n' || r == '\t' || (r >= 0x20 && r != 0x7f) {
			run = append(run, r)
		} else {
			flush()
		}
	}
	flush()
	return out.String()
}
