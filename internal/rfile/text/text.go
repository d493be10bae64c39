// Package text holds the Text inner-file type: raw UTF-8 bytes plus a
// format tag the UI uses to pick a syntax highlighter. Decoding never
// fails; any byte sequence is accepted as-is, per spec §4.4.
package text

import "strings"

// Format classifies the syntax a Text payload should be displayed with.
// It carries no behavioural weight in the codec itself.
type Format int

const (
	FormatPlain Format = iota
	FormatLua
	FormatXML
	FormatHTML
	FormatJSON
	FormatCSV
	FormatMarkdown
)

// Text is the decoded value of a Text RFile.
type Text struct {
	Contents string
	Format   Format
}

// Decode wraps raw bytes as UTF-8 text and infers a Format from path.
func Decode(path string, data []byte) *Text {
	return &Text{Contents: string(data), Format: formatForPath(path)}
}

// Encode returns the text's raw UTF-8 bytes.
func Encode(t *Text) []byte { return []byte(t.Contents) }

func formatForPath(path string) Format {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".lua"):
		return FormatLua
	case strings.HasSuffix(lower, ".xml"), strings.HasSuffix(lower, ".xml.loc"):
		return FormatXML
	case strings.HasSuffix(lower, ".html"), strings.HasSuffix(lower, ".htm"):
		return FormatHTML
	case strings.HasSuffix(lower, ".json"):
		return FormatJSON
	case strings.HasSuffix(lower, ".csv"), strings.HasSuffix(lower, ".tsv"):
		return FormatCSV
	case strings.HasSuffix(lower, ".md"):
		return FormatMarkdown
	default:
		return FormatPlain
	}
}
