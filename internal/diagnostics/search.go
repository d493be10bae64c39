package diagnostics

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/archivekit/packforge/internal/pack"
	"github.com/archivekit/packforge/internal/rfile"
	"github.com/archivekit/packforge/internal/rfile/loc"
	"github.com/archivekit/packforge/internal/rfile/text"
	"github.com/archivekit/packforge/internal/schema"
	"github.com/archivekit/packforge/internal/table"
)

// DataSource tags where a SearchMatch originated, per the GLOSSARY's
// "Data source" enumeration.
type DataSource int

const (
	DataSourcePackFile DataSource = iota
	DataSourceGameFiles
	DataSourceParentFiles
	DataSourceAssKitFiles
	DataSourceExternalFile
)

func (d DataSource) String() string {
	switch d {
	case DataSourceGameFiles:
		return "GameFiles"
	case DataSourceParentFiles:
		return "ParentFiles"
	case DataSourceAssKitFiles:
		return "AssKitFiles"
	case DataSourceExternalFile:
		return "ExternalFile"
	default:
		return "PackFile"
	}
}

// SearchMatch is one located occurrence of a search term.
type SearchMatch struct {
	Source       DataSource
	Path         string
	FieldOrRow   string // e.g. "row 3, column name" or "" for Text files
	ByteStart    int
	ByteEnd      int
	MatchedText  string
}

// SearchOptions configures Search.
type SearchOptions struct {
	Registry      *schema.Registry
	CaseSensitive bool
	Regex         bool
	Types         []rfile.FileType // nil means every type is searched
}

func (o SearchOptions) typeAllowed(ft rfile.FileType) bool {
	if len(o.Types) == 0 {
		return true
	}
	for _, t := range o.Types {
		if t == ft {
			return true
		}
	}
	return false
}

// matcher abstracts the case-sensitive/insensitive-or-regex matching rule.
type matcher struct {
	re *regexp.Regexp
}

func newMatcher(term string, opts SearchOptions) (*matcher, error) {
	pattern := term
	if !opts.Regex {
		pattern = regexp.QuoteMeta(term)
	}
	if !opts.CaseSensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("diagnostics: search pattern: %w", err)
	}
	return &matcher{re: re}, nil
}

func (m *matcher) findAll(s string) [][]int {
	return m.re.FindAllStringIndex(s, -1)
}

// Search walks p's decoded/decodable tree looking for term in every file
// whose type is allowed by opts.Types, tagging every hit as source.
func Search(p *pack.Pack, source DataSource, term string, opts SearchOptions) ([]SearchMatch, error) {
	m, err := newMatcher(term, opts)
	if err != nil {
		return nil, err
	}
	var out []SearchMatch
	for _, f := range p.Files(pack.FullContainer()) {
		if !opts.typeAllowed(f.FileType) {
			continue
		}
		ft, val, err := decodedValue(f, opts.Registry)
		if err != nil {
			continue // decode failure is a skip, not a fault (§7)
		}
		switch ft {
		case rfile.TypeText:
			if t, ok := val.(*text.Text); ok {
				for _, span := range m.findAll(t.Contents) {
					out = append(out, SearchMatch{
						Source: source, Path: f.Path,
						ByteStart: span[0], ByteEnd: span[1],
						MatchedText: t.Contents[span[0]:span[1]],
					})
				}
			}
		case rfile.TypeDB:
			if db, ok := val.(*rfile.DB); ok {
				out = append(out, searchTable(f.Path, source, db.Table, m)...)
			}
		case rfile.TypeLoc:
			if l, ok := val.(*loc.Loc); ok {
				out = append(out, searchTable(f.Path, source, l.Table, m)...)
			}
		}
	}
	return out, nil
}

func decodedValue(f *rfile.RFile, reg *schema.Registry) (rfile.FileType, any, error) {
	if f.State() == rfile.StateDecoded {
		return f.FileType, f.Value(), nil
	}
	data, err := f.Bytes()
	if err != nil {
		return rfile.TypeUnknown, nil, err
	}
	return rfile.Decode(f.Path, data, reg)
}

func searchTable(path string, source DataSource, t *table.Table, m *matcher) []SearchMatch {
	var out []SearchMatch
	fields := t.Definition.ApplyPatches()
	for row, cells := range t.Rows {
		for col, cell := range cells {
			if cell.Str == "" {
				continue
			}
			for _, span := range m.findAll(cell.Str) {
				name := ""
				if col < len(fields) {
					name = fields[col].Name
				}
				out = append(out, SearchMatch{
					Source:      source,
					Path:        path,
					FieldOrRow:  fmt.Sprintf("row %d, column %s", row, name),
					ByteStart:   span[0],
					ByteEnd:     span[1],
					MatchedText: cell.Str[span[0]:span[1]],
				})
			}
		}
	}
	return out
}

// ReplaceInText applies replacement to every match in matches that targets
// a single Text file's contents, processing matches in reverse byte order
// so earlier byte offsets stay valid as later ones are rewritten, per
// spec §4.7/§9's "replace applies matches in reverse order per file" rule.
func ReplaceInText(contents string, matches []SearchMatch, replacement string) string {
	ordered := append([]SearchMatch(nil), matches...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ByteStart > ordered[j].ByteStart })

	var b strings.Builder
	b.WriteString(contents)
	out := b.String()
	for _, mt := range ordered {
		if mt.ByteStart < 0 || mt.ByteEnd > len(out) || mt.ByteStart > mt.ByteEnd {
			continue
		}
		out = out[:mt.ByteStart] + replacement + out[mt.ByteEnd:]
	}
	return out
}
