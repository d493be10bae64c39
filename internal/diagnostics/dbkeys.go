package diagnostics

import "regexp"

// dbKeyRef is one `--@db <table> <column> { "k1","k2",... }` comment block
// found in a Text file, expanded into one reference per listed key.
type dbKeyRef struct {
	Table  string
	Column string
	Key    string
	Start  int
	End    int
}

// dbKeyBlock matches a whole `--@db table column { "a", "b" }` comment,
// capturing the table name, column name and the quoted-key list body.
var dbKeyBlock = regexp.MustCompile(`--@db\s+(\S+)\s+(\S+)\s*\{([^}]*)\}`)

// quotedKey matches one double-quoted key inside a dbKeyBlock body.
var quotedKey = regexp.MustCompile(`"([^"]*)"`)

// parseDBKeyComments scans contents for every `--@db` comment block and
// expands it into one dbKeyRef per key, per spec §4.7's InvalidKey diagnostic.
func parseDBKeyComments(contents string) []dbKeyRef {
	var refs []dbKeyRef
	for _, m := range dbKeyBlock.FindAllStringSubmatchIndex(contents, -1) {
		blockStart, blockEnd := m[0], m[1]
		table := contents[m[2]:m[3]]
		column := contents[m[4]:m[5]]
		body := contents[m[6]:m[7]]
		for _, km := range quotedKey.FindAllStringSubmatch(body, -1) {
			refs = append(refs, dbKeyRef{
				Table:  table,
				Column: column,
				Key:    km[1],
				Start:  blockStart,
				End:    blockEnd,
			})
		}
	}
	return refs
}
