// Package dependencies implements the dependencies cache (C6): a read-only
// aggregate over vanilla Packs, parent/mod Packs and an assembly-kit XML
// tree, exposing file_exists/db_data/asskit_only_db_tables/localisation_data
// the way rpfm_lib's dependencies.rs builds its own cache. The file-path
// index is kept in a modernc.org/sqlite database at Cache.dbPath so lookups
// run as SQL rather than linear scans over every configured Pack; the
// underlying RFile bytes stay in the originating Pack values themselves —
// only the index is "the serialised cache blob" spec §6 describes.
package dependencies

import (
	"database/sql"
	"fmt"
	"sort"

	_ "modernc.org/sqlite"

	"github.com/archivekit/packforge/internal/pack"
	"github.com/archivekit/packforge/internal/rfile"
	"github.com/archivekit/packforge/internal/schema"
	"github.com/archivekit/packforge/internal/table"
)

const (
	sourceVanilla = "vanilla"
	sourceParent  = "parent"
)

// Cache is the immutable aggregate described by spec §4.6. Build it fresh
// with Build; there is no incremental update, matching "reloading it is a
// whole-cache rebuild".
type Cache struct {
	db *sql.DB

	vanilla []*pack.Pack
	parent  []*pack.Pack

	asskitTables map[string]*table.Table
	loc          map[string]string

	failures []error // per-source build failures that did not abort the whole build
}

// BuildOptions configures Build.
type BuildOptions struct {
	DBPath       string // sqlite database path; ":memory:" is valid
	VanillaPacks []*pack.Pack
	ParentPacks  []*pack.Pack
	AsskitPath   string // root of the assembly-kit XML tree; empty to skip
	Language     string // not read by Build: LocalisationData covers every Loc file regardless of language
	Registry     *schema.Registry
}

// Build constructs a Cache over opts' sources. A failure in one build step
// (indexing a group of Packs, reading the asskit directory, or the
// localisation pass) is recorded in Failures and does not abort the rest of
// the build. Individual asskit XML files that fail to parse are skipped by
// ParseAsskit and are not recorded.
func Build(opts BuildOptions) (*Cache, error) {
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = ":memory:"
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("dependencies: open cache db: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS files (path TEXT, source TEXT, pack_idx INTEGER)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("dependencies: create files table: %w", err)
	}
	if _, err := db.Exec(`DELETE FROM files`); err != nil {
		db.Close()
		return nil, fmt.Errorf("dependencies: reset files table: %w", err)
	}

	c := &Cache{
		db:           db,
		vanilla:      opts.VanillaPacks,
		parent:       opts.ParentPacks,
		asskitTables: map[string]*table.Table{},
		loc:          map[string]string{},
	}

	if err := c.indexPacks(sourceVanilla, opts.VanillaPacks); err != nil {
		c.failures = append(c.failures, err)
	}
	if err := c.indexPacks(sourceParent, opts.ParentPacks); err != nil {
		c.failures = append(c.failures, err)
	}
	if opts.AsskitPath != "" {
		tables, err := ParseAsskit(opts.AsskitPath, opts.Registry)
		if err != nil {
			c.failures = append(c.failures, fmt.Errorf("dependencies: asskit: %w", err))
		} else {
			c.asskitTables = tables
		}
	}
	if opts.Registry != nil {
		if err := c.indexLocalisation(opts.Registry); err != nil {
			c.failures = append(c.failures, fmt.Errorf("dependencies: localisation: %w", err))
		}
	}

	return c, nil
}

// Failures returns the per-source errors encountered while building the
// cache, if any. The cache remains usable for every source that did build.
func (c *Cache) Failures() []error { return c.failures }

// Close releases the underlying sqlite handle.
func (c *Cache) Close() error { return c.db.Close() }

func (c *Cache) indexPacks(source string, packs []*pack.Pack) error {
	for idx, p := range packs {
		for _, f := range p.Files(pack.FullContainer()) {
			if _, err := c.db.Exec(`INSERT INTO files (path, source, pack_idx) VALUES (?, ?, ?)`, f.Path, source, idx); err != nil {
				return fmt.Errorf("index %s pack %d: %w", source, idx, err)
			}
		}
	}
	return nil
}

func (c *Cache) indexLocalisation(reg *schema.Registry) error {
	all := append(append([]*pack.Pack{}, c.vanilla...), c.parent...)
	for _, p := range all {
		for _, f := range p.Files(pack.FullContainer()) {
			if f.FileType != rfile.TypeLoc {
				continue
			}
			body, err := f.Bytes()
			if err != nil {
				continue
			}
			t, _, err := table.DecodeLoc(body, reg)
			if err != nil {
				continue
			}
			keyCol, ok := t.ColumnPositionByName("key")
			if !ok {
				continue
			}
			textCol, ok := t.ColumnPositionByName("text")
			if !ok {
				continue
			}
			for _, row := range t.Rows {
				c.loc[row[keyCol].Str] = row[textCol].Str
			}
		}
	}
	return nil
}

// FileExists reports whether path is present in any of the requested
// sources. searchAsskit matches against the asskit tables keyed by the
// "db/<table>/..." table name the path implies, since asskit data has no
// literal file path of its own.
func (c *Cache) FileExists(path string, searchVanilla, searchParent, searchAsskit bool) (bool, error) {
	var sources []string
	if searchVanilla {
		sources = append(sources, sourceVanilla)
	}
	if searchParent {
		sources = append(sources, sourceParent)
	}
	if len(sources) > 0 {
		q, args := inClause(`SELECT 1 FROM files WHERE path = ? AND source IN (`, path, sources)
		row := c.db.QueryRow(q, args...)
		var one int
		switch err := row.Scan(&one); err {
		case nil:
			return true, nil
		case sql.ErrNoRows:
		default:
			return false, fmt.Errorf("dependencies: FileExists: %w", err)
		}
	}
	if searchAsskit {
		if tableName, ok := rfile.TableNameForPath(path); ok {
			if _, ok := c.asskitTables[tableName]; ok {
				return true, nil
			}
		}
	}
	return false, nil
}

// DBData returns every DB RFile belonging to tableName across the
// configured sources, vanilla entries first and parent entries second,
// each group ordered by the Pack index it came from (spec §4.6).
func (c *Cache) DBData(tableName string, searchVanilla, searchParent bool) ([]*rfile.RFile, error) {
	var sources []string
	if searchVanilla {
		sources = append(sources, sourceVanilla)
	}
	if searchParent {
		sources = append(sources, sourceParent)
	}
	if len(sources) == 0 {
		return nil, nil
	}

	prefix := "db/" + tableName + "/"
	q, args := inClause(`SELECT path, source, pack_idx FROM files WHERE path LIKE ? AND source IN (`, prefix+"%", sources)
	rows, err := c.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("dependencies: DBData: %w", err)
	}
	defer rows.Close()

	type hit struct {
		path    string
		source  string
		packIdx int
	}
	var hits []hit
	for rows.Next() {
		var h hit
		if err := rows.Scan(&h.path, &h.source, &h.packIdx); err != nil {
			return nil, fmt.Errorf("dependencies: DBData: scan: %w", err)
		}
		hits = append(hits, h)
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].source != hits[j].source {
			return hits[i].source == sourceVanilla
		}
		return hits[i].packIdx < hits[j].packIdx
	})

	var out []*rfile.RFile
	for _, h := range hits {
		packs := c.vanilla
		if h.source == sourceParent {
			packs = c.parent
		}
		if h.packIdx >= len(packs) {
			continue
		}
		if f, ok := packs[h.packIdx].Get(h.path); ok {
			out = append(out, f)
		}
	}
	return out, nil
}

// AsskitOnlyDBTables returns the table definitions parsed from the
// assembly-kit XML tree.
func (c *Cache) AsskitOnlyDBTables() map[string]*table.Table { return c.asskitTables }

// LocalisationData returns the flattened key -> translated_value map built
// across every Loc file in the vanilla and parent sources.
func (c *Cache) LocalisationData() map[string]string { return c.loc }

func inClause(prefix, matchArg string, sources []string) (string, []any) {
	args := make([]any, 0, len(sources)+1)
	args = append(args, matchArg)
	query := prefix
	for i, s := range sources {
		if i > 0 {
			query += ", "
		}
		query += "?"
		args = append(args, s)
	}
	query += ")"
	return query, args
}
