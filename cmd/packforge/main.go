// Command packforge is a thin CLI over the core library: list, diagnose and
// search a Pack file from a terminal. It is not part of the core contract
// (spec §6); it exists to exercise the library end-to-end the way the
// teacher's own (untrimmed) command-line entrypoint exercises internal/assets.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/archivekit/packforge/internal/config"
	"github.com/archivekit/packforge/internal/diagnostics"
	"github.com/archivekit/packforge/internal/pack"
	"github.com/archivekit/packforge/internal/rfile"
	"github.com/archivekit/packforge/internal/schema"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "packforge:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: packforge <list|diagnose|search> <pack-file> [term]")
	}
	cmd, args := args[0], args[1:]

	flags := pflag.NewFlagSet(cmd, pflag.ContinueOnError)
	lazy := flags.Bool("lazy", true, "use lazy loading when decoding the pack")
	configPath := flags.String("config", "", "path to a packforge config YAML file")
	if err := flags.Parse(args); err != nil {
		return err
	}
	rest := flags.Args()
	if len(rest) == 0 {
		return fmt.Errorf("missing pack file path")
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.UseLazyLoading = *lazy

	data, err := os.ReadFile(rest[0])
	if err != nil {
		return fmt.Errorf("read %q: %w", rest[0], err)
	}
	p, err := pack.Decode(data, pack.DecodeOptions{UseLazyLoading: cfg.UseLazyLoading})
	if err != nil {
		return fmt.Errorf("decode %q: %w", rest[0], err)
	}

	switch cmd {
	case "list":
		return runList(p)
	case "diagnose":
		return runDiagnose(p)
	case "search":
		if len(rest) < 2 {
			return fmt.Errorf("usage: packforge search <pack-file> <term>")
		}
		return runSearch(p, rest[1])
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runList(p *pack.Pack) error {
	files := p.Files(pack.FullContainer())
	width := tableWidth()
	for _, f := range files {
		line := fmt.Sprintf("%-10s %s", f.FileType, f.Path)
		if width > 0 && len(line) > width {
			line = line[:width-1] + "…"
		}
		fmt.Println(line)
	}
	fmt.Printf("%d files\n", len(files))
	return nil
}

func runDiagnose(p *pack.Pack) error {
	reg := schema.NewRegistry(string(p.Header.Version))
	resolver := &diagnostics.PackResolver{Local: p, Registry: reg}
	diags, err := diagnostics.Scan(p, resolver, diagnostics.Options{Registry: reg})
	if err != nil {
		return err
	}
	for _, d := range diags {
		fmt.Printf("%-8s %-40s %s: %s\n", d.Level, d.Kind, d.Path, d.Message)
	}
	fmt.Printf("%d diagnostics\n", len(diags))
	return nil
}

func runSearch(p *pack.Pack, term string) error {
	reg := schema.NewRegistry(string(p.Header.Version))
	matches, err := diagnostics.Search(p, diagnostics.DataSourcePackFile, term, diagnostics.SearchOptions{
		Registry: reg,
		Types:    []rfile.FileType{rfile.TypeText, rfile.TypeDB, rfile.TypeLoc},
	})
	if err != nil {
		return err
	}
	for _, m := range matches {
		fmt.Printf("%s %s %q\n", m.Path, m.FieldOrRow, m.MatchedText)
	}
	fmt.Printf("%d matches\n", len(matches))
	return nil
}

// tableWidth returns the current terminal width for stdout, or 0 (no
// truncation) when stdout isn't a TTY or the width can't be determined.
func tableWidth() int {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return 0
	}
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return w
}
