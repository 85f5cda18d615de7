package main

import (
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/danielpatrickdp/dfm-advisor/internal/config"
	"github.com/danielpatrickdp/dfm-advisor/internal/store"
)

// Knowledge-base layout: <root>/<process>/<subprocess>/<file>.md, e.g.
// kb/casting/die_casting/gates.md. The folder names become the chunk's
// process (upper-cased) and subprocess.

// #region main
func main() {
	root := flag.String("root", "", "knowledge-base directory to ingest")
	dbPath := flag.String("db", "", "SQLite path (defaults to ADVISOR_DB)")
	flag.Parse()

	if *root == "" {
		fmt.Fprintln(os.Stderr, "usage: kb-ingest --root path/to/kb [--db advisor.db]")
		os.Exit(2)
	}
	if *dbPath == "" {
		*dbPath = config.Load().DBPath
	}

	st, err := store.NewStore(*dbPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	inserted, skipped, err := ingest(st, *root)
	if err != nil {
		log.Fatalf("ingest failed: %v", err)
	}

	total, err := st.CountChunks()
	if err != nil {
		log.Fatalf("count chunks: %v", err)
	}
	fmt.Printf("Ingested %d chunks (%d files skipped). Store now holds %d chunks.\n", inserted, skipped, total)
}

// #endregion main

// #region ingest
func ingest(st *store.Store, root string) (inserted, skipped int, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		process, subprocess := classify(rel)
		if process == "" {
			log.Printf("skipping %s: not under a process folder", rel)
			skipped++
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", rel, err)
		}

		for _, section := range splitSections(string(raw)) {
			_, err := st.InsertChunk(store.Chunk{
				Process:    process,
				Subprocess: subprocess,
				Title:      section.title,
				Content:    section.body,
				SourcePath: filepath.ToSlash(rel),
			})
			if err != nil {
				return fmt.Errorf("insert from %s: %w", rel, err)
			}
			inserted++
		}
		return nil
	})
	return inserted, skipped, err
}

// classify maps a relative path to (process, subprocess) from its
// leading folders.
func classify(rel string) (string, string) {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 {
		return "", ""
	}
	process := strings.ToUpper(parts[0])
	subprocess := ""
	if len(parts) > 2 {
		subprocess = parts[1]
	}
	return process, subprocess
}

// #endregion ingest

// #region sections

type section struct {
	title string
	body  string
}

// splitSections breaks a markdown file on "## " headings so each
// retrievable chunk stays topical. Content before the first heading
// becomes one chunk titled by the document's "# " line, when present.
func splitSections(content string) []section {
	lines := strings.Split(content, "\n")
	var sections []section
	current := section{}
	var body []string

	flush := func() {
		text := strings.TrimSpace(strings.Join(body, "\n"))
		if text != "" {
			current.body = text
			sections = append(sections, current)
		}
		body = nil
	}

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "## "):
			flush()
			current = section{title: strings.TrimSpace(strings.TrimPrefix(line, "## "))}
		case strings.HasPrefix(line, "# ") && current.title == "" && len(sections) == 0:
			current.title = strings.TrimSpace(strings.TrimPrefix(line, "# "))
		default:
			body = append(body, line)
		}
	}
	flush()
	return sections
}

// #endregion sections
