package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fieldnotes-dev/recoder/internal/audit"
	"github.com/fieldnotes-dev/recoder/internal/clean"
	"github.com/fieldnotes-dev/recoder/internal/config"
	"github.com/fieldnotes-dev/recoder/internal/dataset"
	"github.com/fieldnotes-dev/recoder/internal/report"
	"github.com/fieldnotes-dev/recoder/internal/review"
	"github.com/fieldnotes-dev/recoder/internal/wordlist"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var (
		dataPath  = flag.String("data", "", "input dataset CSV (required)")
		dictPath  = flag.String("dict", "", "single grouped wordlist CSV")
		dictDir   = flag.String("dict-dir", "", "directory of per-column wordlist CSVs (file stem = column name)")
		outPath   = flag.String("out", "", "output CSV (required)")
		groupRef  = flag.String("group", cfg.Clean.GroupRef, "group column of the wordlist, by name or 1-based position")
		sortBy    = flag.String("sort-by", cfg.Clean.SortBy, "wordlist column to order entries by")
		doReport  = flag.Bool("report", cfg.Clean.Report, "print the consolidated diagnostics report")
		doReview  = flag.Bool("review", false, "interactively map unmatched values and extend the dictionary")
		normalize = flag.Bool("normalize", cfg.Clean.Normalize, "NFKC-normalize and trim keys and values before matching")
		auditPath = flag.String("audit-db", cfg.Audit.Path, "sqlite file recording runs and their issues")
	)
	flag.Parse()

	if *dataPath == "" || *outPath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if (*dictPath == "") == (*dictDir == "") {
		log.Fatal("exactly one of -dict and -dict-dir is required")
	}

	ds, err := dataset.ReadCSVFile(*dataPath)
	if err != nil {
		log.Fatalf("dataset: %v", err)
	}

	bundle, dictLabel, err := loadBundle(*dictPath, *dictDir, *groupRef)
	if err != nil {
		log.Fatalf("wordlist: %v", err)
	}

	opts := clean.Options{
		SortBy:      *sortBy,
		Diagnostics: *doReport || *doReview || *auditPath != "",
		Normalize:   *normalize,
	}
	cleaned, rep, err := clean.Clean(ds, bundle, opts)
	if err != nil {
		log.Fatalf("clean: %v", err)
	}

	if err := cleaned.WriteCSVFile(*outPath); err != nil {
		log.Fatalf("write output: %v", err)
	}

	if *doReport {
		fmt.Fprintln(os.Stderr, report.Render(rep))
	}

	if *auditPath != "" {
		db, err := audit.Open(*auditPath)
		if err != nil {
			log.Fatalf("audit: %v", err)
		}
		defer db.Close()
		run := audit.NewRun(*dataPath, dictLabel, len(rep.Columns))
		if err := audit.Record(context.Background(), db, run, rep); err != nil {
			log.Fatalf("audit: %v", err)
		}
	}

	if *doReview && !rep.Empty() {
		model := review.NewModel(rep, bundleCandidates(bundle))
		final, err := tea.NewProgram(model).Run()
		if err != nil {
			log.Fatalf("review: %v", err)
		}
		accepted := final.(review.Model).Accepted()
		if len(accepted) > 0 {
			if err := appendMappings(*dictPath, *dictDir, *groupRef, accepted); err != nil {
				log.Fatalf("extend dictionary: %v", err)
			}
			fmt.Fprintf(os.Stderr, "added %d mapping(s) to the dictionary; re-run to apply\n", len(accepted))
		}
	}
}

// loadBundle builds the bundle from either a single grouped CSV or a
// directory of per-column CSVs, where the file stem names the column and
// ".global.csv" supplies the fallback table.
func loadBundle(dictPath, dictDir, groupRef string) (clean.Bundle, string, error) {
	if dictPath != "" {
		wl, err := wordlist.ReadCSVFile(dictPath)
		if err != nil {
			return nil, "", err
		}
		return clean.SingleTable{Table: wl, GroupRef: groupRef}, dictPath, nil
	}

	entries, err := os.ReadDir(dictDir)
	if err != nil {
		return nil, "", fmt.Errorf("read dict dir: %w", err)
	}
	col := clean.Collection{Tables: make(map[string]*wordlist.Wordlist)}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".csv")
		wl, err := wordlist.ReadCSVFile(filepath.Join(dictDir, e.Name()))
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", e.Name(), err)
		}
		col.Names = append(col.Names, name)
		col.Tables[name] = wl
	}
	sort.Strings(col.Names)
	if len(col.Tables) == 0 {
		return nil, "", fmt.Errorf("no wordlist CSVs in %s", dictDir)
	}
	return col, dictDir, nil
}

// bundleCandidates maps each column name to the canonical values its
// tables can produce, for the review picker. The empty key holds global
// candidates offered for every column.
func bundleCandidates(bundle clean.Bundle) map[string][]string {
	out := make(map[string][]string)
	var global []string
	switch b := bundle.(type) {
	case clean.SingleTable:
		ref := b.GroupRef
		if ref == "" {
			ref = clean.DefaultGroupRef
		}
		groups, err := b.Table.SplitBy(ref)
		if err != nil {
			return out
		}
		for name, wl := range groups {
			if name == wordlist.KeyGlobal {
				global = wl.Levels()
				continue
			}
			out[name] = wl.Levels()
		}
	case clean.Collection:
		for name, wl := range b.Tables {
			if name == wordlist.KeyGlobal {
				global = wl.Levels()
				continue
			}
			out[name] = wl.Levels()
		}
	}
	if len(global) > 0 {
		for name := range out {
			out[name] = append(out[name], global...)
		}
		out[""] = global
	}
	return out
}

// appendMappings extends the dictionary files with the mappings accepted
// during review.
func appendMappings(dictPath, dictDir, groupRef string, mappings []review.Mapping) error {
	if dictPath != "" {
		return appendSingle(dictPath, groupRef, mappings)
	}
	byColumn := make(map[string][]review.Mapping)
	for _, m := range mappings {
		byColumn[m.Column] = append(byColumn[m.Column], m)
	}
	for col, ms := range byColumn {
		path := filepath.Join(dictDir, col+".csv")
		wl, err := wordlist.ReadCSVFile(path)
		if err != nil {
			return err
		}
		for _, m := range ms {
			wl.Append(m.From, m.To)
		}
		if err := writeWordlist(path, wl); err != nil {
			return err
		}
	}
	return nil
}

func appendSingle(path, groupRef string, mappings []review.Mapping) error {
	wl, err := wordlist.ReadCSVFile(path)
	if err != nil {
		return err
	}
	groupCol, ok := wl.Column(groupRef)
	if !ok {
		return fmt.Errorf("group column %q not found in %s", groupRef, path)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	cw := csv.NewWriter(f)
	for _, m := range mappings {
		row := make([]string, len(wl.Header()))
		row[0] = m.From
		row[1] = m.To
		row[groupCol] = m.Column
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeWordlist(path string, wl *wordlist.Wordlist) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	cw := csv.NewWriter(f)
	if err := cw.Write(wl.Header()); err != nil {
		return err
	}
	for i := 0; i < wl.Len(); i++ {
		if err := cw.Write(wl.Row(i)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
