// Command seed loads movies from a JSON file into the configured store.
//
//	seed -file movies.json
//
// The file holds an array of {"title": ..., "rating": ...} objects. Records
// that fail validation are skipped and reported; the store backend and its
// connection settings come from the same environment as the API.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/moviereview/movie-api/internal/config"
	"github.com/moviereview/movie-api/internal/movie"
	"github.com/moviereview/movie-api/internal/movie/service"
	"github.com/moviereview/movie-api/internal/movie/store"
	"github.com/moviereview/movie-api/internal/validation"
	"github.com/moviereview/movie-api/pkg/logger"
)

// record is one decoded element of the import file.
type record map[string]any

// input coerces a record the way the API's body rules do: title is any JSON
// scalar, rating an integral number or an integer string.
func (r record) input() (movie.Input, bool) {
	title, ok := validation.Text(r["title"])
	if !ok {
		return movie.Input{}, false
	}
	rating, ok := validation.Integer(r["rating"])
	if !ok {
		return movie.Input{}, false
	}
	return movie.Input{Title: title, Rating: rating}, true
}

func main() {
	if err := run(); err != nil {
		logger.Errorf("seed: %v", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		file    string
		dryRun  bool
		timeout time.Duration
	)
	flag.StringVar(&file, "file", "movies.json", "JSON array of movies to import (- for stdin)")
	flag.BoolVar(&dryRun, "dry-run", false, "validate the file without writing")
	flag.DurationVar(&timeout, "timeout", time.Minute, "overall import deadline")
	flag.Parse()

	logger.Init(os.Getenv("LOG_LEVEL"))

	records, err := readRecords(file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}

	backend := "memory"
	var st store.Store = store.NewMemoryStore()
	if !dryRun {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if st, err = store.New(cfg); err != nil {
			return fmt.Errorf("create store: %w", err)
		}
		backend = cfg.Store.Backend
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := st.Close(ctx); err != nil {
			logger.Warnf("closing store: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	created, skipped, err := seed(ctx, service.New(st), records)
	if err != nil {
		return fmt.Errorf("import stopped after %d movies: %w", created, err)
	}
	logger.Infof("imported %d movies into %s (%d skipped, dry-run=%v)", created, backend, skipped, dryRun)
	return nil
}

// readRecords decodes a JSON array. Elements that are not objects become
// nil records and are skipped by seed.
func readRecords(file string) ([]record, error) {
	var r io.Reader = os.Stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	records := make([]record, len(raw))
	for i, msg := range raw {
		var rec record
		if err := json.Unmarshal(msg, &rec); err != nil {
			continue
		}
		records[i] = rec
	}
	return records, nil
}

// seed creates every valid record. Invalid records are skipped; a store
// failure stops the import.
func seed(ctx context.Context, svc service.Service, records []record) (created, skipped int, err error) {
	for i, rec := range records {
		in, ok := rec.input()
		if !ok {
			logger.Warnf("record %d skipped: not a movie: %v", i, map[string]any(rec))
			skipped++
			continue
		}
		m, err := svc.Create(ctx, in)
		if err != nil {
			if errors.Is(err, service.ErrInvalidInput) {
				logger.Warnf("record %d skipped: title=%q rating=%d", i, in.Title, in.Rating)
				skipped++
				continue
			}
			return created, skipped, err
		}
		logger.Debugf("record %d -> %s", i, m.ID)
		created++
	}
	return created, skipped, nil
}
