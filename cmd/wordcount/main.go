package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/tymbaca/mrlocal/mapreduce"
	"github.com/tymbaca/mrlocal/mapreduce/storage/bbolt"
	"github.com/tymbaca/mrlocal/mapreduce/storage/inmemory"
	"github.com/tymbaca/mrlocal/pkg/tracer"
)

type config struct {
	mappers     int
	reducers    int
	partitioner string
	dbPath      string
	fake        int
	otlp        string
	verbose     bool
	files       []string
}

func parseFlags(args []string) (config, error) {
	var cfg config

	fs := flag.NewFlagSet("wordcount", flag.ContinueOnError)
	fs.IntVar(&cfg.mappers, "mappers", 10, "number of map workers")
	fs.IntVar(&cfg.reducers, "reducers", 5, "number of partitions and concurrent reduce tasks")
	fs.StringVar(&cfg.partitioner, "partitioner", "djb2", "partition function: djb2 or murmur")
	fs.StringVar(&cfg.dbPath, "db", "", "store counts in this bbolt file instead of memory")
	fs.IntVar(&cfg.fake, "fake", 0, "generate this many random documents instead of reading files")
	fs.StringVar(&cfg.otlp, "otlp", "", "export traces to this OTLP/HTTP endpoint, e.g. localhost:4318")
	fs.BoolVar(&cfg.verbose, "v", false, "debug logging")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	cfg.files = fs.Args()

	if len(cfg.files) == 0 && cfg.fake == 0 {
		return cfg, fmt.Errorf("no input files, pass some or use -fake")
	}

	return cfg, nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(ctx, cfg, os.Stdout); err != nil {
		slog.Error("wordcount failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config, out io.Writer) error {
	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if cfg.otlp != "" {
		shutdown, err := tracer.Init(ctx, cfg.otlp)
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				slog.Warn("tracer shutdown", "err", err)
			}
		}()
	}

	partitionFn := mapreduce.DefaultPartition
	switch cfg.partitioner {
	case "djb2":
	case "murmur":
		partitionFn = mapreduce.MurmurPartition
	default:
		return fmt.Errorf("unknown partitioner %q", cfg.partitioner)
	}

	var results mapreduce.Storage = inmemory.New()
	if cfg.dbPath != "" {
		db, err := bbolt.New(cfg.dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		results = db
	}

	files := cfg.files
	if cfg.fake > 0 {
		dir, err := os.MkdirTemp("", "wordcount-")
		if err != nil {
			return fmt.Errorf("create fake input dir: %w", err)
		}
		defer os.RemoveAll(dir)

		files, err = writeFakeDocs(dir, cfg.fake)
		if err != nil {
			return err
		}
	}

	stats := &mapreduce.Stats{}
	mr := mapreduce.New(countMap, countReduce(results), cfg.mappers, cfg.reducers,
		mapreduce.WithPartitioner(partitionFn),
		mapreduce.WithStats(stats),
	)

	if err := mr.Run(ctx, files); err != nil {
		return err
	}
	slog.Info("stats", "stats", stats.String())

	return printResults(ctx, out, results)
}

func writeFakeDocs(dir string, n int) ([]string, error) {
	files := make([]string, 0, n)

	for i := range n {
		path := filepath.Join(dir, "doc-"+strconv.Itoa(i)+".txt")
		text := gofakeit.Sentence(gofakeit.IntRange(10, 20))

		if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
			return nil, fmt.Errorf("write fake doc: %w", err)
		}
		files = append(files, path)
	}

	return files, nil
}

func printResults(ctx context.Context, out io.Writer, results mapreduce.Storage) error {
	keys, err := results.Keys(ctx)
	if err != nil {
		return err
	}

	for _, key := range keys {
		count, _, err := results.Get(ctx, key)
		if err != nil {
			return err
		}

		if _, err := fmt.Fprintf(out, "%s %s\n", key, count); err != nil {
			return err
		}
	}

	return nil
}

func words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

func countMap(ctx context.Context, path string, emit mapreduce.EmitFunc) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	for _, word := range words(string(data)) {
		emit(word, "1")
	}

	return nil
}

func countReduce(results mapreduce.Storage) mapreduce.ReduceFunc {
	return func(ctx context.Context, key string, get mapreduce.Getter, partition int) error {
		total := 0
		for {
			countStr, ok := get(key, partition)
			if !ok {
				break
			}

			count, err := strconv.Atoi(countStr)
			if err != nil {
				return fmt.Errorf("bad count %q for %q: %w", countStr, key, err)
			}
			total += count
		}

		return results.Put(ctx, key, strconv.Itoa(total))
	}
}
