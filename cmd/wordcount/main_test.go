package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"
)

func writeDocs(t *testing.T, n int) ([]string, map[string]int) {
	t.Helper()

	dir := t.TempDir()
	files := make([]string, 0, n)
	want := make(map[string]int)

	for i := range n {
		text := gofakeit.Paragraph(2, 4, 12, " ")
		path := filepath.Join(dir, fmt.Sprintf("doc-%d.txt", i))
		require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
		files = append(files, path)

		for _, w := range words(text) {
			want[w]++
		}
	}

	return files, want
}

func expectedOutput(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s %d\n", k, counts[k])
	}

	return b.String()
}

func TestWordCount(t *testing.T) {
	files, want := writeDocs(t, 12)

	for _, partitioner := range []string{"djb2", "murmur"} {
		t.Run(partitioner, func(t *testing.T) {
			var out bytes.Buffer
			cfg := config{mappers: 4, reducers: 3, partitioner: partitioner, files: files}

			require.NoError(t, run(context.Background(), cfg, &out))
			require.Equal(t, expectedOutput(want), out.String())
		})
	}
}

func TestWordCountBbolt(t *testing.T) {
	files, want := writeDocs(t, 5)
	dbPath := filepath.Join(t.TempDir(), "counts.db")

	var out bytes.Buffer
	cfg := config{mappers: 2, reducers: 4, partitioner: "djb2", dbPath: dbPath, files: files}

	require.NoError(t, run(context.Background(), cfg, &out))
	require.Equal(t, expectedOutput(want), out.String())
	require.FileExists(t, dbPath)
}

func TestWordCountFake(t *testing.T) {
	var out bytes.Buffer
	cfg := config{mappers: 3, reducers: 2, partitioner: "djb2", fake: 7}

	require.NoError(t, run(context.Background(), cfg, &out))
	require.NotEmpty(t, out.String())
}

func TestWordCountMissingFile(t *testing.T) {
	cfg := config{mappers: 1, reducers: 1, partitioner: "djb2", files: []string{filepath.Join(t.TempDir(), "nope")}}

	err := run(context.Background(), cfg, &bytes.Buffer{})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseFlags(t *testing.T) {
	cfg, err := parseFlags([]string{"-mappers", "3", "-reducers", "2", "-partitioner", "murmur", "a.txt", "b.txt"})
	require.NoError(t, err)
	require.Equal(t, 3, cfg.mappers)
	require.Equal(t, 2, cfg.reducers)
	require.Equal(t, "murmur", cfg.partitioner)
	require.Equal(t, []string{"a.txt", "b.txt"}, cfg.files)

	_, err = parseFlags(nil)
	require.Error(t, err)

	cfg, err = parseFlags([]string{"-fake", "3"})
	require.NoError(t, err)
	require.Equal(t, 3, cfg.fake)

	err = run(context.Background(), config{mappers: 1, reducers: 1, partitioner: "md5", fake: 1}, &bytes.Buffer{})
	require.ErrorContains(t, err, "unknown partitioner")
}

func TestWords(t *testing.T) {
	require.Equal(t, []string{"hello", "world", "it", "s", "42"}, words("Hello, WORLD! it's 42"))
}
