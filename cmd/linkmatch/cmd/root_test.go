package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bastiangx/linkmatch/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCorpus = `sentences:
  - name: dogs chase cats
    words:
      - word: LEFT-WALL
        disjuncts: [{conns: Wd+}]
      - word: dogs
        disjuncts: [{conns: Wd- Sp+}, {conns: Sp+}]
      - word: chase
        disjuncts: [{conns: Sp- O+}, {conns: Ss- O+}, {conns: Sp-}]
      - word: cats
        disjuncts: [{conns: O-}]
  - name: modifiers
    words:
      - word: w
        disjuncts: [{conns: "@M+"}]
      - word: a
        disjuncts: [{conns: M-}]
      - word: b
        disjuncts: [{conns: M-}]
`

type fixture struct {
	dir    string
	config string
	corpus string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		dir:    dir,
		config: filepath.Join(dir, "config.toml"),
		corpus: filepath.Join(dir, "corpus.yaml"),
	}
	require.NoError(t, config.SaveConfig(config.DefaultConfig(), f.config))
	require.NoError(t, os.WriteFile(f.corpus, []byte(testCorpus), 0o644))
	return f
}

func (f fixture) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", f.config}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestCountCmd(t *testing.T) {
	f := newFixture(t)
	for _, workers := range []string{"1", "2"} {
		out, err := f.run(t, "", "count", f.corpus, "-j", workers)
		require.NoError(t, err)
		assert.Contains(t, out, "corpus.yaml:dogs chase cats")
		assert.Contains(t, out, "corpus.yaml:modifiers")
		// 1 for the first sentence, 1 for the second
		assert.Contains(t, out, "2 sentences, 2 linkages")
	}
}

func TestCountCmdMaxWords(t *testing.T) {
	f := newFixture(t)
	cfg := config.DefaultConfig()
	cfg.Search.MaxWords = 3
	require.NoError(t, config.SaveConfig(cfg, f.config))

	_, err := f.run(t, "", "count", f.corpus)
	assert.ErrorContains(t, err, "exceeds max_words 3")
}

func TestCountCmdMissingFile(t *testing.T) {
	f := newFixture(t)
	_, err := f.run(t, "", "count", filepath.Join(f.dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestMatchCmd(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "", "match", f.corpus, "-w", "2", "--lc", "Sp", "--lw", "1", "--rc", "O", "--rw", "3")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, out, "Sp<02>O")

	out, err = f.run(t, "", "match", f.corpus, "-w", "2", "--rc", "Wd", "--rw", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "no matches for word 2 (chase)")
}

func TestMatchCmdErrors(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no sentence", []string{"-s", "5", "--lc", "A"}, "no sentence 5"},
		{"no connector", []string{"-w", "2"}, "at least one of --lc and --rc"},
		{"word range", []string{"-w", "9", "--lc", "A"}, "word 9 outside"},
		{"lw range", []string{"-w", "1", "--lc", "Wd", "--lw", "1"}, "lw 1 must lie left of word 1"},
		{"rw range", []string{"-w", "1", "--rc", "Sp", "--rw", "1"}, "rw 1 must lie right of word 1"},
		{"bad name", []string{"-w", "2", "--rc", "o", "--rw", "3"}, "o"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.run(t, "", append([]string{"match", f.corpus}, tt.args...)...)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestReplCmd(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "count\nuse 1\ncount\nquit\n", "repl", f.corpus)
	require.NoError(t, err)
	assert.Contains(t, out, "linkages for 4 words")
	assert.Contains(t, out, "linkages for 3 words")
}

func TestConvertCmd(t *testing.T) {
	f := newFixture(t)
	packed := filepath.Join(f.dir, "corpus.mpk.zst")
	out, err := f.run(t, "", "convert", f.corpus, packed)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 2 sentences")

	out, err = f.run(t, "", "count", packed)
	require.NoError(t, err)
	assert.Contains(t, out, "2 sentences, 2 linkages")

	_, err = f.run(t, "", "convert", f.corpus, filepath.Join(f.dir, "corpus.txt"))
	assert.Error(t, err)
}

func TestConfigPathCmd(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "", "config", "path")
	require.NoError(t, err)
	assert.Equal(t, f.config, strings.TrimSpace(out))

	out, err = f.run(t, "", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "[matcher]")
	assert.Contains(t, out, `lower_match = "strict"`)
}

func TestVersionCmd(t *testing.T) {
	cmd := newVersionCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--short"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, Version, strings.TrimSpace(buf.String()))
}
