package corpus

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bastiangx/linkmatch/pkg/connector"
	"github.com/bastiangx/linkmatch/pkg/lattice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFor(t *testing.T) {
	tests := map[string]Format{
		"a.yaml":       FormatYAML,
		"dir/a.YML":    FormatYAML,
		"a.mpk":        FormatMsgpack,
		"a.mpk.zst":    FormatMsgpackZstd,
		"a.json":       FormatUnknown,
		"a.zst":        FormatUnknown,
		"mpk.zst/file": FormatUnknown,
	}
	for path, want := range tests {
		assert.Equal(t, want, FormatFor(path), path)
	}
}

func TestLoadYAML(t *testing.T) {
	f, err := Load(filepath.Join("testdata", "basic.yaml"))
	require.NoError(t, err)
	require.Len(t, f.Sentences, 2)

	first := f.Sentences[0]
	assert.Equal(t, "dogs chase cats", first.Name)
	require.Len(t, first.Words, 4)
	assert.Equal(t, 1.5, first.Words[1].Disjuncts[1].Cost)

	second := f.Sentences[1]
	require.Len(t, second.Splits, 1)
	assert.Equal(t, &AltRef{Split: 0, Choice: 1}, second.Words[4].Alt)
}

func TestBuild(t *testing.T) {
	f, err := Load(filepath.Join("testdata", "basic.yaml"))
	require.NoError(t, err)

	tbl := connector.NewTable()
	sents, err := f.Build(tbl)
	require.NoError(t, err)
	require.Len(t, sents, 2)

	s := sents[0]
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, 6, s.NumDisjuncts())
	assert.Equal(t, "Wd- Sp+", s.Words[1].Disjuncts[0].String())
	assert.Equal(t, 2, s.Words[3].Disjuncts[0].Left.NearestWord)

	c := sents[1]
	do, dont := c.Words[2].Node, c.Words[4].Node
	nt := c.Words[3].Node
	assert.Equal(t, 1, do.Depth)
	assert.True(t, lattice.InSameAlternative(do, nt))
	assert.False(t, lattice.InSameAlternative(do, dont))
	assert.Same(t, dont, c.Words[4].Disjuncts[0].Left.Origin())

	// both sentences share the table
	assert.Equal(t, 4, tbl.NumClasses(), "Wd, S, O and N")
}

func TestBuildErrors(t *testing.T) {
	tbl := connector.NewTable()

	_, err := (&SentenceSpec{Name: "empty"}).Build(tbl)
	assert.ErrorIs(t, err, ErrNoWords)

	_, err = (&SentenceSpec{
		Words: []WordSpec{{Word: "x", Alt: &AltRef{Split: 0}}},
	}).Build(tbl)
	assert.ErrorIs(t, err, ErrBadAlt)

	_, err = (&SentenceSpec{
		Splits: []SplitSpec{{Token: "x", Alternatives: 0}},
		Words:  []WordSpec{{Word: "x"}},
	}).Build(tbl)
	assert.ErrorIs(t, err, ErrBadSplit)

	_, err = (&SentenceSpec{
		Splits: []SplitSpec{{Token: "x", Alternatives: 2, Within: &AltRef{Split: 0}}},
		Words:  []WordSpec{{Word: "x"}},
	}).Build(tbl)
	assert.ErrorIs(t, err, ErrBadAlt, "a split can only nest in an earlier one")

	_, err = (&SentenceSpec{
		Name:  "bad notation",
		Words: []WordSpec{{Word: "x", Disjuncts: []DisjunctSpec{{Conns: "S"}}}},
	}).Build(tbl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad notation")
}

func TestNestedSplits(t *testing.T) {
	spec := SentenceSpec{
		Splits: []SplitSpec{
			{Token: "abc", Alternatives: 2},
			{Token: "bc", Alternatives: 2, Within: &AltRef{Split: 0, Choice: 0}},
		},
		Words: []WordSpec{
			{Word: "a", Alt: &AltRef{Split: 0, Choice: 0}},
			{Word: "b", Alt: &AltRef{Split: 1, Choice: 0}},
			{Word: "bc", Alt: &AltRef{Split: 1, Choice: 1}},
			{Word: "abc", Alt: &AltRef{Split: 0, Choice: 1}},
		},
	}
	s, err := spec.Build(connector.NewTable())
	require.NoError(t, err)

	a, b, bc, abc := s.Words[0].Node, s.Words[1].Node, s.Words[2].Node, s.Words[3].Node
	assert.Equal(t, 2, b.Depth)
	assert.True(t, lattice.InSameAlternative(a, b))
	assert.False(t, lattice.InSameAlternative(b, bc))
	assert.False(t, lattice.InSameAlternative(b, abc), "exclusion is inherited")
}

func TestRoundTripFormats(t *testing.T) {
	orig, err := Load(filepath.Join("testdata", "basic.yaml"))
	require.NoError(t, err)

	dir := t.TempDir()
	for _, name := range []string{"out.mpk", "out.mpk.zst", "out.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, Save(orig, path))
			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, orig, got)
		})
	}
}

func TestUnknownFormat(t *testing.T) {
	_, err := Load("corpus.json")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.ErrorIs(t, Save(&File{}, "corpus.json"), ErrUnknownFormat)

	var buf bytes.Buffer
	assert.ErrorIs(t, Encode(&buf, &File{}, FormatUnknown), ErrUnknownFormat)
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader("sentences:\n  - wrods: []\n"), FormatYAML)
	assert.Error(t, err)
}
