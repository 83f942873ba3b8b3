package shell

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/require"

	"github.com/wordforge/wordforge/config"
	"github.com/wordforge/wordforge/strategy"
)

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoCommand},
		{"   ", nil, errNoCommand},
		{"choose", &shellcmd{"choose", []string{}}, nil},
		{"pool ATERS", &shellcmd{"pool", []string{"ATERS"}}, nil},
		{"outcome rate true 4", &shellcmd{"outcome", []string{"rate", "true", "4"}}, nil},
		{`load "my words.txt"`, &shellcmd{"load", []string{"my words.txt"}}, nil},
	}
	for _, tc := range cases {
		cmd, err := extractFields(tc.line)
		is.Equal(cmd, tc.expCmd)
		is.Equal(err, tc.expErr)
	}
}

func testController(t *testing.T) *ShellController {
	t.Helper()
	cfg := &config.Config{}
	require.NoError(t, cfg.Load(nil))
	return &ShellController{config: cfg, difficulty: strategy.Medium}
}

func writeWordList(t *testing.T, words ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(words, "\n")), 0644))
	return path
}

func TestDispatchUnknownCommand(t *testing.T) {
	is := is.New(t)
	sc := testController(t)
	_, err := sc.dispatch("frobnicate")
	is.True(err != nil)
}

func TestCommandsRequireLoadedList(t *testing.T) {
	is := is.New(t)
	sc := testController(t)
	for _, line := range []string{"choose", "stats", "history", "new", "outcome rate true 4"} {
		_, err := sc.dispatch(line)
		is.True(err != nil) // every command needs a loaded word list
	}
}

func TestLoadChooseOutcomeFlow(t *testing.T) {
	sc := testController(t)
	path := writeWordList(t, "rate", "tears", "stare", "tea", "eat", "ate", "ear", "ears", "star", "rats")

	resp, err := sc.dispatch("load " + path)
	require.NoError(t, err)
	require.Contains(t, resp.message, "Loaded 10 words")

	resp, err = sc.dispatch("pool ATERS")
	require.NoError(t, err)
	require.Contains(t, resp.message, "A E R S T")

	resp, err = sc.dispatch("choose")
	require.NoError(t, err)
	require.NotEmpty(t, resp.message)

	_, err = sc.dispatch("outcome rate true 4")
	require.NoError(t, err)

	resp, err = sc.dispatch("stats")
	require.NoError(t, err)
	require.Contains(t, resp.message, "Decisions:")

	resp, err = sc.dispatch("history")
	require.NoError(t, err)
	require.Contains(t, resp.message, "RATE")
}

func TestOutcomeRemovesLettersFromPool(t *testing.T) {
	sc := testController(t)
	path := writeWordList(t, "rate", "tea", "sea")
	_, err := sc.dispatch("load " + path)
	require.NoError(t, err)
	_, err = sc.dispatch("pool ATERS")
	require.NoError(t, err)

	_, err = sc.dispatch("outcome rate true 4")
	require.NoError(t, err)

	resp, err := sc.dispatch("pool")
	require.NoError(t, err)
	require.Contains(t, resp.message, "S")
	require.NotContains(t, resp.message, "R")
}

func TestWordsCommand(t *testing.T) {
	sc := testController(t)
	path := writeWordList(t, "star", "stare", "start", "tea")
	_, err := sc.dispatch("load " + path)
	require.NoError(t, err)

	resp, err := sc.dispatch("words sta")
	require.NoError(t, err)
	require.Contains(t, resp.message, "STARE")

	resp, err = sc.dispatch("words sta 1")
	require.NoError(t, err)
	require.Contains(t, resp.message, "1 of 3 words")

	resp, err = sc.dispatch("words zzz")
	require.NoError(t, err)
	require.Contains(t, resp.message, "No words")
}

func TestSetDifficulty(t *testing.T) {
	is := is.New(t)
	sc := testController(t)

	_, err := sc.dispatch("set difficulty hard")
	is.NoErr(err)
	is.Equal(sc.difficulty, strategy.Hard)

	_, err = sc.dispatch("set difficulty impossible")
	is.True(err != nil)
}

func TestPoolRejectsNonLetters(t *testing.T) {
	is := is.New(t)
	sc := testController(t)
	_, err := sc.dispatch("pool AB3")
	is.True(err != nil)
}

func TestPoolGeneratesRandomLetters(t *testing.T) {
	is := is.New(t)
	sc := testController(t)

	resp, err := sc.dispatch("pool 7")
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "Letters: "))
	is.Equal(sc.letters.Size(), 7)

	_, err = sc.dispatch("pool 0")
	is.True(err != nil)
}
