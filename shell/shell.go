// Package shell is the interactive console for playing against and
// inspecting the word AI.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"github.com/wordforge/wordforge/config"
	"github.com/wordforge/wordforge/lexicon"
	"github.com/wordforge/wordforge/pool"
	"github.com/wordforge/wordforge/store"
	"github.com/wordforge/wordforge/strategy"
	"github.com/wordforge/wordforge/trie"
)

const chooseTimeout = 10 * time.Second

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

type shellcmd struct {
	cmd  string
	args []string
}

// extractFields splits a command line with shell quoting rules, so
// `load "my words.txt"` parses as two fields.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoCommand
	}
	return &shellcmd{cmd: fields[0], args: fields[1:]}, nil
}

var errNoCommand = errors.New("no command entered")

type ShellController struct {
	l        *readline.Instance
	config   *config.Config
	execPath string

	tr     *trie.Trie
	lex    *lexicon.WordSet
	engine *strategy.Engine
	db     *store.SQLite

	letters    *pool.LetterPool
	difficulty strategy.Difficulty
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func NewShellController(cfg *config.Config, execPath string) *ShellController {
	completer := readline.NewPrefixCompleter(
		readline.PcItem("load"),
		readline.PcItem("new"),
		readline.PcItem("pool"),
		readline.PcItem("choose"),
		readline.PcItem("outcome"),
		readline.PcItem("words"),
		readline.PcItem("stats"),
		readline.PcItem("history"),
		readline.PcItem("set",
			readline.PcItem("difficulty"),
			readline.PcItem("simulations"),
		),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mwordforge>\033[0m ",
		HistoryFile:     "/tmp/wordforge_readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    completer,

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}

	difficulty := strategy.Medium
	if d, err := strategy.ParseDifficulty(cfg.GetString(config.ConfigDifficulty)); err == nil {
		difficulty = d
	}
	return &ShellController{
		l:          l,
		config:     cfg,
		execPath:   execPath,
		difficulty: difficulty,
	}
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.l.Stderr())
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// Loop reads and executes commands until EOF, interrupt, or `exit`.
func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			}
			continue
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			sig <- syscall.SIGINT
			break
		}
		sc.execLine(line)
	}
	log.Debug().Msg("exiting readline loop")
}

// Execute runs a single semicolon-separated command string, for
// non-interactive invocations.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	for _, single := range strings.Split(line, ";") {
		single = strings.TrimSpace(single)
		if single == "" {
			continue
		}
		sc.execLine(single)
	}
}

func (sc *ShellController) execLine(line string) {
	resp, err := sc.dispatch(line)
	if err != nil {
		sc.showError(err)
		return
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
}

func (sc *ShellController) dispatch(line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "load":
		return sc.load(cmd)
	case "new", "newgame":
		return sc.newGame(cmd)
	case "pool", "letters":
		return sc.pool(cmd)
	case "choose":
		return sc.choose(cmd)
	case "outcome":
		return sc.outcome(cmd)
	case "words":
		return sc.words(cmd)
	case "stats":
		return sc.stats(cmd)
	case "history":
		return sc.history(cmd)
	case "set":
		return sc.set(cmd)
	case "help":
		return usage()
	default:
		return nil, fmt.Errorf("command %q not found", cmd.cmd)
	}
}

// load reads a word list, builds the dictionary and trains a fresh
// engine on it.
func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	path := sc.config.GetString(config.ConfigWordListPath)
	if len(cmd.args) > 0 {
		path = cmd.args[0]
	}
	words, err := lexicon.LoadFile(path, language.English)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, errors.New("word list is empty")
	}

	sc.tr = trie.NewFromWords(words)
	sc.lex = lexicon.NewWordSet(path, words)
	engine, err := strategy.NewEngine(sc.tr, sc.lex, sc.difficulty)
	if err != nil {
		return nil, err
	}
	if sims := sc.config.GetInt(config.ConfigSimulations); sims > 0 {
		engine.MCTS().SetSimulations(sims)
	}
	if threads := sc.config.GetInt(config.ConfigThreads); threads > 0 {
		engine.MCTS().SetThreads(threads)
	}
	if err := engine.Train(words); err != nil {
		return nil, err
	}
	sc.engine = engine

	if dbPath := sc.config.GetString(config.ConfigDBPath); dbPath != "" {
		if err := sc.openDB(dbPath); err != nil {
			// Learning continues in memory when the database is broken.
			log.Warn().Err(err).Str("path", dbPath).Msg("db-open-failed")
		}
	}
	return msg(fmt.Sprintf("Loaded %d words from %s", len(words), path)), nil
}

func (sc *ShellController) openDB(path string) error {
	db, err := store.NewSQLite(path)
	if err != nil {
		return err
	}
	sc.db = db
	sc.engine.SetStores(db, db)
	return nil
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	if sc.engine == nil {
		return nil, errors.New("load a word list first with the `load` command")
	}
	sc.engine.StartGame(sc.difficulty)
	sc.letters = pool.Generate(4, 5, nil)
	return msg("New game. Letters: " + sc.letters.String()), nil
}

// pool shows the current letters, replaces them when letters are given,
// or generates a random pool of n letters when a number is given.
func (sc *ShellController) pool(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		if sc.letters == nil {
			return nil, errors.New("no letter pool; start a game with `new` or set one with `pool ABCDE`")
		}
		return msg("Letters: " + sc.letters.String()), nil
	}
	if n, err := strconv.Atoi(cmd.args[0]); err == nil {
		if n < 1 || n > 26 {
			return nil, fmt.Errorf("pool size %d out of range", n)
		}
		shared := min(4, n)
		sc.letters = pool.Generate(shared, n-shared, nil)
		return msg("Letters: " + sc.letters.String()), nil
	}
	letters := strings.ToUpper(strings.Join(cmd.args, ""))
	for i := 0; i < len(letters); i++ {
		if letters[i] < 'A' || letters[i] > 'Z' {
			return nil, fmt.Errorf("invalid letter %q", letters[i])
		}
	}
	sc.letters = pool.FromString(letters)
	return msg("Letters: " + sc.letters.String()), nil
}

func (sc *ShellController) choose(cmd *shellcmd) (*Response, error) {
	if sc.engine == nil {
		return nil, errors.New("load a word list first with the `load` command")
	}
	if sc.letters == nil {
		return nil, errors.New("no letter pool; start a game with `new` or set one with `pool ABCDE`")
	}
	ctx, cancel := context.WithTimeout(context.Background(), chooseTimeout)
	defer cancel()

	word := sc.engine.ChooseWord(ctx, sc.letters)
	if word == "" {
		return msg("No word found; the AI passes."), nil
	}
	search := sc.engine.MCTS().Stats()
	return msg(fmt.Sprintf("AI chooses: %s  (%d simulations, %d nodes, %.0fms)\nConfirm with `outcome %s <valid> <score>`",
		word, search.Simulations, search.Nodes,
		float64(search.Elapsed.Microseconds())/1000.0, strings.ToLower(word))), nil
}

// outcome reports the result of the last chosen word back to the
// learners: `outcome rate true 4`.
func (sc *ShellController) outcome(cmd *shellcmd) (*Response, error) {
	if sc.engine == nil {
		return nil, errors.New("load a word list first with the `load` command")
	}
	if len(cmd.args) < 3 {
		return nil, errors.New("usage: outcome <word> <true|false> <score>")
	}
	word := cmd.args[0]
	valid, err := strconv.ParseBool(cmd.args[1])
	if err != nil {
		return nil, fmt.Errorf("invalid validity flag %q", cmd.args[1])
	}
	score, err := strconv.ParseInt(cmd.args[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid score %q", cmd.args[2])
	}
	sc.engine.OnOutcome(word, valid, score)

	if valid && sc.letters != nil {
		// Played letters leave the pool.
		upper := strings.ToUpper(word)
		if sc.letters.CanForm(upper) {
			for i := 0; i < len(upper); i++ {
				sc.letters.Take(upper[i])
			}
		}
	}
	return msg("Recorded."), nil
}

// words lists dictionary words under a prefix: `words STA [10]`.
func (sc *ShellController) words(cmd *shellcmd) (*Response, error) {
	if sc.tr == nil {
		return nil, errors.New("load a word list first with the `load` command")
	}
	if len(cmd.args) < 1 {
		return nil, errors.New("usage: words <prefix> [max]")
	}
	maxWords := 20
	if len(cmd.args) > 1 {
		n, err := strconv.Atoi(cmd.args[1])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid count %q", cmd.args[1])
		}
		maxWords = n
	}
	prefix := strings.ToUpper(cmd.args[0])
	found := sc.tr.WordsWithPrefix(prefix, maxWords)
	if len(found) == 0 {
		return msg("No words with prefix " + prefix), nil
	}
	return msg(fmt.Sprintf("%d of %d words:\n%s", len(found),
		sc.tr.PrefixCount(prefix), strings.Join(found, "\n"))), nil
}

func (sc *ShellController) stats(cmd *shellcmd) (*Response, error) {
	if sc.engine == nil {
		return nil, errors.New("load a word list first with the `load` command")
	}
	st := sc.engine.GetStats()

	var sb strings.Builder
	fmt.Fprintf(&sb, "Difficulty:      %s\n", st.Difficulty)
	fmt.Fprintf(&sb, "Decisions:       %d\n", st.TotalDecisions)
	fmt.Fprintf(&sb, "Valid words:     %d (%.0f%%)\n", st.SuccessfulWords, st.SuccessRate*100)
	fmt.Fprintf(&sb, "Markov states:   %d\n", st.MarkovStates)
	fmt.Fprintf(&sb, "Q states:        %d\n", st.QStates)
	fmt.Fprintf(&sb, "Bayes samples:   %d\n", st.BayesSamples)
	sb.WriteString("Model weights:\n")

	models := make([]string, 0, len(st.Weights))
	for m := range st.Weights {
		models = append(models, string(m))
	}
	sort.Strings(models)
	for _, m := range models {
		fmt.Fprintf(&sb, "  %-12s %.3f", m, st.Weights[strategy.Model(m)])
		if rate, ok := st.ModelSuccessRate[strategy.Model(m)]; ok {
			fmt.Fprintf(&sb, "  (success %.0f%% ± %.0f%%)", rate*100,
				st.ModelSuccessMargin[strategy.Model(m)]*100)
		}
		sb.WriteString("\n")
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) history(cmd *shellcmd) (*Response, error) {
	if sc.engine == nil {
		return nil, errors.New("load a word list first with the `load` command")
	}
	hist := sc.engine.History()
	if len(hist) == 0 {
		return msg("No decisions yet."), nil
	}
	var sb strings.Builder
	for _, d := range hist {
		validity := "valid"
		if !d.Valid {
			validity = "invalid"
		}
		fmt.Fprintf(&sb, "%s  %-15s %-8s %3d pts  [%s]\n",
			d.Time.Format("15:04:05"), d.Word, validity, d.Score, d.Source)
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) < 2 {
		return nil, errors.New("usage: set <option> <value>")
	}
	switch cmd.args[0] {
	case "difficulty":
		d, err := strategy.ParseDifficulty(cmd.args[1])
		if err != nil {
			return nil, err
		}
		sc.difficulty = d
		if sc.engine != nil {
			sc.engine.StartGame(d)
		}
		return msg("Difficulty set to " + string(d)), nil
	case "simulations":
		n, err := strconv.Atoi(cmd.args[1])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid simulation count %q", cmd.args[1])
		}
		if sc.engine == nil {
			return nil, errors.New("load a word list first with the `load` command")
		}
		sc.engine.MCTS().SetSimulations(n)
		return msg(fmt.Sprintf("Simulations set to %d", n)), nil
	}
	return nil, fmt.Errorf("unknown option %q", cmd.args[0])
}

// Cleanup releases resources before exit.
func (sc *ShellController) Cleanup() {
	if sc.db != nil {
		if err := sc.db.Close(); err != nil {
			log.Warn().Err(err).Msg("db-close-failed")
		}
	}
}
