package shell

const helpText = `Commands:
  load [path]              load a word list (defaults to the configured path)
  new                      start a new game with a fresh random letter pool
  pool [LETTERS|n]         show the pool, replace it, or generate n random letters
  choose                   ask the AI to pick a word from the pool
  outcome <word> <t|f> <n> report whether the word was valid and its score
  words <prefix> [max]     list dictionary words under a prefix
  stats                    show learning statistics and model weights
  history                  show recent decisions
  set difficulty <d>       easy, medium or hard
  set simulations <n>      MCTS simulations per decision
  help                     this text
  exit                     leave the shell`

func usage() (*Response, error) {
	return msg(helpText), nil
}
