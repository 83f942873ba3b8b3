// Package config loads runtime settings from flags, environment
// variables (WORDFORGE_ prefix) and an optional config file, in that
// order of precedence.
package config

import (
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Setting keys.
const (
	ConfigWordListPath = "word-list-path"
	ConfigDataPath     = "data-path"
	ConfigDBPath       = "db-path"
	ConfigDifficulty   = "difficulty"
	ConfigMarkovOrder  = "markov-order"
	ConfigSimulations  = "mcts-simulations"
	ConfigThreads      = "mcts-threads"
	ConfigDebug        = "debug"
	ConfigLogFile      = "log-file"
	ConfigCPUProfile   = "cpu-profile"
	ConfigMemProfile   = "mem-profile"
)

type Config struct {
	v *viper.Viper
}

func (c *Config) Load(args []string) error {
	c.v = viper.New()

	fs := pflag.NewFlagSet("wordforge", pflag.ContinueOnError)
	fs.String(ConfigWordListPath, "./data/words.txt", "path to the word list file")
	fs.String(ConfigDataPath, "./data", "directory holding data files")
	fs.String(ConfigDBPath, "", "path to the learning database; empty keeps learning in memory")
	fs.String(ConfigDifficulty, "medium", "AI difficulty: easy, medium or hard")
	fs.Int(ConfigMarkovOrder, 2, "markov chain order")
	fs.Int(ConfigSimulations, 0, "MCTS simulations per decision; 0 uses the default")
	fs.Int(ConfigThreads, 0, "MCTS worker count; 0 uses all CPUs")
	fs.Bool(ConfigDebug, false, "debug logging")
	fs.String(ConfigLogFile, "", "write search iteration logs to this file")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	fs.String(ConfigMemProfile, "", "write a memory profile to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.v.BindPFlags(fs); err != nil {
		return err
	}

	c.v.SetEnvPrefix("wordforge")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()
	return nil
}

func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

func (c *Config) Set(key string, value any) {
	c.v.Set(key, value)
}

// SanitizedSettings returns all settings for display at startup.
func (c *Config) SanitizedSettings() map[string]any {
	return c.v.AllSettings()
}

// AdjustRelativePaths rebases relative path settings onto the
// executable's directory so the binary finds its data files regardless
// of the working directory.
func (c *Config) AdjustRelativePaths(exPath string) {
	for _, key := range []string{ConfigWordListPath, ConfigDataPath, ConfigDBPath} {
		p := c.v.GetString(key)
		if p == "" || filepath.IsAbs(p) {
			continue
		}
		c.v.Set(key, filepath.Join(exPath, p))
	}
}
