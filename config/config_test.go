package config

import (
	"path/filepath"
	"testing"

	"github.com/matryer/is"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	is.NoErr(c.Load(nil))
	is.Equal(c.GetString(ConfigDifficulty), "medium")
	is.Equal(c.GetInt(ConfigMarkovOrder), 2)
	is.Equal(c.GetBool(ConfigDebug), false)
}

func TestFlagOverrides(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	is.NoErr(c.Load([]string{"--difficulty", "hard", "--debug", "--mcts-simulations", "500"}))
	is.Equal(c.GetString(ConfigDifficulty), "hard")
	is.True(c.GetBool(ConfigDebug))
	is.Equal(c.GetInt(ConfigSimulations), 500)
}

func TestEnvOverrides(t *testing.T) {
	is := is.New(t)
	t.Setenv("WORDFORGE_DIFFICULTY", "easy")
	c := &Config{}
	is.NoErr(c.Load(nil))
	is.Equal(c.GetString(ConfigDifficulty), "easy")
}

func TestAdjustRelativePaths(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	is.NoErr(c.Load([]string{"--db-path", "learn.db"}))
	c.AdjustRelativePaths("/opt/wordforge")
	is.Equal(c.GetString(ConfigDBPath), filepath.Join("/opt/wordforge", "learn.db"))
	// Empty settings stay empty rather than pointing at the directory.
	is.Equal(c.GetString(ConfigCPUProfile), "")
}
