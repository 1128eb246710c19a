package config

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug              = "debug"
	ConfigAI                 = "ai"
	ConfigPlayerColor        = "player-color"
	ConfigThinkDelay         = "think-delay"
	ConfigAutoplayGames      = "autoplay-games"
	ConfigAutoplayThreads    = "autoplay-threads"
	ConfigAutoplayRandPlies  = "autoplay-random-plies"
	ConfigAutoplayLogfile    = "autoplay-logfile"
	ConfigConfigFile         = "config-file"
	ConfigAutoplayReportYAML = "autoplay-report-yaml"
)

type Config struct {
	sync.Mutex
	viper.Viper

	// args holds whatever was left on the command line after the flags.
	args []string
}

func setDefaults(c *Config) {
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigAI, "first-legal")
	c.SetDefault(ConfigPlayerColor, "black")
	c.SetDefault(ConfigThinkDelay, time.Second)
	c.SetDefault(ConfigAutoplayGames, 100)
	c.SetDefault(ConfigAutoplayThreads, runtime.NumCPU())
	c.SetDefault(ConfigAutoplayRandPlies, 4)
	c.SetDefault(ConfigAutoplayLogfile, "/tmp/autoplay.csv")
	c.SetDefault(ConfigAutoplayReportYAML, false)
	c.SetDefault(ConfigConfigFile, "")
}

func DefaultConfig() *Config {
	c := &Config{}
	c.Viper = *viper.New()
	setDefaults(c)
	return c
}

// Load reads configuration from, in increasing order of priority, the
// defaults, an optional config file, REVERSI_ environment variables and the
// given command-line arguments.
func (c *Config) Load(args []string) error {
	c.Viper = *viper.New()
	setDefaults(c)

	fs := pflag.NewFlagSet("reversi", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.String(ConfigAI, "first-legal", "computer opponent: first-legal, greedy-capture or weighted-greedy-capture")
	fs.String(ConfigPlayerColor, "black", "the color the human plays")
	fs.Duration(ConfigThinkDelay, time.Second, "how long the computer pretends to think")
	fs.Int(ConfigAutoplayGames, 100, "number of games to autoplay")
	fs.Int(ConfigAutoplayThreads, runtime.NumCPU(), "number of autoplay workers")
	fs.Int(ConfigAutoplayRandPlies, 4, "random opening plies in each autoplayed game")
	fs.String(ConfigAutoplayLogfile, "/tmp/autoplay.csv", "where autoplay writes its game log")
	fs.Bool(ConfigAutoplayReportYAML, false, "print autoplay summaries as YAML")
	fs.String(ConfigConfigFile, "", "optional YAML or TOML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.args = fs.Args()

	c.SetEnvPrefix("reversi")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if cf := c.GetString(ConfigConfigFile); cf != "" {
		c.SetConfigFile(cf)
		if err := c.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", cf, err)
		}
	}
	return nil
}

// Args returns the positional arguments left over by Load.
func (c *Config) Args() []string {
	return c.args
}

// AdjustRelativePaths makes relative file paths relative to basepath,
// typically the directory of the executable.
func (c *Config) AdjustRelativePaths(basepath string) {
	for _, key := range []string{ConfigAutoplayLogfile} {
		p := c.GetString(key)
		if p == "" || filepath.IsAbs(p) {
			continue
		}
		c.Set(key, filepath.Join(basepath, p))
	}
}

// SanitizedSettings returns every setting with values rendered as strings,
// suitable for printing.
func (c *Config) SanitizedSettings() map[string]string {
	c.Lock()
	defer c.Unlock()
	out := map[string]string{}
	for _, k := range c.AllKeys() {
		out[k] = fmt.Sprint(c.Get(k))
	}
	return out
}

func (c *Config) ThinkDelay() time.Duration {
	return c.GetDuration(ConfigThinkDelay)
}
