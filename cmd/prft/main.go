// Command prft runs the flip ledger server and its offline tools.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/erazemk/prft/internal/config"
)

const usage = `Usage: prft [command] [flags]

Commands:
  serve     run the HTTP API (default)
  report    print a user's totals and items
  export    write a user's items as CSV or JSON

Common flags:
  -c, -config <path>      YAML config file (default: none)
  -d, -db <path>          SQLite database path (default: prft.sqlite3)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)

serve flags:
  -a, -addr <host:port>   listen address (default: :8080)
  -u, -user <name>        admin username on first run (default: Admin)

report flags:
  -user <name>            whose items to show (required)
  -status <filter>        all, listed or sold (default: all)

export flags:
  -user <name>            whose items to export (required)
  -format <csv|json>      output format (default: csv)
  -o <path>               output file (default: stdout)

Settings are read from defaults, then the config file, then PRFT_* environment
variables (a .env file is honored); flags given on the command line win.
`

func main() {
	args := os.Args[1:]
	cmd := "serve"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "serve":
		err = runServe(args)
	case "report":
		err = runReport(args, os.Stdout)
	case "export":
		err = runExport(args, os.Stdout)
	case "help":
		fmt.Fprint(os.Stdout, usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// commonFlags are accepted by every command.
type commonFlags struct {
	config string
	db     string
	log    string
}

func newFlagSet(name string, c *commonFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stdout, usage) }

	fs.StringVar(&c.config, "config", "", "")
	fs.StringVar(&c.config, "c", "", "")
	fs.StringVar(&c.db, "db", "", "")
	fs.StringVar(&c.db, "d", "", "")
	fs.StringVar(&c.log, "log", "", "")
	fs.StringVar(&c.log, "l", "", "")
	return fs
}

// parseArgs parses args, rejects positional leftovers and loads the
// configuration. Flags set on the command line override loaded values.
func parseArgs(fs *flag.FlagSet, c *commonFlags, args []string) (*config.Config, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	cfg, err := config.Load(c.config)
	if err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "db", "d":
			cfg.DB = c.db
		case "log", "l":
			cfg.Log = c.log
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
