package main

import (
	"fmt"

	"github.com/tdewolff/wfdl"
)

const usage = `Usage: wfdl [options]

Options:
  -f, --font <url>         Add a font URL (can repeat)
  -o, --out <dir>          Output directory (default: ./fonts or from config)
  -c, --config <file>      Config file (wfdl.config.{js,mjs,cjs,json,yaml,yml})
  -s, --subset <name>      Allowed subset (can repeat), e.g. latin or latin-ext
      --minify-css         Force minify CSS
      --no-minify-css      Force no CSS minification
      --dry-run            Resolve and print the options, but do not download
  -v, --verbose            Verbose output
  -h, --help               Show this help

Priority: CLI > config file > defaults
`

// missingValueError is returned when a flag that takes a value is last or followed by an empty argument.
type missingValueError struct {
	flag string
}

func (e missingValueError) Error() string {
	return fmt.Sprintf("Missing value for %v", e.flag)
}

// parseArgs parses the command line. Unknown arguments are passed to warn and otherwise ignored. It returns help=true as soon as --help is seen.
func parseArgs(args []string, warn func(string)) (cli wfdl.CLIOptions, help bool, err error) {
	value := func(i *int, flag string) (string, error) {
		if len(args) <= *i+1 || args[*i+1] == "" {
			return "", missingValueError{flag}
		}
		*i++
		return args[*i], nil
	}

	t := true
	for i := 0; i < len(args); i++ {
		var val string
		switch arg := args[i]; arg {
		case "--font", "-f":
			if val, err = value(&i, "--font"); err != nil {
				return wfdl.CLIOptions{}, false, err
			}
			cli.Fonts = append(cli.Fonts, val)
		case "--out", "-o":
			if cli.OutDir, err = value(&i, "--out"); err != nil {
				return wfdl.CLIOptions{}, false, err
			}
		case "--config", "-c":
			if cli.ConfigFile, err = value(&i, "--config"); err != nil {
				return wfdl.CLIOptions{}, false, err
			}
		case "--subset", "-s":
			if val, err = value(&i, "--subset"); err != nil {
				return wfdl.CLIOptions{}, false, err
			}
			cli.Subsets = append(cli.Subsets, val)
		case "--minify-css":
			minify := true
			cli.MinifyCSS = &minify
		case "--no-minify-css":
			minify := false
			cli.MinifyCSS = &minify
		case "--dry-run":
			cli.DryRun = true
		case "--verbose", "-v":
			cli.Verbose = &t
		case "--help", "-h":
			return cli, true, nil
		default:
			warn(arg)
		}
	}
	return cli, false, nil
}
