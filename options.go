// Package wfdl downloads web fonts referenced by font-service stylesheets and writes the font files together with one stylesheet into a local directory. Options come from the command line and an optional configuration file, the download itself is a bundle build with the webfont plugin.
package wfdl

import (
	"errors"
)

// Defaults and fixed build settings.
const (
	DefaultOutDir   = "./fonts"
	AssetsSubfolder = "types"
	AssetFileNames  = "[name].[ext]"
)

// ErrNoFonts is returned when no font URL was given on the command line nor in the configuration file.
var ErrNoFonts = errors.New("no fonts specified")

// CLIOptions are the options as given on the command line. Empty strings, empty lists and nil pointers mean the flag was not given.
type CLIOptions struct {
	Fonts      []string
	OutDir     string
	Verbose    *bool
	ConfigFile string
	Subsets    []string
	MinifyCSS  *bool
	DryRun     bool
}

// Config is the content of a configuration file, the comments give the keys. Nil pointers and lists mean the key is absent.
type Config struct {
	Fonts          []string // fonts
	OutDir         *string  // outDir
	Verbose        *bool    // verbose
	SubsetsAllowed []string // subsetsAllowed
	MinifyCSS      *bool    // minifyCss
}

// Options are the resolved options of a run.
type Options struct {
	FontURLs       []string
	OutDir         string
	Verbose        bool
	SubsetsAllowed []string
	MinifyCSS      *bool // nil leaves the choice to the webfont plugin
	DryRun         bool
}

// Merge resolves the options with priority command line, then configuration file, then defaults. An empty list on the command line does not override the configuration file.
func Merge(cfg Config, cli CLIOptions) Options {
	opts := Options{
		FontURLs:       []string{},
		OutDir:         DefaultOutDir,
		SubsetsAllowed: []string{},
		DryRun:         cli.DryRun,
	}

	if len(cli.Fonts) != 0 {
		opts.FontURLs = cli.Fonts
	} else if cfg.Fonts != nil {
		opts.FontURLs = cfg.Fonts
	}

	if cli.OutDir != "" {
		opts.OutDir = cli.OutDir
	} else if cfg.OutDir != nil {
		opts.OutDir = *cfg.OutDir
	}

	if cli.Verbose != nil {
		opts.Verbose = *cli.Verbose
	} else if cfg.Verbose != nil {
		opts.Verbose = *cfg.Verbose
	}

	if len(cli.Subsets) != 0 {
		opts.SubsetsAllowed = cli.Subsets
	} else if cfg.SubsetsAllowed != nil {
		opts.SubsetsAllowed = cfg.SubsetsAllowed
	}

	if cli.MinifyCSS != nil {
		opts.MinifyCSS = cli.MinifyCSS
	} else if cfg.MinifyCSS != nil {
		opts.MinifyCSS = cfg.MinifyCSS
	}
	return opts
}

// Validate returns ErrNoFonts if there is nothing to download.
func (opts Options) Validate() error {
	if len(opts.FontURLs) == 0 {
		return ErrNoFonts
	}
	return nil
}
