package wfdl

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/wfdl/bundle"
	"github.com/tdewolff/wfdl/webfont"
)

// BuildFunc runs a bundle build, see bundle.Build.
type BuildFunc func(context.Context, bundle.Config) error

// Run downloads the fonts into the output directory.
func Run(ctx context.Context, opts Options) error {
	return RunWith(ctx, opts, bundle.Build)
}

// RunWith is Run with a custom build function. In a dry run the build is skipped.
func RunWith(ctx context.Context, opts Options, build BuildFunc) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	outDir := opts.OutDir // empty is the working directory
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(cwd, outDir)
	}

	if opts.Verbose {
		Info.Printf("cwd: %v", cwd)
		Info.Printf("output dir: %v", outDir)
		Info.Printf("fonts: %v", strings.Join(opts.FontURLs, ", "))
	}
	if opts.DryRun {
		if opts.Verbose {
			Info.Printf("dry run, skipping build")
		}
		return nil
	}

	logLevel := bundle.LogWarn
	if opts.Verbose {
		logLevel = bundle.LogInfo
	}
	err = build(ctx, bundle.Config{
		Root:           cwd,
		OutDir:         outDir,
		EmptyOutDir:    false,
		CopyPublicDir:  false,
		AssetFileNames: AssetFileNames,
		Plugins: []bundle.Plugin{
			webfont.New(opts.FontURLs, webfont.Options{
				AssetsSubfolder:  AssetsSubfolder,
				InjectAsStyleTag: false,
				SubsetsAllowed:   opts.SubsetsAllowed,
				MinifyCSS:        opts.MinifyCSS,
			}),
			SuppressOutput(),
		},
		LogLevel: logLevel,
	})
	if err != nil {
		return err
	}

	if opts.Verbose {
		Info.Printf("done.")
	}
	return nil
}
