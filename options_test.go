package wfdl

import (
	"errors"
	"testing"

	"github.com/tdewolff/test"
)

func boolPtr(b bool) *bool {
	return &b
}

func stringPtr(s string) *string {
	return &s
}

func TestMerge(t *testing.T) {
	var tests = []struct {
		name     string
		cfg      Config
		cli      CLIOptions
		expected Options
	}{
		{"defaults", Config{}, CLIOptions{},
			Options{FontURLs: []string{}, OutDir: "./fonts", SubsetsAllowed: []string{}}},
		{"config", Config{Fonts: []string{"a"}, OutDir: stringPtr("out"), Verbose: boolPtr(true), SubsetsAllowed: []string{"latin"}},
			CLIOptions{},
			Options{FontURLs: []string{"a"}, OutDir: "out", Verbose: true, SubsetsAllowed: []string{"latin"}}},
		{"cli", Config{Fonts: []string{"a"}, OutDir: stringPtr("out"), SubsetsAllowed: []string{"latin"}},
			CLIOptions{Fonts: []string{"b", "c"}, OutDir: "dir", Subsets: []string{"greek"}, DryRun: true},
			Options{FontURLs: []string{"b", "c"}, OutDir: "dir", SubsetsAllowed: []string{"greek"}, DryRun: true}},
		{"empty cli list", Config{Fonts: []string{"a"}},
			CLIOptions{Fonts: []string{}},
			Options{FontURLs: []string{"a"}, OutDir: "./fonts", SubsetsAllowed: []string{}}},
		{"empty config outDir", Config{OutDir: stringPtr("")}, CLIOptions{},
			Options{FontURLs: []string{}, OutDir: "", SubsetsAllowed: []string{}}},
		{"cli false beats config true", Config{Verbose: boolPtr(true)},
			CLIOptions{Verbose: boolPtr(false)},
			Options{FontURLs: []string{}, OutDir: "./fonts", SubsetsAllowed: []string{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			test.T(t, Merge(tt.cfg, tt.cli), tt.expected)
		})
	}
}

func TestMergeMinifyCSS(t *testing.T) {
	var tests = []struct {
		name     string
		cfg, cli *bool
		expected *bool
	}{
		{"unset", nil, nil, nil},
		{"config", boolPtr(false), nil, boolPtr(false)},
		{"cli", boolPtr(false), boolPtr(true), boolPtr(true)},
		{"cli false", nil, boolPtr(false), boolPtr(false)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Merge(Config{MinifyCSS: tt.cfg}, CLIOptions{MinifyCSS: tt.cli})
			if tt.expected == nil {
				test.That(t, opts.MinifyCSS == nil, "minify must stay unset")
			} else {
				test.That(t, opts.MinifyCSS != nil)
				test.T(t, *opts.MinifyCSS, *tt.expected)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	test.That(t, errors.Is(Options{}.Validate(), ErrNoFonts))
	test.Error(t, Options{FontURLs: []string{"a"}}.Validate())
}
