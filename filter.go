package wfdl

import (
	"context"
	"strings"

	"github.com/tdewolff/wfdl/bundle"
)

type suppressOutput struct{}

// SuppressOutput returns a build plugin that drops the JavaScript and HTML the build engine always produces, so that only the stylesheet and font files are written.
func SuppressOutput() bundle.Plugin {
	return suppressOutput{}
}

func (suppressOutput) Name() string {
	return "wfdl-suppress-output"
}

func (suppressOutput) GenerateBundle(_ context.Context, b bundle.Bundle) error {
	for fileName := range b {
		if strings.HasSuffix(fileName, ".js") || strings.HasSuffix(fileName, ".html") {
			delete(b, fileName)
		}
	}
	return nil
}
