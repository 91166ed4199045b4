//go:build gofuzz
// +build gofuzz

package fuzz

import "github.com/tdewolff/wfdl/webfont"

// Fuzz is a fuzz test.
func Fuzz(data []byte) int {
	sheet, err := webfont.ParseStylesheet(data)
	if err != nil {
		return 0
	}
	sheet.Filter([]string{"latin"})
	sheet.Rewrite(func(u string) (string, bool) {
		return "types/" + u, true
	})
	_ = sheet.String()
	return 1
}
