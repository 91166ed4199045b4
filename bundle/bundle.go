// Package bundle is a small general-purpose asset build engine. Plugins emit files into a bundle through hooks, the engine adds its entry chunk and HTML shell, and the remaining bundle is written to the output directory.
package bundle

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Default names used when the Config leaves them empty.
const (
	DefaultOutDir         = "dist"
	DefaultAssetFileNames = "assets/[name]-[hash][extname]"
	EntryFileName         = "assets/index.js"
	HTMLFileName          = "index.html"
)

// Log levels.
const (
	LogInfo   = "info"
	LogWarn   = "warn"
	LogSilent = "silent"
)

var (
	Info    = log.New(os.Stdout, "", 0)
	Warning = log.New(os.Stderr, "WARNING: ", 0)
)

// Type is the kind of an output file.
type Type int

// Output file types.
const (
	Asset Type = iota
	Chunk
)

func (t Type) String() string {
	if t == Chunk {
		return "chunk"
	}
	return "asset"
}

// OutputFile is a single entry of the bundle.
type OutputFile struct {
	FileName string
	Type     Type
	Source   []byte
}

// Bundle maps output file names, relative to the output directory and slash-separated, to their contents.
type Bundle map[string]*OutputFile

// EmittedFile is a file emitted by a plugin. When FileName is set it is used verbatim, otherwise Name is formatted with the AssetFileNames pattern.
type EmittedFile struct {
	Name     string
	FileName string
	Source   []byte
}

// Config configures a build.
type Config struct {
	Root           string // defaults to the working directory
	OutDir         string // relative to Root unless absolute
	EmptyOutDir    bool
	CopyPublicDir  bool
	AssetFileNames string // supports [name], [ext], [extname] and [hash]
	Plugins        []Plugin
	LogLevel       string // info, warn or silent
}

// Context is passed to the BuildStart hook and gives access to the bundle being built.
type Context struct {
	root, outDir   string
	assetFileNames string
	logLevel       string
	bundle         Bundle
}

// Root returns the absolute project root.
func (c *Context) Root() string {
	return c.root
}

// OutDir returns the absolute output directory.
func (c *Context) OutDir() string {
	return c.outDir
}

// AssetFileName returns the file name that an asset called name with the given source would receive.
func (c *Context) AssetFileName(name string, source []byte) string {
	return formatFileName(c.assetFileNames, name, source)
}

// EmitFile adds a file to the bundle and returns its final file name.
func (c *Context) EmitFile(f EmittedFile) (string, error) {
	fileName := f.FileName
	if fileName == "" {
		if f.Name == "" {
			return "", fmt.Errorf("emitted file has neither name nor file name")
		}
		fileName = c.AssetFileName(f.Name, f.Source)
	}
	fileName = path.Clean(strings.TrimPrefix(fileName, "/"))
	if !filepath.IsLocal(filepath.FromSlash(fileName)) {
		return "", fmt.Errorf("invalid file name: %v", fileName)
	}
	if prev, ok := c.bundle[fileName]; ok {
		if string(prev.Source) != string(f.Source) {
			return "", fmt.Errorf("file emitted twice with different contents: %v", fileName)
		}
		return fileName, nil
	}
	c.bundle[fileName] = &OutputFile{
		FileName: fileName,
		Type:     Asset,
		Source:   f.Source,
	}
	return fileName, nil
}

// Infof logs build progress when the log level is info.
func (c *Context) Infof(format string, args ...any) {
	if c.logLevel == LogInfo {
		Info.Printf(format, args...)
	}
}

// Warnf logs a warning unless the log level is silent.
func (c *Context) Warnf(format string, args ...any) {
	if c.logLevel != LogSilent {
		Warning.Printf(format, args...)
	}
}

func formatFileName(pattern, name string, source []byte) string {
	ext := path.Ext(name)
	base := strings.TrimSuffix(path.Base(name), ext)
	sum := sha256.Sum256(source)
	r := strings.NewReplacer(
		"[name]", base,
		"[extname]", ext,
		"[ext]", strings.TrimPrefix(ext, "."),
		"[hash]", hex.EncodeToString(sum[:])[:8],
	)
	return r.Replace(pattern)
}
