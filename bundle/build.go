package bundle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var entrySource = []byte("import.meta.url;\n")

var defaultHTML = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<script type="module" src="/` + EntryFileName + `"></script>
</head>
<body></body>
</html>
`

// Build runs the plugins, assembles the bundle and writes it to the output directory.
func Build(ctx context.Context, cfg Config) error {
	root := cfg.Root
	if root == "" {
		var err error
		if root, err = os.Getwd(); err != nil {
			return err
		}
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	outDir := cfg.OutDir
	if outDir == "" {
		outDir = DefaultOutDir
	}
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(root, outDir)
	}
	outDir = filepath.Clean(outDir)

	assetFileNames := cfg.AssetFileNames
	if assetFileNames == "" {
		assetFileNames = DefaultAssetFileNames
	}
	logLevel := cfg.LogLevel
	if logLevel == "" {
		logLevel = LogInfo
	}

	bctx := &Context{
		root:           root,
		outDir:         outDir,
		assetFileNames: assetFileNames,
		logLevel:       logLevel,
		bundle:         Bundle{},
	}

	for _, p := range cfg.Plugins {
		if h, ok := p.(BuildStarter); ok {
			if err := h.BuildStart(ctx, bctx); err != nil {
				return &hookError{p.Name(), "buildStart", err}
			}
		}
	}

	bctx.bundle[EntryFileName] = &OutputFile{
		FileName: EntryFileName,
		Type:     Chunk,
		Source:   entrySource,
	}

	html, err := indexHTML(root)
	if err != nil {
		return err
	}
	for _, p := range cfg.Plugins {
		if h, ok := p.(HTMLTransformer); ok {
			if html, err = h.TransformIndexHTML(ctx, html); err != nil {
				return &hookError{p.Name(), "transformIndexHtml", err}
			}
		}
	}
	bctx.bundle[HTMLFileName] = &OutputFile{
		FileName: HTMLFileName,
		Type:     Asset,
		Source:   []byte(html),
	}

	for _, p := range cfg.Plugins {
		if h, ok := p.(BundleGenerator); ok {
			if err := h.GenerateBundle(ctx, bctx.bundle); err != nil {
				return &hookError{p.Name(), "generateBundle", err}
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if cfg.EmptyOutDir {
		if err := emptyDir(root, outDir); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if cfg.CopyPublicDir {
		if err := copyPublic(filepath.Join(root, "public"), outDir); err != nil {
			return fmt.Errorf("copying public directory: %w", err)
		}
	}
	return bctx.write()
}

func indexHTML(root string) (string, error) {
	b, err := os.ReadFile(filepath.Join(root, HTMLFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return defaultHTML, nil
	} else if err != nil {
		return "", err
	}
	return string(b), nil
}

func (c *Context) write() error {
	fileNames := make([]string, 0, len(c.bundle))
	for fileName := range c.bundle {
		fileNames = append(fileNames, fileName)
	}
	sort.Strings(fileNames)

	for _, fileName := range fileNames {
		file := c.bundle[fileName]
		if !filepath.IsLocal(filepath.FromSlash(fileName)) {
			return fmt.Errorf("invalid file name: %v", fileName)
		}
		dst := filepath.Join(c.outDir, filepath.FromSlash(fileName))
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(dst, file.Source, 0644); err != nil {
			return err
		}
		c.Infof("%s  %s", fileName, formatBytes(uint64(len(file.Source))))
	}
	return nil
}

// emptyDir removes the contents of outDir, but never when outDir contains the project root.
func emptyDir(root, outDir string) error {
	if rel, err := filepath.Rel(outDir, root); err == nil && !strings.HasPrefix(rel, "..") {
		return fmt.Errorf("refusing to empty %v: it contains the project root", outDir)
	}
	entries, err := os.ReadDir(outDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(outDir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func copyPublic(publicDir, outDir string) error {
	if _, err := os.Stat(publicDir); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return filepath.WalkDir(publicDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(publicDir, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(outDir, rel)
		if d.IsDir() {
			return os.MkdirAll(dst, 0755)
		}
		return copyFile(path, dst)
	})
}

func copyFile(src, dst string) error {
	r, err := os.Open(src)
	if err != nil {
		return err
	}
	defer r.Close()

	w, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
