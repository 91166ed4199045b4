package bundle

import "context"

// Plugin is a build plugin. It implements any of the hook interfaces below; hooks run in plugin order.
type Plugin interface {
	Name() string
}

// BuildStarter is called before the engine produces its own output.
type BuildStarter interface {
	BuildStart(context.Context, *Context) error
}

// HTMLTransformer may rewrite the HTML shell.
type HTMLTransformer interface {
	TransformIndexHTML(context.Context, string) (string, error)
}

// BundleGenerator is called with the complete bundle right before it is written and may add or delete entries.
type BundleGenerator interface {
	GenerateBundle(context.Context, Bundle) error
}

type hookError struct {
	plugin, hook string
	err          error
}

func (e *hookError) Error() string {
	return "[" + e.plugin + "] " + e.hook + ": " + e.err.Error()
}

func (e *hookError) Unwrap() error {
	return e.err
}
