package wfdl

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dop251/goja"
	"github.com/evanw/esbuild/pkg/api"
)

// ConfigTimeout bounds the execution time of a JavaScript configuration module.
var ConfigTimeout = 5 * time.Second

// evalConfigModule runs a JavaScript configuration module and returns its default export, or its exports when there is no default export, as decoded JSON. ES modules are converted to CommonJS first. Imports of other modules are not supported.
func evalConfigModule(filename string, src []byte) (any, error) {
	result := api.Transform(string(src), api.TransformOptions{
		Loader:     api.LoaderJS,
		Format:     api.FormatCommonJS,
		Target:     api.ES2015,
		Sourcefile: filename,
	})
	if 0 < len(result.Errors) {
		msg := result.Errors[0]
		if msg.Location != nil {
			return nil, fmt.Errorf("%d:%d: %v", msg.Location.Line, msg.Location.Column, msg.Text)
		}
		return nil, fmt.Errorf("%v", msg.Text)
	}

	vm := goja.New()
	module := vm.NewObject()
	exports := vm.NewObject()
	if err := module.Set("exports", exports); err != nil {
		return nil, err
	}
	vm.Set("module", module)
	vm.Set("exports", exports)
	vm.Set("require", func(name string) (goja.Value, error) {
		return nil, fmt.Errorf("require(%q) is not supported in configuration files", name)
	})

	timer := time.AfterFunc(ConfigTimeout, func() {
		vm.Interrupt("timeout")
	})
	defer timer.Stop()

	if _, err := vm.RunScript(filename, string(result.Code)); err != nil {
		return nil, jsError(err)
	}
	v, err := vm.RunString(`JSON.stringify((function (m) {
	return m && m.default ? m.default : m;
})(module.exports))`)
	if err != nil {
		return nil, jsError(err)
	} else if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, nil
	}

	var config any
	if err := json.Unmarshal([]byte(v.String()), &config); err != nil {
		return nil, err
	}
	return config, nil
}

func jsError(err error) error {
	if exc, ok := err.(*goja.Exception); ok {
		return fmt.Errorf("%v", strings.TrimSpace(exc.Value().String()))
	} else if _, ok := err.(*goja.InterruptedError); ok {
		return fmt.Errorf("execution exceeded %v", ConfigTimeout)
	}
	return err
}
