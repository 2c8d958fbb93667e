// Package swaggerui looks up Swagger UI assets for the API docs routes.
package swaggerui

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io/fs"
	"mime"
	"path"
	"strings"
	"text/template"

	swaggerFiles "github.com/swaggo/files/v2"
)

// DefaultURL is where the docs JSON route serves the document.
const DefaultURL = "/swagger/swagger.json"

const initializerName = "swagger-initializer.js"

// Config controls the generated swagger-initializer.js.
type Config struct {
	// URL of the OpenAPI document the UI loads.
	URL string
	// DeepLinking enables tag and operation deep links.
	DeepLinking bool
	// DocExpansion is one of list, full or none.
	DocExpansion string
}

// DefaultConfig points the UI at DefaultURL.
func DefaultConfig() *Config {
	return &Config{
		URL:          DefaultURL,
		DeepLinking:  true,
		DocExpansion: "list",
	}
}

// File is a resolved asset.
type File struct {
	Bytes       []byte
	ContentType string
}

// UI resolves assets from an fs.FS.
type UI struct {
	assets fs.FS
}

// New returns a UI over assets. A nil FS selects the bundled Swagger UI
// distribution.
func New(assets fs.FS) *UI {
	if assets == nil {
		assets = bundled()
	}
	return &UI{assets: assets}
}

var defaultUI = New(nil)

// Serve resolves p against the bundled distribution. See UI.Serve.
func Serve(p string, cfg *Config) (*File, error) {
	return defaultUI.Serve(p, cfg)
}

// Serve resolves p to an asset. The empty path is index.html and the
// initializer is rendered from cfg. It returns nil and no error when the
// asset does not exist.
func (u *UI) Serve(p string, cfg *Config) (*File, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	name := strings.TrimPrefix(path.Clean("/"+p), "/")
	if name == "" {
		name = "index.html"
	}

	if name == initializerName {
		body, err := renderInitializer(cfg)
		if err != nil {
			return nil, err
		}
		return &File{Bytes: body, ContentType: contentType(name)}, nil
	}

	body, err := fs.ReadFile(u.assets, name)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) || stderrors.Is(err, fs.ErrInvalid) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return &File{Bytes: body, ContentType: contentType(name)}, nil
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// bundled returns the Swagger UI distribution rooted at its index.html.
func bundled() fs.FS {
	if info, err := fs.Stat(swaggerFiles.FS, "dist"); err == nil && info.IsDir() {
		if sub, err := fs.Sub(swaggerFiles.FS, "dist"); err == nil {
			return sub
		}
	}
	return swaggerFiles.FS
}

var initializer = template.Must(template.New(initializerName).Parse(`window.onload = function() {
  window.ui = SwaggerUIBundle({
    url: {{ printf "%q" .URL }},
    dom_id: '#swagger-ui',
    deepLinking: {{ .DeepLinking }},
    docExpansion: {{ printf "%q" .DocExpansion }},
    presets: [
      SwaggerUIBundle.presets.apis,
      SwaggerUIStandalonePreset
    ],
    plugins: [
      SwaggerUIBundle.plugins.DownloadUrl
    ],
    layout: "StandaloneLayout"
  });
};
`))

func renderInitializer(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := initializer.Execute(&buf, cfg); err != nil {
		return nil, fmt.Errorf("render %s: %w", initializerName, err)
	}
	return buf.Bytes(), nil
}
