package swaggerui_test

import (
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/webhost/internal/swaggerui"
)

type brokenFS struct{}

func (brokenFS) Open(string) (fs.File, error) {
	return nil, errors.New("disk on fire")
}

func TestServeIndex(t *testing.T) {
	f, err := swaggerui.Serve("", nil)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Contains(t, f.ContentType, "text/html")
	assert.Contains(t, string(f.Bytes), "swagger-ui")
}

func TestServeBundledAsset(t *testing.T) {
	f, err := swaggerui.Serve("swagger-ui.css", nil)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Contains(t, f.ContentType, "text/css")
	assert.NotEmpty(t, f.Bytes)
}

func TestServeInitializer(t *testing.T) {
	f, err := swaggerui.Serve("swagger-initializer.js", swaggerui.DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Contains(t, f.ContentType, "javascript")
	assert.Contains(t, string(f.Bytes), `url: "/swagger/swagger.json"`)
	assert.Contains(t, string(f.Bytes), "deepLinking: true")
}

func TestServeMissing(t *testing.T) {
	f, err := swaggerui.Serve("does-not-exist.js", nil)
	assert.NoError(t, err)
	assert.Nil(t, f)
}

func TestServeCustomFS(t *testing.T) {
	ui := swaggerui.New(fstest.MapFS{
		"index.html":   {Data: []byte("<html>custom</html>")},
		"img/logo.png": {Data: []byte{0x89, 'P', 'N', 'G'}},
	})

	f, err := ui.Serve("/", nil)
	require.NoError(t, err)
	assert.Equal(t, "<html>custom</html>", string(f.Bytes))

	f, err = ui.Serve("img/../img/logo.png", nil)
	require.NoError(t, err)
	assert.Equal(t, "image/png", f.ContentType)
}

func TestServeLookupError(t *testing.T) {
	ui := swaggerui.New(brokenFS{})

	f, err := ui.Serve("index.html", nil)
	assert.Nil(t, f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
}
