package todo

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentValidates(t *testing.T) {
	doc := Document("1.0.0")
	require.NoError(t, doc.Validate(context.Background()))
	assert.Equal(t, "1.0.0", doc.Info.Version)
}

func TestDocumentMatchesRoutes(t *testing.T) {
	routes := Routes()
	doc := Document("dev")

	for path, item := range doc.Paths.Map() {
		for method := range item.Operations() {
			// {id} in the document becomes a concrete segment for matching.
			concrete := strings.ReplaceAll(path, "{id}", "abc")
			req, err := http.NewRequest(method, concrete, nil)
			require.NoError(t, err)

			var match mux.RouteMatch
			assert.True(t, routes.Match(req, &match), "%s %s", method, path)
			assert.NoError(t, match.MatchErr, "%s %s", method, path)
		}
	}
}
