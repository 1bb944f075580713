package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformRefs(t *testing.T) {
	input := map[string]interface{}{
		"schema": map[string]interface{}{"$ref": "#/definitions/handler.ProblemDetails"},
		"list":   []interface{}{map[string]interface{}{"$ref": "#/definitions/domain.Segment"}},
	}

	result := transformRefs(input).(map[string]interface{})

	assert.Equal(t, "#/components/schemas/handler.ProblemDetails", result["schema"].(map[string]interface{})["$ref"])
	assert.Equal(t, "#/components/schemas/domain.Segment", result["list"].([]interface{})[0].(map[string]interface{})["$ref"])
}

func TestTransformParameter_PathParam(t *testing.T) {
	param := map[string]interface{}{
		"name": "id", "in": "path", "required": true, "type": "string", "description": "Workspace ID",
	}

	result := transformParameter(param)

	assert.Equal(t, map[string]interface{}{"type": "string"}, result["schema"])
	_, hasType := result["type"]
	assert.False(t, hasType)
}

func TestServeOpenAPI3Spec(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/openapi.json", nil)
	req.Host = "collab.example"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, ServeOpenAPI3Spec(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var spec map[string]interface{}
	decodeBody(t, rec, &spec)

	assert.Equal(t, "3.0.3", spec["openapi"])
	servers := spec["servers"].([]interface{})
	require.Len(t, servers, 1)
	assert.Equal(t, "http://collab.example/api", servers[0].(map[string]interface{})["url"])

	paths := spec["paths"].(map[string]interface{})
	for _, path := range []string{"/activate", "/access", "/workspaces", "/workspaces/{id}", "/workspaces/select"} {
		assert.Contains(t, paths, path)
	}

	create := paths["/workspaces"].(map[string]interface{})["post"].(map[string]interface{})
	assert.Contains(t, create, "requestBody")
	assert.NotContains(t, create, "parameters")

	update := paths["/workspaces/{id}"].(map[string]interface{})["put"].(map[string]interface{})
	assert.Len(t, update["parameters"], 1, "only the path parameter stays a parameter")

	components := spec["components"].(map[string]interface{})
	assert.Contains(t, components["schemas"], "handler.ProblemDetails")
}
