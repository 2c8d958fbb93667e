package todo

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
)

// APIKeySecurity names the API key scheme in Document.
const APIKeySecurity = "ApiKeyAuth"

func schemaRef(name string, s *openapi3.Schema) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("#/components/schemas/"+name, s)
}

// Document describes Routes. version is reported as info.version.
func Document(version string) *openapi3.T {
	todo := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewStringSchema()).
		WithProperty("title", openapi3.NewStringSchema().WithMinLength(1).WithMaxLength(MaxTitleLength)).
		WithProperty("done", openapi3.NewBoolSchema()).
		WithProperty("created_at", openapi3.NewDateTimeSchema()).
		WithProperty("updated_at", openapi3.NewDateTimeSchema()).
		WithRequired([]string{"id", "title", "done", "created_at", "updated_at"})
	input := openapi3.NewObjectSchema().
		WithProperty("title", openapi3.NewStringSchema().WithMinLength(1).WithMaxLength(MaxTitleLength)).
		WithProperty("done", openapi3.NewBoolSchema())
	apiError := openapi3.NewObjectSchema().
		WithProperty("code", openapi3.NewStringSchema()).
		WithProperty("message", openapi3.NewStringSchema()).
		WithProperty("details", openapi3.NewStringSchema()).
		WithRequired([]string{"code", "message"})
	info := openapi3.NewObjectSchema().
		WithProperty("service", openapi3.NewStringSchema()).
		WithProperty("version", openapi3.NewStringSchema())

	todoRef := schemaRef("Todo", todo)
	inputRef := schemaRef("TodoInput", input)
	errorRef := schemaRef("Error", apiError)
	infoRef := schemaRef("Info", info)

	envelope := func(data *openapi3.SchemaRef) *openapi3.SchemaRef {
		s := openapi3.NewObjectSchema()
		s.Properties = openapi3.Schemas{
			"data":  data,
			"error": errorRef,
		}
		return openapi3.NewSchemaRef("", s)
	}
	list := openapi3.NewArraySchema()
	list.Items = todoRef

	ok := func(description string, data *openapi3.SchemaRef) *openapi3.ResponseRef {
		return &openapi3.ResponseRef{Value: openapi3.NewResponse().
			WithDescription(description).
			WithJSONSchemaRef(envelope(data))}
	}
	failure := func(description string) *openapi3.ResponseRef {
		return &openapi3.ResponseRef{Value: openapi3.NewResponse().
			WithDescription(description).
			WithJSONSchemaRef(envelope(openapi3.NewSchemaRef("", openapi3.NewObjectSchema().WithNullable())))}
	}
	body := &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().
		WithRequired(true).
		WithJSONSchemaRef(inputRef)}
	idParam := &openapi3.ParameterRef{Value: openapi3.NewPathParameter("id").
		WithDescription("Todo ID").
		WithSchema(openapi3.NewStringSchema())}

	op := func(id, summary string, responses ...openapi3.NewResponsesOption) *openapi3.Operation {
		return &openapi3.Operation{
			OperationID: id,
			Summary:     summary,
			Tags:        []string{"todos"},
			Responses:   openapi3.NewResponses(responses...),
		}
	}

	create := op("createTodo", "Create a todo",
		openapi3.WithStatus(http.StatusCreated, ok("The created todo", todoRef)),
		openapi3.WithStatus(http.StatusBadRequest, failure("Invalid input")))
	create.RequestBody = body

	update := op("updateTodo", "Update a todo",
		openapi3.WithStatus(http.StatusOK, ok("The updated todo", todoRef)),
		openapi3.WithStatus(http.StatusBadRequest, failure("Invalid input")),
		openapi3.WithStatus(http.StatusNotFound, failure("No todo with this ID")))
	update.RequestBody = body

	health := op("health", "Liveness probe",
		openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("The service is up")}))
	health.Tags = []string{"system"}
	health.Security = openapi3.NewSecurityRequirements()

	infoOp := op("info", "Service information",
		openapi3.WithStatus(http.StatusOK, ok("Service name and version", infoRef)))
	infoOp.Tags = []string{"system"}

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "Todo API",
			Description: "Sample API served by webhost.",
			Version:     version,
		},
		Tags: openapi3.Tags{
			{Name: "todos", Description: "Todo items"},
			{Name: "system", Description: "Service status"},
		},
		Security: *openapi3.NewSecurityRequirements().With(openapi3.NewSecurityRequirement().Authenticate(APIKeySecurity)),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				"Todo":      openapi3.NewSchemaRef("", todo),
				"TodoInput": openapi3.NewSchemaRef("", input),
				"Error":     openapi3.NewSchemaRef("", apiError),
				"Info":      openapi3.NewSchemaRef("", info),
			},
			SecuritySchemes: openapi3.SecuritySchemes{
				APIKeySecurity: &openapi3.SecuritySchemeRef{Value: openapi3.NewSecurityScheme().
					WithType("apiKey").
					WithIn("header").
					WithName("X-API-Key")},
			},
		},
		Paths: openapi3.NewPaths(
			openapi3.WithPath("/health", &openapi3.PathItem{Get: health}),
			openapi3.WithPath("/api/v1/info", &openapi3.PathItem{Get: infoOp}),
			openapi3.WithPath("/api/v1/todos", &openapi3.PathItem{
				Get: op("listTodos", "List todos",
					openapi3.WithStatus(http.StatusOK, ok("All todos in creation order", openapi3.NewSchemaRef("", list)))),
				Post: create,
			}),
			openapi3.WithPath("/api/v1/todos/{id}", &openapi3.PathItem{
				Parameters: openapi3.Parameters{idParam},
				Get: op("getTodo", "Get a todo",
					openapi3.WithStatus(http.StatusOK, ok("The todo", todoRef)),
					openapi3.WithStatus(http.StatusNotFound, failure("No todo with this ID"))),
				Put: update,
				Delete: op("deleteTodo", "Delete a todo",
					openapi3.WithStatus(http.StatusNoContent, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Deleted")}),
					openapi3.WithStatus(http.StatusNotFound, failure("No todo with this ID"))),
			}),
		),
	}
}
