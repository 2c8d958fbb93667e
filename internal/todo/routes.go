package todo

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/agentstation/webhost/internal/response"
	"github.com/agentstation/webhost/pkg/data"
	"github.com/agentstation/webhost/pkg/errors"
	"github.com/agentstation/webhost/pkg/logger"
	"github.com/agentstation/webhost/pkg/mediator"
	"github.com/agentstation/webhost/pkg/webhost"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Routes returns the sample API router.
func Routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/info", handleInfo).Methods(http.MethodGet)
	api.HandleFunc("/todos", handleList).Methods(http.MethodGet)
	api.HandleFunc("/todos", handleCreate).Methods(http.MethodPost)
	api.HandleFunc("/todos/{id}", handleGet).Methods(http.MethodGet)
	api.HandleFunc("/todos/{id}", handleUpdate).Methods(http.MethodPut, http.MethodPatch)
	api.HandleFunc("/todos/{id}", handleDelete).Methods(http.MethodDelete)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found", r.URL.Path)
	})
	return r
}

// dispatch sends req through the injected mediator.
func dispatch[Req, Resp any](r *http.Request, req Req) (Resp, error) {
	var resp Resp
	handle, ok := webhost.MediatorFrom(r)
	if !ok {
		return resp, errNotConfigured("mediator")
	}
	err := handle.With(r.Context(), func(m *mediator.Mediator) error {
		var err error
		resp, err = mediator.Send[Req, Resp](r.Context(), m, req)
		return err
	})
	return resp, err
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]string{"status": "ok"})
}

func handleInfo(w http.ResponseWriter, r *http.Request) {
	handle, ok := webhost.SettingsFrom[Info](r)
	if !ok {
		response.FromError(w, errNotConfigured("settings"))
		return
	}
	var info Info
	_ = handle.With(r.Context(), func(i Info) error {
		info = i
		return nil
	})
	response.OK(w, info)
}

func handleList(w http.ResponseWriter, r *http.Request) {
	todos, err := dispatch[ListTodos, []Todo](r, ListTodos{})
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w, todos)
}

// handleGet reads the repository directly; queries do not go through the
// mediator.
func handleGet(w http.ResponseWriter, r *http.Request) {
	handle, ok := webhost.RepositoryFrom[Todo](r)
	if !ok {
		response.FromError(w, errNotConfigured("todo repository"))
		return
	}
	var t Todo
	err := handle.With(r.Context(), func(repo data.Repository[Todo]) error {
		var err error
		t, err = repo.Get(r.Context(), mux.Vars(r)["id"])
		return err
	})
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w, t)
}

func handleCreate(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	var title string
	if in.Title != nil {
		title = *in.Title
	}
	t, err := dispatch[CreateTodo, Todo](r, CreateTodo{Title: title})
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, t)
}

func handleUpdate(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	t, err := dispatch[UpdateTodo, Todo](r, UpdateTodo{ID: mux.Vars(r)["id"], Input: in})
	if err != nil {
		fail(w, r, err)
		return
	}
	response.OK(w, t)
}

func handleDelete(w http.ResponseWriter, r *http.Request) {
	if _, err := dispatch[DeleteTodo, struct{}](r, DeleteTodo{ID: mux.Vars(r)["id"]}); err != nil {
		response.FromError(w, err)
		return
	}
	response.NoContent(w)
}

func decodeInput(w http.ResponseWriter, r *http.Request) (Input, bool) {
	var in Input
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		response.BadRequest(w, "Invalid request body", err.Error())
		return Input{}, false
	}
	return in, true
}

// fail writes err and reports rejected input to the injected logger.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.IsValidationError(err) {
		if handle, ok := webhost.LoggerFrom(r); ok {
			_ = handle.With(r.Context(), func(l logger.Logger) error {
				l.Warning("rejected todo: " + err.Error())
				return nil
			})
		}
	}
	response.FromError(w, err)
}
