package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"

	"todod/internal/service"
)

var completePath = regexp.MustCompile(`^/tasks/(\d+)/complete$`)

// requestTarget is the path as sent on the wire, query included and
// without percent-decoding. Routes match it exactly.
func requestTarget(r *http.Request) string {
	if r.RequestURI != "" {
		return r.RequestURI
	}
	return r.URL.RequestURI()
}

func (s *Server) route(w http.ResponseWriter, r *http.Request, reqID string) {
	path := requestTarget(r)
	switch {
	case r.Method == http.MethodGet && path == "/tasks":
		s.handleList(w, r, reqID)
	case r.Method == http.MethodPost && path == "/tasks":
		s.handleCreate(w, r, reqID)
	case r.Method == http.MethodPost && completePath.MatchString(path):
		s.handleComplete(w, r, reqID)
	default:
		writeEmpty(w, http.StatusNotFound)
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request, reqID string) {
	tasks, err := s.svc.ListTasks(r.Context())
	if err != nil {
		s.internalError(w, reqID, err)
		return
	}
	if tasks == nil {
		tasks = []service.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request, reqID string) {
	body := readJSONBody(r)
	title := coerceField(body, "title")
	priority := coerceField(body, "priority")

	task, err := s.svc.CreateTask(r.Context(), title, priority)
	if err != nil {
		if service.IsValidation(err) {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
			return
		}
		s.internalError(w, reqID, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request, reqID string) {
	m := completePath.FindStringSubmatch(requestTarget(r))
	id, err := strconv.Atoi(m[1])
	if err != nil {
		// Digits beyond int range cannot name an issued task.
		writeEmpty(w, http.StatusNotFound)
		return
	}

	found, err := s.svc.CompleteTask(r.Context(), id)
	if err != nil {
		s.internalError(w, reqID, err)
		return
	}
	if !found {
		writeEmpty(w, http.StatusNotFound)
		return
	}
	writeEmpty(w, http.StatusOK)
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) internalError(w http.ResponseWriter, reqID string, err error) {
	s.logger.Printf("error: %s: %v", reqID, err)
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, err := marshalJSON(payload)
	if err != nil {
		writeEmpty(w, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeEmpty(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Length", "0")
	w.WriteHeader(status)
}

// marshalJSON encodes v as compact UTF-8 JSON without HTML escaping.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
