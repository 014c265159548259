// Package web provides the HTTP status page and remote buttons for the
// alarm clock.
package web

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sweeney/alarm-clock/internal/logic"
	"github.com/sweeney/alarm-clock/internal/status"
)

// Presser queues a button press for the tick loop.
type Presser interface {
	Press(b logic.Button) error
}

// Server serves the status page over HTTP.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	presser    Presser
}

// New creates a Server that reads state from tracker and forwards remote
// button presses to presser. A nil presser disables the button endpoint.
func New(addr string, tracker *status.Tracker, presser Presser) *Server {
	s := &Server{tracker: tracker, presser: presser}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/index.html", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/index.json", s.handleJSON).Methods(http.MethodGet)
	r.HandleFunc("/api/buttons/{name}", s.handleButton).Methods(http.MethodPost)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap, s.presser != nil)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}

// buttonResponse is the body returned by the button endpoint.
type buttonResponse struct {
	Button string `json:"button"`
	Queued bool   `json:"queued"`
	Error  string `json:"error,omitempty"`
}

func (s *Server) handleButton(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	b, ok := logic.ParseButton(name)
	if !ok {
		writeButton(w, http.StatusNotFound, buttonResponse{Button: name, Error: "unknown button"})
		return
	}
	if s.presser == nil {
		writeButton(w, http.StatusServiceUnavailable, buttonResponse{Button: name, Error: "remote buttons disabled"})
		return
	}
	if err := s.presser.Press(b); err != nil {
		log.Printf("web: button %s: %v", name, err)
		writeButton(w, http.StatusServiceUnavailable, buttonResponse{Button: name, Error: err.Error()})
		return
	}
	writeButton(w, http.StatusAccepted, buttonResponse{Button: name, Queued: true})
}

func writeButton(w http.ResponseWriter, code int, body buttonResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
