package web

import (
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// StatusSource reports what the bot is currently doing. Satisfied by
// countdown.Manager.
type StatusSource interface {
	Active() int
	LastTick() time.Time
}

// Server exposes a minimal status surface next to the bot: a landing page,
// a JSON status endpoint and a health check for platform probes.
type Server struct {
	src StatusSource
	log zerolog.Logger
}

func New(src StatusSource, log zerolog.Logger) *Server {
	return &Server{src: src, log: log.With().Str("component", "web").Logger()}
}

// Handler builds the route table. Split out from Start so tests can drive
// it through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHome)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	return mux
}

// Start begins serving in a background goroutine and returns the server so
// the caller can Shutdown it.
func (s *Server) Start(port string) *http.Server {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		s.log.Info().Str("port", port).Msg("starting web server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error().Err(err).Msg("web server stopped")
		}
	}()
	return srv
}

type statusView struct {
	Status     string `json:"status"`
	Countdowns int    `json:"countdowns"`
	LastTick   string `json:"last_tick,omitempty"`
}

func (s *Server) status() statusView {
	v := statusView{Status: "ok", Countdowns: s.src.Active()}
	if t := s.src.LastTick(); !t.IsZero() {
		v.LastTick = t.UTC().Format(time.RFC3339)
	}
	return v
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.status()); err != nil {
		s.log.Error().Err(err).Msg("encode status")
	}
}

var homeTmpl = template.Must(template.New("home").Parse(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Countdown Bot</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; margin: 0; background: #f7f8fb; color: #111; }
        .container { max-width: 720px; margin: 0 auto; padding: 40px 24px; }
        .card { background: #fff; border-radius: 12px; padding: 24px; box-shadow: 0 2px 8px rgba(0,0,0,.06); margin-bottom: 16px; }
        h1 { margin: 0 0 8px 0; font-size: 28px; }
        .muted { color: #666; font-size: 14px; }
        .count { font-size: 40px; font-weight: 700; color: #0f62fe; }
    </style>
</head>
<body>
    <div class="container">
      <div class="card">
        <h1>⏳ Countdown Bot</h1>
        <p class="muted">Live countdowns pinned to Telegram channel messages. Start a chat with the bot and send /add_countdown.</p>
      </div>
      <div class="card">
        <div class="count">{{.Countdowns}}</div>
        <div class="muted">active countdowns{{if .LastTick}} · last update {{.LastTick}}{{end}}</div>
      </div>
    </div>
</body>
</html>`))

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if err := homeTmpl.Execute(w, s.status()); err != nil {
		s.log.Error().Err(err).Msg("render home")
	}
}
