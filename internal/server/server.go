package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/antigravity/sentimon/internal/config"
	"github.com/antigravity/sentimon/internal/crawler"
	"github.com/antigravity/sentimon/internal/database"
	"github.com/antigravity/sentimon/internal/report"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

var md = goldmark.New()

// Server is the HTTP viewer for the current crawl state. Every page
// load re-crawls the root directory, so the view is always live; the
// database only contributes recorded history.
type Server struct {
	db      *database.DB
	cfg     *config.Config
	crawler *crawler.Crawler
	pages   map[string]*template.Template
	mux     *http.ServeMux
}

// New creates a new Server.
func New(db *database.DB, cfg *config.Config, cr *crawler.Crawler) (*Server, error) {
	funcMap := template.FuncMap{
		"markdown":  renderMarkdown,
		"probClass": probClassFunc(cfg),
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}

	// Parse base template first
	base, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	// For each page template, clone the base and parse the page into the clone.
	// This gives each page its own {{define "content"}} and {{define "title"}}.
	pageNames := []string{"index.html", "asset.html", "source.html"}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base for %s: %w", name, err)
		}
		_, err = clone.ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = clone
	}

	s := &Server{db: db, cfg: cfg, crawler: cr, pages: pages, mux: http.NewServeMux()}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	// Static files
	staticSub, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	// Routes
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/asset/", s.handleAsset)
	s.mux.HandleFunc("/source", s.handleSource)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	root := s.cfg.Crawler.RootDir
	records := s.crawler.Crawl(root)

	s.render(w, "index.html", map[string]any{
		"Root":    root,
		"Records": records,
		"Empty":   len(records) == 0,
	})
}

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/asset/")
	if name == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	records := s.crawler.Crawl(s.cfg.Crawler.RootDir)
	var current *crawler.AssetRecord
	for i := range records {
		if records[i].Asset == name {
			current = &records[i]
			break
		}
	}
	if current == nil {
		http.NotFound(w, r)
		return
	}

	history := s.crawler.LoadHistory(current.Path)

	var recorded []database.SignalRow
	if s.db != nil {
		recorded, _ = s.db.GetAssetHistory(name)
	}

	s.render(w, "asset.html", map[string]any{
		"Record":   current,
		"History":  history,
		"Recorded": recorded,
	})
}

// handleSource shows the raw text of one report file. Only files
// inside the crawl root are served.
func (s *Server) handleSource(w http.ResponseWriter, r *http.Request) {
	reqPath := r.URL.Query().Get("path")
	if reqPath == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	root, err := filepath.Abs(s.cfg.Crawler.RootDir)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	abs, err := filepath.Abs(reqPath)
	if err != nil || !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	content, err := os.ReadFile(abs)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	s.render(w, "source.html", map[string]any{
		"Path":    abs,
		"Content": string(content),
	})
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := s.pages[name]
	if !ok {
		log.Printf("Template %s not found", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		log.Printf("Error rendering template %s: %v", name, err)
	}
}

func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String()) //nolint: gosec
}

// probClassFunc builds the template helper that maps a probability
// string to a highlight class using the configured display cutoffs.
func probClassFunc(cfg *config.Config) func(kind, value string) string {
	return func(kind, value string) string {
		p := report.Percent(value)
		switch kind {
		case "up":
			if p >= cfg.Thresholds.Up {
				return "prob-high-up"
			}
		case "down":
			if p >= cfg.Thresholds.Down {
				return "prob-high-down"
			}
		}
		return ""
	}
}

// Serve starts the HTTP server on the given port.
func Serve(db *database.DB, cfg *config.Config, cr *crawler.Crawler, port int) error {
	srv, err := New(db, cfg, cr)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	log.Printf("Server listening on http://%s", addr)
	return http.ListenAndServe(addr, srv.Handler())
}
