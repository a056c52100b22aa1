package main

import (
	_ "embed"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/tomz197/beedefense/internal/config"
	"github.com/tomz197/beedefense/internal/logging"
)

//go:embed index.html
var htmlPage string

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	log, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	router := newRouter(renderPage(cfg.Web.DisplayHost, cfg.SSH.Port))

	addr := net.JoinHostPort(cfg.Web.Host, cfg.Web.Port)
	log.Info("starting web server", zap.String("addr", "http://"+addr))
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}

func newRouter(page string) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	}).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodGet)
	return router
}

// renderPage fills the connection instructions into the landing page.
func renderPage(sshHost, sshPort string) string {
	return strings.NewReplacer(
		"{{.SSHHost}}", sshHost,
		"{{.SSHPort}}", sshPort,
	).Replace(htmlPage)
}
