package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/soaringjerry/Krippen/internal/api"
	"github.com/soaringjerry/Krippen/internal/db"
	"github.com/soaringjerry/Krippen/internal/middleware"
	"github.com/soaringjerry/Krippen/internal/utils"
)

func main() {
	addr := utils.SafeEnv("KRIPPEN_ADDR", ":8080")
	commit := os.Getenv("KRIPPEN_COMMIT")
	buildTime := os.Getenv("KRIPPEN_BUILD_TIME")

	var store api.Store
	if path := os.Getenv("KRIPPEN_DB"); path != "" {
		s, err := db.NewStore(path)
		if err != nil {
			log.Fatalf("open store %s: %v", path, err)
		}
		store = s
		log.Printf("using sqlite store at %s", path)
	} else {
		store = api.NewMemoryStore()
		log.Printf("KRIPPEN_DB not set, using in-memory store")
	}

	mux := http.NewServeMux()
	api.NewRouter(store).Register(mux)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":         true,
			"name":       "Krippen API",
			"commit":     commit,
			"build_time": buildTime,
		})
	})
	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"commit":     commit,
			"build_time": buildTime,
		})
	})

	handler := middleware.SecureHeaders(middleware.CORS(middleware.WithAuth(mux)))

	log.Printf("Krippen server listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
