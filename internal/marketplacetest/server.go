// Package marketplacetest runs an in-process stand-in for the extension
// marketplaces: item pages, the gallery extensionquery API, the Open VSX
// query API and package downloads.
package marketplacetest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"vsixinstall/internal/utils"
)

type Extension struct {
	Publisher   string
	Name        string
	DisplayName string
	Version     string

	// PageBody is served for /items?itemName=publisher.name. Empty means 404.
	PageBody   string
	PageStatus int

	Package       []byte
	PackageStatus int
}

func (e *Extension) id() string {
	return e.Publisher + "." + e.Name
}

type Server struct {
	router *mux.Router
	server *httptest.Server

	mu         sync.Mutex
	extensions map[string]*Extension
	requests   []string
}

func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		router:     mux.NewRouter(),
		extensions: make(map[string]*Extension),
	}
	s.setupRoutes()
	s.server = httptest.NewServer(s.router)
	t.Cleanup(s.server.Close)
	return s
}

func (s *Server) URL() string {
	return s.server.URL
}

func (s *Server) Add(ext Extension) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extensions[ext.id()] = &ext
}

// AssetURI is the asset bundle base for an extension version, the value the
// marketplace embeds as assetUri.
func (s *Server) AssetURI(publisher, name, version string) string {
	return fmt.Sprintf("%s/_assets/%s/%s/%s", s.server.URL, publisher, name, version)
}

func (s *Server) PackageURL(publisher, name, version string) string {
	return s.AssetURI(publisher, name, version) + "/" + utils.VSIXPackageAssetType
}

// Requests lists "METHOD /path" for every request served so far.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/items", s.handleItemPage).Methods("GET")
	s.router.HandleFunc("/_apis/public/gallery/extensionquery", s.handleExtensionQuery).Methods("POST")
	s.router.HandleFunc("/api/-/query", s.handleOpenVSXQuery).Methods("GET")
	s.router.HandleFunc("/_assets/{publisher}/{name}/{version}/{assetType}", s.handleVSCodeAsset).Methods("GET")

	s.router.Use(s.loggingMiddleware)

	s.router.NotFoundHandler = s.loggingMiddleware(http.HandlerFunc(s.handleNotFound))
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.Path)
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) lookup(id string) (*Extension, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ext, ok := s.extensions[id]
	return ext, ok
}

func (s *Server) handleItemPage(w http.ResponseWriter, r *http.Request) {
	ext, ok := s.lookup(r.URL.Query().Get("itemName"))
	if !ok || ext.PageBody == "" {
		s.handleNotFound(w, r)
		return
	}

	status := ext.PageStatus
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set(utils.ContentTypeHeader, utils.HTMLContentType)
	w.WriteHeader(status)
	fmt.Fprint(w, ext.PageBody)
}

func (s *Server) handleExtensionQuery(w http.ResponseWriter, r *http.Request) {
	var query struct {
		Filters []struct {
			Criteria []struct {
				FilterType int    `json:"filterType"`
				Value      string `json:"value"`
			} `json:"criteria"`
		} `json:"filters"`
	}
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	results := []interface{}{}
	for _, filter := range query.Filters {
		for _, criterion := range filter.Criteria {
			if criterion.FilterType != utils.GalleryFilterTypeName {
				continue
			}
			if ext, ok := s.lookup(criterion.Value); ok {
				results = append(results, s.createExtensionInfo(ext))
			}
		}
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"results": []map[string]interface{}{
			{"extensions": results},
		},
	})
}

func (s *Server) createExtensionInfo(ext *Extension) map[string]interface{} {
	assetURI := s.AssetURI(ext.Publisher, ext.Name, ext.Version)
	return map[string]interface{}{
		"extensionId":      ext.id(),
		"extensionName":    ext.Name,
		"displayName":      ext.DisplayName,
		"shortDescription": "",
		"publisher": map[string]interface{}{
			"publisherName": ext.Publisher,
		},
		"versions": []map[string]interface{}{
			{
				"version":          ext.Version,
				"assetUri":         assetURI,
				"fallbackAssetUri": assetURI,
				"files": []map[string]interface{}{
					{
						"assetType": "Microsoft.VisualStudio.Code.Manifest",
						"source":    assetURI + "/Microsoft.VisualStudio.Code.Manifest",
					},
					{
						"assetType": utils.VSIXPackageAssetType,
						"source":    assetURI + "/" + utils.VSIXPackageAssetType,
					},
				},
			},
		},
	}
}

func (s *Server) handleOpenVSXQuery(w http.ResponseWriter, r *http.Request) {
	extensions := []interface{}{}
	if ext, ok := s.lookup(r.URL.Query().Get("extensionId")); ok {
		extensions = append(extensions, map[string]interface{}{
			"name":        ext.Name,
			"namespace":   ext.Publisher,
			"displayName": ext.DisplayName,
			"version":     ext.Version,
			"files": map[string]string{
				"download": s.PackageURL(ext.Publisher, ext.Name, ext.Version),
			},
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"extensions": extensions})
}

func (s *Server) handleVSCodeAsset(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ext, ok := s.lookup(vars["publisher"] + "." + vars["name"])
	if !ok || vars["assetType"] != utils.VSIXPackageAssetType || ext.Package == nil {
		s.handleNotFound(w, r)
		return
	}

	status := ext.PackageStatus
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set(utils.ContentTypeHeader, utils.OctetStreamContentType)
	w.WriteHeader(status)
	w.Write(ext.Package)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, http.StatusNotFound, "Not Found")
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set(utils.ContentTypeHeader, utils.JSONContentType)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
