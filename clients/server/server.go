// Package server provides the DP campaign HTTP API: campaign CRUD, template
// uploads, and the render/export endpoints backing the web editor.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/asejik/dp-generator/pkg/blob"
	"github.com/asejik/dp-generator/pkg/config"
	"github.com/asejik/dp-generator/pkg/crop"
	"github.com/asejik/dp-generator/pkg/layout"
	"github.com/asejik/dp-generator/pkg/render"
	"github.com/asejik/dp-generator/pkg/store"
)

type srv struct {
	store    store.Store
	uploads  blob.Uploader
	renderer *render.Renderer
	token    string
}

// RunServe wires the collaborators from cfg and serves until the listener
// fails. With no MySQL DSN it runs the in-memory store; with no Cloudinary
// URL it stores uploads locally under cfg.AssetDir.
func RunServe(cfg config.Config) error {
	s := &srv{token: cfg.AdminToken}

	if cfg.MySQLDSN != "" {
		ms, err := store.OpenMySQL(cfg.MySQLDSN)
		if err != nil {
			return err
		}
		defer ms.Close()
		s.store = ms
	} else {
		log.Println("no MYSQL_DSN configured: using in-memory campaign store")
		s.store = store.NewMemory()
	}

	var localAssets *blob.Local
	if cfg.CloudinaryURL != "" {
		up, err := blob.NewCloudinary(cfg.CloudinaryURL, "campaign_flyers")
		if err != nil {
			return err
		}
		s.uploads = up
	} else {
		log.Println("no CLOUDINARY_URL configured: storing uploads locally")
		up, err := blob.NewLocal(cfg.AssetDir, "/assets")
		if err != nil {
			return err
		}
		s.uploads = up
		localAssets = up
	}

	renderer, err := render.NewRenderer(cfg.FontDir)
	if err != nil {
		return err
	}
	s.renderer = renderer

	if s.token == "" {
		log.Println("Warning: ADMIN_TOKEN not set, mutating routes are open")
	}

	var assetDir string
	if localAssets != nil {
		assetDir = localAssets.Dir()
	}

	log.Printf("dpgen API listening on %s", cfg.Addr)
	return http.ListenAndServe(cfg.Addr, s.routes(assetDir))
}

func (s *srv) routes(assetDir string) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/campaigns", s.handleList)
	mux.HandleFunc("POST /api/campaigns", s.admin(s.handleCreate))
	mux.HandleFunc("GET /api/campaigns/{id}", s.handleGet)
	mux.HandleFunc("PUT /api/campaigns/{id}", s.admin(s.handleUpdate))
	mux.HandleFunc("DELETE /api/campaigns/{id}", s.admin(s.handleDelete))
	mux.HandleFunc("POST /api/upload/image", s.admin(s.handleUploadImage))
	mux.HandleFunc("POST /api/render", s.handleRender)
	mux.HandleFunc("POST /api/export/png", s.handleExportPNG)
	mux.HandleFunc("POST /api/crop", s.handleCrop)

	if assetDir != "" {
		mux.Handle("GET /assets/", http.StripPrefix("/assets/",
			http.FileServer(http.Dir(assetDir))))
	}
	return mux
}

// ── Admin gate ──

// admin enforces the shared-secret capability check on mutating routes.
// The core packages never see an unauthorized call.
func (s *srv) admin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" {
			got := r.Header.Get("X-Admin-Token")
			if got == "" {
				got = r.URL.Query().Get("token")
			}
			if got != s.token {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}

// ── Campaign CRUD ──

func (s *srv) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}
	campaigns, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.storeError(w, err)
		return
	}
	if campaigns == nil {
		campaigns = []layout.Campaign{}
	}
	writeJSON(w, campaigns)
}

func (s *srv) handleGet(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, c)
}

func (s *srv) handleCreate(w http.ResponseWriter, r *http.Request) {
	var c layout.Campaign
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "decode campaign: "+err.Error(), http.StatusBadRequest)
		return
	}
	id, err := s.store.Create(r.Context(), c)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, map[string]string{"id": id})
}

func (s *srv) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var c layout.Campaign
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "decode campaign: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.store.Update(r.Context(), r.PathValue("id"), c); err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *srv) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, map[string]string{"status": "deleted"})
}

// ── Upload ──

func (s *srv) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	r.ParseMultipartForm(10 << 20)
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "no file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	url, err := s.uploads.Upload(r.Context(), file, header.Filename)
	if err != nil {
		log.Println("upload:", err)
		http.Error(w, "upload failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"url": url})
}

// ── Render / export ──

// renderForm reads the multipart render request: a campaign (inline JSON or
// stored id), an optional pre-cropped photo, and the user's name.
func (s *srv) renderForm(r *http.Request) (*render.Composite, error) {
	if err := r.ParseMultipartForm(20 << 20); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}

	var c layout.Campaign
	switch {
	case r.FormValue("campaign") != "":
		parsed, err := layout.ParseCampaign([]byte(r.FormValue("campaign")))
		if err != nil {
			return nil, err
		}
		c = *parsed
	case r.FormValue("campaignId") != "":
		stored, err := s.store.Get(r.Context(), r.FormValue("campaignId"))
		if err != nil {
			return nil, err
		}
		c = stored
	default:
		return nil, fmt.Errorf("campaign or campaignId is required")
	}

	var photo image.Image
	if file, _, err := r.FormFile("photo"); err == nil {
		img, derr := crop.Decode(file)
		file.Close()
		if derr != nil {
			return nil, derr
		}
		photo = img
	}

	return s.renderer.Compose(r.Context(), c, photo, r.FormValue("name"))
}

func (s *srv) handleRender(w http.ResponseWriter, r *http.Request) {
	comp, err := s.renderForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	img, err := comp.Image()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	data, err := render.EncodePNG(img)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(data)
}

func (s *srv) handleExportPNG(w http.ResponseWriter, r *http.Request) {
	comp, err := s.renderForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ratio := render.DefaultExportRatio
	if v := r.FormValue("ratio"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ratio = n
		}
	}

	img, err := comp.Rasterize(ratio)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	data, err := render.EncodePNG(img)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"`, render.ExportFilename(time.Now())))
	w.Write(data)
}

// ── Crop ──

func (s *srv) handleCrop(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(20 << 20); err != nil {
		http.Error(w, "parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		http.Error(w, "no photo", http.StatusBadRequest)
		return
	}
	defer file.Close()

	src, err := crop.Decode(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	aspect, err := strconv.ParseFloat(r.FormValue("aspect"), 64)
	if err != nil {
		http.Error(w, "aspect is required", http.StatusBadRequest)
		return
	}

	shape := layout.Shape(r.FormValue("shape"))
	if !shape.Valid() {
		shape = layout.ShapeRect
	}

	sess, err := crop.NewSession(src, aspect, shape)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if v := r.FormValue("zoom"); v != "" {
		if z, zerr := strconv.ParseFloat(v, 64); zerr == nil {
			sess.SetZoom(z)
		}
	}
	if cx, err1 := strconv.ParseFloat(r.FormValue("cx"), 64); err1 == nil {
		if cy, err2 := strconv.ParseFloat(r.FormValue("cy"), 64); err2 == nil {
			sess.SetCenter(cx, cy)
		}
	}

	out, err := sess.Commit()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	data, err := render.EncodePNG(out)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(data)
}

// ── Helpers ──

func (s *srv) storeError(w http.ResponseWriter, err error) {
	var verr *layout.ValidationError
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, "campaign not found", http.StatusNotFound)
	case errors.As(err, &verr):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Println("store:", err)
		http.Error(w, "persistence error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
