package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/asejik/dp-generator/pkg/blob"
	"github.com/asejik/dp-generator/pkg/layout"
	"github.com/asejik/dp-generator/pkg/render"
	"github.com/asejik/dp-generator/pkg/store"
)

func newTestServer(t *testing.T, token string) *httptest.Server {
	t.Helper()

	renderer, err := render.NewRenderer("")
	if err != nil {
		t.Fatal(err)
	}
	uploads, err := blob.NewLocal(t.TempDir(), "/assets")
	if err != nil {
		t.Fatal(err)
	}

	s := &srv{
		store:    store.NewMemory(),
		uploads:  uploads,
		renderer: renderer,
		token:    token,
	}
	ts := httptest.NewServer(s.routes(uploads.Dir()))
	t.Cleanup(ts.Close)
	return ts
}

func campaignJSON() string {
	// The template path does not exist: its layer is omitted at render
	// time rather than failing the request.
	return `{
        "title": "Test",
        "baseImageUrl": "missing-flyer.png",
        "frame": {"x": 100, "y": 100, "width": 200, "height": 200, "shape": "rect"},
        "isActive": true
    }`
}

func TestAdminGate(t *testing.T) {
	ts := newTestServer(t, "s3cret")

	// Without the token, mutating routes are refused.
	resp, err := http.Post(ts.URL+"/api/campaigns", "application/json", strings.NewReader(campaignJSON()))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}

	// With it, the create goes through.
	resp, err = http.Post(ts.URL+"/api/campaigns?token=s3cret", "application/json", strings.NewReader(campaignJSON()))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var created map[string]string
	json.NewDecoder(resp.Body).Decode(&created)
	if created["id"] == "" {
		t.Error("no id returned")
	}

	// Reads stay public.
	resp, err = http.Get(ts.URL + "/api/campaigns/" + created["id"])
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("public read status = %d", resp.StatusCode)
	}
}

func TestGetUnknownCampaignIs404(t *testing.T) {
	ts := newTestServer(t, "")

	resp, err := http.Get(ts.URL + "/api/campaigns/nope")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestCreateRejectsInvalidCampaign(t *testing.T) {
	ts := newTestServer(t, "")

	bad := `{"title": "", "baseImageUrl": "u",
        "frame": {"x":0,"y":0,"width":50,"height":50,"shape":"rect"}}`
	resp, err := http.Post(ts.URL+"/api/campaigns", "application/json", strings.NewReader(bad))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func renderRequest(t *testing.T, url, campaign, name string, photo image.Image) *http.Response {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("campaign", campaign)
	if name != "" {
		mw.WriteField("name", name)
	}
	if photo != nil {
		fw, _ := mw.CreateFormFile("photo", "photo.png")
		if err := png.Encode(fw, photo); err != nil {
			t.Fatal(err)
		}
	}
	mw.Close()

	resp, err := http.Post(url, mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestRenderReturnsPNG(t *testing.T) {
	ts := newTestServer(t, "")

	photo := image.NewNRGBA(image.Rect(0, 0, 200, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			photo.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
		}
	}

	resp := renderRequest(t, ts.URL+"/api/render", campaignJSON(), "Ada", photo)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}

	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != layout.CanvasSize {
		t.Errorf("preview width = %d, want %d", img.Bounds().Dx(), layout.CanvasSize)
	}
}

func TestExportDefaultsToTripleResolution(t *testing.T) {
	ts := newTestServer(t, "")

	resp := renderRequest(t, ts.URL+"/api/export/png", campaignJSON(), "", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "dp_") {
		t.Errorf("disposition = %q, want timestamped attachment", cd)
	}

	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 3*layout.CanvasSize {
		t.Errorf("export width = %d, want %d", img.Bounds().Dx(), 3*layout.CanvasSize)
	}
}

func TestCropEndpointMatchesAspect(t *testing.T) {
	ts := newTestServer(t, "")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, _ := mw.CreateFormFile("photo", "raw.png")
	if err := png.Encode(fw, image.NewNRGBA(image.Rect(0, 0, 300, 200))); err != nil {
		t.Fatal(err)
	}
	mw.WriteField("aspect", "1.0")
	mw.WriteField("zoom", "1.0")
	mw.Close()

	resp, err := http.Post(ts.URL+"/api/crop", mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != img.Bounds().Dy() {
		t.Errorf("cropped %v, want square", img.Bounds())
	}
}

func TestUploadServesAsset(t *testing.T) {
	ts := newTestServer(t, "")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, _ := mw.CreateFormFile("file", "flyer.png")
	if err := png.Encode(fw, image.NewNRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	resp, err := http.Post(ts.URL+"/api/upload/image", mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upload status = %d", resp.StatusCode)
	}

	var out map[string]string
	json.NewDecoder(resp.Body).Decode(&out)
	if !strings.HasPrefix(out["url"], "/assets/") {
		t.Fatalf("url = %q", out["url"])
	}

	served, err := http.Get(ts.URL + out["url"])
	if err != nil {
		t.Fatal(err)
	}
	defer served.Body.Close()
	if served.StatusCode != http.StatusOK {
		t.Errorf("asset fetch status = %d", served.StatusCode)
	}
}
