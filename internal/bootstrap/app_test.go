package bootstrap

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"medcompare-backend/internal/shared/config"
)

func testApp(t *testing.T) *App {
	t.Helper()
	app, err := Build(config.Config{
		Env:              "dev",
		ArchiveStoreType: "none",
		CORSAllowOrigin:  []string{"http://localhost:5173"},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return app
}

func doJSON(t *testing.T, app *App, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response %q: %v", resp.Body.String(), err)
	}
	return payload
}

func importCSV(t *testing.T, app *App, provider, csvBody string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("provider", provider); err != nil {
		t.Fatalf("write provider field: %v", err)
	}
	mapping := `{"name":"name","price":"price","currency":"currency","category":"category","price_type":"price_type"}`
	if err := writer.WriteField("field_mapping", mapping); err != nil {
		t.Fatalf("write mapping field: %v", err)
	}
	part, err := writer.CreateFormFile("file", "prices.csv")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(csvBody)); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	app := testApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/health", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestImportThenCompareFlow(t *testing.T) {
	app := testApp(t)

	csvBody := "name,price,currency,category,price_type\n" +
		"Glicemia,18.50,RON,blood,normal\n" +
		"Colesterol,25,RON,blood,normal\n" +
		"Hemoglobina,,RON,blood,normal\n"
	resp := importCSV(t, app, "synevo", csvBody)
	if resp.Code != http.StatusOK {
		t.Fatalf("import: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	payload := decodeBody(t, resp)
	if payload["total_records"] != float64(3) || payload["successful_imports"] != float64(2) {
		t.Fatalf("unexpected import summary: %v", payload)
	}
	if payload["errors"] != float64(1) {
		t.Fatalf("expected 1 row error (empty price), got %v", payload)
	}

	compare := doJSON(t, app, http.MethodPost, "/api/v1/analyses/compare", map[string]any{
		"analysis_names": []string{"glicemia", "inexistenta"},
	})
	if compare.Code != http.StatusOK {
		t.Fatalf("compare: expected 200, got %d", compare.Code)
	}
	body := decodeBody(t, compare)
	results, ok := body["results"].([]any)
	if !ok || len(results) != 2 {
		t.Fatalf("expected 2 compare rows, got %v", body)
	}
	first := results[0].(map[string]any)
	if first["found"] != true || first["name"] != "Glicemia" {
		t.Fatalf("unexpected first row: %v", first)
	}
	second := results[1].(map[string]any)
	if second["found"] != false {
		t.Fatalf("expected placeholder for unknown name: %v", second)
	}
}

func TestGetAnalysisByID(t *testing.T) {
	app := testApp(t)

	importCSV(t, app, "synevo", "name,price,currency\nGlicemia,18,RON\n")

	list := doJSON(t, app, http.MethodGet, "/api/v1/analyses", nil)
	if list.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", list.Code)
	}
	results, ok := decodeBody(t, list)["results"].([]any)
	if !ok || len(results) != 1 {
		t.Fatalf("expected 1 listed analysis, got %s", list.Body.String())
	}
	id, _ := results[0].(map[string]any)["id"].(string)
	if id == "" {
		t.Fatalf("expected analysis id in listing, got %v", results[0])
	}

	resp := doJSON(t, app, http.MethodGet, "/api/v1/analyses/"+id, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	payload := decodeBody(t, resp)
	if payload["name"] != "Glicemia" || payload["id"] != id {
		t.Fatalf("unexpected analysis payload: %v", payload)
	}

	missing := doJSON(t, app, http.MethodGet, "/api/v1/analyses/5f9c1d9e-7a07-4a3b-9f3f-0a4f2a6d8b11", nil)
	if missing.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown id, got %d", missing.Code)
	}

	malformed := doJSON(t, app, http.MethodGet, "/api/v1/analyses/not-a-uuid", nil)
	if malformed.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", malformed.Code)
	}
}

func TestImportUnknownProviderStillRuns(t *testing.T) {
	app := testApp(t)

	resp := importCSV(t, app, "labnecunoscut", "name,price,currency\nGlicemia,20,RON\n")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected unknown provider import to run, got %d: %s", resp.Code, resp.Body.String())
	}
	payload := decodeBody(t, resp)
	if payload["successful_imports"] != float64(1) {
		t.Fatalf("unexpected import summary: %v", payload)
	}
}

func TestSuggestEndpointFallsBackWithoutData(t *testing.T) {
	app := testApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/analyses/suggest?query=hb", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	payload := decodeBody(t, resp)
	suggestions, ok := payload["suggestions"].([]any)
	if !ok || len(suggestions) == 0 {
		t.Fatalf("expected fuzzy suggestions, got %v", payload)
	}
	top := suggestions[0].(map[string]any)
	if top["name"] != "Hemoglobina" {
		t.Fatalf("expected Hemoglobina first for hb, got %v", top)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	app := testApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/analyses/search", nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestProvidersSeededOnBoot(t *testing.T) {
	app := testApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/providers", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	payload := decodeBody(t, resp)
	if payload["source"] != "database" {
		t.Fatalf("expected seeded providers, got %v", payload["source"])
	}

	missing := doJSON(t, app, http.MethodGet, "/api/v1/providers/necunoscut", nil)
	if missing.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", missing.Code)
	}
}

func TestWipeRequiresConfirmationToken(t *testing.T) {
	app := testApp(t)

	resp := doJSON(t, app, http.MethodDelete, "/api/v1/admin/data", nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without confirmation, got %d", resp.Code)
	}

	confirmed := doJSON(t, app, http.MethodDelete, "/api/v1/admin/data?confirm=DELETE_ALL_DATA", nil)
	if confirmed.Code != http.StatusOK {
		t.Fatalf("expected 200 with confirmation, got %d", confirmed.Code)
	}
}

func TestImportHistoryEndpoint(t *testing.T) {
	app := testApp(t)

	importCSV(t, app, "medlife", "name,price,currency\nGlicemia,20,RON\n")

	resp := doJSON(t, app, http.MethodGet, "/api/v1/admin/import/history", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	payload := decodeBody(t, resp)
	imports, ok := payload["imports"].([]any)
	if !ok || len(imports) != 1 {
		t.Fatalf("expected 1 history entry, got %v", payload)
	}
}

func TestOCRProcessPlainTextUpload(t *testing.T) {
	app := testApp(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", "reteta.txt")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("Glicemie 95 mg/dl\nColesterol total 180")); err != nil {
		t.Fatalf("write upload: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ocr/process", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	payload := decodeBody(t, resp)
	analyses, ok := payload["analyses"].([]any)
	if !ok || len(analyses) == 0 {
		t.Fatalf("expected extracted analyses, got %v", payload)
	}
	joined := strings.ToLower(resp.Body.String())
	if !strings.Contains(joined, "glicemie") {
		t.Fatalf("expected glicemie in %s", joined)
	}
}

func TestOCRImageWithoutServiceAnswers503(t *testing.T) {
	app := testApp(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", "scan.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte{0x89, 0x50, 0x4E, 0x47}); err != nil {
		t.Fatalf("write upload: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ocr/process", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestMetricsEndpointRendersCounters(t *testing.T) {
	app := testApp(t)

	doJSON(t, app, http.MethodGet, "/api/v1/analyses/suggest?query=col", nil)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/metrics", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "suggest_requests_total") {
		t.Fatalf("expected suggest counter in metrics output")
	}
}
