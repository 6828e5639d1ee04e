package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"litter-tracker/internal/platform/idcodec"
	"litter-tracker/internal/router"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	codec, err := idcodec.New(testKeyHex)
	if err != nil {
		t.Fatalf("codec: %v", err)
	}

	ts := httptest.NewServer(router.NewRouter(router.Options{
		AuthVerifier: nil, // modo dev: X-Debug-User-ID
		Codec:        codec,
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd_LitterLifecycle(t *testing.T) {
	ts := newTestServer(t)

	ownerID := "owner-1"
	strangerID := "stranger-1"

	// 1) Owner crea camada
	litterID := createLitter(t, ts.URL, ownerID, map[string]any{
		"name":        "Luna's Litter",
		"dateOfBirth": "2026-05-01",
		"motherName":  "Luna",
		"breed":       "siamese",
	})

	// El ID expuesto es un token opaco, no un UUID crudo
	if strings.Contains(litterID, "-") {
		t.Fatalf("litter id leaks raw uuid: %s", litterID)
	}

	// 2) Listado del owner la incluye; el de otro usuario no
	{
		st, body := doReq(t, ts.URL, "GET", "/litters", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list litters, got %d body=%s", st, string(body))
		}
		var items []map[string]any
		_ = json.Unmarshal(body, &items)
		if len(items) != 1 {
			t.Fatalf("expected 1 litter, got %d", len(items))
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/litters", strangerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list litters stranger, got %d", st)
		}
		var items []map[string]any
		_ = json.Unmarshal(body, &items)
		if len(items) != 0 {
			t.Fatalf("expected 0 litters for stranger, got %d", len(items))
		}
	}

	// 3) Otro usuario no puede ver la camada
	{
		st, _ := doReq(t, ts.URL, "GET", "/litters/"+litterID, strangerID, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 get litter by stranger, got %d", st)
		}
	}

	// 4) Owner agrega gatitos; el detalle de la camada los embebe en orden
	// de creación
	kitten1 := createKitten(t, ts.URL, ownerID, litterID, map[string]any{
		"name":   "Michi",
		"gender": "male",
		"color":  "gray",
	})
	kitten2 := createKitten(t, ts.URL, ownerID, litterID, map[string]any{
		"name":   "Nube",
		"gender": "female",
		"color":  "white",
	})
	{
		st, body := doReq(t, ts.URL, "GET", "/litters/"+litterID, ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get litter, got %d body=%s", st, string(body))
		}
		var detail struct {
			Kittens []struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"kittens"`
		}
		_ = json.Unmarshal(body, &detail)
		if len(detail.Kittens) != 2 {
			t.Fatalf("expected 2 embedded kittens, got %d", len(detail.Kittens))
		}
		if detail.Kittens[0].Name != "Michi" || detail.Kittens[1].Name != "Nube" {
			t.Fatalf("kittens out of creation order: %+v", detail.Kittens)
		}
	}

	// 5) Registros de peso; el listado viene por fecha descendente
	createWeight(t, ts.URL, ownerID, litterID, kitten1, map[string]any{
		"dateRecorded":  "2026-05-02",
		"weightInGrams": 110,
	})
	createWeight(t, ts.URL, ownerID, litterID, kitten1, map[string]any{
		"dateRecorded":  "2026-05-09",
		"weightInGrams": 180.5,
	})
	{
		st, body := doReq(t, ts.URL, "GET", "/litters/"+litterID+"/kittens/"+kitten1+"/weights", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list weights, got %d body=%s", st, string(body))
		}
		var items []struct {
			DateRecorded  string  `json:"dateRecorded"`
			WeightInGrams float64 `json:"weightInGrams"`
		}
		_ = json.Unmarshal(body, &items)
		if len(items) != 2 {
			t.Fatalf("expected 2 weights, got %d", len(items))
		}
		if items[0].DateRecorded != "2026-05-09" || items[1].DateRecorded != "2026-05-02" {
			t.Fatalf("weights out of date order: %+v", items)
		}
	}

	// 6) Update parcial: solo name; el resto queda igual
	{
		st, body := doReq(t, ts.URL, "PUT", "/litters/"+litterID, ownerID, map[string]any{
			"name": "Luna's First Litter",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 update litter, got %d body=%s", st, string(body))
		}
		var resp struct {
			Name       string `json:"name"`
			MotherName string `json:"motherName"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Name != "Luna's First Litter" || resp.MotherName != "Luna" {
			t.Fatalf("partial update wrong result: %+v", resp)
		}
	}

	// 7) Borrar un gatito arrastra sus pesos
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/litters/"+litterID+"/kittens/"+kitten1, ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 delete kitten, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/litters/"+litterID+"/kittens/"+kitten1+"/weights", ownerID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 weights of deleted kitten, got %d", st)
		}
	}

	// 8) Borrar la camada arrastra todo lo que queda
	{
		st, body := doReq(t, ts.URL, "DELETE", "/litters/"+litterID, ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 delete litter, got %d body=%s", st, string(body))
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/litters/"+litterID, ownerID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 get deleted litter, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/litters/"+litterID+"/kittens/"+kitten2, ownerID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 kitten of deleted litter, got %d", st)
		}
	}
}

func TestHTTP_Validation(t *testing.T) {
	ts := newTestServer(t)
	ownerID := "owner-1"

	// name y dateOfBirth obligatorios
	{
		st, _ := doReq(t, ts.URL, "POST", "/litters", ownerID, map[string]any{
			"motherName": "Luna",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 litter without name, got %d", st)
		}
	}

	litterID := createLitter(t, ts.URL, ownerID, map[string]any{
		"name":        "Litter A",
		"dateOfBirth": "2026-05-01",
	})
	kittenID := createKitten(t, ts.URL, ownerID, litterID, map[string]any{
		"name": "Michi",
	})

	weightsPath := "/litters/" + litterID + "/kittens/" + kittenID + "/weights"

	// Peso cero o negativo => 400; fraccional chico => ok
	{
		st, body := doReq(t, ts.URL, "POST", weightsPath, ownerID, map[string]any{
			"dateRecorded":  "2026-05-02",
			"weightInGrams": 0,
		})
		if st != http.StatusBadRequest || !strings.Contains(string(body), "positive") {
			t.Fatalf("expected 400 zero weight, got %d body=%s", st, string(body))
		}
	}
	{
		st, _ := doReq(t, ts.URL, "POST", weightsPath, ownerID, map[string]any{
			"dateRecorded":  "2026-05-02",
			"weightInGrams": -50,
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 negative weight, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "POST", weightsPath, ownerID, map[string]any{
			"dateRecorded":  "2026-05-02",
			"weightInGrams": 0.1,
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 small positive weight, got %d", st)
		}
	}

	// Update sin campos => 400 con el mensaje del contrato
	{
		st, body := doReq(t, ts.URL, "PUT", "/litters/"+litterID, ownerID, map[string]any{})
		if st != http.StatusBadRequest || !strings.Contains(string(body), "no fields to update") {
			t.Fatalf("expected 400 empty update, got %d body=%s", st, string(body))
		}
	}

	// Sin usuario autenticado => 401
	{
		st, _ := doReq(t, ts.URL, "GET", "/litters", "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 without user, got %d", st)
		}
	}
}

func TestHTTP_OpaqueIDTokens(t *testing.T) {
	ts := newTestServer(t)
	ownerID := "owner-1"

	litterID := createLitter(t, ts.URL, ownerID, map[string]any{
		"name":        "Litter A",
		"dateOfBirth": "2026-05-01",
	})

	// Token adulterado (un nibble cambiado) => 404, nunca 500
	tampered := []byte(litterID)
	if tampered[0] == 'a' {
		tampered[0] = 'b'
	} else {
		tampered[0] = 'a'
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/litters/"+string(tampered), ownerID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 tampered token, got %d", st)
		}
	}

	// Basura directa => 404
	{
		st, _ := doReq(t, ts.URL, "GET", "/litters/not-a-token", ownerID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 garbage token, got %d", st)
		}
	}

	// El mismo recurso produce tokens distintos en responses distintas
	st, body := doReq(t, ts.URL, "GET", "/litters", ownerID, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 list, got %d", st)
	}
	var items []struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &items)
	if len(items) != 1 {
		t.Fatalf("expected 1 litter, got %d", len(items))
	}
	if items[0].ID == litterID {
		t.Fatalf("expected fresh token per response, got repeated %s", litterID)
	}

	// Ambos tokens resuelven al mismo recurso
	{
		st, _ := doReq(t, ts.URL, "GET", "/litters/"+items[0].ID, ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 via second token, got %d", st)
		}
	}
}

func TestHTTP_CrossPrincipalAccess(t *testing.T) {
	ts := newTestServer(t)

	litterID := createLitter(t, ts.URL, "owner-1", map[string]any{
		"name":        "Litter A",
		"dateOfBirth": "2026-05-01",
	})
	kittenID := createKitten(t, ts.URL, "owner-1", litterID, map[string]any{
		"name": "Michi",
	})

	paths := []struct {
		method string
		path   string
		body   map[string]any
	}{
		{"GET", "/litters/" + litterID, nil},
		{"PUT", "/litters/" + litterID, map[string]any{"name": "X"}},
		{"DELETE", "/litters/" + litterID, nil},
		{"POST", "/litters/" + litterID + "/kittens", map[string]any{"name": "X"}},
		{"GET", "/litters/" + litterID + "/kittens/" + kittenID, nil},
		{"DELETE", "/litters/" + litterID + "/kittens/" + kittenID, nil},
		{"GET", "/litters/" + litterID + "/kittens/" + kittenID + "/weights", nil},
	}

	for _, p := range paths {
		st, _ := doReq(t, ts.URL, p.method, p.path, "intruder-1", p.body)
		if st != http.StatusForbidden {
			t.Fatalf("%s %s: expected 403 for intruder, got %d", p.method, p.path, st)
		}
	}
}

func TestHTTP_WeightPhotoWithoutStore(t *testing.T) {
	ts := newTestServer(t)
	ownerID := "owner-1"

	litterID := createLitter(t, ts.URL, ownerID, map[string]any{
		"name":        "Litter A",
		"dateOfBirth": "2026-05-01",
	})
	kittenID := createKitten(t, ts.URL, ownerID, litterID, map[string]any{
		"name": "Michi",
	})

	// multipart con foto pero sin blob store configurado => 500
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("dateRecorded", "2026-05-02")
	_ = mw.WriteField("weightInGrams", "120")
	fw, _ := mw.CreateFormFile("photo", "michi.jpg")
	_, _ = fw.Write([]byte("not-really-a-jpg"))
	_ = mw.Close()

	req, err := http.NewRequest("POST",
		ts.URL+"/litters/"+litterID+"/kittens/"+kittenID+"/weights", &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Debug-User-ID", ownerID)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500 photo without store, got %d", resp.StatusCode)
	}

	// multipart sin foto funciona igual que JSON
	var buf2 bytes.Buffer
	mw2 := multipart.NewWriter(&buf2)
	_ = mw2.WriteField("dateRecorded", "2026-05-02")
	_ = mw2.WriteField("weightInGrams", "120")
	_ = mw2.Close()

	req2, _ := http.NewRequest("POST",
		ts.URL+"/litters/"+litterID+"/kittens/"+kittenID+"/weights", &buf2)
	req2.Header.Set("Content-Type", mw2.FormDataContentType())
	req2.Header.Set("X-Debug-User-ID", ownerID)

	resp2, err := http.DefaultClient.Do(req2)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 multipart without photo, got %d", resp2.StatusCode)
	}
}

func createLitter(t *testing.T, baseURL, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/litters", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create litter, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create litter: missing id body=%s", string(body))
	}
	return resp.ID
}

func createKitten(t *testing.T, baseURL, userID, litterID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/litters/"+litterID+"/kittens", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create kitten, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create kitten: missing id body=%s", string(body))
	}
	return resp.ID
}

func createWeight(t *testing.T, baseURL, userID, litterID, kittenID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST",
		"/litters/"+litterID+"/kittens/"+kittenID+"/weights", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create weight, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create weight: missing id body=%s", string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, b
}
