package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lojasmm/erpbot/internal/nlp"
	"github.com/lojasmm/erpbot/internal/whatsapp"
)

type stubFinder struct{}

func (stubFinder) FindCustomerByMobile(_ context.Context, mobile string) string {
	return "found " + mobile
}

type stubCounter map[string]uint64

func (c stubCounter) IntentCounts() (map[string]uint64, error) { return c, nil }

func trainedEngine(t *testing.T) *nlp.Engine {
	t.Helper()
	cat, err := nlp.DefaultCatalog()
	if err != nil {
		t.Fatal(err)
	}
	e, err := nlp.NewEngine(cat)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Train(context.Background()); err != nil {
		t.Fatal(err)
	}
	return e
}

func TestHandleClassify(t *testing.T) {
	api := &debugAPI{engine: trainedEngine(t)}

	rec := httptest.NewRecorder()
	api.handleClassify(rec, httptest.NewRequest(http.MethodGet, "/debug/classify?text=hi", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}

	var body struct {
		Trained bool       `json:"trained"`
		Result  nlp.Result `json:"result"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !body.Trained || body.Result.Label != "greeting" {
		t.Errorf("body = %+v", body)
	}
	if body.Result.Answer != "Hello! How can I help you today?" {
		t.Errorf("answer = %q, want catalog answer", body.Result.Answer)
	}

	rec = httptest.NewRecorder()
	api.handleClassify(rec, httptest.NewRequest(http.MethodGet, "/debug/classify", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing text: code = %d", rec.Code)
	}
}

func TestHandleClassifyDisabled(t *testing.T) {
	rec := httptest.NewRecorder()
	(&debugAPI{}).handleClassify(rec, httptest.NewRequest(http.MethodGet, "/debug/classify?text=hi", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("code = %d, want 404", rec.Code)
	}
}

func TestHandleLookup(t *testing.T) {
	api := &debugAPI{erp: stubFinder{}}

	rec := httptest.NewRecorder()
	api.handleLookup(rec, httptest.NewRequest(http.MethodGet, "/debug/lookup?mobile=0501234567", nil))

	var body map[string]string
	json.NewDecoder(rec.Body).Decode(&body)
	if body["reply"] != "found 0501234567" {
		t.Errorf("body = %v", body)
	}
}

func TestHandleAnalytics(t *testing.T) {
	api := &debugAPI{store: stubCounter{"greeting": 3}, analytics: true}

	rec := httptest.NewRecorder()
	api.handleAnalytics(rec, httptest.NewRequest(http.MethodGet, "/analytics", nil))

	var body struct {
		Intents map[string]uint64 `json:"intents"`
	}
	json.NewDecoder(rec.Body).Decode(&body)
	if body.Intents["greeting"] != 3 {
		t.Errorf("body = %+v", body)
	}

	rec = httptest.NewRecorder()
	(&debugAPI{}).handleAnalytics(rec, httptest.NewRequest(http.MethodGet, "/analytics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("disabled: code = %d", rec.Code)
	}
}

func TestRouter(t *testing.T) {
	var got []whatsapp.InboundMessage
	webhook := whatsapp.NewWebhookHandler("tok", func(_ context.Context, msg whatsapp.InboundMessage) {
		got = append(got, msg)
	})
	srv := httptest.NewServer(newRouter(webhook, &debugAPI{erp: stubFinder{}, token: "tok"}))
	defer srv.Close()

	tests := []struct {
		method, path, body string
		wantCode           int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=tok&hub.challenge=c", "", http.StatusOK},
		{http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=bad&hub.challenge=c", "", http.StatusForbidden},
		{http.MethodPost, "/webhook", `{"entry":[{"changes":[{"value":{"messages":[{"from":"1","id":"m","type":"text","text":{"body":"hi"}}]}}]}]}`, http.StatusOK},
		{http.MethodPost, "/webhook", `garbage`, http.StatusOK},
		{http.MethodGet, "/debug/lookup?mobile=0501234567&token=tok", "", http.StatusOK},
		{http.MethodGet, "/debug/classify?text=hi&token=tok", "", http.StatusNotFound},
		{http.MethodGet, "/analytics?token=tok", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		req, _ := http.NewRequest(tt.method, srv.URL+tt.path, strings.NewReader(tt.body))
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("%s %s: %v", tt.method, tt.path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != tt.wantCode {
			t.Errorf("%s %s: code = %d, want %d", tt.method, tt.path, resp.StatusCode, tt.wantCode)
		}
	}

	if len(got) != 1 || got[0].Text != "hi" {
		t.Errorf("dispatched = %+v", got)
	}
}

func TestOperatorRoutesRequireToken(t *testing.T) {
	webhook := whatsapp.NewWebhookHandler("tok", func(context.Context, whatsapp.InboundMessage) {})
	api := &debugAPI{erp: stubFinder{}, store: stubCounter{"menu": 1}, analytics: true, token: "tok"}
	srv := httptest.NewServer(newRouter(webhook, api))
	defer srv.Close()

	tests := []struct {
		name     string
		path     string
		header   string
		wantCode int
	}{
		{"lookup without token", "/debug/lookup?mobile=0502594880", "", http.StatusUnauthorized},
		{"lookup wrong token", "/debug/lookup?mobile=0502594880&token=nope", "", http.StatusUnauthorized},
		{"classify without token", "/debug/classify?text=hi", "", http.StatusUnauthorized},
		{"analytics without token", "/analytics", "", http.StatusUnauthorized},
		{"lookup bearer token", "/debug/lookup?mobile=0502594880", "Bearer tok", http.StatusOK},
		{"analytics query token", "/analytics?token=tok", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, srv.URL+tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantCode {
				t.Fatalf("code = %d, want %d", resp.StatusCode, tt.wantCode)
			}
			if tt.wantCode == http.StatusUnauthorized {
				var body map[string]string
				if json.NewDecoder(resp.Body).Decode(&body) == nil && body["reply"] != "" {
					t.Errorf("customer data leaked: %v", body)
				}
			}
		})
	}
}
