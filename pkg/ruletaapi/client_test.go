package ruletaapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cardroid/ruleta/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", time.Second)
}

func TestSpinConfigDecodesSegments(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/spin-config" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing request id header")
		}
		w.Write([]byte(`{"segments":[{"text":"Radio","fillStyle":"#f00"},{"text":"Sigue Intentando"}]}`))
	})

	cfg, err := c.SpinConfig(context.Background())
	if err != nil {
		t.Fatalf("spin config: %v", err)
	}
	if len(cfg.Segments) != 2 || cfg.Segments[0].Text != "Radio" || cfg.Segments[0].FillStyle != "#f00" {
		t.Fatalf("segments = %+v", cfg.Segments)
	}
}

func TestSpinConfigRejectsEmptySegments(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"segments":[]}`))
	})

	_, err := c.SpinConfig(context.Background())
	var protoErr *ProtocolError
	if !errors.As(err, &protoErr) {
		t.Fatalf("err = %v, want ProtocolError", err)
	}
}

func TestSpinConfigMalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"segments":"nope"}`))
	})

	_, err := c.SpinConfig(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || !apiErr.Malformed {
		t.Fatalf("err = %v, want malformed APIError", err)
	}
}

func TestRegisterSendsBodyAndDecodesUser(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content type = %q", r.Header.Get("Content-Type"))
		}
		var req models.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Plate != "AB12C3" || req.Phone != "987654321" || req.Email != "a@b.pe" {
			t.Errorf("request = %+v", req)
		}
		w.Write([]byte(`{"user":{"spinsAvailable":3,"prizes":[{"_id":"p1","text":"Cap","expiry":"2030-01-01T00:00:00Z","claimed":false}]}}`))
	})

	user, err := c.Register(context.Background(), models.RegisterRequest{Plate: "AB12C3", Email: "a@b.pe", Phone: "987654321"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if *user.SpinsAvailable != 3 || len(user.Prizes) != 1 || user.Prizes[0].ID != "p1" {
		t.Fatalf("user = %+v", user)
	}
}

func TestRegisterSurfacesServerMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"Placa ya registrada"}`))
	})

	_, err := c.Register(context.Background(), models.RegisterRequest{Plate: "AB12C3"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if apiErr.Status != http.StatusConflict || apiErr.Message != "Placa ya registrada" {
		t.Fatalf("api error = %+v", apiErr)
	}
}

func TestRegisterNonJSONErrorBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>bad gateway</html>`))
	})

	_, err := c.Register(context.Background(), models.RegisterRequest{Plate: "AB12C3"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "" || apiErr.Status != http.StatusBadGateway {
		t.Fatalf("err = %v", err)
	}
}

func TestSpinMissingFields(t *testing.T) {
	cases := map[string]string{
		"no prize":      `{"stopAngle":10,"spinsAvailable":2}`,
		"empty text":    `{"prize":{"text":""},"stopAngle":10,"spinsAvailable":2}`,
		"no stop angle": `{"prize":{"text":"Cap"},"spinsAvailable":2}`,
		"no spins":      `{"prize":{"text":"Cap"},"stopAngle":10}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			})
			_, err := c.Spin(context.Background(), "AB12C3")
			var apiErr *APIError
			if !errors.As(err, &apiErr) || !apiErr.Malformed {
				t.Fatalf("err = %v, want malformed APIError", err)
			}
		})
	}
}

func TestSpinDecodesOutcome(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req models.PlateRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Plate != "AB12C3" {
			t.Errorf("plate = %q", req.Plate)
		}
		w.Write([]byte(`{"prize":{"text":"Radio 100% Gratis"},"stopAngle":0,"spinsAvailable":2,"prizes":[{"_id":"x","text":"Radio 100% Gratis"}]}`))
	})

	out, err := c.Spin(context.Background(), "AB12C3")
	if err != nil {
		t.Fatalf("spin: %v", err)
	}
	if out.PrizeText != "Radio 100% Gratis" || out.StopAngle != 0 || out.SpinsAvailable != 2 || len(out.Prizes) != 1 {
		t.Fatalf("outcome = %+v", out)
	}
}

func TestShare(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/share" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"spinsAvailable":5,"message":"+3 giros"}`))
	})

	res, err := c.Share(context.Background(), "AB12C3")
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	if res.SpinsAvailable != 5 || res.Message != "+3 giros" {
		t.Fatalf("share result = %+v", res)
	}
}

func TestTransportErrorIsNotAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).Spin(context.Background(), "AB12C3")
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("transport failure reported as APIError: %v", err)
	}
}

func TestOversizedBodyIsMalformed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"spinsAvailable":3,"message":"`))
		w.Write([]byte(strings.Repeat("x", MaxResponseBytes)))
		w.Write([]byte(`"}`))
	})

	_, err := c.Share(context.Background(), "AB12C3")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || !apiErr.Malformed {
		t.Fatalf("err = %v, want malformed APIError", err)
	}
}
