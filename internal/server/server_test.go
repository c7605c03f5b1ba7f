package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/SeamusWaldron/rubikscube"
)

func startServer(t *testing.T, cfg Config) (*Server, *httptest.Server) {
	t.Helper()
	s := New(cfg, nil)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func dial(t *testing.T, ts *httptest.Server) (*websocket.Conn, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close(websocket.StatusNormalClosure, "") })
	return c, ctx
}

func roundTrip(t *testing.T, ctx context.Context, c *websocket.Conn, req Msg) Msg {
	t.Helper()
	if err := wsjson.Write(ctx, c, req); err != nil {
		t.Fatal(err)
	}
	var resp Msg
	if err := wsjson.Read(ctx, c, &resp); err != nil {
		t.Fatal(err)
	}
	return resp
}

func seed(v uint64) *uint64 { return &v }

func TestHealth(t *testing.T) {
	_, ts := startServer(t, Config{Metric: rubikscube.HalfTurn})
	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("health = %d %q", resp.StatusCode, body)
	}
}

func TestSpecAndStep(t *testing.T) {
	_, ts := startServer(t, Config{Metric: rubikscube.QuarterTurn, ScrambleMoves: 5, Seed: seed(1)})
	c, ctx := dial(t, ts)

	resp := roundTrip(t, ctx, c, Msg{T: TypeSpec})
	if resp.T != TypeSpec {
		t.Fatalf("reply type = %q, want spec", resp.T)
	}
	var spec SpecResponse
	if err := json.Unmarshal(resp.M, &spec); err != nil {
		t.Fatal(err)
	}
	if spec.Actions != 12 || spec.ObsSize != 480 || spec.Metric != "quarter_turn" || spec.Moves[6] != "U'" {
		t.Errorf("spec = %+v", spec)
	}

	resp = roundTrip(t, ctx, c, Msg{T: TypeStep, M: json.RawMessage(`{"action":3}`)})
	if resp.T != TypeObs {
		t.Fatalf("reply type = %q, want obs (%s)", resp.T, resp.M)
	}
	var obs ObsResponse
	if err := json.Unmarshal(resp.M, &obs); err != nil {
		t.Fatal(err)
	}
	if obs.Obs.Sum() != 20 {
		t.Errorf("observation sum = %d, want 20", obs.Obs.Sum())
	}
	if !strings.Contains(string(resp.M), `"info":{}`) {
		t.Errorf("info should encode as an empty object: %s", resp.M)
	}
}

func TestResetReturnsObservation(t *testing.T) {
	_, ts := startServer(t, Config{Metric: rubikscube.HalfTurn, ScrambleMoves: 3, Seed: seed(2)})
	c, ctx := dial(t, ts)

	resp := roundTrip(t, ctx, c, Msg{T: TypeReset})
	var obs ObsResponse
	if err := json.Unmarshal(resp.M, &obs); err != nil {
		t.Fatal(err)
	}
	if resp.T != TypeObs || obs.Obs.Sum() != 20 || obs.Done || obs.Reward != 0 {
		t.Errorf("reset reply = %s %+v", resp.T, obs)
	}
}

func TestErrors(t *testing.T) {
	_, ts := startServer(t, Config{Metric: rubikscube.HalfTurn, ScrambleMoves: 3})
	c, ctx := dial(t, ts)

	tests := []struct {
		req  Msg
		code string
	}{
		{Msg{T: TypeStep, M: json.RawMessage(`{"action":18}`)}, CodeOutOfRange},
		{Msg{T: TypeStep, M: json.RawMessage(`{"action":-1}`)}, CodeOutOfRange},
		{Msg{T: TypeStep}, CodeBadRequest},
		{Msg{T: TypeStep, M: json.RawMessage(`{"move":"R"}`)}, CodeBadRequest},
		{Msg{T: "solve"}, CodeUnknownType},
	}
	for _, tt := range tests {
		resp := roundTrip(t, ctx, c, tt.req)
		if resp.T != TypeError {
			t.Errorf("%s %s: reply type = %q, want error", tt.req.T, tt.req.M, resp.T)
			continue
		}
		var e ErrorResponse
		if err := json.Unmarshal(resp.M, &e); err != nil {
			t.Fatal(err)
		}
		if e.Code != tt.code {
			t.Errorf("%s %s: code = %s, want %s", tt.req.T, tt.req.M, e.Code, tt.code)
		}
	}

	// The connection survives errors.
	if resp := roundTrip(t, ctx, c, Msg{T: TypeRender}); resp.T != TypeRender {
		t.Errorf("render after errors = %q", resp.T)
	}
}

func TestMalformedFrame(t *testing.T) {
	_, ts := startServer(t, Config{Metric: rubikscube.HalfTurn, ScrambleMoves: 3})
	c, ctx := dial(t, ts)

	if err := c.Write(ctx, websocket.MessageText, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	var resp Msg
	if err := wsjson.Read(ctx, c, &resp); err != nil {
		t.Fatal(err)
	}
	if resp.T != TypeError {
		t.Errorf("reply type = %q, want error", resp.T)
	}
}

func TestConnectionsAreIndependent(t *testing.T) {
	s, ts := startServer(t, Config{Metric: rubikscube.HalfTurn, ScrambleMoves: 10, Seed: seed(5)})
	a, ctx := dial(t, ts)
	b, _ := dial(t, ts)

	ra := roundTrip(t, ctx, a, Msg{T: TypeRender})
	rb := roundTrip(t, ctx, b, Msg{T: TypeRender})
	if string(ra.M) == string(rb.M) {
		t.Error("connections should get different scrambles")
	}
	if n := s.Clients(); n != 2 {
		t.Errorf("Clients() = %d, want 2", n)
	}
}

func TestForbiddenOrigin(t *testing.T) {
	_, ts := startServer(t, Config{Metric: rubikscube.HalfTurn, AllowOrigins: []string{"http://ok.example"}})
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/ws", nil)
	req.Header.Set("Origin", "http://evil.example")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
}
