package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nadzzz/talkboard/internal/tts"
)

type backends map[tts.Kind]bool

func (b backends) BackendsReady() map[tts.Kind]bool { return b }

func get(t *testing.T, h http.Handler, path string) (int, Report) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var rep Report
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("%s: decoding %q: %v", path, rec.Body.String(), err)
	}
	return rec.Code, rep
}

func TestEndpoints(t *testing.T) {
	tests := []struct {
		name      string
		started   bool
		backends  Backends
		health    int
		ready     int
		readyBody string
	}{
		{"not started", false, backends{tts.KindOffline: true}, 503, 503, "not_ready"},
		{"one backend", true, backends{tts.KindOffline: false, tts.KindNative: true}, 200, 200, "ok"},
		{"no voice", true, backends{tts.KindOffline: false}, 200, 503, "not_ready"},
		{"no probe", true, nil, 200, 200, "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(0, tt.backends)
			s.SetReady(tt.started)
			h := s.Handler()

			if code, _ := get(t, h, "/healthz"); code != tt.health {
				t.Errorf("healthz: got %d, want %d", code, tt.health)
			}
			code, rep := get(t, h, "/readyz")
			if code != tt.ready || rep.Status != tt.readyBody {
				t.Errorf("readyz: got %d %q, want %d %q", code, rep.Status, tt.ready, tt.readyBody)
			}
		})
	}
}

func TestReadyzListsBackends(t *testing.T) {
	s := New(0, backends{tts.KindOffline: true, tts.KindNative: false})
	s.SetReady(true)
	_, rep := get(t, s.Handler(), "/readyz")
	if !rep.Backends[tts.KindOffline] || rep.Backends[tts.KindNative] || len(rep.Backends) != 2 {
		t.Errorf("backends %+v", rep.Backends)
	}
}
