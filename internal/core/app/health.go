package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"standalone/internal/shared/util"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}

	// Check Corpus
	if s.app.Corpus == nil {
		status.Status = "degraded"
		status.Components["corpus"] = "missing"
	} else {
		status.Components["corpus"] = fmt.Sprintf("ok (%d units)", s.app.Corpus.Len())
	}

	// Check Parser
	if s.app.Parser == nil {
		status.Status = "degraded"
		status.Components["parser"] = "missing"
	} else {
		status.Components["parser"] = fmt.Sprintf("ok (%s)", strings.Join(s.app.Parser.SupportedExtensions(), " "))
	}

	// Check History
	if s.app.historyStore != nil {
		status.Components["history"] = fmt.Sprintf("ok (%s)", s.app.historyStore.Path())
	} else if s.app.Config.History.Enabled {
		status.Status = "degraded"
		status.Components["history"] = "missing but enabled in config"
	} else {
		status.Components["history"] = "disabled"
	}

	status.Components["memory"] = fmt.Sprintf("%d MB heap", util.GetHeapAllocMB())

	return status
}

// Handler serves Check results as JSON for the observability server.
func (s *HealthService) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st := s.Check(r.Context())
		code := http.StatusOK
		if st.Status != "up" {
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(st)
	})
}
