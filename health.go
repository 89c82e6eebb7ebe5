package seascape

import (
	"encoding/json"
	"net/http"

	"github.com/theoremus-urban-solutions/seascape/scheduler"
)

type healthResponse struct {
	Status           string          `json:"status"`
	Fleet            string          `json:"fleet"`
	LatestFetchEpoch int64           `json:"latest_fetch_epoch"`
	Scheduler        scheduler.Stats `json:"scheduler"`
	Clients          int             `json:"websocket_clients"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	stats := s.pipeline.Scheduler.Stats()
	resp := healthResponse{
		Status:           "ok",
		Fleet:            s.pipeline.Fleet,
		LatestFetchEpoch: stats.LastFetch,
		Scheduler:        stats,
	}
	if s.pipeline.Hub != nil {
		resp.Clients = s.pipeline.Hub.ClientCount()
	}
	_ = json.NewEncoder(w).Encode(resp)
}
