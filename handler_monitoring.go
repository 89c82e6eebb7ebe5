package seascape

import (
	"net/http"

	"go.uber.org/zap"
)

func (s *Server) handleVehicleMonitoringJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	s.handleVehicleMonitoring(w, r, "json")
}

func (s *Server) handleVehicleMonitoringXML(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/xml")
	s.handleVehicleMonitoring(w, r, "xml")
}

func (s *Server) handleVehicleMonitoring(w http.ResponseWriter, r *http.Request, format string) {
	if s.vm == nil {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write(buildErrorPayload(format, "SIRI rendering is disabled."))
		return
	}
	q, err := parseVehicleMonitoringQuery(r.URL.Query())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write(buildErrorPayload(format, err.Error()))
		return
	}
	buf, err := s.vm.vehicleMonitoring(q, format)
	if err != nil {
		s.log.Error("build vehicle monitoring", zap.String("format", format), zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write(buildErrorPayload(format, err.Error()))
		return
	}
	_, _ = w.Write(buf)
}
