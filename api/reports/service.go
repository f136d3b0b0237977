package reports

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"GroundwaterDash/internal/config"
	"GroundwaterDash/internal/serviceiface"
	"GroundwaterDash/internal/store"
)

type ReportsService struct {
	config  map[string]interface{}
	handler *Handler
	server  *http.Server
}

// NewReportsService serves reports over snapshots. lookup may be nil, in which
// case file drill-downs search the snapshot.
func NewReportsService(cfg map[string]interface{}, snapshots SnapshotSource, refresher Refresher, lookup store.Lookup) serviceiface.Service {
	h := NewHandler(snapshots, refresher).WithLookup(lookup)
	if mb, ok := cfg["max_upload_mb"].(int); ok && mb > 0 {
		h.maxUploadBytes = int64(mb) << 20
	}
	return &ReportsService{config: cfg, handler: h}
}

func (s *ReportsService) Name() string {
	return "reports"
}

func (s *ReportsService) Start() error {
	port := config.DefaultReportsPort
	switch v := s.config["port"].(type) {
	case int:
		port = fmt.Sprint(v)
	case string:
		if v != "" {
			port = v
		}
	}
	s.server = &http.Server{Addr: ":" + port, Handler: NewRouter(s.handler)}
	go func() {
		log.Println("Reports Service started on :" + port)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Reports Service failed: %v", err)
		}
	}()
	return nil
}

func (s *ReportsService) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}
