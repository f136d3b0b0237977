package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"GroundwaterDash/internal/config"
	"GroundwaterDash/internal/serviceiface"
)

type GatewayService struct {
	config map[string]interface{}
	server *http.Server
}

func NewGatewayService(cfg map[string]interface{}) serviceiface.Service {
	return &GatewayService{config: cfg}
}

func (s *GatewayService) Name() string {
	return "gateway"
}

func (s *GatewayService) Start() error {
	port := configString(s.config, "port", config.DefaultGatewayPort)
	router, err := NewGatewayRouter(reportsTargets(s.config)...)
	if err != nil {
		return err
	}
	s.server = &http.Server{Addr: ":" + port, Handler: router}
	go func() {
		log.Println("API Gateway started on :" + port)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Gateway server failed: %v", err)
		}
	}()
	return nil
}

func (s *GatewayService) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// configString reads a string option; YAML may decode bare ports as ints.
func configString(cfg map[string]interface{}, key, def string) string {
	switch v := cfg[key].(type) {
	case string:
		if v != "" {
			return v
		}
	case int:
		return fmt.Sprint(v)
	}
	return def
}

// reportsTargets reads reports_targets (a list) or reports_target.
func reportsTargets(cfg map[string]interface{}) []string {
	var targets []string
	if list, ok := cfg["reports_targets"].([]interface{}); ok {
		for _, v := range list {
			if t, ok := v.(string); ok && t != "" {
				targets = append(targets, t)
			}
		}
	}
	if len(targets) == 0 {
		targets = append(targets, configString(cfg, "reports_target", "http://localhost:"+config.DefaultReportsPort))
	}
	return targets
}
