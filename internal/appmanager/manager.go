package appmanager

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"GroundwaterDash/api"
	"GroundwaterDash/api/reports"
	"GroundwaterDash/internal/jobs"
	"GroundwaterDash/internal/logger"
	"GroundwaterDash/internal/serviceiface"
	"GroundwaterDash/internal/snapshot"
	"GroundwaterDash/internal/store"

	"gopkg.in/yaml.v3"
)

var (
	source        store.Source
	snapshotCache *snapshot.Cache
)

// SetSource sets the store the snapshot cache loads from.
func SetSource(s store.Source) {
	source = s
}

// GetSnapshotCache returns the shared cache, creating it on first use.
func GetSnapshotCache() *snapshot.Cache {
	if snapshotCache == nil {
		snapshotCache = snapshot.NewCache(source)
	}
	return snapshotCache
}

var serviceConstructors = map[string]func(map[string]interface{}) serviceiface.Service{
	"logger": func(cfg map[string]interface{}) serviceiface.Service {
		return logger.NewLoggerService(cfg)
	},
	"snapshot": func(cfg map[string]interface{}) serviceiface.Service {
		svc := snapshot.NewSnapshotService(cfg, source)
		snapshotCache = svc.(*snapshot.Cache)
		return svc
	},
	"reports": func(cfg map[string]interface{}) serviceiface.Service {
		cache := GetSnapshotCache()
		lookup, _ := source.(store.Lookup)
		return reports.NewReportsService(cfg, cache, cache, lookup)
	},
	"cron": func(cfg map[string]interface{}) serviceiface.Service {
		return jobs.NewCronService(cfg, GetSnapshotCache())
	},
	"gateway": func(cfg map[string]interface{}) serviceiface.Service {
		return api.NewGatewayService(cfg)
	},
}

// ------------------- MANAGER -------------------

type AppManager struct {
	services []serviceiface.Service
	mu       sync.Mutex
}

func NewAppManager() *AppManager {
	return &AppManager{
		services: make([]serviceiface.Service, 0),
	}
}

func (am *AppManager) RegisterService(s serviceiface.Service) {
	am.mu.Lock()
	defer am.mu.Unlock()
	am.services = append(am.services, s)
}

// StartAll starts services in registration order and stops at the first failure.
func (am *AppManager) StartAll() error {
	am.mu.Lock()
	defer am.mu.Unlock()

	for _, service := range am.services {
		fmt.Println("Starting service:", service.Name())
		if err := service.Start(); err != nil {
			return fmt.Errorf("failed to start service %s: %w", service.Name(), err)
		}
	}
	return nil
}

func (am *AppManager) StopAll() error {
	am.mu.Lock()
	defer am.mu.Unlock()
	for i := len(am.services) - 1; i >= 0; i-- {
		svc := am.services[i]
		if err := svc.Stop(); err != nil {
			return fmt.Errorf("failed to stop service %s: %w", svc.Name(), err)
		}
	}
	return nil
}

// ------------------- YAML CONFIG -------------------

type ServiceSequencer struct {
	Services []ServiceConfig `yaml:"services"`
}

type ServiceConfig struct {
	Name       string                 `yaml:"name"`
	StartOrder int                    `yaml:"start_order"`
	Config     map[string]interface{} `yaml:"config"`
}

func LoadServiceSequence(path string) ([]ServiceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseServiceSequence(data)
}

func ParseServiceSequence(data []byte) ([]ServiceConfig, error) {
	var seq ServiceSequencer
	if err := yaml.Unmarshal(data, &seq); err != nil {
		return nil, err
	}

	// sort by start_order
	sort.SliceStable(seq.Services, func(i, j int) bool {
		return seq.Services[i].StartOrder < seq.Services[j].StartOrder
	})

	return seq.Services, nil
}

// AutoRegisterServices builds every configured service with a known name.
// Unknown names are reported and skipped.
func (am *AppManager) AutoRegisterServices(configs []ServiceConfig) {
	for _, svc := range configs {
		constructor, ok := serviceConstructors[svc.Name]
		if !ok {
			fmt.Println("Skipping unknown service:", svc.Name)
			continue
		}
		cfg := svc.Config
		if cfg == nil {
			cfg = map[string]interface{}{}
		}
		am.RegisterService(constructor(cfg))
	}

	for _, svc := range am.services {
		if l, ok := svc.(*logger.LoggerService); ok {
			logger.SetGlobalLogger(l)
			break
		}
	}
}

func (am *AppManager) GetServiceByName(name string) serviceiface.Service {
	for _, svc := range am.services {
		if svc.Name() == name {
			return svc
		}
	}
	return nil
}
