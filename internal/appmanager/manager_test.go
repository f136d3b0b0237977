package appmanager

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
services:
  - name: gateway
    start_order: 5
    config:
      port: 8081
  - name: logger
    start_order: 1
    config:
      folder_path: ./logs
  - name: cron
    start_order: 4
    config:
      refresh_schedule: "*/15 * * * *"
  - name: snapshot
    start_order: 2
  - name: reports
    start_order: 3
    config:
      port: "4143"
  - name: billing
    start_order: 6
`

func TestParseServiceSequenceSortsByStartOrder(t *testing.T) {
	seq, err := ParseServiceSequence([]byte(sampleYAML))
	require.NoError(t, err)
	var names []string
	for _, s := range seq {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"logger", "snapshot", "reports", "cron", "gateway", "billing"}, names)
	assert.Equal(t, 8081, seq[4].Config["port"])
	assert.Nil(t, seq[1].Config)
}

func TestAutoRegisterSkipsUnknownServices(t *testing.T) {
	seq, err := ParseServiceSequence([]byte(sampleYAML))
	require.NoError(t, err)

	snapshotCache = nil
	am := NewAppManager()
	am.AutoRegisterServices(seq)

	var names []string
	for _, s := range am.services {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"logger", "snapshot", "reports", "cron", "gateway"}, names)
	assert.NotNil(t, am.GetServiceByName("reports"))
	assert.Nil(t, am.GetServiceByName("billing"))
	assert.Same(t, snapshotCache, am.GetServiceByName("snapshot"))
}

type stubService struct {
	name     string
	startErr error
	log      *[]string
}

func (s *stubService) Name() string { return s.name }
func (s *stubService) Start() error {
	*s.log = append(*s.log, "start "+s.name)
	return s.startErr
}
func (s *stubService) Stop() error {
	*s.log = append(*s.log, "stop "+s.name)
	return nil
}

func TestStartAndStopOrder(t *testing.T) {
	var calls []string
	am := NewAppManager()
	am.RegisterService(&stubService{name: "a", log: &calls})
	am.RegisterService(&stubService{name: "b", log: &calls})
	require.NoError(t, am.StartAll())
	require.NoError(t, am.StopAll())
	assert.Equal(t, []string{"start a", "start b", "stop b", "stop a"}, calls)

	am = NewAppManager()
	am.RegisterService(&stubService{name: "bad", startErr: errors.New("port in use"), log: &calls})
	assert.ErrorContains(t, am.StartAll(), "bad")
}
