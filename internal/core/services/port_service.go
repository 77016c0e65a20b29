package services

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/montoya-e/laked/internal/core/domain"
	logger "github.com/montoya-e/laked/internal/core/services/log"
	"go.uber.org/zap"
)

// PortMonitor tracks the host ports the stack descriptor publishes
// and probes whether the backing databases accept connections there.
type PortMonitor struct {
	host         string
	ports        []*domain.AugmentedPort
	dialTimeout  time.Duration
	pollInterval time.Duration
}

func NewPortService() *PortMonitor {
	return &PortMonitor{
		host:         "127.0.0.1",
		dialTimeout:  500 * time.Millisecond,
		pollInterval: time.Second,
	}
}

// SyncStack replaces the tracked ports with the descriptor's
// published host ports. Every declared database port is mandatory.
func (p *PortMonitor) SyncStack(stack *domain.StackFile) ([]*domain.AugmentedPort, error) {
	var augmentedPorts []*domain.AugmentedPort

	for name, spec := range stack.Services {
		mappings, err := spec.PortMappings()
		if err != nil {
			return nil, fmt.Errorf("service %s: %w", name, err)
		}
		for _, mapping := range mappings {
			for _, port := range mapping.HostPorts() {
				augmentedPorts = append(augmentedPorts, &domain.AugmentedPort{
					Port: domain.Port{
						Name:      name + "-" + strconv.Itoa(port),
						Service:   name,
						Port:      port,
						Protocol:  mapping.Protocol,
						Mandatory: true,
					},
				})
			}
		}
	}

	p.ports = augmentedPorts
	return p.ports, nil
}

func (p *PortMonitor) GetPorts() []*domain.AugmentedPort {
	for _, port := range p.ports {
		port.Open = p.CheckOpen(port.Port.Port)
		port.CheckedAt = time.Now()
	}
	return p.ports
}

func (p *PortMonitor) CheckOpen(port int) bool {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(p.host, strconv.Itoa(port)), p.dialTimeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (p *PortMonitor) MandatoryPortsOpen() bool {
	for _, port := range p.ports {
		if port.Port.Mandatory && !p.CheckOpen(port.Port.Port) {
			return false
		}
	}
	return true
}

// WaitAllOpen blocks until every tracked port accepts connections or
// the context is done.
func (p *PortMonitor) WaitAllOpen(ctx context.Context) error {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		if p.MandatoryPortsOpen() {
			return nil
		}
		logger.Log().Debug("Waiting for declared service ports", zap.Int("ports", len(p.ports)))

		select {
		case <-ctx.Done():
			return fmt.Errorf("timed out waiting for service ports - %w", ctx.Err())
		case <-ticker.C:
		}
	}
}
