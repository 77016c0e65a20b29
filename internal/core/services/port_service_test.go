package services_test

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/montoya-e/laked/internal/core/services"
)

func TestPortMonitor_SyncStack(t *testing.T) {
	stack := parseStack(t, `
services:
  mysql:
    image: mysql:latest
    ports:
      - "8083:3306"
  mongodb:
    image: mongo:latest
    ports:
      - "27017-27019:27017-27019"
`)

	monitor := services.NewPortService()
	ports, err := monitor.SyncStack(stack)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(ports) != 4 {
		t.Fatalf("Expected 4 tracked ports, got %d", len(ports))
	}

	byPort := map[int]string{}
	for _, port := range ports {
		byPort[port.Port.Port] = port.Port.Service
		if !port.Port.Mandatory {
			t.Errorf("Expected port %d to be mandatory", port.Port.Port)
		}
	}
	if byPort[8083] != "mysql" || byPort[27018] != "mongodb" {
		t.Errorf("Unexpected port ownership %v", byPort)
	}
}

func TestPortMonitor_CheckOpen(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Expected listener, got %v", err)
	}
	defer listener.Close()

	port := listener.Addr().(*net.TCPAddr).Port

	monitor := services.NewPortService()
	if !monitor.CheckOpen(port) {
		t.Errorf("Expected port %d to be open", port)
	}

	listener.Close()
	if monitor.CheckOpen(port) {
		t.Errorf("Expected port %d to be closed", port)
	}
}

func TestPortMonitor_MandatoryPortsOpen(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Expected listener, got %v", err)
	}
	defer listener.Close()

	port := listener.Addr().(*net.TCPAddr).Port

	stack := parseStack(t, `
services:
  mysql:
    image: mysql:latest
    ports:
      - "`+strconv.Itoa(port)+`:3306"
`)

	monitor := services.NewPortService()
	if _, err := monitor.SyncStack(stack); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !monitor.MandatoryPortsOpen() {
		t.Error("Expected mandatory ports to be open")
	}

	augmented := monitor.GetPorts()
	if len(augmented) != 1 || !augmented[0].Open {
		t.Errorf("Expected probed port to be open, got %+v", augmented[0])
	}

	listener.Close()
	if monitor.MandatoryPortsOpen() {
		t.Error("Expected mandatory ports to be closed after listener shutdown")
	}
}

func TestPortMonitor_WaitAllOpenTimesOut(t *testing.T) {
	stack := parseStack(t, `
services:
  mysql:
    image: mysql:latest
    ports:
      - "1:3306"
`)

	monitor := services.NewPortService()
	if _, err := monitor.SyncStack(stack); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := monitor.WaitAllOpen(ctx); err == nil {
		t.Fatal("Expected timeout error, got nil")
	}
}
