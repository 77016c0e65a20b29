package handler

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/montoya-e/laked/internal/core/domain"
)

func portApp(portService *fakePortService) *fiber.App {
	h := NewPortHandler(portService)
	app := fiber.New()
	app.Get("/ports", h.GetPorts)
	return app
}

func TestPortHandler_GetPorts(t *testing.T) {
	portService := &fakePortService{
		ports: []*domain.AugmentedPort{
			{
				Port: domain.Port{Name: "mysql-8083", Service: "mysql", Port: 8083, Protocol: "tcp", Mandatory: true},
				Open: true,
			},
			{
				Port: domain.Port{Name: "mongodb-27017", Service: "mongodb", Port: 27017, Protocol: "tcp", Mandatory: true},
				Open: false,
			},
		},
	}
	app := portApp(portService)

	resp, err := app.Test(httptest.NewRequest("GET", "/ports", nil))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var result []*domain.AugmentedPort
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Expected json body, got %v", err)
	}

	if len(result) != 2 {
		t.Fatalf("Expected 2 ports, got %d", len(result))
	}
	if result[0].Port.Port != 8083 || !result[0].Open {
		t.Errorf("Unexpected first port %+v", result[0])
	}
	if result[1].Port.Service != "mongodb" || result[1].Open {
		t.Errorf("Unexpected second port %+v", result[1])
	}
}

func TestPortHandler_GetPortsEmpty(t *testing.T) {
	app := portApp(&fakePortService{})

	resp, err := app.Test(httptest.NewRequest("GET", "/ports", nil))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var result []*domain.AugmentedPort
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Expected json body, got %v", err)
	}
	if len(result) != 0 {
		t.Errorf("Expected no ports, got %+v", result)
	}
}
