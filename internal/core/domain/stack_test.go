package domain_test

import (
	"testing"

	"github.com/montoya-e/laked/internal/core/domain"
)

var stackFixture = []byte(`
version: "3.8"

services:
  mysql:
    image: mysql:latest
    ports:
      - "8083:3306"
    volumes:
      - ./data/db/mysql:/var/lib/mysql
      - ./config/config-mysql.conf:/etc/mysql/conf.d/config-file.cnf
    environment:
      MYSQL_ROOT_PASSWORD: root
      MYSQL_DATABASE: root

  mongodb:
    image: mongo:latest
    container_name: mongodb
    ports:
      - "27017-27019:27017-27019"
    volumes:
      - ./data/db/mongo:/data/db/mongo
    environment:
      MONGO_INITDB_DATABASE: init_db
      MONGO_INITDB_ROOT_USERNAME: root
      MONGO_INITDB_ROOT_PASSWORD: root
`)

func TestStackFile_ParseFixture(t *testing.T) {
	stack := domain.StackFile{}
	if _, err := stack.ParseFile(stackFixture); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(stack.Services) != 2 {
		t.Fatalf("Expected 2 services, got %d", len(stack.Services))
	}

	mysql, err := stack.Service("mysql")
	if err != nil {
		t.Fatalf("Expected mysql service, got %v", err)
	}
	if mysql.Image != "mysql:latest" {
		t.Errorf("Expected image mysql:latest, got %s", mysql.Image)
	}
	if mysql.Environment["MYSQL_ROOT_PASSWORD"] != "root" {
		t.Errorf("Expected MYSQL_ROOT_PASSWORD=root, got %s", mysql.Environment["MYSQL_ROOT_PASSWORD"])
	}

	mongo, err := stack.Service("mongodb")
	if err != nil {
		t.Fatalf("Expected mongodb service, got %v", err)
	}
	if mongo.ContainerName != "mongodb" {
		t.Errorf("Expected container name mongodb, got %s", mongo.ContainerName)
	}

	mounts, err := mysql.VolumeMounts()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(mounts) != 2 {
		t.Fatalf("Expected 2 volume mounts, got %d", len(mounts))
	}
	if mounts[0].Source != "./data/db/mysql" || mounts[0].Target != "/var/lib/mysql" {
		t.Errorf("Unexpected first mount: %+v", mounts[0])
	}
	if mounts[0].Mode != "rw" {
		t.Errorf("Expected default mode rw, got %s", mounts[0].Mode)
	}
}

func TestStackFile_EnvironmentListForm(t *testing.T) {
	raw := []byte(`
services:
  db:
    image: mysql:8
    environment:
      - MYSQL_ROOT_PASSWORD=secret
      - MYSQL_DATABASE=warehouse
`)
	stack := domain.StackFile{}
	if _, err := stack.ParseFile(raw); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	db := stack.Services["db"]
	if db.Environment["MYSQL_ROOT_PASSWORD"] != "secret" {
		t.Errorf("Expected secret, got %s", db.Environment["MYSQL_ROOT_PASSWORD"])
	}
	if db.Environment["MYSQL_DATABASE"] != "warehouse" {
		t.Errorf("Expected warehouse, got %s", db.Environment["MYSQL_DATABASE"])
	}
}

func TestStackFile_HostPortsExpandsRanges(t *testing.T) {
	stack := domain.StackFile{}
	if _, err := stack.ParseFile(stackFixture); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	hostPorts, err := stack.HostPorts()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	expected := map[int]string{
		8083:  "mysql",
		27017: "mongodb",
		27018: "mongodb",
		27019: "mongodb",
	}
	if len(hostPorts) != len(expected) {
		t.Fatalf("Expected %d host ports, got %d", len(expected), len(hostPorts))
	}
	for port, service := range expected {
		if hostPorts[port] != service {
			t.Errorf("Expected port %d owned by %s, got %s", port, service, hostPorts[port])
		}
	}
}

func TestParsePortMapping(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    domain.PortMapping
		wantErr bool
	}{
		{"simple mapping", "8083:3306", domain.PortMapping{HostFrom: 8083, HostTo: 8083, ContainerFrom: 3306, ContainerTo: 3306, Protocol: "tcp"}, false},
		{"range mapping", "27017-27019:27017-27019", domain.PortMapping{HostFrom: 27017, HostTo: 27019, ContainerFrom: 27017, ContainerTo: 27019, Protocol: "tcp"}, false},
		{"container only", "3306", domain.PortMapping{ContainerFrom: 3306, ContainerTo: 3306, Protocol: "tcp"}, false},
		{"with host ip", "127.0.0.1:8083:3306", domain.PortMapping{HostIP: "127.0.0.1", HostFrom: 8083, HostTo: 8083, ContainerFrom: 3306, ContainerTo: 3306, Protocol: "tcp"}, false},
		{"udp suffix", "53:53/udp", domain.PortMapping{HostFrom: 53, HostTo: 53, ContainerFrom: 53, ContainerTo: 53, Protocol: "udp"}, false},
		{"range length mismatch", "8080-8082:9090", domain.PortMapping{}, true},
		{"backwards range", "8082-8080:8082-8080", domain.PortMapping{}, true},
		{"port zero", "0:3306", domain.PortMapping{}, true},
		{"port too high", "70000:3306", domain.PortMapping{}, true},
		{"not a number", "abc:3306", domain.PortMapping{}, true},
		{"bad protocol", "80:80/icmp", domain.PortMapping{}, true},
		{"empty", "", domain.PortMapping{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.ParsePortMapping(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error for %q, got nil", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error for %q, got %v", tt.raw, err)
			}
			if *got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, *got)
			}
		})
	}
}

func TestPortMapping_HostPorts(t *testing.T) {
	mapping, err := domain.ParsePortMapping("27017-27019:27017-27019")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	ports := mapping.HostPorts()
	if len(ports) != 3 {
		t.Fatalf("Expected 3 ports, got %d", len(ports))
	}
	if ports[0] != 27017 || ports[2] != 27019 {
		t.Errorf("Unexpected port expansion: %v", ports)
	}

	unpublished, err := domain.ParsePortMapping("3306")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if unpublished.Published() {
		t.Error("Expected container-only mapping to be unpublished")
	}
	if len(unpublished.HostPorts()) != 0 {
		t.Error("Expected no host ports for unpublished mapping")
	}
}

func TestParseVolumeMount(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    domain.VolumeMount
		wantErr bool
	}{
		{"default mode", "./data/db/mongo:/data/db/mongo", domain.VolumeMount{Source: "./data/db/mongo", Target: "/data/db/mongo", Mode: "rw"}, false},
		{"read only", "./config:/etc/mysql/conf.d:ro", domain.VolumeMount{Source: "./config", Target: "/etc/mysql/conf.d", Mode: "ro"}, false},
		{"missing target", "./data", domain.VolumeMount{}, true},
		{"empty source", ":/data", domain.VolumeMount{}, true},
		{"bad mode", "./a:/b:rx", domain.VolumeMount{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.ParseVolumeMount(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error for %q, got nil", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error for %q, got %v", tt.raw, err)
			}
			if *got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, *got)
			}
		})
	}
}

func TestSplitImageRef(t *testing.T) {
	tests := []struct {
		ref  string
		repo string
		tag  string
	}{
		{"mysql:latest", "mysql", "latest"},
		{"mongo", "mongo", "latest"},
		{"library/mysql:8.0", "library/mysql", "8.0"},
		{"localhost:5000/custom/image", "localhost:5000/custom/image", "latest"},
		{"localhost:5000/custom/image:v1", "localhost:5000/custom/image", "v1"},
	}

	for _, tt := range tests {
		repo, tag := domain.SplitImageRef(tt.ref)
		if repo != tt.repo || tag != tt.tag {
			t.Errorf("SplitImageRef(%q) = (%q, %q), expected (%q, %q)", tt.ref, repo, tag, tt.repo, tt.tag)
		}
	}
}

func TestStackFile_FindByImage(t *testing.T) {
	stack := domain.StackFile{}
	if _, err := stack.ParseFile(stackFixture); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	name, spec := stack.FindByImage("mongo")
	if name != "mongodb" || spec == nil {
		t.Errorf("Expected mongodb service, got %q", name)
	}

	name, spec = stack.FindByImage("postgres")
	if name != "" || spec != nil {
		t.Errorf("Expected no match, got %q", name)
	}
}
