package services

import (
	"fmt"
	"os"
	"path"

	semver "github.com/Masterminds/semver/v3"
	"github.com/montoya-e/laked/internal"
	"github.com/montoya-e/laked/internal/core/domain"
)

type StackService struct {
	processCwd string
	stackPath  string
	stack      *domain.StackFile
	rawYaml    []byte
}

func NewStackService(processCwd string, stackFile string) (*StackService, error) {
	s := &StackService{
		processCwd: processCwd,
		stackPath:  stackFile,
	}
	if !path.IsAbs(stackFile) {
		s.stackPath = path.Join(processCwd, stackFile)
	}

	if _, err := s.Reload(); err != nil {
		return s, err
	}
	return s, nil
}

func (s *StackService) Reload() (*domain.StackFile, error) {
	raw, err := os.ReadFile(s.stackPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrStackFileDoesNotExist
		}
		return nil, fmt.Errorf("failed to read %s - %w", s.stackPath, err)
	}

	stack := &domain.StackFile{}
	if _, err := stack.ParseFile(raw); err != nil {
		return nil, err
	}

	s.stack = stack
	s.rawYaml = raw
	return stack, nil
}

func (s *StackService) GetCurrent() *domain.StackFile {
	return s.stack
}

func (s *StackService) GetRawYaml() []byte {
	return s.rawYaml
}

func (s *StackService) GetPath() string {
	return s.stackPath
}

func (s *StackService) GetCwd() string {
	return s.processCwd
}

// CheckMinVersion enforces the descriptor's x-laked-min-version
// constraint against the running cli version.
func (s *StackService) CheckMinVersion() error {
	if s.stack == nil || s.stack.MinCliVersion == "" {
		return nil
	}

	constraint, err := semver.NewConstraint(">= " + s.stack.MinCliVersion)
	if err != nil {
		return fmt.Errorf("invalid x-laked-min-version %q - %w", s.stack.MinCliVersion, err)
	}

	current, err := semver.NewVersion(internal.Version)
	if err != nil {
		return err
	}

	if !constraint.Check(current) {
		return fmt.Errorf("stack file requires laked >= %s, running %s", s.stack.MinCliVersion, internal.Version)
	}
	return nil
}

// MongoEndpoint derives the datalake connection parameters from the
// descriptor's mongo service: first published host port plus the
// MONGO_INITDB_* environment.
func (s *StackService) MongoEndpoint() (*domain.MongoEndpoint, error) {
	name, spec := s.stack.FindByImage("mongo")
	if spec == nil {
		return nil, fmt.Errorf("no mongo service in stack file")
	}

	port, err := firstHostPort(spec, 27017)
	if err != nil {
		return nil, fmt.Errorf("service %s: %w", name, err)
	}

	return &domain.MongoEndpoint{
		Host:     "127.0.0.1",
		Port:     port,
		Username: spec.Environment["MONGO_INITDB_ROOT_USERNAME"],
		Password: spec.Environment["MONGO_INITDB_ROOT_PASSWORD"],
		Database: spec.Environment["MONGO_INITDB_DATABASE"],
	}, nil
}

// MySQLEndpoint derives the warehouse connection parameters from the
// descriptor's mysql service.
func (s *StackService) MySQLEndpoint() (*domain.MySQLEndpoint, error) {
	name, spec := s.stack.FindByImage("mysql")
	if spec == nil {
		return nil, fmt.Errorf("no mysql service in stack file")
	}

	port, err := firstHostPort(spec, 3306)
	if err != nil {
		return nil, fmt.Errorf("service %s: %w", name, err)
	}

	return &domain.MySQLEndpoint{
		Host:     "127.0.0.1",
		Port:     port,
		Username: "root",
		Password: spec.Environment["MYSQL_ROOT_PASSWORD"],
		Database: spec.Environment["MYSQL_DATABASE"],
	}, nil
}

// firstHostPort picks the host port bound to containerPort, falling
// back to the first published port of the service.
func firstHostPort(spec *domain.ServiceSpec, containerPort int) (int, error) {
	mappings, err := spec.PortMappings()
	if err != nil {
		return 0, err
	}

	var fallback int
	for _, mapping := range mappings {
		if !mapping.Published() {
			continue
		}
		if fallback == 0 {
			fallback = mapping.HostFrom
		}
		if containerPort >= mapping.ContainerFrom && containerPort <= mapping.ContainerTo {
			return mapping.HostFrom + (containerPort - mapping.ContainerFrom), nil
		}
	}
	if fallback == 0 {
		return 0, fmt.Errorf("no published host port for container port %d", containerPort)
	}
	return fallback, nil
}
