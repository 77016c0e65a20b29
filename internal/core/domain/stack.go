package domain

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

var ErrStackFileDoesNotExist = errors.New("stack file does not exist")

// StackFile is the declarative descriptor for the platform's backing
// services. It is the compose file the deployment runtime consumes; laked
// only reads it, it never materializes containers from it.
type StackFile struct {
	Version       string                  `yaml:"version" json:"version"`
	MinCliVersion string                  `yaml:"x-laked-min-version" json:"x_laked_min_version"`
	Services      map[string]*ServiceSpec `yaml:"services" json:"services"`
} // @name StackFile

// ServiceSpec is a flat record describing one containerized service:
// image reference, port bindings, volume bindings and environment.
type ServiceSpec struct {
	Image         string      `yaml:"image" json:"image"`
	ContainerName string      `yaml:"container_name" json:"container_name"`
	Restart       string      `yaml:"restart" json:"restart"`
	Ports         []string    `yaml:"ports" json:"ports"`
	Volumes       []string    `yaml:"volumes" json:"volumes"`
	Environment   Environment `yaml:"environment" json:"environment"`
} // @name ServiceSpec

// Environment accepts both compose forms, the mapping form
// (KEY: value) and the list form (- KEY=value).
type Environment map[string]string

func (e *Environment) UnmarshalYAML(unmarshal func(interface{}) error) error {
	mapForm := map[string]string{}
	if err := unmarshal(&mapForm); err == nil {
		*e = mapForm
		return nil
	}

	var listForm []string
	if err := unmarshal(&listForm); err != nil {
		return fmt.Errorf("environment must be a mapping or a list of KEY=value entries")
	}

	out := make(map[string]string, len(listForm))
	for _, entry := range listForm {
		key, value, _ := strings.Cut(entry, "=")
		if key == "" {
			return fmt.Errorf("invalid environment entry %q", entry)
		}
		out[key] = value
	}
	*e = out
	return nil
}

func NewStackFile(path string) (*StackFile, error) {
	yamlFile, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrStackFileDoesNotExist
		}
		return nil, fmt.Errorf("failed to open %s - %w", path, err)
	}
	defer yamlFile.Close()

	file, err := io.ReadAll(yamlFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s - %w", path, err)
	}

	stack := StackFile{}
	if _, err = stack.ParseFile(file); err != nil {
		return nil, err
	}
	return &stack, nil
}

func (sf *StackFile) ParseFile(file []byte) (*StackFile, error) {
	valueReplaced := os.ExpandEnv(string(file))

	var parsed StackFile
	if err := yaml.Unmarshal([]byte(valueReplaced), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse stack file - %w", err)
	}

	*sf = parsed
	return sf, nil
}

// Service returns the spec for one service by its key in the services map.
func (sf *StackFile) Service(name string) (*ServiceSpec, error) {
	spec, ok := sf.Services[name]
	if !ok {
		return nil, fmt.Errorf("service %s not defined in stack file", name)
	}
	return spec, nil
}

// FindByImage returns the first service whose image repository basename
// matches repo, e.g. FindByImage("mysql") matches "mysql:latest".
func (sf *StackFile) FindByImage(repo string) (string, *ServiceSpec) {
	for name, spec := range sf.Services {
		specRepo, _ := SplitImageRef(spec.Image)
		if specRepo == repo || strings.HasSuffix(specRepo, "/"+repo) {
			return name, spec
		}
	}
	return "", nil
}

// HostPorts returns every published host port of every service,
// ranges expanded, keyed back to the service name.
func (sf *StackFile) HostPorts() (map[int]string, error) {
	out := map[int]string{}
	for name, spec := range sf.Services {
		mappings, err := spec.PortMappings()
		if err != nil {
			return nil, fmt.Errorf("service %s: %w", name, err)
		}
		for _, mapping := range mappings {
			for _, port := range mapping.HostPorts() {
				out[port] = name
			}
		}
	}
	return out, nil
}

func (s *ServiceSpec) PortMappings() ([]*PortMapping, error) {
	mappings := make([]*PortMapping, 0, len(s.Ports))
	for _, raw := range s.Ports {
		mapping, err := ParsePortMapping(raw)
		if err != nil {
			return nil, err
		}
		mappings = append(mappings, mapping)
	}
	return mappings, nil
}

func (s *ServiceSpec) VolumeMounts() ([]*VolumeMount, error) {
	mounts := make([]*VolumeMount, 0, len(s.Volumes))
	for _, raw := range s.Volumes {
		mount, err := ParseVolumeMount(raw)
		if err != nil {
			return nil, err
		}
		mounts = append(mounts, mount)
	}
	return mounts, nil
}

// PortMapping is the parsed form of a compose port string. An unpublished
// port (no host side) has zero host bounds.
type PortMapping struct {
	HostIP        string `json:"host_ip,omitempty"`
	HostFrom      int    `json:"host_from"`
	HostTo        int    `json:"host_to"`
	ContainerFrom int    `json:"container_from"`
	ContainerTo   int    `json:"container_to"`
	Protocol      string `json:"protocol"`
} // @name PortMapping

func (p *PortMapping) Published() bool {
	return p.HostFrom != 0
}

func (p *PortMapping) HostPorts() []int {
	if !p.Published() {
		return nil
	}
	ports := make([]int, 0, p.HostTo-p.HostFrom+1)
	for port := p.HostFrom; port <= p.HostTo; port++ {
		ports = append(ports, port)
	}
	return ports
}

func (p *PortMapping) String() string {
	host := formatPortRange(p.HostFrom, p.HostTo)
	container := formatPortRange(p.ContainerFrom, p.ContainerTo)
	if !p.Published() {
		return container
	}
	if p.HostIP != "" {
		return p.HostIP + ":" + host + ":" + container
	}
	return host + ":" + container
}

func formatPortRange(from, to int) string {
	if from == to {
		return strconv.Itoa(from)
	}
	return fmt.Sprintf("%d-%d", from, to)
}

// ParsePortMapping parses compose port strings like "3306",
// "8083:3306", "27017-27019:27017-27019" and "127.0.0.1:8083:3306",
// with an optional "/tcp" or "/udp" suffix.
func ParsePortMapping(raw string) (*PortMapping, error) {
	spec := strings.TrimSpace(raw)
	if spec == "" {
		return nil, fmt.Errorf("empty port mapping")
	}

	protocol := "tcp"
	if body, proto, found := strings.Cut(spec, "/"); found {
		switch proto {
		case "tcp", "udp":
			protocol = proto
		default:
			return nil, fmt.Errorf("invalid protocol %q in port mapping %q", proto, raw)
		}
		spec = body
	}

	parts := strings.Split(spec, ":")

	mapping := &PortMapping{Protocol: protocol}
	var hostRange, containerRange string

	switch len(parts) {
	case 1:
		containerRange = parts[0]
	case 2:
		hostRange, containerRange = parts[0], parts[1]
	case 3:
		mapping.HostIP = parts[0]
		hostRange, containerRange = parts[1], parts[2]
	default:
		return nil, fmt.Errorf("invalid port mapping %q", raw)
	}

	var err error
	if mapping.ContainerFrom, mapping.ContainerTo, err = parsePortRange(containerRange); err != nil {
		return nil, fmt.Errorf("invalid port mapping %q - %w", raw, err)
	}

	if hostRange != "" {
		if mapping.HostFrom, mapping.HostTo, err = parsePortRange(hostRange); err != nil {
			return nil, fmt.Errorf("invalid port mapping %q - %w", raw, err)
		}
		hostLen := mapping.HostTo - mapping.HostFrom
		containerLen := mapping.ContainerTo - mapping.ContainerFrom
		if hostLen != containerLen {
			return nil, fmt.Errorf("port mapping %q - host and container ranges differ in length", raw)
		}
	}

	return mapping, nil
}

func parsePortRange(raw string) (int, int, error) {
	fromRaw, toRaw, isRange := strings.Cut(raw, "-")

	from, err := parsePort(fromRaw)
	if err != nil {
		return 0, 0, err
	}
	if !isRange {
		return from, from, nil
	}

	to, err := parsePort(toRaw)
	if err != nil {
		return 0, 0, err
	}
	if to < from {
		return 0, 0, fmt.Errorf("port range %q ends before it starts", raw)
	}
	return from, to, nil
}

func parsePort(raw string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("port %q is not a number", raw)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port %d out of range", port)
	}
	return port, nil
}

// VolumeMount is the parsed form of a compose volume string.
type VolumeMount struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Mode   string `json:"mode"`
} // @name VolumeMount

// ParseVolumeMount parses "hostPath:containerPath" with an optional
// ":ro" / ":rw" access mode. Mode defaults to rw.
func ParseVolumeMount(raw string) (*VolumeMount, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")

	mount := &VolumeMount{Mode: "rw"}
	switch len(parts) {
	case 2:
		mount.Source, mount.Target = parts[0], parts[1]
	case 3:
		mount.Source, mount.Target = parts[0], parts[1]
		mount.Mode = parts[2]
	default:
		return nil, fmt.Errorf("invalid volume mapping %q", raw)
	}

	if mount.Source == "" || mount.Target == "" {
		return nil, fmt.Errorf("invalid volume mapping %q", raw)
	}
	if mount.Mode != "rw" && mount.Mode != "ro" {
		return nil, fmt.Errorf("invalid access mode %q in volume mapping %q", mount.Mode, raw)
	}
	return mount, nil
}

// SplitImageRef splits an image reference into repository and tag.
// A missing tag defaults to latest. The repository may carry a
// registry host with a port, so only a colon after the last slash
// counts as the tag separator.
func SplitImageRef(ref string) (string, string) {
	slash := strings.LastIndex(ref, "/")
	colon := strings.LastIndex(ref, ":")
	if colon > slash {
		return ref[:colon], ref[colon+1:]
	}
	return ref, "latest"
}
