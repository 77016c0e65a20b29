package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/montoya-e/laked/internal/core/domain"
	"github.com/montoya-e/laked/internal/core/ports"
)

// credentialSuffixes marks the environment variables that must never
// be empty: the database engines reject or misconfigure themselves on
// blank credentials long after deployment.
var credentialSuffixes = []string{
	"_PASSWORD",
	"_USERNAME",
	"_DATABASE",
}

type StackValidator struct {
	registry ports.OciRegistryInterface
}

func NewStackValidator() *StackValidator {
	return &StackValidator{}
}

// NewStackValidatorWithRegistry additionally resolves image references
// through ResolveImages.
func NewStackValidatorWithRegistry(registry ports.OciRegistryInterface) *StackValidator {
	return &StackValidator{registry: registry}
}

// Validate runs every descriptor-level check: port syntax and host
// port collisions across services, credential environment variables,
// volume path syntax and image reference syntax.
func (v *StackValidator) Validate(stack *domain.StackFile) []domain.Finding {
	findings := []domain.Finding{}

	if len(stack.Services) == 0 {
		return append(findings, domain.Finding{
			Severity: domain.SeverityError,
			Message:  "stack file defines no services",
		})
	}

	// deterministic order for reports and tests
	names := make([]string, 0, len(stack.Services))
	for name := range stack.Services {
		names = append(names, name)
	}
	sort.Strings(names)

	claimed := map[int]string{}

	for _, name := range names {
		spec := stack.Services[name]

		findings = append(findings, v.validateImage(name, spec)...)
		findings = append(findings, v.validatePorts(name, spec, claimed)...)
		findings = append(findings, v.validateVolumes(name, spec)...)
		findings = append(findings, v.validateEnvironment(name, spec)...)
	}

	return findings
}

// ResolveImages checks every image reference against the registry.
// Unresolvable images are warnings, not errors: a registry outage
// should not invalidate an otherwise correct descriptor.
func (v *StackValidator) ResolveImages(ctx context.Context, stack *domain.StackFile) []domain.Finding {
	findings := []domain.Finding{}
	if v.registry == nil {
		return findings
	}

	names := make([]string, 0, len(stack.Services))
	for name := range stack.Services {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec := stack.Services[name]
		if strings.TrimSpace(spec.Image) == "" {
			continue
		}
		if _, err := v.registry.Resolve(ctx, spec.Image); err != nil {
			findings = append(findings, domain.Finding{
				Severity: domain.SeverityWarning,
				Service:  name,
				Field:    "image",
				Message:  fmt.Sprintf("image %s did not resolve - %v", spec.Image, err),
			})
		}
	}

	return findings
}

func (v *StackValidator) validateImage(name string, spec *domain.ServiceSpec) []domain.Finding {
	if strings.TrimSpace(spec.Image) == "" {
		return []domain.Finding{{
			Severity: domain.SeverityError,
			Service:  name,
			Field:    "image",
			Message:  "image reference is required",
		}}
	}

	repo, tag := domain.SplitImageRef(spec.Image)
	if repo == "" || tag == "" {
		return []domain.Finding{{
			Severity: domain.SeverityError,
			Service:  name,
			Field:    "image",
			Message:  fmt.Sprintf("invalid image reference %q", spec.Image),
		}}
	}
	return nil
}

func (v *StackValidator) validatePorts(name string, spec *domain.ServiceSpec, claimed map[int]string) []domain.Finding {
	var findings []domain.Finding

	mappings, err := spec.PortMappings()
	if err != nil {
		return append(findings, domain.Finding{
			Severity: domain.SeverityError,
			Service:  name,
			Field:    "ports",
			Message:  err.Error(),
		})
	}

	for _, mapping := range mappings {
		for _, port := range mapping.HostPorts() {
			if owner, taken := claimed[port]; taken {
				findings = append(findings, domain.Finding{
					Severity: domain.SeverityError,
					Service:  name,
					Field:    "ports",
					Message:  fmt.Sprintf("host port %d already claimed by service %s", port, owner),
				})
				continue
			}
			claimed[port] = name
		}
	}

	return findings
}

func (v *StackValidator) validateVolumes(name string, spec *domain.ServiceSpec) []domain.Finding {
	var findings []domain.Finding

	mounts, err := spec.VolumeMounts()
	if err != nil {
		return append(findings, domain.Finding{
			Severity: domain.SeverityError,
			Service:  name,
			Field:    "volumes",
			Message:  err.Error(),
		})
	}

	for _, mount := range mounts {
		if err := validateHostPath(mount.Source); err != nil {
			findings = append(findings, domain.Finding{
				Severity: domain.SeverityError,
				Service:  name,
				Field:    "volumes",
				Message:  err.Error(),
			})
		}
	}

	return findings
}

func (v *StackValidator) validateEnvironment(name string, spec *domain.ServiceSpec) []domain.Finding {
	var findings []domain.Finding

	keys := make([]string, 0, len(spec.Environment))
	for key := range spec.Environment {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if !isCredentialVar(key) {
			continue
		}
		if strings.TrimSpace(spec.Environment[key]) == "" {
			findings = append(findings, domain.Finding{
				Severity: domain.SeverityError,
				Service:  name,
				Field:    "environment",
				Message:  fmt.Sprintf("credential variable %s must be a non-empty string", key),
			})
		}
	}

	return findings
}

func isCredentialVar(key string) bool {
	for _, suffix := range credentialSuffixes {
		if strings.HasSuffix(key, suffix) {
			return true
		}
	}
	return false
}

func validateHostPath(hostPath string) error {
	if strings.TrimSpace(hostPath) == "" {
		return fmt.Errorf("volume host path must not be empty")
	}
	if strings.ContainsRune(hostPath, 0) {
		return fmt.Errorf("volume host path %q contains a NUL byte", hostPath)
	}
	for _, segment := range strings.Split(strings.Trim(hostPath, "/"), "/") {
		if segment == "" && hostPath != "/" {
			return fmt.Errorf("volume host path %q contains an empty segment", hostPath)
		}
	}
	return nil
}
