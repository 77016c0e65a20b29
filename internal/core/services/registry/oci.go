package registry

import (
	"context"
	"fmt"
	"strings"

	logger "github.com/montoya-e/laked/internal/core/services/log"
	v1 "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/retry"

	"github.com/montoya-e/laked/internal/core/domain"
)

type OciClient struct {
	host     string
	username string
	password string
}

func NewOciClient(host string, username string, password string) *OciClient {
	return &OciClient{
		host:     host,
		username: username,
		password: password,
	}
}

func (c *OciClient) GetRepo(repoUrl string) (*remote.Repository, error) {

	repo, err := remote.NewRepository(repoUrl)

	if err != nil {
		return nil, err
	}

	if c.host == "" {
		return nil, fmt.Errorf("registry host must be set")
	}

	if c.username == "" || c.password == "" {
		logger.Log().Debug("No registry credentials found. Resolving anonymously")
	} else {
		repo.Client = &auth.Client{
			Client: retry.DefaultClient,
			Cache:  auth.DefaultCache,
			Credential: auth.StaticCredential(c.host, auth.Credential{
				Username: c.username,
				Password: c.password,
			}),
		}
	}

	return repo, nil
}

// Resolve checks that an image reference from the stack descriptor
// points at a retrievable artifact and returns its manifest
// descriptor. Bare references like "mysql:latest" are qualified
// against the configured registry host and the library namespace.
func (c *OciClient) Resolve(ctx context.Context, imageRef string) (v1.Descriptor, error) {
	repoName, tag := domain.SplitImageRef(imageRef)

	repoInstance, err := c.GetRepo(c.qualify(repoName))
	if err != nil {
		return v1.Descriptor{}, err
	}

	descriptor, err := repoInstance.Resolve(ctx, tag)
	if err != nil {
		return v1.Descriptor{}, fmt.Errorf("failed to resolve %s - %w", imageRef, err)
	}
	return descriptor, nil
}

func (c *OciClient) qualify(repoName string) string {
	if strings.Contains(repoName, ".") || strings.Contains(repoName, ":") {
		// already carries a registry host
		return repoName
	}
	if !strings.Contains(repoName, "/") {
		repoName = "library/" + repoName
	}
	return c.host + "/" + repoName
}
