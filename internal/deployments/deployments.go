// Package deployments computes the hosted endpoints for projects that
// declare deployable commands, and writes the listing the deploy tooling
// consumes.
package deployments

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/gallerybuilder/internal/catalog"
	"git.home.luguber.info/inful/gallerybuilder/internal/config"
	gerrors "git.home.luguber.info/inful/gallerybuilder/internal/errors"
)

// deploymentNamespace seeds the name UUIDs so the same project and command
// always map to the same deployment name across runs.
var deploymentNamespace = uuid.MustParse("8f3c1d96-52da-4a31-9d2c-6cf0a7f9b6e1")

// Endpoint is one deployable command of a project, with its resolved
// hostname.
type Endpoint struct {
	Name            string `yaml:"name"`
	Project         string `yaml:"project"`
	Command         string `yaml:"command"`
	Endpoint        string `yaml:"endpoint"`
	URL             string `yaml:"url"`
	ResourceProfile string `yaml:"resource_profile,omitempty"`
	AutoDeploy      bool   `yaml:"auto_deploy"`
}

type listing struct {
	Deployments []Endpoint `yaml:"deployments"`
}

// List computes endpoints in catalog order, commands in declaration order.
// The dashboard command owns the bare project hostname; every other command
// gets a suffixed one.
func List(cfg *config.Config, cat *catalog.Catalog) []Endpoint {
	var out []Endpoint
	for _, p := range cat.Projects {
		server := p.ServerName()
		for _, d := range p.Deployments {
			ep := endpointFor(server, d.Command)
			out = append(out, Endpoint{
				Name:            deploymentName(p.Path, d.Command),
				Project:         p.Path,
				Command:         d.Command,
				Endpoint:        ep,
				URL:             fmt.Sprintf("https://%s.%s", ep, cfg.Deployments.Host),
				ResourceProfile: d.ResourceProfile,
				AutoDeploy:      d.ShouldAutoDeploy(),
			})
		}
	}
	return out
}

func endpointFor(server, command string) string {
	switch command {
	case "dashboard":
		return server
	case "notebook":
		return server + "-notebook"
	default:
		return server + "-" + command
	}
}

func deploymentName(project, command string) string {
	return uuid.NewSHA1(deploymentNamespace, []byte(project+"/"+command)).String()
}

// Write marshals the listing as YAML.
func Write(outPath string, endpoints []Endpoint) error {
	data, err := yaml.Marshal(listing{Deployments: endpoints})
	if err != nil {
		return gerrors.InternalError("marshal deployment listing", err)
	}
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return gerrors.WriteFailed(outPath, err)
		}
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return gerrors.WriteFailed(outPath, err)
	}
	return nil
}
