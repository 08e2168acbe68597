// Package workflow decides which report status transitions are allowed.
package workflow

import (
	"fmt"
	"os"
	"strings"

	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/models"
	"gopkg.in/yaml.v3"
)

const (
	ModePermissive = "permissive"
	ModeStrict     = "strict"
)

// Policy is an allow-list of status transitions. A permissive policy allows
// every transition between known statuses.
type Policy struct {
	name        string
	permissive  bool
	transitions map[models.ReportStatus]map[models.ReportStatus]bool
}

type policyFile struct {
	Permissive  bool                `yaml:"permissive"`
	Transitions map[string][]string `yaml:"transitions"`
}

// Default allows any status to move to any other, which is how admins have
// always been able to correct a report.
func Default() *Policy {
	return &Policy{name: ModePermissive, permissive: true}
}

// Strict follows the triage order and only allows reopening a resolved report.
func Strict() *Policy {
	p := &Policy{name: ModeStrict, transitions: map[models.ReportStatus]map[models.ReportStatus]bool{}}
	p.allow(models.StatusPending, models.StatusValidated)
	p.allow(models.StatusValidated, models.StatusInProgress)
	p.allow(models.StatusInProgress, models.StatusResolved)
	p.allow(models.StatusResolved, models.StatusInProgress)
	return p
}

// Load resolves a STATUS_POLICY value: "permissive", "strict", or a YAML file path.
func Load(spec string) (*Policy, error) {
	switch strings.ToLower(strings.TrimSpace(spec)) {
	case "", ModePermissive:
		return Default(), nil
	case ModeStrict:
		return Strict(), nil
	}
	return LoadFromFile(spec)
}

func LoadFromFile(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read status policy: %w", err)
	}
	return Parse(data, path)
}

func Parse(data []byte, name string) (*Policy, error) {
	var file policyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse status policy: %w", err)
	}

	if file.Permissive {
		return &Policy{name: name, permissive: true}, nil
	}

	p := &Policy{name: name, transitions: map[models.ReportStatus]map[models.ReportStatus]bool{}}
	for from, targets := range file.Transitions {
		fromStatus := models.ReportStatus(from)
		if !fromStatus.Valid() {
			return nil, fmt.Errorf("status policy %s: unknown status %q", name, from)
		}
		for _, to := range targets {
			toStatus := models.ReportStatus(to)
			if !toStatus.Valid() {
				return nil, fmt.Errorf("status policy %s: unknown status %q", name, to)
			}
			p.allow(fromStatus, toStatus)
		}
	}
	return p, nil
}

func (p *Policy) allow(from, to models.ReportStatus) {
	if p.transitions[from] == nil {
		p.transitions[from] = map[models.ReportStatus]bool{}
	}
	p.transitions[from][to] = true
}

func (p *Policy) Name() string { return p.name }

func (p *Policy) Permissive() bool { return p.permissive }

// Allowed reports whether a report may move from one status to another.
// Setting the status a report already has is always allowed.
func (p *Policy) Allowed(from, to models.ReportStatus) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if p.permissive || from == to {
		return true
	}
	return p.transitions[from][to]
}
