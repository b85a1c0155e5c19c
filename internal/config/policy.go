package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"loanflow/internal/core/domain"

	"gopkg.in/yaml.v3"
)

// policyFile is the on-disk shape of POLICY_FILE
type policyFile struct {
	Policies map[string]policyEntry `yaml:"policies"`
}

type policyEntry struct {
	AllowedRoles  []string `yaml:"allowed_roles"`
	AllowSameUser bool     `yaml:"allow_same_user"`
}

// LoadPolicies reads per-operation policy overrides from path.
// An empty path yields no overrides.
func LoadPolicies(path string) (map[domain.Operation]domain.Policy, error) {
	if path == "" {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open policy file: %w", err)
	}
	defer f.Close()

	return DecodePolicies(f)
}

// DecodePolicies parses a policy document
func DecodePolicies(r io.Reader) (map[domain.Operation]domain.Policy, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc policyFile
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode policy file: %w", err)
	}

	known := make(map[domain.Operation]bool)
	for _, op := range domain.Operations() {
		known[op] = true
	}

	out := make(map[domain.Operation]domain.Policy, len(doc.Policies))
	for name, entry := range doc.Policies {
		op := domain.Operation(name)
		if !known[op] {
			return nil, fmt.Errorf("policy file: unknown operation %q", name)
		}

		if len(entry.AllowedRoles) == 0 && !entry.AllowSameUser {
			return nil, fmt.Errorf("policy file: operation %q grants no role and no same-user access", name)
		}

		roles := make([]domain.Role, 0, len(entry.AllowedRoles))
		for _, raw := range entry.AllowedRoles {
			role, err := domain.ParseRole(raw)
			if err != nil {
				return nil, fmt.Errorf("policy file: operation %q: %w", name, err)
			}
			roles = append(roles, role)
		}

		out[op] = domain.Policy{
			AllowedRoles:  domain.NewRoleSet(roles...),
			AllowSameUser: entry.AllowSameUser,
		}
	}
	return out, nil
}
