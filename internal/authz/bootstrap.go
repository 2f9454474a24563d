package authz

import (
	"fmt"

	"github.com/malcolmm20/farmlink/internal/constants"
)

// RoleSeed is a built-in role definition.
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds is the fixed role matrix. Route policies gate access
// at the router level; ownership checks stay in the services.
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.RoleCustomer,
			Policies: []Policy{
				{Object: "/me", Action: "*"},
				{Object: "/cart", Action: "*"},
				{Object: "/cart/:productId", Action: "*"},
				{Object: "/checkout", Action: "POST"},
				{Object: "/orders", Action: "GET"},
				{Object: "/orders/:id", Action: "GET"},
				{Object: "/reviews", Action: "GET"},
				{Object: "/reviews", Action: "POST"},
				{Object: "/reviews/:id", Action: "GET"},
				{Object: "/reviews/:id", Action: "PUT"},
				{Object: "/reviews/:id", Action: "DELETE"},
				{Object: "/farms/:farmId/reviews", Action: "POST"},
			},
		},
		{
			Role:     constants.RoleFarmer,
			Inherits: []string{constants.RoleCustomer},
			Policies: []Policy{
				{Object: "/products", Action: "POST"},
				{Object: "/products/:id", Action: "PUT"},
				{Object: "/products/:id", Action: "DELETE"},
				{Object: "/orders/:id", Action: "PUT"},
			},
		},
		{
			Role: constants.RoleAdmin,
			Policies: []Policy{
				{Object: "/*", Action: "*"},
			},
		},
	}
}

// BootstrapBuiltinRoles installs the role matrix, tolerating reruns.
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		role := SubjectForRole(seed.Role)

		for _, parent := range seed.Inherits {
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, SubjectForRole(parent)); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}
