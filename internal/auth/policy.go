package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/vaidashi/backoffice-api/internal/models"
)

// Resources
const (
	ResourceProfile   = "profile"
	ResourceUsers     = "users"
	ResourceCustomers = "customers"
	ResourceProducts  = "products"
	ResourceOrders    = "orders"
	ResourceReviews   = "reviews"
	ResourceDashboard = "dashboard"
)

// Actions
const (
	ActionRead   = "read"
	ActionWrite  = "write"
	ActionDelete = "delete"
)

// memberRole is inherited by every administrator role
const memberRole = "member"

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

var policies = [][]string{
	{string(models.RoleSuperAdmin), "*", "*"},

	{memberRole, ResourceProfile, ActionRead},
	{memberRole, ResourceProfile, ActionWrite},
	{memberRole, ResourceDashboard, ActionRead},
	{memberRole, ResourceCustomers, ActionRead},
	{memberRole, ResourceCustomers, ActionWrite},
	{memberRole, ResourceProducts, ActionRead},
	{memberRole, ResourceOrders, ActionRead},
	{memberRole, ResourceOrders, ActionWrite},
	{memberRole, ResourceReviews, ActionRead},
	{memberRole, ResourceReviews, ActionWrite},

	{string(models.RoleOperationAdmin), ResourceProducts, ActionWrite},
	{string(models.RoleOperationAdmin), ResourceProducts, ActionDelete},
	{string(models.RoleOperationAdmin), ResourceOrders, ActionDelete},
	{string(models.RoleOperationAdmin), ResourceReviews, ActionDelete},
}

// Authorizer decides which role may perform which action on which resource
type Authorizer struct {
	enforcer *casbin.Enforcer
}

// NewAuthorizer builds the role policy
func NewAuthorizer() (*Authorizer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load RBAC model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize RBAC enforcer: %w", err)
	}

	for _, role := range models.Roles {
		if _, err := enforcer.AddGroupingPolicy(string(role), memberRole); err != nil {
			return nil, fmt.Errorf("failed to assign role %s: %w", role, err)
		}
	}
	for _, p := range policies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, fmt.Errorf("failed to add policy %v: %w", p, err)
		}
	}

	return &Authorizer{enforcer: enforcer}, nil
}

// Allowed checks a role against the policy
func (a *Authorizer) Allowed(role models.Role, resource, action string) (bool, error) {
	if !role.Valid() {
		return false, nil
	}
	ok, err := a.enforcer.Enforce(string(role), resource, action)
	if err != nil {
		return false, fmt.Errorf("RBAC permission check failed: %w", err)
	}
	return ok, nil
}
