package authz

import (
	"fmt"
	"testing"
	"time"

	"github.com/malcolmm20/farmlink/internal/constants"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:authz_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap roles failed: %v", err)
	}
	return svc
}

func enforce(t *testing.T, svc *Service, role, obj, act string) bool {
	t.Helper()
	ok, err := svc.EnforceRole(role, obj, act)
	if err != nil {
		t.Fatalf("enforce %s %s %s failed: %v", role, obj, act, err)
	}
	return ok
}

func TestCustomerPolicies(t *testing.T) {
	svc := setupAuthzTest(t)
	if !enforce(t, svc, constants.RoleCustomer, "/checkout", "POST") {
		t.Fatalf("expected customer to checkout")
	}
	if !enforce(t, svc, constants.RoleCustomer, "/orders/:id", "GET") {
		t.Fatalf("expected customer to read own orders")
	}
	if enforce(t, svc, constants.RoleCustomer, "/products", "POST") {
		t.Fatalf("expected customer to be denied product creation")
	}
	if enforce(t, svc, constants.RoleCustomer, "/users", "GET") {
		t.Fatalf("expected customer to be denied user administration")
	}
}

func TestFarmerInheritsCustomer(t *testing.T) {
	svc := setupAuthzTest(t)
	if !enforce(t, svc, constants.RoleFarmer, "/checkout", "POST") {
		t.Fatalf("expected farmer to inherit customer checkout")
	}
	if !enforce(t, svc, constants.RoleFarmer, "/products", "POST") {
		t.Fatalf("expected farmer to create products")
	}
	if !enforce(t, svc, constants.RoleFarmer, "/products/:id", "DELETE") {
		t.Fatalf("expected farmer to delete products")
	}
	if enforce(t, svc, constants.RoleFarmer, "/users/:id", "DELETE") {
		t.Fatalf("expected farmer to be denied user administration")
	}
}

func TestAdminWildcard(t *testing.T) {
	svc := setupAuthzTest(t)
	if !enforce(t, svc, constants.RoleAdmin, "/users/:id", "DELETE") {
		t.Fatalf("expected admin to manage users")
	}
	if !enforce(t, svc, constants.RoleAdmin, "/admin/orders", "GET") {
		t.Fatalf("expected admin to list all orders")
	}
}

func TestNormalizeObject(t *testing.T) {
	if got := NormalizeObject("/api/products/:id"); got != "/products/:id" {
		t.Fatalf("expected /products/:id, got %q", got)
	}
	if got := NormalizeObject("/health"); got != "/health" {
		t.Fatalf("expected /health, got %q", got)
	}
	if got := NormalizeObject(""); got != "/" {
		t.Fatalf("expected /, got %q", got)
	}
}
