package domain

// UserRole enumerates the roles an account can hold.
type UserRole string

const (
	RoleCustomer        UserRole = "customer"
	RoleSupport         UserRole = "support"
	RoleWarehouseWorker UserRole = "warehouse_worker"
	RoleCourier         UserRole = "courier"
	RoleManager         UserRole = "manager"
)

// User is the domain model for shop accounts. Email is nil until the
// confirmation handshake completes; uniqueness of a confirmed email is
// enforced by the storage layer.
type User struct {
	UUID         string
	FullName     string
	Email        *string
	PasswordHash string
	Role         UserRole
}
