// Package localstate persists the client's durable key/value state: the
// credential token, the serialized operator record with its denormalized
// convenience copies, the login timestamp, and the cached current expo.
package localstate

import "context"

// Flat string keys, namespaced together so logout can clear them as a unit.
const (
	KeyAuthToken      = "authToken"
	KeyUser           = "user"
	KeyUserID         = "userId"
	KeyUserName       = "userName"
	KeyUserRole       = "userRole"
	KeyUserEmail      = "userEmail"
	KeyUserDepartment = "userDepartment"
	KeyLoginTime      = "loginTime"
	KeyCurrentExpo    = "currentExpo"
)

// Repository stores string values under flat string keys.
type Repository interface {
	// Get returns the stored value, or "" when the key is absent.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// Clear removes every stored key.
	Clear(ctx context.Context) error
	List(ctx context.Context) (map[string]string, error)
}
