package users

import "time"

// RoleType represents a user's permission tier within the bank.
type RoleType string

const (
	RoleCustomer RoleType = "customer" // Can operate on their own accounts only
	RoleTeller   RoleType = "teller"   // Can operate on any account and open new ones
	RoleManager  RoleType = "manager"  // Teller permissions plus account deletion
	RoleAdmin    RoleType = "admin"    // Passes every permission check
)

// Permission names checked by the banking-operations layer.
const (
	PermViewOwnAccount = "view_own_account"
	PermDepositOwn     = "deposit_own"
	PermWithdrawOwn    = "withdraw_own"
	PermViewAnyAccount = "view_any_account"
	PermDepositAny     = "deposit_any"
	PermWithdrawAny    = "withdraw_any"
	PermCreateAccount  = "create_account"
	PermDeleteAccount  = "delete_account"
)

// rolePermissions is the fixed role to permission-set table. RoleAdmin is
// intentionally absent: it satisfies every permission check.
var rolePermissions = map[RoleType][]string{
	RoleCustomer: {PermViewOwnAccount, PermDepositOwn, PermWithdrawOwn},
	RoleTeller:   {PermViewAnyAccount, PermDepositAny, PermWithdrawAny, PermCreateAccount},
	RoleManager:  {PermViewAnyAccount, PermDepositAny, PermWithdrawAny, PermCreateAccount, PermDeleteAccount},
}

// User holds the identity metadata attached to a registration. It carries no
// secret material; the password hash lives with the credential store.
type User struct {
	ID         string    `json:"id,omitempty"`          // Unique, case-normalized handle
	Name       string    `json:"name,omitempty"`        // Display name
	Role       RoleType  `json:"role,omitempty"`        // Permission tier
	DateJoined time.Time `json:"date_joined,omitempty"` // When the user registered
}

// Valid reports whether the role is one of the closed enumeration.
func (r RoleType) Valid() bool {
	switch r {
	case RoleCustomer, RoleTeller, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// HasPermission checks the role's fixed permission set for the named action.
// RoleAdmin always passes.
func (r RoleType) HasPermission(permission string) bool {
	if r == RoleAdmin {
		return true
	}
	for _, p := range rolePermissions[r] {
		if p == permission {
			return true
		}
	}
	return false
}

// CanAccessAccount reports whether an actor with this role may touch the
// account owned by accountOwnerID. Staff roles may touch any account;
// everyone else only their own.
func (r RoleType) CanAccessAccount(actorID, accountOwnerID string) bool {
	switch r {
	case RoleTeller, RoleManager, RoleAdmin:
		return true
	}
	return actorID == accountOwnerID
}
