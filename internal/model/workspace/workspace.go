package workspace

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// иерархия ролей: owner > editor > viewer
var roleLevels = map[Role]int{
	RoleOwner:  3,
	RoleEditor: 2,
	RoleViewer: 1,
}

func (r Role) Valid() bool {
	_, ok := roleLevels[r]
	return ok
}

func (r Role) AtLeast(required Role) bool {
	return roleLevels[r] >= roleLevels[required]
}

func (r Role) CanEdit() bool {
	return r.AtLeast(RoleEditor)
}

type Workspace struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Collaborator struct {
	WorkspaceID uuid.UUID `json:"workspace_id"`
	UserID      uuid.UUID `json:"user_id"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}
