package workspace_test

import (
	"testing"

	"workspace-service/internal/model/workspace"

	"github.com/stretchr/testify/assert"
)

func TestRoleHierarchy(t *testing.T) {
	assert.True(t, workspace.RoleOwner.AtLeast(workspace.RoleViewer))
	assert.True(t, workspace.RoleOwner.AtLeast(workspace.RoleEditor))
	assert.True(t, workspace.RoleEditor.AtLeast(workspace.RoleViewer))
	assert.False(t, workspace.RoleViewer.AtLeast(workspace.RoleEditor))
	assert.False(t, workspace.RoleEditor.AtLeast(workspace.RoleOwner))
}

func TestRoleCanEdit(t *testing.T) {
	assert.True(t, workspace.RoleOwner.CanEdit())
	assert.True(t, workspace.RoleEditor.CanEdit())
	assert.False(t, workspace.RoleViewer.CanEdit())
}

func TestRoleValid(t *testing.T) {
	assert.True(t, workspace.RoleOwner.Valid())
	assert.True(t, workspace.RoleEditor.Valid())
	assert.True(t, workspace.RoleViewer.Valid())
	assert.False(t, workspace.Role("admin").Valid())
	assert.False(t, workspace.Role("").Valid())
}
