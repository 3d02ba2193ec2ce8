package core

import "context"

// RoleService is a thin read/write path over the membership table. Both
// mutations are idempotent; granting a held role or revoking an absent one
// is a no-op. Changes take effect on the next authentication or session
// validation; live sessions are not proactively invalidated.
type RoleService struct {
	roles RoleStore
	audit Auditor
}

func NewRoleService(roles RoleStore, audit Auditor) *RoleService {
	return &RoleService{roles: roles, audit: audit}
}

func (s *RoleService) RolesFor(ctx context.Context, userID string) ([]string, error) {
	return s.roles.RolesFor(ctx, userID)
}

func (s *RoleService) AssignRole(ctx context.Context, userID string, roleID int, assignedBy string) error {
	if err := s.roles.AssignRole(ctx, userID, roleID, assignedBy); err != nil {
		return err
	}
	s.audit.Record(ctx, AuditEvent{
		UserID: userID, Action: ActionRoleGranted,
		ResourceType: "role",
		Details:      map[string]any{"role_id": roleID, "assigned_by": assignedBy},
	})
	return nil
}

func (s *RoleService) RemoveRole(ctx context.Context, userID string, roleID int) error {
	if err := s.roles.RemoveRole(ctx, userID, roleID); err != nil {
		return err
	}
	s.audit.Record(ctx, AuditEvent{
		UserID: userID, Action: ActionRoleRevoked,
		ResourceType: "role",
		Details:      map[string]any{"role_id": roleID},
	})
	return nil
}
