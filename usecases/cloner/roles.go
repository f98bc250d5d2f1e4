package cloner

import (
	"context"
	"log"

	"guildcloner/models"
)

// CloneRoles recreates every source role in the destination. The roles list
// arrives position-ascending with the default role first; iteration runs in
// reverse so the highest role is created first, since each new role is
// inserted at the bottom and pushes earlier ones up. The implicit default
// role is edited in place on the destination rather than created.
func (u *ClonerUseCase) CloneRoles(ctx context.Context) error {
	delay := u.cfg.CloneSettings.Delay

	for i := len(u.fetched.Roles) - 1; i >= 0; i-- {
		role := u.fetched.Roles[i]
		params := models.RoleParams{
			Name:        role.Name,
			Color:       role.Color,
			Hoist:       role.Hoist,
			Mentionable: role.Mentionable,
			Permissions: role.Permissions,
		}

		if role.IsEveryone {
			if err := u.client.EditEveryoneRole(ctx, u.dest.ID, params); err != nil {
				log.Printf("⚠️ Failed to edit default role: %v", err)
			} else {
				// The default role's id equals the guild id on both sides
				u.mappings.AddRole(role.ID, models.EntityRef{ID: u.dest.ID, Name: role.Name})
				log.Printf("✅ Processed default role")
			}
			u.wait(ctx, delay)
			continue
		}

		created, err := u.client.CreateRole(ctx, u.dest.ID, params)
		if err != nil {
			log.Printf("⚠️ Failed to create role %s: %v", role.Name, err)
			u.wait(ctx, delay)
			continue
		}
		u.mappings.AddRole(role.ID, models.EntityRef{ID: created.ID, Name: created.Name})
		log.Printf("✅ Created role: %s", created.Name)
		u.wait(ctx, delay)
	}

	if got, want := u.mappings.RoleCount(), len(u.fetched.Roles); got < want {
		log.Printf("⚠️ Only %d of %d roles were created", got, want)
	}
	return nil
}
