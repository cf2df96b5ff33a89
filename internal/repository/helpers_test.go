//go:build integration
// +build integration

package repository

import (
	"context"

	"team-task-backend/internal/database/models"
	"team-task-backend/internal/testutils"

	"gorm.io/gorm"
)

// fixtures persists factory-built rows directly through GORM
type fixtures struct {
	db        *gorm.DB
	factories *testutils.FactorySet
}

func (f *fixtures) user(ctx context.Context) *models.User {
	user := f.factories.User.Create()
	if err := f.db.WithContext(ctx).Create(user).Error; err != nil {
		panic(err)
	}
	return user
}

// team creates a team and its owner membership, returning both the team and its owner
func (f *fixtures) team(ctx context.Context, name string) (*models.Team, *models.User) {
	owner := f.user(ctx)
	team := f.factories.Team.WithName(name, owner.ID)
	if err := f.db.WithContext(ctx).Create(team).Error; err != nil {
		panic(err)
	}
	f.member(ctx, team, owner, models.TeamRoleOwner)
	return team, owner
}

func (f *fixtures) member(ctx context.Context, team *models.Team, user *models.User, role models.TeamRole) *models.TeamMember {
	membership := f.factories.Membership.Create(team.ID, user.ID, role)
	if err := f.db.WithContext(ctx).Create(membership).Error; err != nil {
		panic(err)
	}
	return membership
}
