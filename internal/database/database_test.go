package database

import (
	"context"
	"path/filepath"
	"testing"

	"team-task-backend/internal/database/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "app.db?_foreign_keys=on", sqliteDSN("app.db"))
	assert.Equal(t, "app.db?mode=rwc&_foreign_keys=on", sqliteDSN("app.db?mode=rwc"))
	assert.Equal(t, "file::memory:?cache=shared&_foreign_keys=on", sqliteDSN(""))
}

func TestInitializeUnsupportedDriver(t *testing.T) {
	_, err := Initialize("whatever", &Options{Driver: "mysql"})
	assert.Error(t, err)
}

func TestInitializeSQLite(t *testing.T) {
	db, err := Initialize(filepath.Join(t.TempDir(), "test.db"), &Options{Driver: DriverSQLite})
	require.NoError(t, err)
	require.NoError(t, Ping(db))

	ctx := context.Background()
	user := &models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, db.WithContext(ctx).Create(user).Error)
	assert.NotEqual(t, "", user.ID.String())

	team := &models.Team{Name: "Core", CreatedBy: user.ID}
	require.NoError(t, db.WithContext(ctx).Create(team).Error)

	member := &models.TeamMember{TeamID: team.ID, UserID: user.ID, Role: models.TeamRoleOwner}
	require.NoError(t, db.WithContext(ctx).Create(member).Error)
	assert.False(t, member.JoinedAt.IsZero())

	t.Run("duplicate membership is translated", func(t *testing.T) {
		dup := &models.TeamMember{TeamID: team.ID, UserID: user.ID, Role: models.TeamRoleMember}
		err := db.WithContext(ctx).Create(dup).Error
		assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	})

	t.Run("deleting a team cascades to memberships", func(t *testing.T) {
		require.NoError(t, db.WithContext(ctx).Delete(&models.Team{}, "id = ?", team.ID).Error)

		var count int64
		require.NoError(t, db.WithContext(ctx).Model(&models.TeamMember{}).Where("team_id = ?", team.ID).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})
}
