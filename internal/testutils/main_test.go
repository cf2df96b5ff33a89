package testutils

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"testing"

	"team-task-backend/internal/database/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain makes sure a shared Postgres container started by any test in
// this package is purged, including on Ctrl+C.
func TestMain(m *testing.M) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("interrupted, purging test containers")
		CleanupSharedContainer()
		os.Exit(1)
	}()

	code := m.Run()
	CleanupSharedContainer()
	os.Exit(code)
}

func TestFactoriesPersistOnSQLite(t *testing.T) {
	db := SetupSQLiteDB(t)
	fs := NewFactorySet()

	owner, team, membership := fs.CreateTeamWithOwner("Eng")
	require.NoError(t, db.Create(owner).Error)
	require.NoError(t, db.Create(team).Error)
	require.NoError(t, db.Create(membership).Error)

	task := fs.Task.WithAssignee(team.ID, owner.ID, owner.ID)
	require.NoError(t, db.Create(task).Error)

	var stored models.Task
	require.NoError(t, db.First(&stored, "id = ?", task.ID).Error)
	assert.Equal(t, models.TaskStatusTodo, stored.Status)
	assert.Equal(t, owner.ID, *stored.AssignedTo)

	// usernames are unique per factory call
	assert.NotEqual(t, fs.User.Create().Username, fs.User.Create().Username)
}
