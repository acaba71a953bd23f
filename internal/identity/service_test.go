package identity

import (
	"testing"

	"github.com/anhnphe171575/SepCapstone-sub005/pkg/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(&chat.User{}, &chat.Project{}, &chat.Team{}, &chat.TeamMember{})
	if err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func seedTeam(t *testing.T, db *gorm.DB) (member, supervisor, outsider *chat.User, team *chat.Team) {
	member = &chat.User{FullName: "Member One", Email: "member@fpt.edu.vn"}
	supervisor = &chat.User{FullName: "Supervisor", Email: "supervisor@fpt.edu.vn"}
	outsider = &chat.User{FullName: "Outsider", Email: "outsider@fpt.edu.vn"}
	require.NoError(t, db.Create(member).Error)
	require.NoError(t, db.Create(supervisor).Error)
	require.NoError(t, db.Create(outsider).Error)

	project := &chat.Project{Name: "Capstone Tracker", SupervisorID: &supervisor.ID}
	require.NoError(t, db.Create(project).Error)

	team = &chat.Team{Name: "Team Alpha", ProjectID: &project.ID}
	require.NoError(t, db.Create(team).Error)
	require.NoError(t, db.Create(&chat.TeamMember{TeamID: team.ID, UserID: member.ID}).Error)

	return member, supervisor, outsider, team
}

func TestIdentityService_GetProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIdentityService(db)

	user := &chat.User{FullName: "Nguyen Van A", Email: "a@fpt.edu.vn", AvatarURL: "https://cdn/avatar.png"}
	require.NoError(t, db.Create(user).Error)

	got, err := svc.GetProfile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nguyen Van A", got.FullName)
	assert.Equal(t, "a@fpt.edu.vn", got.Email)

	_, err = svc.GetProfile("missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestIdentityService_IsTeamParticipant_Member(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIdentityService(db)
	member, _, _, team := seedTeam(t, db)

	ok, err := svc.IsTeamParticipant(member.ID, team.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIdentityService_IsTeamParticipant_Supervisor(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIdentityService(db)
	_, supervisor, _, team := seedTeam(t, db)

	ok, err := svc.IsTeamParticipant(supervisor.ID, team.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIdentityService_IsTeamParticipant_Outsider(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIdentityService(db)
	_, _, outsider, team := seedTeam(t, db)

	ok, err := svc.IsTeamParticipant(outsider.ID, team.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIdentityService_IsTeamParticipant_MissingTeam(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIdentityService(db)

	ok, err := svc.IsTeamParticipant("anyone", "no-such-team")
	assert.ErrorIs(t, err, ErrTeamNotFound)
	assert.False(t, ok)
}

func TestIdentityService_IsTeamParticipant_NoProject(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIdentityService(db)

	user := &chat.User{FullName: "Solo", Email: "solo@fpt.edu.vn"}
	require.NoError(t, db.Create(user).Error)
	team := &chat.Team{Name: "Orphan Team"}
	require.NoError(t, db.Create(team).Error)

	ok, err := svc.IsTeamParticipant(user.ID, team.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIdentityService_MembershipChangeTakesEffect(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIdentityService(db)
	member, _, _, team := seedTeam(t, db)

	ok, err := svc.IsTeamParticipant(member.ID, team.ID)
	require.NoError(t, err)
	require.True(t, ok)

	// Membership is re-fetched on every check, so a removal is visible
	// immediately.
	require.NoError(t, db.Where("team_id = ? AND user_id = ?", team.ID, member.ID).Delete(&chat.TeamMember{}).Error)

	ok, err = svc.IsTeamParticipant(member.ID, team.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
