package identity

import (
	"errors"

	"github.com/anhnphe171575/SepCapstone-sub005/pkg/chat"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrTeamNotFound = errors.New("team not found")
)

// IdentityService resolves user profiles and team membership from the
// backing store. Lookups are never cached here; permission changes take
// effect on the next check.
type IdentityService struct {
	db *gorm.DB
}

func NewIdentityService(db *gorm.DB) *IdentityService {
	return &IdentityService{db: db}
}

func (s *IdentityService) GetProfile(userID string) (*chat.User, error) {
	var user chat.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetTeam loads a team with its member list and the owning project's
// supervisor reference.
func (s *IdentityService) GetTeam(teamID string) (*chat.Team, error) {
	var team chat.Team
	err := s.db.Preload("Members").Preload("Project").First(&team, "id = ?", teamID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}

// IsTeamParticipant reports whether the user may act within the team's
// channel: a listed member, or the supervisor of the team's project.
// Fails closed on any lookup error.
func (s *IdentityService) IsTeamParticipant(userID, teamID string) (bool, error) {
	team, err := s.GetTeam(teamID)
	if err != nil {
		return false, err
	}

	for _, m := range team.Members {
		if m.UserID == userID {
			return true, nil
		}
	}

	if team.Project != nil && team.Project.SupervisorID != nil && *team.Project.SupervisorID == userID {
		return true, nil
	}

	return false, nil
}
