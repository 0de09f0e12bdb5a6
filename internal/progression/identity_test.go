package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillkart_backend/internal/model"
)

func strPtr(s string) *string { return &s }

func TestDisplayName(t *testing.T) {
	cases := []struct {
		name string
		user model.User
		want string
	}{
		{"display name wins", model.User{DisplayName: strPtr("Ada"), FullName: "Ada Lovelace", Email: "ada@x.io"}, "Ada"},
		{"blank display name", model.User{DisplayName: strPtr("  "), FullName: "Ada Lovelace", Email: "ada@x.io"}, "Ada Lovelace"},
		{"email prefix", model.User{Email: "grace@navy.mil"}, "grace"},
		{"nothing usable", model.User{Email: "@broken"}, "User"},
		{"empty record", model.User{}, "User"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DisplayName(tc.user))
		})
	}
}

func TestValidateProfile(t *testing.T) {
	p := &model.UserProfile{
		UserID:          "u1",
		Interests:       []string{" Web-Dev", "cloud", "web-dev", ""},
		PrimaryGoal:     model.GoalHobby,
		WeeklyHours:     10,
		AdditionalGoals: strPtr(" "),
	}
	require.NoError(t, ValidateProfile(p))
	assert.Equal(t, []string{"web-dev", "cloud"}, []string(p.Interests))
	assert.Nil(t, p.AdditionalGoals)

	bad := []model.UserProfile{
		{UserID: "u1", Interests: []string{}, PrimaryGoal: model.GoalHobby, WeeklyHours: 5},
		{UserID: "u1", Interests: []string{"a"}, PrimaryGoal: "fame", WeeklyHours: 5},
		{UserID: "u1", Interests: []string{"a"}, PrimaryGoal: model.GoalAcademic, WeeklyHours: 0},
		{UserID: "u1", Interests: []string{"a"}, PrimaryGoal: model.GoalAcademic, WeeklyHours: 41},
		{Interests: []string{"a"}, PrimaryGoal: model.GoalAcademic, WeeklyHours: 5},
	}
	for i := range bad {
		assert.ErrorIs(t, ValidateProfile(&bad[i]), ErrValidation, "case %d", i)
	}
}
