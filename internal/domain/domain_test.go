package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		desc     string
		id       string
		username string
		wantErr  error
	}{
		{desc: "valid", id: "u1", username: "risa"},
		{desc: "empty id", id: "  ", username: "risa", wantErr: ErrUserIDEmpty},
		{desc: "long id", id: strings.Repeat("x", MaxUserIDLen+1), username: "risa", wantErr: ErrUserIDTooLong},
		{desc: "empty username", id: "u1", username: "", wantErr: ErrUsernameEmpty},
		{desc: "long username", id: "u1", username: strings.Repeat("x", MaxUsernameLen+1), wantErr: ErrUsernameTooLong},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			u, err := NewUser(tc.id, tc.username)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, u)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, UserID(tc.id), u.ID)
			assert.Equal(t, tc.username, u.Username)
		})
	}
}

func TestRoomStatus_Unmarshal(t *testing.T) {
	t.Parallel()

	var cfg RoomConfig
	err := json.Unmarshal([]byte(`{"_id":"r1","codeword":"ABCD","hostId":"u1","status":"ACTIVE","settings":{"maxPlayers":4,"numberOfPrompts":3,"timeLimit":60}}`), &cfg)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, cfg.Status)
	assert.Equal(t, Settings{MaxPlayers: 4, NumberOfPrompts: 3, TimeLimit: 60}, cfg.Settings)

	err = json.Unmarshal([]byte(`{"status":"paused"}`), &cfg)
	assert.Error(t, err)
}

func TestValidate_RoomRequest(t *testing.T) {
	t.Parallel()

	ok := RoomRequest{Codeword: "ABCD", MaxPlayers: 4, NumberOfPrompts: 3, TimeLimit: 60}
	require.NoError(t, Validate(ok))

	bad := ok
	bad.Codeword = ""
	err := Validate(bad)
	var ves validator.ValidationErrors
	require.True(t, errors.As(err, &ves))
	assert.Equal(t, "codeword", ves[0].Field())

	bad = ok
	bad.TimeLimit = 0
	err = Validate(bad)
	require.True(t, errors.As(err, &ves))
	assert.Equal(t, "timeLimit", ves[0].Field())
}

func TestNewRoomRequest_FromDefaults(t *testing.T) {
	t.Parallel()

	req := NewRoomRequest("ABCD", DefaultSettings())
	assert.Equal(t, RoomRequest{Codeword: "ABCD", MaxPlayers: 2, NumberOfPrompts: 2, TimeLimit: 30}, req)
	assert.NoError(t, Validate(req))
}

func TestValidate_MemberHasNoLengthCap(t *testing.T) {
	t.Parallel()

	m := Member{UserID: UserID(strings.Repeat("u", 64)), Username: strings.Repeat("n", 100)}
	assert.NoError(t, Validate(m))
	assert.Error(t, Validate(Member{Username: "x"}))
}

func TestValidate_RoomConfigNestedSettings(t *testing.T) {
	t.Parallel()

	cfg := RoomConfig{ID: "r1", Codeword: "ABCD", HostID: "u1", Status: StatusPending, Settings: Settings{MaxPlayers: 4}}
	err := Validate(cfg)
	var ves validator.ValidationErrors
	require.True(t, errors.As(err, &ves))
	assert.Equal(t, "numberOfPrompts", ves[0].Field())

	cfg.Settings = DefaultSettings()
	assert.NoError(t, Validate(cfg))
}

func TestIndexOfAndDrawer(t *testing.T) {
	t.Parallel()

	members := []Member{{UserID: "u1"}, {UserID: "u2"}}
	assert.Equal(t, 1, IndexOf(members, "u2"))
	assert.Equal(t, -1, IndexOf(members, "u3"))

	r := RoundState{ActiveDrawerID: "u1"}
	assert.True(t, r.IsDrawer("u1"))
	assert.False(t, r.IsDrawer("u2"))
	assert.False(t, RoundState{}.IsDrawer(""))
}
