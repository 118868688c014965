package slack

import (
	"context"
	"errors"
	"testing"

	"github.com/rallypoint/scorekeeper/internal/league"
	"github.com/rallypoint/scorekeeper/internal/metrics"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func completedGame() *league.Game {
	winner := 1
	return &league.Game{
		ID:           7,
		Team1Player1: 1, Team1Player2: 2,
		Team2Player1: 3, Team2Player2: 4,
		Status:     league.StatusComplete,
		Winner:     &winner,
		ScoreTeam1: 21,
		ScoreTeam2: 18,
	}
}

func TestSendGameResult_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	m := metrics.NewMock()
	n := NewNotifierWithAPI(api, "C123", m)

	err := n.SendGameResult(completedGame(), []league.Player{
		{ID: 1, Name: "Alice"}, {ID: 2, Name: "Bob"},
		{ID: 3, Name: "Carol"}, {ID: 4, Name: "Dave"},
	})
	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, m.SlackNotifSent())
	assert.Equal(t, 0, m.SlackNotifFailed())
}

func TestSendGameResult_Failure(t *testing.T) {
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", expectedErr
		},
	}

	m := metrics.NewMock()
	n := NewNotifierWithAPI(api, "C123", m)

	err := n.SendGameResult(completedGame(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, m.SlackNotifSent())
	assert.Equal(t, 1, m.SlackNotifFailed())
}

func TestFormatGameResult_UsesPlayerNames(t *testing.T) {
	n := NewNotifierWithAPI(nil, "C123", metrics.NewMock())

	msg := n.formatGameResult(completedGame(), []league.Player{
		{ID: 1, Name: "Alice"}, {ID: 2, Name: "Bob"},
		{ID: 3, Name: "Carol"}, {ID: 4, Name: "Dave"},
	})
	require.Len(t, msg.Blocks.BlockSet, 2)

	section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, section.Text.Text, "Alice & Bob")
	assert.Contains(t, section.Text.Text, "Carol & Dave")
	assert.Contains(t, section.Text.Text, "21 - 18")
}
