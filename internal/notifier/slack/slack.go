package slack

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rallypoint/scorekeeper/internal/league"
	"github.com/rallypoint/scorekeeper/internal/metrics"
	"github.com/rallypoint/scorekeeper/internal/notifier"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return nil
}

// SendGameResult announces a completed game in the configured channel.
func (s *Notifier) SendGameResult(game *league.Game, players []league.Player) error {
	msg := s.formatGameResult(game, players)
	return s.sendMessage(msg)
}

func (s *Notifier) formatGameResult(game *league.Game, players []league.Player) slack.Message {
	names := make(map[int64]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}
	name := func(id int64) string {
		if n, ok := names[id]; ok {
			return n
		}
		return fmt.Sprintf("player %d", id)
	}

	team1 := fmt.Sprintf("%s & %s", name(game.Team1Player1), name(game.Team1Player2))
	team2 := fmt.Sprintf("%s & %s", name(game.Team2Player1), name(game.Team2Player2))

	winners := team1
	if game.Winner != nil && *game.Winner == 2 {
		winners = team2
	}

	headerText := slack.NewTextBlockObject(slack.PlainTextType, fmt.Sprintf(":trophy: Game #%d complete", game.ID), true, false)
	resultText := slack.NewTextBlockObject(slack.MarkdownType,
		fmt.Sprintf("*%s* def. *%s*\nFinal score: *%d - %d*", winners, loserOf(winners, team1, team2), game.ScoreTeam1, game.ScoreTeam2),
		false, false)

	return slack.NewBlockMessage(
		slack.NewHeaderBlock(headerText),
		slack.NewSectionBlock(resultText, nil, nil),
	)
}

func loserOf(winners, team1, team2 string) string {
	if winners == team1 {
		return team2
	}
	return team1
}
