package chat

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/codemon-ai/make-meeting-room/internal/logger"
)

// SlackMessenger is the Messenger backed by the Slack Web API.
type SlackMessenger struct {
	api *slack.Client
}

// NewSlackMessenger wraps api.
func NewSlackMessenger(api *slack.Client) *SlackMessenger {
	return &SlackMessenger{api: api}
}

func (s *SlackMessenger) Post(ctx context.Context, channel, threadTS, text string, blocks ...slack.Block) (string, error) {
	opts := []slack.MsgOption{slack.MsgOptionText(text, false)}
	if threadTS != "" {
		opts = append(opts, slack.MsgOptionTS(threadTS))
	}
	if len(blocks) > 0 {
		opts = append(opts, slack.MsgOptionBlocks(blocks...))
	}
	_, ts, err := s.api.PostMessageContext(ctx, channel, opts...)
	return ts, err
}

func (s *SlackMessenger) Update(ctx context.Context, channel, ts, text string, blocks ...slack.Block) error {
	opts := []slack.MsgOption{slack.MsgOptionText(text, false)}
	if len(blocks) > 0 {
		opts = append(opts, slack.MsgOptionBlocks(blocks...))
	}
	_, _, _, err := s.api.UpdateMessageContext(ctx, channel, ts, opts...)
	return err
}

func (s *SlackMessenger) UserProfile(ctx context.Context, userID string) (Profile, error) {
	u, err := s.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	name := u.RealName
	if name == "" {
		name = u.Name
	}
	return Profile{Name: name, Email: u.Profile.Email}, nil
}

// SlackConfig holds the tokens for socket mode.
type SlackConfig struct {
	BotToken string
	AppToken string
}

// NewSlackClient builds the Web API client used for both socket mode and
// messaging.
func NewSlackClient(cfg SlackConfig) (*slack.Client, error) {
	if cfg.BotToken == "" || cfg.AppToken == "" {
		return nil, fmt.Errorf("SLACK_BOT_TOKEN and SLACK_APP_TOKEN are required")
	}
	return slack.New(cfg.BotToken, slack.OptionAppLevelToken(cfg.AppToken)), nil
}

// Serve receives events over socket mode and dispatches app mentions to the
// bot until ctx is cancelled.
func Serve(ctx context.Context, api *slack.Client, bot *Bot) error {
	client := socketmode.New(api)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-client.Events:
				if !ok {
					return
				}
				dispatch(ctx, client, bot, evt)
			}
		}
	}()

	return client.RunContext(ctx)
}

func dispatch(ctx context.Context, client *socketmode.Client, bot *Bot, evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeConnecting:
		logger.Info("connecting to slack")
	case socketmode.EventTypeConnected:
		logger.Info("connected to slack")
	case socketmode.EventTypeConnectionError:
		logger.Warn("slack connection error")
	case socketmode.EventTypeEventsAPI:
		apiEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
		if !ok {
			return
		}
		if evt.Request != nil {
			client.Ack(*evt.Request)
		}
		if apiEvent.Type != slackevents.CallbackEvent {
			return
		}
		if ev, ok := apiEvent.InnerEvent.Data.(*slackevents.AppMentionEvent); ok {
			go bot.HandleMention(ctx, Mention{
				Channel:  ev.Channel,
				User:     ev.User,
				Text:     ev.Text,
				TS:       ev.TimeStamp,
				ThreadTS: ev.ThreadTimeStamp,
			})
		}
	}
}
