package bot

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// Discord adapts the Discord gateway to the Handler: inbound message
// events are reduced to Events, and accepted decisions are sent back as
// channel replies.
type Discord struct {
	session *discordgo.Session
	handler *Handler
}

func NewDiscord(token string, handler *Handler) (*Discord, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	d := &Discord{
		session: session,
		handler: handler,
	}
	session.AddHandler(d.onMessageCreate)

	return d, nil
}

func (d *Discord) Start() error {
	if err := d.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord gateway: %w", err)
	}
	slog.Info("Discord gateway connected", "user", d.session.State.User.Username)
	return nil
}

func (d *Discord) Stop() error {
	return d.session.Close()
}

func (d *Discord) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	event := Event{
		Text:              m.Content,
		AuthorIsAutomated: m.Author == nil || m.Author.Bot,
		CanReply:          d.canReply(s, m.ChannelID),
	}

	reply, ok := d.handler.Handle(event)
	if !ok {
		return
	}

	if _, err := s.ChannelMessageSendReply(m.ChannelID, reply, m.Reference()); err != nil {
		slog.Error("Failed to send reply", "channel", m.ChannelID, "error", err)
	}
}

func (d *Discord) canReply(s *discordgo.Session, channelID string) bool {
	if s.State == nil || s.State.User == nil {
		return false
	}

	perms, err := s.State.UserChannelPermissions(s.State.User.ID, channelID)
	if err != nil {
		slog.Debug("Permission check failed, dropping event", "channel", channelID, "error", err)
		return false
	}

	return perms&discordgo.PermissionSendMessages != 0
}
