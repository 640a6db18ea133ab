package clients

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"

	"KisanGPT/app/chat"
	"KisanGPT/app/configs"
	"KisanGPT/app/utils"
)

const (
	askCommand       = "!ask"
	discordMaxLength = 2000
	askUsage         = "Usage: !ask <question> | !ask:hi <question>"
	askThrottled     = "⏳ Please wait a few seconds before asking again."
)

var _ Interface = &DiscordClient{}

type messageSender interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type DiscordClient struct {
	Client
	session   *discordgo.Session
	channelID string
	adminID   string
	limiter   *rate.Limiter
}

func NewDiscordClient(cfg configs.DiscordConfig) (*DiscordClient, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("discord token is empty")
	}
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, err
	}
	dc := &DiscordClient{
		session:   session,
		channelID: cfg.ChannelID,
		adminID:   cfg.AdminID,
		limiter:   askLimiter(cfg.AskCooldown()),
	}

	session.AddHandler(dc.onMessageCreate)
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent

	return dc, nil
}

// askLimiter spaces answered questions to protect the model quota. A nil
// limiter lets everything through.
func askLimiter(cooldown time.Duration) *rate.Limiter {
	if cooldown <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(cooldown), 1)
}

func (c *DiscordClient) Subscribe(ctx context.Context, asker Asker) error {
	c.ctx = ctx
	c.asker = asker
	return c.Open()
}

func (c *DiscordClient) Open() error {
	if err := c.session.Open(); err != nil {
		return err
	}
	log.Println("Discord client started. Listening for !ask messages...")
	return nil
}

func (c *DiscordClient) Close() error {
	return c.session.Close()
}

func (c *DiscordClient) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || (s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID) {
		return
	}
	c.handleMessage(s, m.ChannelID, m.Author.ID, m.Content)
}

// handleMessage answers !ask commands posted in the configured channel (any
// channel when none is set) by the configured admin (anyone when none is set).
func (c *DiscordClient) handleMessage(s messageSender, channelID, authorID, content string) {
	if c.channelID != "" && channelID != c.channelID {
		return
	}
	if c.adminID != "" && authorID != c.adminID {
		return
	}
	query, language, ok := parseAsk(content)
	if !ok {
		return
	}
	if query == "" {
		c.send(s, channelID, askUsage)
		return
	}
	if c.limiter != nil && !c.limiter.Allow() {
		c.send(s, channelID, askThrottled)
		return
	}

	ctx := c.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	answer, err := c.asker.Ask(ctx, chat.ChatQuery{Query: query, Language: language})
	if err != nil {
		c.send(s, channelID, "⚠️ "+err.Error())
		return
	}
	c.send(s, channelID, formatAnswer(answer))
}

// parseAsk accepts "!ask question" and "!ask:<lang> question".
func parseAsk(content string) (query, language string, ok bool) {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, askCommand) {
		return "", "", false
	}
	rest := content[len(askCommand):]
	if strings.HasPrefix(rest, ":") {
		fields := strings.SplitN(rest[1:], " ", 2)
		language = strings.ToLower(strings.TrimSpace(fields[0]))
		rest = ""
		if len(fields) == 2 {
			rest = fields[1]
		}
	} else if rest != "" && rest[0] != ' ' && rest[0] != '\n' {
		return "", "", false
	}
	return strings.TrimSpace(rest), language, true
}

func formatAnswer(a *chat.ChatAnswer) string {
	var sb strings.Builder
	sb.WriteString(a.Answer)
	if len(a.Sources) > 0 {
		sb.WriteString("\n\n📚 Sources:")
		for _, src := range a.Sources {
			fmt.Fprintf(&sb, "\n- %s (%.2f)", src.Source, src.Score)
		}
	}
	return utils.Truncate(sb.String(), discordMaxLength-3)
}

func (c *DiscordClient) send(s messageSender, channelID, content string) {
	if _, err := s.ChannelMessageSend(channelID, content); err != nil {
		log.Printf("❌ Failed to send Discord message: %v", err)
	}
}
