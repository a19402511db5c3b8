// Package publish delivers finished plots to a Discord channel. It is
// wired into a session as the "discord:<channel>" output sink: whatever a
// terminal writes is uploaded when the output is closed.
package publish

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/zalando/go-keyring"

	"plotterm/src/logging"
	"plotterm/src/term"
)

const (
	serviceName = "plotterm"
	tokenKey    = "discord_bot_token"

	// Scheme is the output prefix handled by the publisher
	Scheme = "discord"

	maxMessage = 2000
	logSession = "publish"
)

// ErrNoChannel is returned when neither the output nor the configuration
// names a channel
var ErrNoChannel = errors.New("no discord channel configured")

// Sender posts messages. *discordgo.Session implements it.
type Sender interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Publisher uploads plots through a Sender
type Publisher struct {
	sender  Sender
	channel string
	log     *logging.Logger

	mu   sync.Mutex
	sent int
}

// SetToken stores the bot token in the system keyring
func SetToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("empty token")
	}
	if err := keyring.Set(serviceName, tokenKey, token); err != nil {
		return fmt.Errorf("failed to store Discord token in keyring: %w", err)
	}
	return nil
}

// Token returns the bot token from the system keyring
func Token() (string, error) {
	token, err := keyring.Get(serviceName, tokenKey)
	if err != nil {
		return "", fmt.Errorf("failed to get Discord token from keyring: %w", err)
	}
	return token, nil
}

// New returns a publisher posting to channel through sender
func New(sender Sender, channel string) *Publisher {
	return &Publisher{sender: sender, channel: channel, log: logging.Default()}
}

// Connect creates a Discord session from the keyring token. Messages are
// sent over the REST API, so no gateway connection is opened.
func Connect(channel string) (*Publisher, error) {
	token, err := Token()
	if err != nil {
		return nil, err
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	return New(session, channel), nil
}

// SetLogger replaces the publisher's logger
func (p *Publisher) SetLogger(l *logging.Logger) {
	p.log = l
}

// Register makes "discord:<channel>" outputs of s publish through p. An
// empty channel uses the publisher's default.
func (p *Publisher) Register(s *term.Session) {
	s.RegisterSink(Scheme, p.Open)
}

// Sent returns the number of messages posted so far
func (p *Publisher) Sent() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sent
}

// Open returns a writer that posts what it collected to channel on Close
func (p *Publisher) Open(channel string) (io.WriteCloser, error) {
	if channel == "" {
		channel = p.channel
	}
	if channel == "" {
		return nil, ErrNoChannel
	}
	return &upload{p: p, channel: channel}, nil
}

// upload buffers one plot
type upload struct {
	p       *Publisher
	channel string
	buf     bytes.Buffer
	closed  bool
}

func (u *upload) Write(b []byte) (int, error) {
	if u.closed {
		return 0, errors.New("write to closed discord output")
	}
	return u.buf.Write(b)
}

func (u *upload) Close() error {
	if u.closed {
		return nil
	}
	u.closed = true
	if u.buf.Len() == 0 {
		return nil
	}
	return u.p.publish(u.channel, u.buf.Bytes())
}

// publish posts data, as an attachment unless it is short text
func (p *Publisher) publish(channel string, data []byte) error {
	msg := Message(data)
	if _, err := p.sender.ChannelMessageSendComplex(channel, msg); err != nil {
		p.log.Error(logSession, "send to %s failed: %v", channel, err)
		return fmt.Errorf("publish to discord channel %s: %w", channel, err)
	}

	p.mu.Lock()
	p.sent++
	p.mu.Unlock()
	p.log.Info(logSession, "published %d bytes to %s", len(data), channel)
	return nil
}

// kind describes an output format recognized by its leading bytes
type kind struct {
	magic       string
	name        string
	contentType string
}

var kinds = []kind{
	{"\x89PNG\r\n\x1a\n", "plot.png", "image/png"},
	{"BM", "plot.bmp", "image/bmp"},
	{"II*\x00", "plot.tiff", "image/tiff"},
	{"MM\x00*", "plot.tiff", "image/tiff"},
	{"%!PS", "plot.ps", "application/postscript"},
}

// Message builds the message for a finished plot. Images and PostScript
// are attached; text that fits is sent inline as a code block, anything
// longer as a text attachment.
func Message(data []byte) *discordgo.MessageSend {
	for _, k := range kinds {
		if bytes.HasPrefix(data, []byte(k.magic)) {
			return attachment(k.name, k.contentType, data)
		}
	}

	text := strings.TrimRight(string(data), "\n")
	block := "```text\n" + text + "\n```"
	if len(block) <= maxMessage {
		return &discordgo.MessageSend{Content: block}
	}
	return attachment("plot.txt", "text/plain", data)
}

func attachment(name, contentType string, data []byte) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content: fmt.Sprintf("**%s**", name),
		Files: []*discordgo.File{
			{
				Name:        name,
				ContentType: contentType,
				Reader:      bytes.NewReader(data),
			},
		},
	}
}
