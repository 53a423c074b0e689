/* bot.go
 * Contains logic used for creating the bot and routing its commands. Requires a discord bot token, and APIPtr both of
 * which are passed in from main.go
 */

package bot

import (
	"fmt"
	"log"
	"major-sim/api/api"
	"strings"

	"github.com/go-andiamo/splitter"
)

// maxMessageLength is the Discord limit for a single message
const maxMessageLength = 2000

type Bot struct {
	BotToken string
	APIPtr   *api.API
}

func NewBot(botToken string, apiPtr *api.API) (*Bot, error) {
	if botToken == "" {
		return nil, fmt.Errorf("botToken is required but none was provided")
	}
	if apiPtr == nil {
		return nil, fmt.Errorf("apiPtr is required but none was provided")
	}

	return &Bot{
		BotToken: botToken,
		APIPtr:   apiPtr,
	}, nil
}

// splitArgs splits a command on spaces, keeping quoted team names such as "Team Spirit" together
// Preconditions: Receives the message content
// Postconditions: Returns the command and its arguments with the quotes removed
func splitArgs(content string) []string {
	spaceSplitter, err := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	if err != nil {
		return strings.Fields(content)
	}
	parts, err := spaceSplitter.Split(strings.TrimSpace(content))
	if err != nil {
		log.Println(err)
		return strings.Fields(content)
	}

	args := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.Trim(strings.TrimSpace(part), "\"“”")
		if part != "" {
			args = append(args, part)
		}
	}
	return args
}

// sendMessage posts content, split on line breaks into chunks Discord accepts
func sendMessage(session DiscordSession, channelID string, content string) {
	for _, chunk := range chunkMessage(content, maxMessageLength) {
		if _, err := session.ChannelMessageSend(channelID, chunk); err != nil {
			log.Printf("failed to send message to %s: %v", channelID, err)
			return
		}
	}
}

// chunkMessage splits content into pieces of at most limit bytes, breaking on new lines where it can
func chunkMessage(content string, limit int) []string {
	if len(content) <= limit {
		return []string{content}
	}
	var chunks []string
	var current strings.Builder
	for _, line := range strings.SplitAfter(content, "\n") {
		for len(line) > limit {
			if current.Len() > 0 {
				chunks = append(chunks, current.String())
				current.Reset()
			}
			chunks = append(chunks, line[:limit])
			line = line[limit:]
		}
		if current.Len()+len(line) > limit {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
