/* session_interface.go
 * Contains the subset of the Discord session the handlers use, so tests can swap in a mock
 */

package bot

import "github.com/bwmarrin/discordgo"

// DiscordSession is what the handlers need from Discord: sending text and showing the typing indicator while a
// simulation runs
type DiscordSession interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelTyping(channelID string, options ...discordgo.RequestOption) error
}

var _ DiscordSession = (*discordgo.Session)(nil)
