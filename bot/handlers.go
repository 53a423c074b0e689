/* handlers.go
 * Contains testable handler methods that accept DiscordSession interface
 */

package bot

import (
	"errors"
	"fmt"
	"log"
	"major-sim/api/api"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// reply posts the report, or the error when there is one
func reply(session DiscordSession, channelID string, report string, err error) {
	if err != nil {
		log.Println(err)
		sendMessage(session, channelID, fmt.Sprintf("Error: %s", err))
		return
	}
	sendMessage(session, channelID, report)
}

// helpMessageHandler handles the $help command with a DiscordSession interface
func (b *Bot) helpMessageHandler(session DiscordSession, message *discordgo.MessageCreate) {
	var res strings.Builder
	res.WriteString("Major Simulator\n")
	res.WriteString("`$teams`: lists every team with its country and strength\n")
	res.WriteString("`$select <team>`: picks the team you play as. Names with spaces need quotes (e.g. \"Team Spirit\"), fuzzy matching is used\n")
	res.WriteString("`$start`: starts a new tournament: 16 teams, 4 groups, top two of each group reach the playoffs\n")
	res.WriteString("`$next`: starts your next group or playoff series\n")
	res.WriteString("`$free <team>`: starts a series against any team outside the tournament\n")
	res.WriteString("`$round`: plays one round of the current series\n")
	res.WriteString("`$series`: plays the rest of the current series\n")
	res.WriteString("`$finish [score]`: completes a finished series, or records a score such as 2-1 for an unfinished one\n")
	res.WriteString("`$playoff`: shows your playoff match\n")
	res.WriteString("`$standings`: shows the group tables\n")
	res.WriteString("`$bracket`: shows the playoff bracket\n")
	res.WriteString("`$status`: shows your team, the current series and what comes next\n")
	res.WriteString("`$simulate [round|groups]`: simulates one round of other group matches, the rest of the groups, or the whole tournament\n")
	res.WriteString("`$autoplay`: turns auto-play on or off, rounds are then played on a timer\n")
	res.WriteString("`$leaderboard`: shows the best players of the tournament\n")
	res.WriteString("`$save` / `$load <id>`: saves the session or loads a saved one\n")
	sendMessage(session, message.ChannelID, res.String())
}

// teamsHandler handles the $teams command with a DiscordSession interface
func (b *Bot) teamsHandler(session DiscordSession, message *discordgo.MessageCreate) {
	var res strings.Builder
	res.WriteString("Teams, strongest first:\n")
	for _, team := range b.APIPtr.GetTeams() {
		res.WriteString(fmt.Sprintf("- %s\n", team))
	}
	sendMessage(session, message.ChannelID, res.String())
}

// selectTeamHandler handles the $select command with a DiscordSession interface
func (b *Bot) selectTeamHandler(session DiscordSession, message *discordgo.MessageCreate, args []string) {
	if len(args) == 0 {
		sendMessage(session, message.ChannelID, "Usage: $select <team>")
		return
	}
	res, err := b.APIPtr.SelectTeam(strings.Join(args, " "))
	var notFound *api.TeamNotFoundError
	if errors.As(err, &notFound) {
		sendMessage(session, message.ChannelID, fmt.Sprintf("%s. Use $teams to see the valid team names", err))
		return
	}
	reply(session, message.ChannelID, res, err)
}

// nextMatchHandler handles the $next command. With auto-play on, the series starts playing right away
func (b *Bot) nextMatchHandler(session DiscordSession, message *discordgo.MessageCreate) {
	res, err := b.APIPtr.NextMatch()
	reply(session, message.ChannelID, res, err)
	if err == nil {
		b.maybeAutoPlay(session, message.ChannelID)
	}
}

// freeMatchHandler handles the $free command with a DiscordSession interface
func (b *Bot) freeMatchHandler(session DiscordSession, message *discordgo.MessageCreate, args []string) {
	if len(args) == 0 {
		sendMessage(session, message.ChannelID, "Usage: $free <team>")
		return
	}
	res, err := b.APIPtr.StartFreeMatch(strings.Join(args, " "))
	reply(session, message.ChannelID, res, err)
	if err == nil {
		b.maybeAutoPlay(session, message.ChannelID)
	}
}

// finishHandler handles the $finish command with an optional score argument
func (b *Bot) finishHandler(session DiscordSession, message *discordgo.MessageCreate, args []string) {
	score := ""
	if len(args) > 0 {
		score = args[0]
	}
	res, err := b.APIPtr.FinishMatch(score)
	reply(session, message.ChannelID, res, err)
}

// simulateHandler handles the $simulate command with a DiscordSession interface
func (b *Bot) simulateHandler(session DiscordSession, message *discordgo.MessageCreate, args []string) {
	mode := ""
	if len(args) > 0 {
		mode = strings.ToLower(args[0])
	}
	var run func() (string, error)
	switch mode {
	case "round":
		run = func() (string, error) { return b.APIPtr.SimulateGroups(false) }
	case "groups":
		run = func() (string, error) { return b.APIPtr.SimulateGroups(true) }
	case "", "all", "tournament":
		run = b.APIPtr.SimulateTournament
	default:
		sendMessage(session, message.ChannelID, "Usage: $simulate [round|groups]")
		return
	}

	if err := session.ChannelTyping(message.ChannelID); err != nil {
		log.Println("failed to send typing indicator:", err)
	}
	res, err := run()
	reply(session, message.ChannelID, res, err)
}

// autoPlayHandler handles the $autoplay command with a DiscordSession interface
func (b *Bot) autoPlayHandler(session DiscordSession, message *discordgo.MessageCreate) {
	enabled, done := b.APIPtr.ToggleAutoPlay()
	if !enabled {
		sendMessage(session, message.ChannelID, "Auto-play is off")
		return
	}
	if done == nil {
		sendMessage(session, message.ChannelID, "Auto-play is on, it starts with your next series")
		return
	}
	sendMessage(session, message.ChannelID, "Auto-play is on")
	go b.reportAutoPlay(session, message.ChannelID, done)
}

// maybeAutoPlay starts the driver for a new series when auto-play is on
func (b *Bot) maybeAutoPlay(session DiscordSession, channelID string) {
	if !b.APIPtr.Game.Settings().AutoPlayEnabled {
		return
	}
	done, err := b.APIPtr.StartAutoPlay()
	if err != nil {
		log.Println(err)
		return
	}
	go b.reportAutoPlay(session, channelID, done)
}

// reportAutoPlay waits for the driver to stop and posts where the series ended up
func (b *Bot) reportAutoPlay(session DiscordSession, channelID string, done <-chan struct{}) {
	<-done
	res, err := b.APIPtr.AfterAutoPlay()
	if err == nil && res == "" {
		// the series was completed by another command
		return
	}
	reply(session, channelID, res, err)
}

// leaderboardHandler handles the $leaderboard command with a DiscordSession interface
func (b *Bot) leaderboardHandler(session DiscordSession, message *discordgo.MessageCreate) {
	res, err := b.APIPtr.GetLeaderboard()
	if err != nil {
		log.Println(err)
		if errors.Is(err, api.ErrNoStore) {
			res = "The leaderboard needs a database, none is configured"
		} else {
			res = "An error occurred getting the leaderboard"
		}
	}
	sendMessage(session, message.ChannelID, res)
}

// loadHandler handles the $load command with a DiscordSession interface
func (b *Bot) loadHandler(session DiscordSession, message *discordgo.MessageCreate, args []string) {
	if len(args) == 0 {
		sendMessage(session, message.ChannelID, "Usage: $load <id>")
		return
	}
	res, err := b.APIPtr.Load(args[0])
	reply(session, message.ChannelID, res, err)
}

// newMessageHandler routes messages to appropriate handlers with a DiscordSession interface
// botUserID is the bot's user ID to prevent self-responses
func (b *Bot) newMessageHandler(session DiscordSession, message *discordgo.MessageCreate, botUserID string) {
	// Prevent bot from responding to its own messages
	if message.Author == nil || message.Author.ID == botUserID {
		return
	}
	if !strings.HasPrefix(message.Content, "$") {
		return
	}

	parts := splitArgs(message.Content)
	if len(parts) == 0 {
		return
	}
	command, args := strings.ToLower(parts[0]), parts[1:]

	// Route to appropriate handler
	switch command {
	case "$help":
		b.helpMessageHandler(session, message)

	case "$teams":
		b.teamsHandler(session, message)

	case "$select":
		b.selectTeamHandler(session, message, args)

	case "$start":
		res, err := b.APIPtr.StartTournament()
		reply(session, message.ChannelID, res, err)

	case "$next":
		b.nextMatchHandler(session, message)

	case "$free":
		b.freeMatchHandler(session, message, args)

	case "$round":
		res, err := b.APIPtr.PlayRound()
		reply(session, message.ChannelID, res, err)

	case "$series":
		res, err := b.APIPtr.PlaySeries()
		reply(session, message.ChannelID, res, err)

	case "$finish":
		b.finishHandler(session, message, args)

	case "$playoff":
		res, err := b.APIPtr.PlayoffMatch()
		reply(session, message.ChannelID, res, err)

	case "$standings":
		res, err := b.APIPtr.Standings()
		reply(session, message.ChannelID, res, err)

	case "$bracket":
		res, err := b.APIPtr.Bracket()
		reply(session, message.ChannelID, res, err)

	case "$status":
		sendMessage(session, message.ChannelID, b.APIPtr.Status())

	case "$simulate":
		b.simulateHandler(session, message, args)

	case "$autoplay":
		b.autoPlayHandler(session, message)

	case "$leaderboard":
		b.leaderboardHandler(session, message)

	case "$save":
		res, err := b.APIPtr.Save()
		reply(session, message.ChannelID, res, err)

	case "$load":
		b.loadHandler(session, message, args)
	}
}
