/* bot_test.go
 * Contains unit tests for bot.go functions
 */

package bot

import (
	"major-sim/api/api"
	"major-sim/api/game"
	"major-sim/api/roster"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestAPI creates an API over the default roster with a mock store
func createTestAPI(t *testing.T, settings game.Settings) (*api.API, *api.MockStore) {
	t.Helper()
	teams, err := roster.Default()
	require.NoError(t, err)
	g, err := game.New(game.Config{Teams: teams, Settings: settings, Rand: rand.New(rand.NewSource(7))})
	require.NoError(t, err)
	apiPtr, err := api.NewAPI("", "", g)
	require.NoError(t, err)
	mockStore := api.NewMockStore()
	apiPtr.Store = mockStore
	return apiPtr, mockStore
}

// region NewBot tests

func TestNewBot_Success(t *testing.T) {
	apiPtr, _ := createTestAPI(t, game.DefaultSettings())
	bot, err := NewBot("test_token", apiPtr)

	require.NoError(t, err)
	assert.Equal(t, "test_token", bot.BotToken)
	assert.Same(t, apiPtr, bot.APIPtr)
}

func TestNewBot_EmptyToken(t *testing.T) {
	apiPtr, _ := createTestAPI(t, game.DefaultSettings())
	_, err := NewBot("", apiPtr)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "botToken is required")
}

func TestNewBot_NoAPI(t *testing.T) {
	_, err := NewBot("test_token", nil)
	assert.Error(t, err)
}

// endregion

// region splitArgs tests

// TestSplitArgs_Quoted tests that quoted team names stay together
func TestSplitArgs_Quoted(t *testing.T) {
	assert.Equal(t, []string{"$select", "Team Spirit"}, splitArgs(`$select "Team Spirit"`))
	assert.Equal(t, []string{"$free", "The MongolZ"}, splitArgs("$free “The MongolZ”"))
}

// TestSplitArgs_Plain tests plain space separated arguments
func TestSplitArgs_Plain(t *testing.T) {
	assert.Equal(t, []string{"$finish", "2-1"}, splitArgs("  $finish   2-1 "))
	assert.Equal(t, []string{"$help"}, splitArgs("$help"))
}

// endregion

// region chunkMessage tests

// TestChunkMessage_Short tests that short messages are sent as they are
func TestChunkMessage_Short(t *testing.T) {
	assert.Equal(t, []string{"hello"}, chunkMessage("hello", 10))
}

// TestChunkMessage_Lines tests that long messages break on new lines
func TestChunkMessage_Lines(t *testing.T) {
	chunks := chunkMessage("aaaa\nbbbb\ncccc\n", 10)
	assert.Equal(t, []string{"aaaa\nbbbb\n", "cccc\n"}, chunks)
}

// TestChunkMessage_LongLine tests that a single line over the limit is cut
func TestChunkMessage_LongLine(t *testing.T) {
	chunks := chunkMessage("ab\n"+strings.Repeat("x", 25), 10)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 10)
	}
	assert.Equal(t, "ab\n"+strings.Repeat("x", 25), strings.Join(chunks, ""))
}

// endregion
