package v1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatekeeperCategories(t *testing.T) {
	g := NewGatekeeper()

	cases := []struct {
		text     string
		category string
	}{
		{"hi", GATE_CATEGORY_GREETING},
		{"Hey!!", GATE_CATEGORY_GREETING},
		{"good morning", GATE_CATEGORY_GREETING},
		{"bye", GATE_CATEGORY_FAREWELL},
		{"see you later", GATE_CATEGORY_FAREWELL},
		{"thanks", GATE_CATEGORY_THANKS},
		{"Thank you!", GATE_CATEGORY_THANKS},
		{"ok", GATE_CATEGORY_ACK},
		{"sounds good", GATE_CATEGORY_ACK},
		{"🔥🔥🔥", GATE_CATEGORY_EMOJI},
		{"👍", GATE_CATEGORY_EMOJI},
	}

	for _, c := range cases {
		reply, category, handled := g.Evaluate(c.text)
		require.True(t, handled, "expected %q to be handled", c.text)
		assert.Equal(t, c.category, category, c.text)
		assert.NotEmpty(t, reply, c.text)
	}
}

func TestGatekeeperPassesRealQuestions(t *testing.T) {
	g := NewGatekeeper()

	for _, text := range []string{
		"hi, when is the next event?",
		"When is the workshop happening?",
		"thanks but where is the venue?",
		"ok so what time does it start",
		"🔥 what a show, where was this taken?",
		"",
	} {
		_, _, handled := g.Evaluate(text)
		assert.False(t, handled, "expected %q to pass through", text)
	}
}

func TestGatekeeperRotation(t *testing.T) {
	g := NewGatekeeper()

	first, _, _ := g.Evaluate("hi")
	second, _, _ := g.Evaluate("hi")
	third, _, _ := g.Evaluate("hi")
	fourth, _, _ := g.Evaluate("hi")

	assert.NotEqual(t, first, second)
	assert.NotEqual(t, second, third)
	// pool of three wraps around
	assert.Equal(t, first, fourth)
}

func TestGatekeeperEmojiRotation(t *testing.T) {
	g := NewGatekeeper()

	first, category, handled := g.Evaluate("🔥")
	require.True(t, handled)
	assert.Equal(t, GATE_CATEGORY_EMOJI, category)

	second, _, _ := g.Evaluate("👍")
	third, _, _ := g.Evaluate("🔥🔥")
	fourth, _, _ := g.Evaluate("🙏")

	assert.NotEqual(t, first, second)
	assert.NotEqual(t, second, third)
	// pool of three wraps around
	assert.Equal(t, first, fourth)
}

func TestIsEmojiOnly(t *testing.T) {
	assert.True(t, isEmojiOnly("🔥"))
	assert.True(t, isEmojiOnly("🙏🏽 ❤️"))
	assert.False(t, isEmojiOnly("🔥 nice"))
	assert.False(t, isEmojiOnly("   "))
	assert.False(t, isEmojiOnly("hello"))
}

func TestConversationLockIsStable(t *testing.T) {
	a := conversationLock("conv-1")
	b := conversationLock("conv-1")
	c := conversationLock("conv-2")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}
