package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConversation(t *testing.T) {
	conversation := NewConversation("conv-1")

	assert.Equal(t, "conv-1", conversation.ID)
	assert.Equal(t, DefaultTitle, conversation.Title)
	require.NotNil(t, conversation.Messages)
	assert.Empty(t, conversation.Messages)

	created, err := time.Parse(time.RFC3339Nano, conversation.CreatedAt)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, created.Location())
}

func TestAppendUser(t *testing.T) {
	conversation := NewConversation("conv-1")
	conversation.AppendUser("hello")
	conversation.AppendUser("again")

	require.Len(t, conversation.Messages, 2)
	assert.Equal(t, RoleUser, conversation.Messages[0].Role)
	assert.Equal(t, "hello", conversation.Messages[0].Content)
	assert.Equal(t, "again", conversation.Messages[1].Content)
}

func TestAppendAssistant(t *testing.T) {
	conversation := NewConversation("conv-1")
	conversation.AppendAssistant(
		[]json.RawMessage{json.RawMessage(`{"model":"a"}`), json.RawMessage(`{"model":"b"}`)},
		[]json.RawMessage{json.RawMessage(`{"rank":1}`)},
		json.RawMessage(`{"text":"final"}`),
	)

	require.Len(t, conversation.Messages, 1)
	message := conversation.Messages[0]
	assert.Equal(t, RoleAssistant, message.Role)
	assert.Len(t, message.Stage1, 2)
	assert.Len(t, message.Stage2, 1)
	assert.JSONEq(t, `{"text":"final"}`, string(message.Stage3))
}

func TestMessageSerializationShape(t *testing.T) {
	// User turns serialize without the stage fields, assistant turns without
	// content.
	user := Message{Role: RoleUser, Content: "hi"}
	bytes, err := json.Marshal(user)
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"user","content":"hi"}`, string(bytes))

	assistant := Message{
		Role:   RoleAssistant,
		Stage1: []json.RawMessage{json.RawMessage(`{"model":"a"}`)},
		Stage2: []json.RawMessage{json.RawMessage(`{"rank":1}`)},
		Stage3: json.RawMessage(`{"text":"final"}`),
	}
	bytes, err = json.Marshal(assistant)
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"assistant","stage1":[{"model":"a"}],"stage2":[{"rank":1}],"stage3":{"text":"final"}}`, string(bytes))
}

func TestNormalize(t *testing.T) {
	conversation := &Conversation{ID: "conv-1"}
	conversation.normalize()
	require.NotNil(t, conversation.Messages)
	assert.Empty(t, conversation.Messages)
}
