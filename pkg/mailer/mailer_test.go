package mailer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWelcomeJob_RoundTripsThroughQueuePayload(t *testing.T) {
	b, err := json.Marshal(NewWelcomeJob("jen@example.com", "Jennifer", "Acme"))
	require.NoError(t, err)

	var job EmailJob
	require.NoError(t, json.Unmarshal(b, &job))

	subject, text, html, err := job.Content()
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Acme, Jennifer", subject)
	assert.Contains(t, text, "jen@example.com")
	assert.Contains(t, html, "<strong>jen@example.com</strong>")
}

func TestEmailJob_ContentEscapesHTML(t *testing.T) {
	job := NewWelcomeJob("x@example.com", "<script>", "")
	subject, _, html, err := job.Content()
	require.NoError(t, err)
	assert.Equal(t, "Welcome to our service, <script>", subject)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestEmailJob_RawContent(t *testing.T) {
	job := EmailJob{To: "a@b.co", Subject: "s", Text: "t"}
	subject, text, html, err := job.Content()
	require.NoError(t, err)
	assert.Equal(t, "s", subject)
	assert.Equal(t, "t", text)
	assert.Empty(t, html)
}

func TestEmailJob_UnknownTemplate(t *testing.T) {
	_, _, _, err := EmailJob{To: "a@b.co", Template: "nope"}.Content()
	assert.Error(t, err)
}
