package handler

import (
	"testing"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taciturnaxolotl/emojibot/internal/domain"
)

func TestConvertEventFiles(t *testing.T) {
	files := []slackevents.File{
		{ID: "F1", Name: "cat.png", Mimetype: "image/png", URLPrivate: "https://files.slack.com/1"},
		{ID: "F2", Name: "doc.txt", Mimetype: "text/plain", URLPrivate: "https://files.slack.com/2"},
	}

	converted := convertEventFiles(files)

	require.Len(t, converted, 2)
	assert.Equal(t, domain.InboundFile{
		ID: "F1", Name: "cat.png", MimeType: "image/png",
		URLPrivate: "https://files.slack.com/1",
	}, converted[0])
}

func TestConvertMessageFiles(t *testing.T) {
	files := []slack.File{
		{ID: "F1", Name: "cat.gif", Mimetype: "image/gif", URLPrivate: "https://files.slack.com/1"},
	}

	converted := convertMessageFiles(files)

	require.Len(t, converted, 1)
	assert.Equal(t, "F1", converted[0].ID)
	assert.Equal(t, "image/gif", converted[0].MimeType)
	assert.True(t, converted[0].IsImage())
}
