package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepwrite/deepwrite/internal/domain"
)

func TestOutputProjectsJSON(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	err := outputProjectsJSON(buf, []domain.Project{
		{ID: 7, Title: "基于深度学习的图像识别研究", Status: "DRAFTING", CreatedAt: "2026-08-01"},
	})
	require.NoError(t, err)

	var decoded []domain.Project
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, int64(7), decoded[0].ID)
	assert.Equal(t, "基于深度学习的图像识别研究", decoded[0].Title)
}

func TestOutputProjectsTable(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	err := outputProjectsTable(buf, []domain.Project{
		{ID: 1, Title: "My Thesis", Status: "TOPIC", CreatedAt: "2026-08-01"},
		{ID: 2, Status: "DRAFTING", CreatedAt: "2026-08-02"},
	})
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "My Thesis")
	assert.Contains(t, output, "(untitled)")
	assert.Contains(t, output, "TOPIC")
}
