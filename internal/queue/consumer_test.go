package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/build-info-service/internal/model"
)

func sampleEvent() BuildAnnouncedEvent {
	info := model.BuildInfo{
		Environment:      "staging",
		BuildMode:        "release",
		AnalyticsEnabled: true,
		APIVersion:       "2.1.0",
		BuildDate:        "2024-01-01T00:00:00Z",
		GitCommit:        "abc123",
	}
	started := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return NewBuildAnnouncedEvent(info, "build-info-service", "web-1", 3000, started, true)
}

func TestNewBuildAnnouncedEvent(t *testing.T) {
	ev := sampleEvent()

	assert.Equal(t, "2024-01-02T03:04:05.000Z", ev.StartedAt)
	assert.Equal(t, "2.1.0", ev.APIVersion)
	assert.Equal(t, "abc123", ev.GitCommit)
	assert.True(t, ev.LoadedFromFile)
	assert.Equal(t, 3000, ev.Port)
}

func TestHandleMessageAppendsLines(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	body, err := json.Marshal(sampleEvent())
	require.NoError(t, err)

	require.NoError(t, handleMessage(body, dir))
	require.NoError(t, handleMessage(body, dir))

	data, err := os.ReadFile(filepath.Join(dir, DeploymentLogFile))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "env=staging")
	assert.Contains(t, lines[0], "commit=abc123")
	assert.Contains(t, lines[0], "source=file")
}

func TestHandleMessageRejectsMalformed(t *testing.T) {
	dir := t.TempDir()

	err := handleMessage([]byte("not json"), dir)

	assert.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, DeploymentLogFile))
	assert.True(t, os.IsNotExist(statErr))
}

func TestFormatLineDefaultsSource(t *testing.T) {
	ev := sampleEvent()
	ev.LoadedFromFile = false

	assert.Contains(t, formatLine(ev), "source=defaults")
}
