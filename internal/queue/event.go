// Package queue defines message payloads exchanged over the message broker.
package queue

import (
    "time"

    "github.com/iliyamo/build-info-service/internal/model"
)

// BuildAnnouncedQueue is the durable queue announcements are published to.
const BuildAnnouncedQueue = "build.announced"

// BuildAnnouncedEvent is published once when a service instance starts.
// It carries the loaded build information plus enough about the instance
// for a consumer to keep a deployment log without calling back.
type BuildAnnouncedEvent struct {
    Service          string `json:"service"`
    Host             string `json:"host"`
    Port             int    `json:"port"`
    StartedAt        string `json:"started_at"`
    LoadedFromFile   bool   `json:"loaded_from_file"`
    Environment      string `json:"environment"`
    BuildMode        string `json:"build_mode"`
    AnalyticsEnabled bool   `json:"analytics_enabled"`
    APIVersion       string `json:"api_version"`
    BuildDate        string `json:"build_date"`
    GitCommit        string `json:"git_commit"`
}

// NewBuildAnnouncedEvent copies info into an announcement for the instance
// listening on host:port.
func NewBuildAnnouncedEvent(info model.BuildInfo, service, host string, port int, startedAt time.Time, loadedFromFile bool) BuildAnnouncedEvent {
    return BuildAnnouncedEvent{
        Service:          service,
        Host:             host,
        Port:             port,
        StartedAt:        model.FormatTime(startedAt),
        LoadedFromFile:   loadedFromFile,
        Environment:      info.Environment,
        BuildMode:        info.BuildMode,
        AnalyticsEnabled: info.AnalyticsEnabled,
        APIVersion:       info.APIVersion,
        BuildDate:        info.BuildDate,
        GitCommit:        info.GitCommit,
    }
}
