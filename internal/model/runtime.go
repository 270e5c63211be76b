package model

// RuntimeStats is a point-in-time snapshot of the process, returned by
// GET /info next to the build information.
type RuntimeStats struct {
    GoVersion    string      `json:"goVersion"`
    Platform     string      `json:"platform"`
    Arch         string      `json:"arch"`
    NumCPU       int         `json:"numCPU"`
    NumGoroutine int         `json:"numGoroutine"`
    Uptime       float64     `json:"uptime"` // seconds since process start
    MemoryUsage  MemoryUsage `json:"memoryUsage"`
}

// MemoryUsage is the subset of runtime.MemStats exposed over HTTP.  All
// values are bytes except NumGC.
type MemoryUsage struct {
    Alloc      uint64 `json:"alloc"`
    TotalAlloc uint64 `json:"totalAlloc"`
    Sys        uint64 `json:"sys"`
    HeapAlloc  uint64 `json:"heapAlloc"`
    HeapSys    uint64 `json:"heapSys"`
    HeapInuse  uint64 `json:"heapInuse"`
    NumGC      uint32 `json:"numGC"`
}
