package monitoring

import (
	"sort"
	"sync"
	"time"
)

// MaintenanceJobSummary describes the most recent runs of one cleanup job.
type MaintenanceJobSummary struct {
	Job                 string        `json:"job"`
	LastStatus          string        `json:"last_status"`
	LastError           string        `json:"last_error,omitempty"`
	LastRunAt           time.Time     `json:"last_run_at"`
	LastDuration        time.Duration `json:"last_duration"`
	TotalRuns           uint64        `json:"total_runs"`
	ConsecutiveFailures uint64        `json:"consecutive_failures"`
}

var maintenance = struct {
	sync.RWMutex
	jobs map[string]*MaintenanceJobSummary
}{jobs: map[string]*MaintenanceJobSummary{}}

// RecordMaintenanceRun stores the outcome of a cleanup job run.
func RecordMaintenanceRun(job string, err error, duration time.Duration) {
	if job == "" {
		return
	}

	maintenance.Lock()
	defer maintenance.Unlock()

	entry, ok := maintenance.jobs[job]
	if !ok {
		entry = &MaintenanceJobSummary{Job: job}
		maintenance.jobs[job] = entry
	}

	entry.LastRunAt = time.Now()
	entry.LastDuration = duration
	entry.TotalRuns++
	if err != nil {
		entry.LastStatus = "failure"
		entry.LastError = err.Error()
		entry.ConsecutiveFailures++
		return
	}
	entry.LastStatus = "success"
	entry.LastError = ""
	entry.ConsecutiveFailures = 0
}

// MaintenanceJobs returns a copy of the recorded job summaries ordered by name.
func MaintenanceJobs() []MaintenanceJobSummary {
	maintenance.RLock()
	defer maintenance.RUnlock()

	out := make([]MaintenanceJobSummary, 0, len(maintenance.jobs))
	for _, entry := range maintenance.jobs {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Job < out[j].Job })
	return out
}

func resetMaintenance() {
	maintenance.Lock()
	defer maintenance.Unlock()
	maintenance.jobs = map[string]*MaintenanceJobSummary{}
}
