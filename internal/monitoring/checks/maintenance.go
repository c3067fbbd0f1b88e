package checks

import (
	"context"
	"strings"

	"github.com/charlesng35/weddingrsvp/internal/monitoring"
)

// Maintenance reports degraded while the latest run of any cleanup job failed.
func Maintenance() monitoring.Check {
	return monitoring.NewCheck("maintenance", func(ctx context.Context) monitoring.ProbeResult {
		jobs := monitoring.MaintenanceJobs()
		if len(jobs) == 0 {
			return monitoring.ProbeResult{Status: monitoring.StatusUp, Details: "no maintenance runs recorded"}
		}

		var failures []string
		for _, job := range jobs {
			if job.ConsecutiveFailures > 0 {
				failures = append(failures, job.Job+": "+job.LastError)
			}
		}
		if len(failures) > 0 {
			return monitoring.ProbeResult{Status: monitoring.StatusDegraded, Details: strings.Join(failures, "; ")}
		}
		return monitoring.ProbeResult{Status: monitoring.StatusUp}
	})
}
