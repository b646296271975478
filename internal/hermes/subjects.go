package hermes

const (
	StreamName     = "TRIAGE_EVENTS"
	StreamSubjects = "triage.analysis.>"
	StreamMaxAge   = "168h" // 7 days
)

func SubjectAnalysisCompleted(runID string) string { return "triage.analysis." + runID + ".completed" }
func SubjectNotice(runID string) string            { return "triage.analysis." + runID + ".notice" }
