package report

// View is how a task section is presented.
type View int

const (
	ViewComparison View = iota
	ViewStatsTable
	ViewTextTable
)

func (v View) String() string {
	switch v {
	case ViewStatsTable:
		return "stats-table"
	case ViewTextTable:
		return "text-table"
	default:
		return "comparison"
	}
}

// SelectView maps a task type to its view. Unknown and empty types get the
// comparison view.
func SelectView(taskType string) View {
	switch taskType {
	case "typo_detection":
		return ViewStatsTable
	case "question":
		return ViewTextTable
	default:
		return ViewComparison
	}
}
