package errs

import "fmt"

type Code string

const (
	UnknownDataset     Code = "UNKNOWN_DATASET"
	ProvideDatasetKey  Code = "PROVIDE_DATASET_KEY"
	ProvideStudentID   Code = "PROVIDE_STUDENT_ID"
	WatchIntervalShort Code = "WATCH_INTERVAL_TOO_SHORT"
)

var messages = map[Code]string{
	UnknownDataset: `Unknown dataset: %[1]q

Known datasets:
  students, project-log, bookings

Example:
  sheetmirror get students`,

	ProvideDatasetKey: `Missing target: provide a dataset key

Example:
  sheetmirror get students
  sheetmirror get bookings --refresh`,

	ProvideStudentID: `Missing target: provide a student id

Example:
  sheetmirror attend s42 --project cnc`,

	WatchIntervalShort: `Watch interval %[1]s is too short (minimum %[2]s)

Reason:
  The remote source is rate limited; syncing more often than once per
  second only burns quota without making data fresher.`,
}

func Msg(code Code, a ...any) string {
	msg := messages[code]
	if msg == "" {
		msg = string(code)
	}
	return fmt.Sprintf(msg, a...)
}
