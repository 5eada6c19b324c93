package models

// Student is one row of the students table.
type Student struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Group     string `json:"group,omitempty"`
	ImageRef  string `json:"image_ref,omitempty"`
	Active    bool   `json:"active"`
	SortIndex int    `json:"-"`
}

// LogEntry is one row of the project-log table (attendance and work notes).
type LogEntry struct {
	Date      string `json:"date"`
	StudentID string `json:"student_id"`
	Project   string `json:"project,omitempty"`
	Note      string `json:"note,omitempty"`
}

// Booking is one row of the bookings table.
type Booking struct {
	Date      string `json:"date"`
	Slot      string `json:"slot"`
	StudentID string `json:"student_id"`
	Machine   string `json:"machine,omitempty"`
}

// AssetRecord names one remote binary asset and the local filename it
// should be mirrored to. The local filesystem is the only manifest of
// what has already been downloaded.
type AssetRecord struct {
	ID       string
	Filename string
}
