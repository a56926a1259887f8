package domain

// Label keys of the reminders table.
const (
	LabelTable = "reminders"
	LabelTitle = "title"
	LabelBody  = "body"
)

// Labeler formats human-readable labels. Quantity selects plural forms.
type Labeler interface {
	Format(table string, quantity int, language, key string) string
}

// ReminderContext carries what reminder texts are built from.
type ReminderContext struct {
	MedicineName string
	// Quantity is the number of units taken per intake.
	Quantity int
	Language string
	Channel  string
}
