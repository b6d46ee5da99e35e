package domain

// Volunteer is a registered field actor who submits check-ins and
// assessments. Access codes stay inside the stores for the login flow and
// are never surfaced here.
type Volunteer struct {
	ID   string
	Name string
}
