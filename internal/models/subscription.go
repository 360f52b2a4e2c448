package models

// DefaultDepartment receives subscriptions that do not name a department.
const DefaultDepartment = "general"

// PushSubscription is a browser push registration. Payload holds the provider
// JSON exactly as the client sent it.
type PushSubscription struct {
	Endpoint   string `json:"endpoint"`
	Department string `json:"department"`
	Payload    string `json:"-"`
}
