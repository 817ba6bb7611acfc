package queue

// Activity event types published to the shelving activity queue.
const (
	// ActivityEntryLogged is emitted when a daily row entry is created
	// or replaced.
	ActivityEntryLogged = "entry.logged"
	// ActivityCartShelved is emitted when a manual cart record is
	// marked shelved.
	ActivityCartShelved = "cart.shelved"
)

// ActivityQueue is the single queue all activity events flow through.
const ActivityQueue = "shelving.activity"

// ActivityEvent is the message envelope for the activity stream. The
// payload carries enough to render the action without a store lookup
// on the consumer side.
type ActivityEvent struct {
	Type        string `json:"type"`
	Date        string `json:"date"`
	Group       string `json:"group,omitempty"`
	SectionCode string `json:"section_code,omitempty"`
	Rows        int    `json:"rows"`
	Initials    string `json:"initials,omitempty"`
	OccurredAt  string `json:"occurred_at"`
}
