package plan

// Status is the lifecycle state of a single research TODO.
type Status string

// Todo status constants
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// statusRank controls display and persistence ordering. Unknown statuses sort
// last rather than being rejected, so a document written by a newer version
// still round-trips.
const unknownStatusRank = 999

var statusRanks = map[Status]int{
	StatusInProgress: 0,
	StatusPending:    1,
	StatusCompleted:  2,
	StatusCancelled:  3,
}

func statusRank(s Status) int {
	if rank, ok := statusRanks[s]; ok {
		return rank
	}
	return unknownStatusRank
}

// Todo is a single unit of planned or completed research work.
type Todo struct {
	ID      string `json:"id"`
	Status  Status `json:"status"`
	Content string `json:"content"`
}

// TodoUpdate is a partial update to a Todo. Nil fields are left untouched on
// merge, so a caller can flip an item's status without clobbering its content.
type TodoUpdate struct {
	ID      string  `json:"id"`
	Status  *Status `json:"status"`
	Content *string `json:"content"`
}

// Document is the persisted research plan. Explanation describes only the
// most recent update; it is overwritten on every save.
type Document struct {
	Explanation string `json:"explanation"`
	UpdatedAt   string `json:"updated_at"`
	Todos       []Todo `json:"todos"`
}

// CountByStatus tallies todos per status, keyed in order of first appearance.
// Since todos are stored sorted by status rank, iterating Counts in insertion
// order yields the rank order.
func (d *Document) CountByStatus() *StatusCounts {
	counts := &StatusCounts{byStatus: make(map[Status]int)}
	for _, todo := range d.Todos {
		counts.add(todo.Status)
	}
	return counts
}

// StatusCounts is an ordered tally of todos per status.
type StatusCounts struct {
	order    []Status
	byStatus map[Status]int
}

func (c *StatusCounts) add(s Status) {
	if _, seen := c.byStatus[s]; !seen {
		c.order = append(c.order, s)
	}
	c.byStatus[s]++
}

// Get returns the count for a status.
func (c *StatusCounts) Get(s Status) int {
	return c.byStatus[s]
}

// Each calls fn for every status with a non-zero count, in order of first
// appearance.
func (c *StatusCounts) Each(fn func(s Status, n int)) {
	for _, s := range c.order {
		fn(s, c.byStatus[s])
	}
}
