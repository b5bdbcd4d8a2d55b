package item

// CreateItemRequest represents the request to add a manual action item
type CreateItemRequest struct {
	Task      string `json:"task" validate:"required,max=2000"`
	Assignee  string `json:"assignee,omitempty" validate:"max=255"`
	Deadline  string `json:"deadline,omitempty" validate:"omitempty,item_deadline"`
	Priority  string `json:"priority,omitempty" validate:"omitempty,item_priority"`
	Status    string `json:"status,omitempty" validate:"omitempty,item_status"`
	Context   string `json:"context,omitempty" validate:"max=5000"`
	MeetingID string `json:"meeting_id,omitempty" validate:"max=255"`
}

// UpdateItemRequest represents a partial edit. Absent fields are left as they are;
// an empty deadline clears it.
type UpdateItemRequest struct {
	ID        *string `json:"id,omitempty"`
	Source    *string `json:"source,omitempty"`
	CreatedAt *string `json:"created_at,omitempty"`

	Task      *string `json:"task,omitempty" validate:"omitempty,max=2000"`
	Assignee  *string `json:"assignee,omitempty" validate:"omitempty,max=255"`
	Deadline  *string `json:"deadline,omitempty" validate:"omitempty,item_deadline"`
	Priority  *string `json:"priority,omitempty" validate:"omitempty,item_priority"`
	Status    *string `json:"status,omitempty" validate:"omitempty,item_status"`
	Context   *string `json:"context,omitempty" validate:"omitempty,max=5000"`
	MeetingID *string `json:"meeting_id,omitempty" validate:"omitempty,max=255"`
}

// MoveStatusRequest moves an item to another column
type MoveStatusRequest struct {
	Status string `json:"status" validate:"required,item_status"`
}

// ExtractRequest runs extraction over a pasted transcript
type ExtractRequest struct {
	MeetingID  string `json:"meeting_id" validate:"max=255"`
	Transcript string `json:"transcript"`
}

// ExportQuery represents query parameters of a board export
type ExportQuery struct {
	Format    string `query:"format"`
	MeetingID string `query:"meeting_id"`
	Upload    bool   `query:"upload"`
}
