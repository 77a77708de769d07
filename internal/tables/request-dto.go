package tables

// CreateTableRequest is the payload for seeding or adding a table
type CreateTableRequest struct {
	Code             string  `json:"code" binding:"required,max=20"`
	Zone             string  `json:"zone" binding:"required"`
	CapacityMin      int     `json:"capacity_min" binding:"required,min=1"`
	CapacityMax      int     `json:"capacity_max" binding:"required,min=1,max=20"`
	Ampliable        bool    `json:"ampliable"`
	AuxTableID       *string `json:"aux_table_id,omitempty"`
	ExtendedCapacity *int    `json:"extended_capacity,omitempty" binding:"omitempty,min=1,max=20"`
	Priority         int     `json:"priority" binding:"min=0"`
	Note             string  `json:"note"`
}

// UpdateTableRequest is the payload for editing a table
type UpdateTableRequest struct {
	Status   *string `json:"status,omitempty"`
	Priority *int    `json:"priority,omitempty" binding:"omitempty,min=0"`
	Note     *string `json:"note,omitempty"`
}
