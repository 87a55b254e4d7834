package dto

// ─── Register Registry ───────────────────────────────────────────────────────

type CreateRegisterRequest struct {
	Name     string  `json:"name"      validate:"required,min=2,max=80"`
	SectorID *string `json:"sector_id" validate:"omitempty,uuid"`
}

// UpdateRegisterRequest applies a partial update: only non-nil fields mutate.
type UpdateRegisterRequest struct {
	Name     *string `json:"name"      validate:"omitempty,min=2,max=80"`
	SectorID *string `json:"sector_id" validate:"omitempty,uuid"`
	IsActive *bool   `json:"is_active"`
}
