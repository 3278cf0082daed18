package dto

type TagRequest struct {
	Name  string  `json:"name" validate:"required,max=100"`
	Color *string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}
