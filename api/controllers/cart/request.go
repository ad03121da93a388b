package cart

// AddItemRequest adds a typed-in line by name.
type AddItemRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

// UpdateQuantityRequest sets a line's quantity; 0 removes the line.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,min=0,max=999"`
}
