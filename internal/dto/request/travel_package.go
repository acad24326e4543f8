package request

type CreatePackageRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=120"`
	Destination string  `json:"destination" validate:"required,min=2,max=120"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"required,gt=0"`
}

type UpdatePackageRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=120"`
	Destination string  `json:"destination" validate:"required,min=2,max=120"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"required,gt=0"`
}
