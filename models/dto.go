package models

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6,max=128"`
}

// ProductRequest is the body of POST /products and PUT /products/{id}.
// Price and Offer are pointers so a missing value can be told apart from zero.
type ProductRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Offer       *float64 `json:"offer"`
	Category    string   `json:"category" binding:"omitempty,product_category"`
	Images      []string `json:"images"`
	Version     *int64   `json:"version,omitempty"`
}

type StatusResponse struct {
	IsAdmin  bool   `json:"isAdmin"`
	Username string `json:"username,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type UploadResponse struct {
	URLs []string `json:"urls"`
}

type DeleteProductResponse struct {
	DeletedID string `json:"deletedId"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}
