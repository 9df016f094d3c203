package dto

type CreatePostRequest struct {
	Text     string `json:"text" validate:"required,max=5000"`
	ImageRef string `json:"imageRef" validate:"omitempty,url,max=1000"`
}

// UpdatePostRequest edits a post; nil fields are left unchanged.
type UpdatePostRequest struct {
	Text     *string `json:"text" validate:"omitempty,min=1,max=5000"`
	ImageRef *string `json:"imageRef" validate:"omitempty,max=1000"`
}
