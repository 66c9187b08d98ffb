package dto

type CategoryRequest struct {
	Name     string `json:"name"`
	ParentID *int64 `json:"parentId"`
}
