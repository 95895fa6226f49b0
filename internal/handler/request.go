package handler

// UpdateLocationRequest represents request body for POST /api/update-location.
// Lat and Lng bind as required pointers so a zero coordinate is still valid.
type UpdateLocationRequest struct {
	UserID    string   `json:"userId" binding:"required"`
	GroupName string   `json:"groupName" binding:"required"`
	Lat       *float64 `json:"lat" binding:"required"`
	Lng       *float64 `json:"lng" binding:"required"`
	Speed     *float64 `json:"speed"`
	Heading   *float64 `json:"heading"`
}
