package model

import "time"

type Vehicle struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Brand       string    `json:"brand" bson:"brand" validate:"required,min=1,max=100"`
	PricePerDay float64   `json:"pricePerDay" bson:"price_per_day" validate:"required,gt=0"`
	Available   bool      `json:"available" bson:"available"`
	Image       string    `json:"image" bson:"image" validate:"required"`
	ImageURL    string    `json:"imageUrl,omitempty" bson:"-"`
	Description string    `json:"description" bson:"description" validate:"max=2000"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updated_at"`
}

func (v *Vehicle) Summary() *VehicleSummary {
	return &VehicleSummary{
		ID:          v.ID,
		Name:        v.Name,
		Brand:       v.Brand,
		ImageURL:    v.ImageURL,
		PricePerDay: v.PricePerDay,
	}
}

type VehicleUpdate struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Brand       *string  `json:"brand,omitempty" validate:"omitempty,min=1,max=100"`
	PricePerDay *float64 `json:"pricePerDay,omitempty" validate:"omitempty,gt=0"`
	Available   *bool    `json:"available,omitempty"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// WithImageURL sets ImageURL from the public base URL and the stored image reference.
func (v *Vehicle) WithImageURL(baseURL string) *Vehicle {
	if v.Image != "" {
		v.ImageURL = baseURL + "/" + v.Image
	}
	return v
}
