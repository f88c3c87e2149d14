package domain

// Hotel is a bookable property returned by the search and detail endpoints.
type Hotel struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	City          string   `json:"city,omitempty"`
	Address       string   `json:"address,omitempty"`
	PricePerNight float64  `json:"price_per_night,omitempty"`
	Rating        float64  `json:"rating,omitempty"`
	Amenities     []string `json:"amenities,omitempty"`
	Verified      bool     `json:"verified,omitempty"`
	VendorID      string   `json:"vendor_id,omitempty"`
}

// Review is a guest review attached to a hotel.
type Review struct {
	ID        string `json:"id,omitempty"`
	HotelID   string `json:"hotel_id"`
	Author    string `json:"author,omitempty"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}
