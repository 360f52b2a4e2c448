package models

// Settings holds UI configuration shared by every client.
type Settings struct {
	Logo       string `json:"logo"`
	HotelName  string `json:"hotel_name"`
	ThemeColor string `json:"theme_color"`
}
