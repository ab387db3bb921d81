package maps

// LookupRequest represents the query parameters from the frontend.
type LookupRequest struct {
	Query string `form:"q" binding:"required,min=3,max=300"`
}

// AddressSuggestion is the normalized data returned to the frontend form.
type AddressSuggestion struct {
	Label       string `json:"label"`
	Street      string `json:"street"`
	HouseNumber string `json:"houseNumber"`
	ZipCode     string `json:"zipCode"`
	City        string `json:"city"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Candidate is one forward-geocoding match, in provider order.
type Candidate struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"displayName"`
}

// GeocodeResponse wraps the candidates so an empty result is still an object.
type GeocodeResponse struct {
	Query      string      `json:"query"`
	Candidates []Candidate `json:"candidates"`
}

// CenterResponse is the initial map center.
type CenterResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ConfigResponse is what the client needs to initialize the tile layer.
type ConfigResponse struct {
	AccessToken string         `json:"accessToken"`
	StyleURL    string         `json:"styleUrl"`
	Center      CenterResponse `json:"center"`
	Zoom        float64        `json:"zoom"`
}

type nominatimAddress struct {
	Road         string `json:"road"`
	HouseNumber  string `json:"house_number"`
	Postcode     string `json:"postcode"`
	City         string `json:"city"`
	Town         string `json:"town"`
	Village      string `json:"village"`
	Municipality string `json:"municipality"`
	Hamlet       string `json:"hamlet"`
}

// nominatimResponse mirrors the relevant parts of the OSM search payload.
type nominatimResponse struct {
	DisplayName string           `json:"display_name"`
	Lat         string           `json:"lat"`
	Lon         string           `json:"lon"`
	Address     nominatimAddress `json:"address"`
}
