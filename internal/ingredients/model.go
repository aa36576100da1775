package ingredients

// Ingredient is a dictionary entry, unique per (name, measurement unit).
type Ingredient struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}
