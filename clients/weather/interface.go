package weather

import "context"

type Report struct {
	City        string
	Description string
	// Temperature is in degrees Celsius.
	Temperature float64
}

type WeatherAPI interface {
	Current(ctx context.Context, city string) (*Report, error)
}
