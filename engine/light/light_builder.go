package light

// LightBuilderOption is a function that configures a Light during construction.
type LightBuilderOption func(*Light)

// WithColor is an option builder that sets the RGB color of the light.
//
// Parameters:
//   - r: the red color component
//   - g: the green color component
//   - b: the blue color component
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a Light
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *Light) {
		l.Color = [3]float32{r, g, b}
	}
}

// WithAmbientIntensity is an option builder that sets the ambient intensity.
// Negative values are clamped to zero.
//
// Parameters:
//   - intensity: the ambient intensity
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option to a Light
func WithAmbientIntensity(intensity float32) LightBuilderOption {
	return func(l *Light) {
		l.AmbientIntensity = max(intensity, 0)
	}
}
