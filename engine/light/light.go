package light

// Default light values: a white light bright enough to show the texture under ambient-only
// shading.
const (
	DefaultAmbientIntensity float32 = 0.8
)

// DefaultColor is the RGB color of the default light.
var DefaultColor = [3]float32{1, 1, 1}

// Light is the single static light of the scene. It carries an RGB color and the ambient
// intensity the fragment stage scales the color by. Lights are plain values: changing one
// has no effect until it is handed back to the renderer.
type Light struct {
	Color            [3]float32
	AmbientIntensity float32
}

// New creates a Light with the default white color and 0.8 ambient intensity, then applies
// the provided options.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: the configured light
func New(opts ...LightBuilderOption) Light {
	l := DefaultLight()
	for _, opt := range opts {
		opt(&l)
	}
	return l
}

// DefaultLight returns the white light with 0.8 ambient intensity used when none is configured.
//
// Returns:
//   - Light: the default light
func DefaultLight() Light {
	return Light{
		Color:            DefaultColor,
		AmbientIntensity: DefaultAmbientIntensity,
	}
}

// Raw returns the light as the four floats uploaded to the GPU: r, g, b, ambient.
//
// Returns:
//   - [4]float32: color followed by ambient intensity
func (l Light) Raw() [4]float32 {
	return [4]float32{l.Color[0], l.Color[1], l.Color[2], l.AmbientIntensity}
}
