package scene

type Color struct {
	R, G, B uint8
}

// Hex builds a color from a 0xRRGGBB value
func Hex(value uint32) Color {
	return Color{
		R: uint8(value >> 16),
		G: uint8(value >> 8),
		B: uint8(value),
	}
}

var White = Hex(0xffffff)

// StandardMaterial is a physically based material
type StandardMaterial struct {
	Color           Color
	Metalness       float64
	Roughness       float64
	EnvMapIntensity float64
}

func NewStandardMaterial(color Color, metalness, roughness float64) *StandardMaterial {
	return &StandardMaterial{
		Color:           color,
		Metalness:       metalness,
		Roughness:       roughness,
		EnvMapIntensity: 1,
	}
}
