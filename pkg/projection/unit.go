package projection

// Unit selects the length unit a Projection measures in. The zero value
// is Meters.
type Unit int

const (
	Meters Unit = iota
	Kilometers
	Miles
	NauticalMiles
	Feet
)

// perMeter returns the number of units in one meter; the scale factors
// are multiplied by it once at construction, never per call.
func (u Unit) perMeter() float64 {
	switch u {
	case Kilometers:
		return 1.0 / 1000
	case Miles:
		return 1.0 / 1609.344
	case NauticalMiles:
		return 1.0 / 1852
	case Feet:
		return 1 / 0.3048
	default:
		return 1
	}
}

func (u Unit) String() string {
	switch u {
	case Kilometers:
		return "kilometers"
	case Miles:
		return "miles"
	case NauticalMiles:
		return "nautical miles"
	case Feet:
		return "feet"
	default:
		return "meters"
	}
}
