package entity

type Sport string

const (
	SportSkateboard   Sport = "Skateboard"
	SportScooter      Sport = "Scooter"
	SportBMX          Sport = "BMX"
	SportDirtJumper   Sport = "Dirt Jumper"
	SportDirtBike     Sport = "Dirt Bike"
	SportMountainBike Sport = "Mountain Bike"
)

var knownSports = []Sport{
	SportSkateboard,
	SportScooter,
	SportBMX,
	SportDirtJumper,
	SportDirtBike,
	SportMountainBike,
}

// AllSports lists every discipline the system knows about.
func AllSports() []Sport {
	out := make([]Sport, len(knownSports))
	copy(out, knownSports)
	return out
}

func (s Sport) Valid() bool {
	for _, v := range knownSports {
		if v == s {
			return true
		}
	}
	return false
}
