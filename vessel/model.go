package vessel

// ModelClass maps an AIS ship type code to the render model family used for it.
func ModelClass(shipType int) string {
	switch {
	case shipType < 20:
		return "vessel"
	case shipType < 30:
		return "tug"
	case shipType < 40:
		return "vessel"
	case shipType < 50:
		return "boat"
	case shipType < 60:
		return "fixed/tug-0"
	case shipType < 70:
		return "passenger"
	case shipType < 80:
		return "bulk"
	case shipType < 90:
		return "tanker"
	default:
		return "vessel"
	}
}

// ModelClass returns the render model family for the vessel's type code.
func (s Static) ModelClass() string { return ModelClass(s.Type) }
