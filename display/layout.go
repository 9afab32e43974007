package display

// Width and Height are the panel's pixel dimensions
const (
	Width  = 480
	Height = 320
)

// Text places one string on the panel. Y is the top of the text box.
type Text struct {
	X, Y     float64
	Size     float64
	Bold     bool
	Centered bool
}

// Box is a rectangular region
type Box struct {
	X, Y, W, H float64
}

// Layout positions every element of the panel
type Layout struct {
	City        Text
	Icon        Box
	Selector    Box
	SelectorTxt Text
	Description Text

	Temp      Text
	FeelsLike Text
	High      Text
	HighLabel Text
	Low       Text
	LowLabel  Text

	Separator Box

	WindLabel     Text
	Wind          Text
	HumidityLabel Text
	Humidity      Text

	Date  Text
	Units Box
}

// NewLayout builds a new layout value. Surfaces never share one.
func NewLayout() *Layout {
	return &Layout{
		City:        Text{X: 8, Y: 6, Size: 28, Bold: true},
		Icon:        Box{X: 196, Y: 0, W: 50, H: 50},
		Selector:    Box{X: 286, Y: 10, W: 186, H: 26},
		SelectorTxt: Text{X: 379, Y: 15, Size: 13, Centered: true},
		Description: Text{X: 8, Y: 48, Size: 12},

		Temp:      Text{X: 82, Y: 96, Size: 60, Bold: true, Centered: true},
		FeelsLike: Text{X: 82, Y: 178, Size: 12, Centered: true},
		High:      Text{X: 196, Y: 92, Size: 22, Bold: true},
		HighLabel: Text{X: 252, Y: 100, Size: 12},
		Low:       Text{X: 196, Y: 166, Size: 22, Bold: true},
		LowLabel:  Text{X: 252, Y: 174, Size: 12},

		Separator: Box{X: 300, Y: 84, W: 1, H: 150},

		WindLabel:     Text{X: 390, Y: 84, Size: 20, Centered: true},
		Wind:          Text{X: 390, Y: 112, Size: 20, Bold: true, Centered: true},
		HumidityLabel: Text{X: 390, Y: 166, Size: 20, Centered: true},
		Humidity:      Text{X: 390, Y: 194, Size: 20, Bold: true, Centered: true},

		Date:  Text{X: 8, Y: 296, Size: 12},
		Units: Box{X: 410, Y: 294, W: 14, H: 14},
	}
}
