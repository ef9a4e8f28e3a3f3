package scpi

// Spacing is the sweep frequency spacing.
type Spacing string

const (
	Linear      Spacing = "LINear"
	Logarithmic Spacing = "LOGarithmic"
)

var Spacings = []Spacing{Linear, Logarithmic}

// Source selects where a modulation, sweep or burst is driven from. Manual
// is only valid for sweep and burst.
type Source string

const (
	Internal Source = "INTernal"
	External Source = "EXTernal"
	Manual   Source = "MANual"
)

var Sources = []Source{Internal, External, Manual}

// BurstMode is either a counted burst or gated output.
type BurstMode string

const (
	NCycles BurstMode = "NCYCles"
	Gated   BurstMode = "GATed"
)

var BurstModes = []BurstMode{NCycles, Gated}

// BurstCount chooses between a fixed cycle count and an endless burst.
type BurstCount string

const (
	Cycles   BurstCount = "CYCLes"
	Infinite BurstCount = "INFinite"
)

var BurstCounts = []BurstCount{Cycles, Infinite}

type Polarity string

const (
	Positive Polarity = "POSitive"
	Negative Polarity = "NEGative"
)

var Polarities = []Polarity{Positive, Negative}

// Shape is the modulating waveform for AM, FM, PM and PWM.
type Shape string

const (
	ShapeSine   Shape = "SINE"
	ShapeSquare Shape = "SQUare"
	ShapeRamp   Shape = "RAMP"
	ShapeNoise  Shape = "NOISe"
	ShapeArb    Shape = "ARB"
)

var Shapes = []Shape{ShapeSine, ShapeSquare, ShapeRamp, ShapeNoise, ShapeArb}

// Coupling is the frequency counter input coupling.
type Coupling string

const (
	CouplingAC Coupling = "AC"
	CouplingDC Coupling = "DC"
)

var Couplings = []Coupling{CouplingAC, CouplingDC}

type Sensitivity string

const (
	SensitivityLow    Sensitivity = "LOW"
	SensitivityMiddle Sensitivity = "MIDD"
	SensitivityHigh   Sensitivity = "HIGH"
)

var Sensitivities = []Sensitivity{SensitivityLow, SensitivityMiddle, SensitivityHigh}

// Language is the front panel language.
type Language string

const (
	SimplifiedChinese  Language = "SIMPchinese"
	TraditionalChinese Language = "TRADchinese"
	English            Language = "ENGLish"
)

var Languages = []Language{SimplifiedChinese, TraditionalChinese, English}
