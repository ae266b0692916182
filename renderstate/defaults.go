package renderstate

// Engine enum types.
var defaultEnums = map[string][]string{
	"BlendFactor": {
		"Zero", "One",
		"SourceColor", "OneMinusSourceColor",
		"DestinationColor", "OneMinusDestinationColor",
		"SourceAlpha", "OneMinusSourceAlpha",
		"DestinationAlpha", "OneMinusDestinationAlpha",
		"SourceAlphaSaturate", "BlendColor", "OneMinusBlendColor",
	},
	"BlendOperation":   {"Add", "Subtract", "ReverseSubtract", "Min", "Max"},
	"ColorWriteMask":   {"None", "Red", "Green", "Blue", "Alpha", "All"},
	"CompareFunction":  {"Never", "Less", "Equal", "LessEqual", "Greater", "NotEqual", "GreaterEqual", "Always"},
	"CullMode":         {"Off", "Front", "Back"},
	"RenderQueueType":  {"Opaque", "AlphaTest", "Transparent"},
	"StencilOperation": {"Keep", "Zero", "Replace", "IncrementSaturate", "DecrementSaturate", "Invert", "IncrementWrap", "DecrementWrap"},
}

func enumKey(enum string) StateKey { return StateKey{Type: "enum", Enum: enum} }

func targetKey(sk StateKey) StateKey {
	sk.Indexed = true
	return sk
}

var (
	numberKey = StateKey{Type: "number"}
	boolKey   = StateKey{Type: "bool"}
)

var defaultStateKeys = map[string]StateKey{
	"RenderQueueType": enumKey("RenderQueueType"),

	"BlendState.Enabled":                     targetKey(boolKey),
	"BlendState.ColorWriteMask":              targetKey(enumKey("ColorWriteMask")),
	"BlendState.ColorBlendOperation":         targetKey(enumKey("BlendOperation")),
	"BlendState.AlphaBlendOperation":         targetKey(enumKey("BlendOperation")),
	"BlendState.SourceColorBlendFactor":      targetKey(enumKey("BlendFactor")),
	"BlendState.SourceAlphaBlendFactor":      targetKey(enumKey("BlendFactor")),
	"BlendState.DestinationColorBlendFactor": targetKey(enumKey("BlendFactor")),
	"BlendState.DestinationAlphaBlendFactor": targetKey(enumKey("BlendFactor")),
	"BlendState.AlphaToCoverage":             boolKey,

	"DepthState.Enabled":         boolKey,
	"DepthState.WriteEnabled":    boolKey,
	"DepthState.CompareFunction": enumKey("CompareFunction"),

	"StencilState.Enabled":              boolKey,
	"StencilState.ReferenceValue":       numberKey,
	"StencilState.Mask":                 numberKey,
	"StencilState.WriteMask":            numberKey,
	"StencilState.CompareFunctionFront": enumKey("CompareFunction"),
	"StencilState.CompareFunctionBack":  enumKey("CompareFunction"),
	"StencilState.PassOperationFront":   enumKey("StencilOperation"),
	"StencilState.PassOperationBack":    enumKey("StencilOperation"),
	"StencilState.FailOperationFront":   enumKey("StencilOperation"),
	"StencilState.FailOperationBack":    enumKey("StencilOperation"),
	"StencilState.ZFailOperationFront":  enumKey("StencilOperation"),
	"StencilState.ZFailOperationBack":   enumKey("StencilOperation"),

	"RasterState.CullMode":             enumKey("CullMode"),
	"RasterState.DepthBias":            numberKey,
	"RasterState.SlopeScaledDepthBias": numberKey,
}

// DefaultRegistry returns a fresh copy of the engine's built-in registry.
func DefaultRegistry() *Registry {
	reg := &Registry{StateKeys: defaultStateKeys, Enums: defaultEnums}
	return reg.Clone()
}
