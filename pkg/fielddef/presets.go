package fielddef

// PatternPreset is a named pattern offered to operators while editing.
type PatternPreset struct {
	Name    string
	Pattern string
}

const (
	patternShortText = `^.{1,100}$`
	patternInteger   = `^\d+$`
	patternDecimal   = `^\d+(?:[.,]\d+)?$`
	patternISODate   = `^\d{4}-\d{2}-\d{2}$`
)

// PatternPresets lists the quick-pick patterns.
var PatternPresets = []PatternPreset{
	{Name: "Text up to 100", Pattern: patternShortText},
	{Name: "Integer", Pattern: patternInteger},
	{Name: "Decimal", Pattern: patternDecimal},
	{Name: "ISO date", Pattern: patternISODate},
}

// ExamplePattern suggests a pattern for the given type.
func ExamplePattern(t Type) string {
	switch t {
	case TypeNumber:
		return patternDecimal
	case TypeDate:
		return patternISODate
	default:
		return patternShortText
	}
}

// TypeHint returns a short editing hint for types with special handling.
func TypeHint(t Type) string {
	switch t {
	case TypeDate:
		return "expected format: YYYY-MM-DD"
	case TypeBoolean:
		return "boolean fields take no pattern or enum values"
	default:
		return ""
	}
}
