package assembly

import "github.com/ChamsBouzaiene/promptstitch/internal/schema"

// FormatProvider supplies the formatting instruction and comprehensive
// enhancement for an output type. A runtime registry can extend the
// built-in set.
type FormatProvider interface {
	Format(t schema.OutputType) (spec string, enhancement string, ok bool)
}

// Built-in formatting instructions per output type.
var defaultFormatMap = map[schema.OutputType]string{
	schema.OutputText:     "Provide your response as clear, well-structured paragraphs.",
	schema.OutputList:     "Format your response as a numbered or bulleted list with clear hierarchy.",
	schema.OutputTable:    "Present information in a structured table format with appropriate headers.",
	schema.OutputCode:     "Output clean, well-commented code with proper syntax and indentation.",
	schema.OutputOutline:  "Create a hierarchical outline with main points and subpoints.",
	schema.OutputJSON:     "Return valid JSON with proper structure and data types.",
	schema.OutputMarkdown: "Use markdown formatting including headers, lists, and emphasis where appropriate.",
	schema.OutputReport:   "Structure as a formal report with executive summary, main sections, and conclusion.",
}

// Type-specific clauses appended when detail level is comprehensive.
var defaultFormatEnhancements = map[schema.OutputType]string{
	schema.OutputText:     " Include section headers to organize content.",
	schema.OutputList:     " Provide brief explanations for each item.",
	schema.OutputTable:    " Include a summary row or column with totals/insights.",
	schema.OutputCode:     " Add inline documentation and usage examples.",
	schema.OutputOutline:  " Expand to at least 3 levels of depth.",
	schema.OutputJSON:     " Include descriptive keys and nested structures where relevant.",
	schema.OutputMarkdown: " Use advanced markdown features like tables and code blocks.",
	schema.OutputReport:   " Add methodology section and recommendations.",
}

// DefaultFormatMap returns a copy of the built-in format instructions, used
// to seed runtime registries.
func DefaultFormatMap() map[schema.OutputType]string {
	out := make(map[schema.OutputType]string, len(defaultFormatMap))
	for k, v := range defaultFormatMap {
		out[k] = v
	}
	return out
}

// DefaultFormatEnhancements returns a copy of the built-in comprehensive
// enhancement clauses.
func DefaultFormatEnhancements() map[schema.OutputType]string {
	out := make(map[schema.OutputType]string, len(defaultFormatEnhancements))
	for k, v := range defaultFormatEnhancements {
		out[k] = v
	}
	return out
}

type builtinFormats struct{}

func (builtinFormats) Format(t schema.OutputType) (string, string, bool) {
	spec, ok := defaultFormatMap[t]
	if !ok {
		return "", "", false
	}
	return spec, defaultFormatEnhancements[t], true
}

// outputFormatBlock renders the OUTPUT_FORMAT block. An unrecognized output
// type falls back to the text instruction; a comprehensive detail level
// appends the type-specific enhancement.
func (a *Assembler) outputFormatBlock(rec schema.InputRecord) string {
	spec, enhancement, ok := a.formats().Format(rec.OutputType)
	if !ok {
		spec, enhancement, _ = a.formats().Format(schema.OutputText)
	}

	if rec.DetailLevel == schema.DetailComprehensive {
		spec += enhancement
	}

	return "Output Format:\n" + spec
}
