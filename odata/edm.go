package odata

const EdmPrefix = "Edm."

var typeTranslations = map[string]string{
	"null":      EdmPrefix + "Null",
	"bool":      EdmPrefix + "Boolean",
	"float8":    EdmPrefix + "Double",
	"numeric":   EdmPrefix + "Double",
	"int4":      EdmPrefix + "Int32",
	"int8":      EdmPrefix + "Int64",
	"timestamp": EdmPrefix + "DateTime",
	"text":      EdmPrefix + "String",
}

// TranslateType maps a datastore type tag to an Edm primitive type. Tags
// without a translation are reported as Edm.String.
func TranslateType(backendType string) string {
	if t, ok := typeTranslations[backendType]; ok {
		return t
	}
	return EdmPrefix + "String"
}
