package diag

import "fmt"

// Code identifies a class of parse failure.
type Code uint16

const (
	UnknownCode Code = 0

	// Schema mismatches.
	SchemaUnexpectedRoot   Code = 1001
	SchemaUnknownElement   Code = 1002
	SchemaMissingAttribute Code = 1003
	SchemaBadLocation      Code = 1004
	SchemaBadScope         Code = 1005

	// Reference resolution.
	RefUnresolvedType     Code = 2001
	RefNotAClass          Code = 2002
	RefUnresolvedTemplate Code = 2003

	// Symbol table consistency.
	KeyDuplicateID Code = 3001
	KeyEmptyID     Code = 3002

	// I/O failures.
	IOCursor  Code = 4001
	IOArchive Code = 4002
)

var codeDescription = map[Code]string{
	UnknownCode:            "Unknown failure",
	SchemaUnexpectedRoot:   "Unexpected document root element",
	SchemaUnknownElement:   "Unknown element in this context",
	SchemaMissingAttribute: "Missing required attribute",
	SchemaBadLocation:      "Location attributes are incomplete",
	SchemaBadScope:         "Element not allowed in the current scope",
	RefUnresolvedType:      "Reference to an unknown type ID",
	RefNotAClass:           "Referenced type is not a class",
	RefUnresolvedTemplate:  "Reference to an unknown template ID",
	KeyDuplicateID:         "Symbol table ID registered twice",
	KeyEmptyID:             "Element carries an empty ID",
	IOCursor:               "XML cursor failure",
	IOArchive:              "Archive access failure",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("SCH%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("REF%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("KEY%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
