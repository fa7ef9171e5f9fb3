package reader

import (
	"strconv"

	"fortio.org/safecast"

	"abix/internal/ir"
	"abix/internal/source"
)

// attrSource is satisfied by both the streaming cursor and detached
// subtree nodes, so attribute readers serve the two handler styles alike.
type attrSource interface {
	Attr(name string) (string, bool)
}

func attrString(ag attrSource, name string) string {
	v, _ := ag.Attr(name)
	return v
}

// attrYes reports whether the attribute is present with the literal value
// "yes". Any other value, or absence, is false.
func attrYes(ag attrSource, name string) bool {
	v, ok := ag.Attr(name)
	return ok && v == "yes"
}

// attrInt parses a signed decimal attribute; absence or garbage yields 0.
func attrInt(ag attrSource, name string) int {
	v, ok := ag.Attr(name)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

// attrInt64 parses a signed 64-bit decimal attribute; absence or garbage
// yields 0.
func attrInt64(ag attrSource, name string) int64 {
	v, ok := ag.Attr(name)
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// attrBits parses a non-negative bit-count attribute. Values are written
// as signed decimals; anything unparseable or negative yields 0.
func attrBits(ag attrSource, name string) uint64 {
	n, err := safecast.Conv[uint64](attrInt64(ag, name))
	if err != nil {
		return 0
	}
	return n
}

// attrBitsPresent is attrBits plus a presence flag, for attributes whose
// mere presence is meaningful (layout offsets).
func attrBitsPresent(ag attrSource, name string) (uint64, bool) {
	if _, ok := ag.Attr(name); !ok {
		return 0, false
	}
	return attrBits(ag, name), true
}

// readVisibility maps the "visibility" attribute. An absent attribute
// yields VisibilityNone; an unknown value falls back to the default
// visibility.
func readVisibility(ag attrSource) ir.Visibility {
	v, ok := ag.Attr("visibility")
	if !ok {
		return ir.VisibilityNone
	}
	switch v {
	case "default":
		return ir.VisibilityDefault
	case "hidden":
		return ir.VisibilityHidden
	case "internal":
		return ir.VisibilityInternal
	case "protected":
		return ir.VisibilityProtected
	default:
		return ir.VisibilityDefault
	}
}

// readBinding maps the "binding" attribute. Absent yields BindingNone;
// unknown values fall back to global binding.
func readBinding(ag attrSource) ir.Binding {
	v, ok := ag.Attr("binding")
	if !ok {
		return ir.BindingNone
	}
	switch v {
	case "global":
		return ir.BindingGlobal
	case "local":
		return ir.BindingLocal
	case "weak":
		return ir.BindingWeak
	default:
		return ir.BindingGlobal
	}
}

// readAccess maps the "access" attribute; absent and unknown values fall
// back to private access.
func readAccess(ag attrSource) ir.Access {
	switch attrString(ag, "access") {
	case "protected":
		return ir.AccessProtected
	case "public":
		return ir.AccessPublic
	default:
		return ir.AccessPrivate
	}
}

// readSizeAndAlignment reads the "size-in-bits" and "alignment-in-bits"
// attribute pair.
func readSizeAndAlignment(ag attrSource) (size, align uint64) {
	return attrBits(ag, "size-in-bits"), attrBits(ag, "alignment-in-bits")
}

// readCdtorConst reads the "constructor", "destructor" and "const"
// attributes. The first attribute found wins; the remaining outputs keep
// their zero values, matching the dump producers' one-of usage.
func readCdtorConst(ag attrSource) (isCtor, isDtor, isConst bool) {
	if v, ok := ag.Attr("constructor"); ok {
		return v == "yes", false, false
	}
	if v, ok := ag.Attr("destructor"); ok {
		return false, v == "yes", false
	}
	if v, ok := ag.Attr("const"); ok {
		return false, false, v == "yes"
	}
	return false, false, false
}

// readLocation reads the "filepath"/"line"/"column" attribute triple and
// interns it in the current translation unit's location table. A missing
// or empty filepath yields NoLocID: line and column alone never make a
// location.
func readLocation(c *context, ag attrSource) source.LocID {
	file := attrString(ag, "filepath")
	if file == "" || c.unit == nil {
		return source.NoLocID
	}
	line, lineErr := safecast.Conv[uint32](attrInt64(ag, "line"))
	col, colErr := safecast.Conv[uint32](attrInt64(ag, "column"))
	if lineErr != nil || colErr != nil {
		return source.NoLocID
	}
	return c.unit.Locations().Intern(file, line, col)
}
