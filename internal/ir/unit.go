package ir

import "abix/internal/source"

// TranslationUnit owns the declarations produced from one compilation
// input: a root global scope, a path, an address size and a location table.
type TranslationUnit struct {
	path string
	// addressSize is in bytes; 0 means the input did not state it.
	addressSize int
	global      *GlobalScope
	locs        *source.Table
}

// NewTranslationUnit creates an empty translation unit for the given path.
func NewTranslationUnit(path string) *TranslationUnit {
	tu := &TranslationUnit{
		path: path,
		locs: source.NewTable(0),
	}
	g := &GlobalScope{unit: tu}
	tu.global = g
	return tu
}

func (tu *TranslationUnit) Path() string { return tu.path }
func (tu *TranslationUnit) SetPath(p string)          { tu.path = p }
func (tu *TranslationUnit) AddressSize() int { return tu.addressSize }
func (tu *TranslationUnit) SetAddressSize(n int)      { tu.addressSize = n }
func (tu *TranslationUnit) GlobalScope() *GlobalScope { return tu.global }
func (tu *TranslationUnit) Locations() *source.Table { return tu.locs }

// IsEmpty reports whether the unit holds no declarations.
func (tu *TranslationUnit) IsEmpty() bool { return len(tu.global.Members()) == 0 }

// Corpus is an ordered set of translation units describing one library or
// binary.
type Corpus struct {
	path  string
	units []*TranslationUnit
}

// NewCorpus creates an empty corpus for the given path.
func NewCorpus(path string) *Corpus {
	return &Corpus{path: path}
}

func (c *Corpus) Path() string { return c.path }
func (c *Corpus) SetPath(p string) { c.path = p }

// Add appends a translation unit.
func (c *Corpus) Add(tu *TranslationUnit) { c.units = append(c.units, tu) }

// Units returns the translation units in insertion order.
func (c *Corpus) Units() []*TranslationUnit { return c.units }
